// Package roster owns Team records, their member rosters and their
// links to work shifts. The registry is a pure store: staffing
// conflicts are resolved by callers through the conflict package
// before a shift assignment is committed.
package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/rs/zerolog"
)

// Store persists teams, member rows and team-shift links.
type Store interface {
	ListTeams(ctx context.Context) ([]model.Team, error)
	GetTeam(ctx context.Context, id string) (*model.Team, error)
	CreateTeam(ctx context.Context, team *model.Team) error
	UpdateTeam(ctx context.Context, team *model.Team) error

	ListMembers(ctx context.Context, teamID string) ([]model.TeamMember, error)
	GetMember(ctx context.Context, memberID string) (*model.TeamMember, error)
	AddMember(ctx context.Context, member *model.TeamMember) error
	DeleteMember(ctx context.Context, memberID string) error

	ListLinks(ctx context.Context, teamID string) ([]model.TeamWorkShift, error)
	ListAllLinks(ctx context.Context) ([]model.TeamWorkShift, error)
	CreateLink(ctx context.Context, link *model.TeamWorkShift) error
	DeleteLink(ctx context.Context, linkID string) error
}

// TeamInput carries the editable team fields.
type TeamInput struct {
	Name        string
	Description string
	LeaderID    string
	WorkTypeIDs []string
	Status      model.TeamStatus
	IsActive    bool
}

// Registry is the team system of record.
type Registry struct {
	store  Store
	logger *zerolog.Logger
}

// New creates a team registry backed by store.
func New(store Store, logger *zerolog.Logger) *Registry {
	return &Registry{store: store, logger: logger}
}

// CreateTeam validates and persists a new team.
func (r *Registry) CreateTeam(ctx context.Context, in TeamInput) (*model.Team, error) {
	if err := validateTeam(in); err != nil {
		return nil, err
	}
	team := &model.Team{
		Name:        in.Name,
		Description: in.Description,
		LeaderID:    in.LeaderID,
		WorkTypeIDs: in.WorkTypeIDs,
		Status:      in.Status,
		IsActive:    in.IsActive,
	}
	if team.Status == "" {
		team.Status = model.TeamStatusActive
	}
	if err := r.store.CreateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}
	r.logger.Info().Str("team_id", team.ID).Str("name", team.Name).Msg("team created")
	return team, nil
}

// UpdateTeam validates and saves team fields. If the leader changed,
// the new leader is filtered out of the member roster so the leader
// never appears in its own team's member rows.
func (r *Registry) UpdateTeam(ctx context.Context, id string, in TeamInput) (*model.Team, error) {
	if err := validateTeam(in); err != nil {
		return nil, err
	}
	team, err := r.store.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Name = in.Name
	team.Description = in.Description
	team.LeaderID = in.LeaderID
	team.WorkTypeIDs = in.WorkTypeIDs
	if in.Status != "" {
		team.Status = in.Status
	}
	team.IsActive = in.IsActive

	if err := r.store.UpdateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("update team: %w", err)
	}
	if err := r.dropLeaderRow(ctx, team.ID, team.LeaderID); err != nil {
		return nil, err
	}
	return team, nil
}

// AddMembers adds employees to a team's roster. Employees already on
// the roster and the team leader are skipped, so the call is
// idempotent and the leader stays out of the member rows.
func (r *Registry) AddMembers(ctx context.Context, teamID string, employeeIDs []string) error {
	team, err := r.store.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	members, err := r.store.ListMembers(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	existing := make(map[string]bool, len(members))
	for _, m := range members {
		existing[m.EmployeeID] = true
	}

	for _, empID := range employeeIDs {
		if empID == "" || empID == team.LeaderID || existing[empID] {
			continue
		}
		member := &model.TeamMember{TeamID: teamID, EmployeeID: empID, IsActive: true}
		if err := r.store.AddMember(ctx, member); err != nil {
			return fmt.Errorf("add member %s: %w", empID, err)
		}
		existing[empID] = true
	}
	return nil
}

// RemoveMember deletes a member row by its row id.
func (r *Registry) RemoveMember(ctx context.Context, memberID string) error {
	if _, err := r.store.GetMember(ctx, memberID); err != nil {
		return err
	}
	return r.store.DeleteMember(ctx, memberID)
}

// SetLeader promotes an existing member to leader and demotes the
// previous leader back into the roster. The member count does not
// change.
func (r *Registry) SetLeader(ctx context.Context, teamID, employeeID string) error {
	team, err := r.store.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID == employeeID {
		return nil
	}

	members, err := r.store.ListMembers(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	var promoted *model.TeamMember
	for i := range members {
		if members[i].EmployeeID == employeeID {
			promoted = &members[i]
			break
		}
	}
	if promoted == nil {
		return model.Validationf("leader_id", "employee %s is not a member of team %s", employeeID, teamID)
	}

	previous := team.LeaderID
	team.LeaderID = employeeID
	if err := r.store.UpdateTeam(ctx, team); err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	if err := r.store.DeleteMember(ctx, promoted.ID); err != nil {
		return fmt.Errorf("remove promoted member row: %w", err)
	}
	demoted := &model.TeamMember{TeamID: teamID, EmployeeID: previous, IsActive: true}
	if err := r.store.AddMember(ctx, demoted); err != nil {
		return fmt.Errorf("demote previous leader: %w", err)
	}
	r.logger.Info().Str("team_id", teamID).Str("leader_id", employeeID).Msg("team leader changed")
	return nil
}

// AssignShift links a team to a shift. Callers are expected to have
// run conflict detection first; the registry does not veto.
func (r *Registry) AssignShift(ctx context.Context, teamID, workShiftID string) (*model.TeamWorkShift, error) {
	if _, err := r.store.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	links, err := r.store.ListLinks(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	for _, l := range links {
		if l.WorkShiftID == workShiftID {
			return &l, nil
		}
	}
	link := &model.TeamWorkShift{TeamID: teamID, WorkShiftID: workShiftID}
	if err := r.store.CreateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}
	return link, nil
}

// UnassignShift removes a team-shift link by its row id.
func (r *Registry) UnassignShift(ctx context.Context, linkID string) error {
	return r.store.DeleteLink(ctx, linkID)
}

// ListTeams returns all teams.
func (r *Registry) ListTeams(ctx context.Context) ([]model.Team, error) {
	return r.store.ListTeams(ctx)
}

// dropLeaderRow removes the leader from the team's member roster if a
// row exists, keeping the "leader is never a member row" invariant
// after leader edits.
func (r *Registry) dropLeaderRow(ctx context.Context, teamID, leaderID string) error {
	members, err := r.store.ListMembers(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if m.EmployeeID == leaderID {
			if err := r.store.DeleteMember(ctx, m.ID); err != nil {
				return fmt.Errorf("drop leader member row: %w", err)
			}
		}
	}
	return nil
}

func validateTeam(in TeamInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return model.Validationf("name", "must not be empty")
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Validationf("description", "must not be empty")
	}
	if strings.TrimSpace(in.LeaderID) == "" {
		return model.Validationf("leader_id", "must not be empty")
	}
	if len(in.WorkTypeIDs) == 0 {
		return model.Validationf("work_type_ids", "must not be empty")
	}
	return nil
}
