package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/google/uuid"
)

// ListTeams returns all teams.
func (db *DB) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, leader_id, work_type_ids, status, is_active, created_at, updated_at
		FROM teams
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// GetTeam returns one team by id.
func (db *DB) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, description, leader_id, work_type_ids, status, is_active, created_at, updated_at
		FROM teams
		WHERE id = ?`, id)
	t, err := scanTeam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, model.ErrNotFound)
	}
	return t, err
}

// CreateTeam inserts a team, assigning its id and stamps.
func (db *DB) CreateTeam(ctx context.Context, team *model.Team) error {
	team.ID = uuid.NewString()
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
		INSERT INTO teams (id, name, description, leader_id, work_type_ids, status, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		team.ID, team.Name, team.Description, team.LeaderID,
		strings.Join(team.WorkTypeIDs, ","), string(team.Status), team.IsActive,
		team.CreatedAt, team.UpdatedAt,
	)
	return err
}

// UpdateTeam saves all mutable team fields.
func (db *DB) UpdateTeam(ctx context.Context, team *model.Team) error {
	team.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		UPDATE teams
		SET name = ?, description = ?, leader_id = ?, work_type_ids = ?, status = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		team.Name, team.Description, team.LeaderID,
		strings.Join(team.WorkTypeIDs, ","), string(team.Status), team.IsActive,
		team.UpdatedAt, team.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("team %s: %w", team.ID, model.ErrNotFound)
	}
	return nil
}

// ListMembers returns the member rows of one team.
func (db *DB) ListMembers(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	return db.queryMembers(ctx, `
		SELECT id, team_id, employee_id, is_active
		FROM team_members
		WHERE team_id = ?`, teamID)
}

// ListAllMembers returns every member row across teams, for snapshots.
func (db *DB) ListAllMembers(ctx context.Context) ([]model.TeamMember, error) {
	return db.queryMembers(ctx, `
		SELECT id, team_id, employee_id, is_active
		FROM team_members`)
}

// GetMember returns one member row by id.
func (db *DB) GetMember(ctx context.Context, memberID string) (*model.TeamMember, error) {
	var m model.TeamMember
	err := db.QueryRowContext(ctx, `
		SELECT id, team_id, employee_id, is_active
		FROM team_members
		WHERE id = ?`, memberID,
	).Scan(&m.ID, &m.TeamID, &m.EmployeeID, &m.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team member %s: %w", memberID, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMember inserts a member row, assigning its id.
func (db *DB) AddMember(ctx context.Context, member *model.TeamMember) error {
	member.ID = uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO team_members (id, team_id, employee_id, is_active)
		VALUES (?, ?, ?, ?)`,
		member.ID, member.TeamID, member.EmployeeID, member.IsActive,
	)
	return err
}

// DeleteMember removes a member row by id.
func (db *DB) DeleteMember(ctx context.Context, memberID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM team_members WHERE id = ?`, memberID)
	return err
}

// ListLinks returns one team's shift links.
func (db *DB) ListLinks(ctx context.Context, teamID string) ([]model.TeamWorkShift, error) {
	return db.queryLinks(ctx, `
		SELECT id, team_id, work_shift_id
		FROM team_work_shifts
		WHERE team_id = ?`, teamID)
}

// ListAllLinks returns every team-shift link, for snapshots.
func (db *DB) ListAllLinks(ctx context.Context) ([]model.TeamWorkShift, error) {
	return db.queryLinks(ctx, `
		SELECT id, team_id, work_shift_id
		FROM team_work_shifts`)
}

// CreateLink inserts a team-shift link, assigning its id.
func (db *DB) CreateLink(ctx context.Context, link *model.TeamWorkShift) error {
	link.ID = uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO team_work_shifts (id, team_id, work_shift_id)
		VALUES (?, ?, ?)`,
		link.ID, link.TeamID, link.WorkShiftID,
	)
	return err
}

// DeleteLink removes a team-shift link by id.
func (db *DB) DeleteLink(ctx context.Context, linkID string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM team_work_shifts WHERE id = ?`, linkID)
	return err
}

func (db *DB) queryMembers(ctx context.Context, query string, args ...interface{}) ([]model.TeamMember, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		var m model.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.EmployeeID, &m.IsActive); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (db *DB) queryLinks(ctx context.Context, query string, args ...interface{}) ([]model.TeamWorkShift, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []model.TeamWorkShift
	for rows.Next() {
		var l model.TeamWorkShift
		if err := rows.Scan(&l.ID, &l.TeamID, &l.WorkShiftID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func scanTeam(row rowScanner) (*model.Team, error) {
	var t model.Team
	var workTypes, status string
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.LeaderID, &workTypes,
		&status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if workTypes != "" {
		t.WorkTypeIDs = strings.Split(workTypes, ",")
	}
	t.Status = model.TeamStatus(status)
	return &t, nil
}
