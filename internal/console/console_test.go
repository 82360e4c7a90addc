package console

import (
	"context"
	"fmt"
	"testing"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/availability"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/catalog"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/conflict"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/matrix"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/roster"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore backs catalog, roster, snapshots and the employee directory
// in one in-memory fixture.
type memStore struct {
	shifts    map[string]model.WorkShift
	teams     map[string]model.Team
	members   map[string]model.TeamMember
	links     map[string]model.TeamWorkShift
	employees map[string]model.Employee
	nextID    int

	failDeleteLink bool
}

func newMemStore() *memStore {
	return &memStore{
		shifts:    make(map[string]model.WorkShift),
		teams:     make(map[string]model.Team),
		members:   make(map[string]model.TeamMember),
		links:     make(map[string]model.TeamWorkShift),
		employees: make(map[string]model.Employee),
	}
}

func (m *memStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *memStore) ListShifts(_ context.Context) ([]model.WorkShift, error) {
	var out []model.WorkShift
	for _, s := range m.shifts {
		if !s.IsDeleted {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) GetShift(_ context.Context, id string) (*model.WorkShift, error) {
	s, ok := m.shifts[id]
	if !ok || s.IsDeleted {
		return nil, model.ErrNotFound
	}
	return &s, nil
}

func (m *memStore) CreateShift(_ context.Context, shift *model.WorkShift) error {
	shift.ID = m.id("shift")
	m.shifts[shift.ID] = *shift
	return nil
}

func (m *memStore) UpdateShift(_ context.Context, shift *model.WorkShift) error {
	if _, ok := m.shifts[shift.ID]; !ok {
		return model.ErrNotFound
	}
	m.shifts[shift.ID] = *shift
	return nil
}

func (m *memStore) ListTeams(_ context.Context) ([]model.Team, error) {
	var out []model.Team
	for _, t := range m.teams {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) GetTeam(_ context.Context, id string) (*model.Team, error) {
	t, ok := m.teams[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &t, nil
}

func (m *memStore) CreateTeam(_ context.Context, team *model.Team) error {
	team.ID = m.id("team")
	m.teams[team.ID] = *team
	return nil
}

func (m *memStore) UpdateTeam(_ context.Context, team *model.Team) error {
	m.teams[team.ID] = *team
	return nil
}

func (m *memStore) ListMembers(_ context.Context, teamID string) ([]model.TeamMember, error) {
	var out []model.TeamMember
	for _, mm := range m.members {
		if mm.TeamID == teamID {
			out = append(out, mm)
		}
	}
	return out, nil
}

func (m *memStore) GetMember(_ context.Context, memberID string) (*model.TeamMember, error) {
	mm, ok := m.members[memberID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &mm, nil
}

func (m *memStore) AddMember(_ context.Context, member *model.TeamMember) error {
	member.ID = m.id("member")
	m.members[member.ID] = *member
	return nil
}

func (m *memStore) DeleteMember(_ context.Context, memberID string) error {
	delete(m.members, memberID)
	return nil
}

func (m *memStore) ListLinks(_ context.Context, teamID string) ([]model.TeamWorkShift, error) {
	var out []model.TeamWorkShift
	for _, l := range m.links {
		if l.TeamID == teamID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) ListAllLinks(_ context.Context) ([]model.TeamWorkShift, error) {
	var out []model.TeamWorkShift
	for _, l := range m.links {
		out = append(out, l)
	}
	return out, nil
}

func (m *memStore) CreateLink(_ context.Context, link *model.TeamWorkShift) error {
	link.ID = m.id("link")
	m.links[link.ID] = *link
	return nil
}

func (m *memStore) DeleteLink(_ context.Context, linkID string) error {
	if m.failDeleteLink {
		return fmt.Errorf("store down")
	}
	delete(m.links, linkID)
	return nil
}

func (m *memStore) GetEmployee(_ context.Context, id string) (*model.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &e, nil
}

func (m *memStore) Snapshot(ctx context.Context) (conflict.Snapshot, error) {
	shifts, _ := m.ListShifts(ctx)
	teams, _ := m.ListTeams(ctx)
	links, _ := m.ListAllLinks(ctx)
	var members []model.TeamMember
	for _, mm := range m.members {
		members = append(members, mm)
	}
	return conflict.Snapshot{Shifts: shifts, Teams: teams, Members: members, Links: links}, nil
}

func testService(store *memStore) *Service {
	logger := zerolog.Nop()
	return New(
		catalog.New(store, &logger),
		roster.New(store, &logger),
		store,
		store,
		availability.New(nil, nil),
		nil,
		&logger,
	)
}

var morning = model.Window{Start: 480, End: 720} // 08:00-12:00

func seedTeam(t *testing.T, store *memStore, leaderID string, memberIDs ...string) string {
	t.Helper()
	team := &model.Team{Name: "Grooming", LeaderID: leaderID, Status: model.TeamStatusActive}
	require.NoError(t, store.CreateTeam(context.Background(), team))
	for _, id := range memberIDs {
		require.NoError(t, store.AddMember(context.Background(), &model.TeamMember{TeamID: team.ID, EmployeeID: id}))
	}
	return team.ID
}

func seedShift(t *testing.T, store *memStore, name string, w model.Window, days ...model.Weekday) string {
	t.Helper()
	shift := &model.WorkShift{Name: name, Window: w, ApplicableDays: model.NewWeekdaySet(days...), IsActive: true}
	require.NoError(t, store.CreateShift(context.Background(), shift))
	return shift.ID
}

func TestAssignTeamToShift(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	teamID := seedTeam(t, store, "emp-lead", "emp-1")
	shiftID := seedShift(t, store, "Morning", morning, model.Monday)

	link, err := svc.AssignTeamToShift(ctx, teamID, shiftID)
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
}

func TestAssignTeamToShiftBlockedByStaffConflict(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	// emp-shared works mornings for team A; assigning team B to an
	// overlapping shift must fail and name the employee.
	teamA := seedTeam(t, store, "emp-a", "emp-shared")
	teamB := seedTeam(t, store, "emp-b", "emp-shared")
	store.employees["emp-shared"] = model.Employee{ID: "emp-shared", FullName: "Alex Tran"}

	shiftA := seedShift(t, store, "Morning A", morning, model.Monday)
	shiftB := seedShift(t, store, "Morning B", model.Window{Start: 600, End: 840}, model.Monday)

	_, err := svc.AssignTeamToShift(ctx, teamA, shiftA)
	require.NoError(t, err)

	_, err = svc.AssignTeamToShift(ctx, teamB, shiftB)
	var staffErr *conflict.StaffConflictError
	require.ErrorAs(t, err, &staffErr)
	assert.Equal(t, "emp-shared", staffErr.EmployeeID)
	assert.Equal(t, "Alex Tran", staffErr.EmployeeName)
	assert.Equal(t, "Morning A", staffErr.ConflictingShift)

	links, err := store.ListLinks(ctx, teamB)
	require.NoError(t, err)
	assert.Empty(t, links, "blocked assignment writes nothing")
}

func TestCheckStaffConflict(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	teamID := seedTeam(t, store, "emp-lead", "emp-1")
	shiftID := seedShift(t, store, "Morning", morning, model.Monday)
	_, err := svc.AssignTeamToShift(ctx, teamID, shiftID)
	require.NoError(t, err)

	check, err := svc.CheckStaffConflict(ctx, "emp-1", morning, model.NewWeekdaySet(model.Monday), "")
	require.NoError(t, err)
	assert.True(t, check.Conflict)
	require.NotNil(t, check.ConflictingShift)
	assert.Equal(t, shiftID, check.ConflictingShift.ID)

	check, err = svc.CheckStaffConflict(ctx, "emp-1", morning, model.NewWeekdaySet(model.Tuesday), "")
	require.NoError(t, err)
	assert.False(t, check.Conflict)
}

func TestCommitScheduleMatrix(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	teamID := seedTeam(t, store, "emp-lead")
	s1 := seedShift(t, store, "Morning", morning, model.Monday, model.Wednesday)
	seedShift(t, store, "Evening", model.Window{Start: 840, End: 1080}, model.Friday)

	plan, report, err := svc.CommitScheduleMatrix(ctx, teamID, matrix.Selection{
		morning: model.NewWeekdaySet(model.Monday, model.Wednesday),
	}, "manager-1")
	require.NoError(t, err)
	require.Len(t, plan.ToAdd, 1)
	assert.Equal(t, s1, plan.ToAdd[0].WorkShiftID)
	assert.Len(t, report.Applied, 1)
	assert.Empty(t, report.Failed)

	links, err := store.ListLinks(ctx, teamID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestCommitScheduleMatrixEmptyRejected(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	teamID := seedTeam(t, store, "emp-lead")
	shiftID := seedShift(t, store, "Morning", morning, model.Monday)
	_, err := svc.AssignTeamToShift(ctx, teamID, shiftID)
	require.NoError(t, err)

	_, _, err = svc.CommitScheduleMatrix(ctx, teamID, matrix.Selection{}, "manager-1")
	var emptyErr *matrix.EmptyScheduleError
	require.ErrorAs(t, err, &emptyErr)

	links, err := store.ListLinks(ctx, teamID)
	require.NoError(t, err)
	assert.Len(t, links, 1, "rejected commit leaves the schedule untouched")
}

func TestCommitScheduleMatrixStopsOnFailure(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	teamID := seedTeam(t, store, "emp-lead")
	s1 := seedShift(t, store, "Morning", morning, model.Monday)
	seedShift(t, store, "Evening", model.Window{Start: 840, End: 1080}, model.Friday)
	_, err := svc.AssignTeamToShift(ctx, teamID, s1)
	require.NoError(t, err)

	// Drop s1, add s2. The removal fails, so the add never runs and
	// the report says exactly how far the apply got.
	store.failDeleteLink = true
	_, report, err := svc.CommitScheduleMatrix(ctx, teamID, matrix.Selection{
		{Start: 840, End: 1080}: model.NewWeekdaySet(model.Friday),
	}, "manager-1")
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Empty(t, report.Applied)
	assert.Contains(t, report.Failed, "remove link")

	links, err := store.ListLinks(ctx, teamID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, s1, links[0].WorkShiftID, "add did not run after the failed remove")
}

func TestCommitScheduleMatrixGatesAdds(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	teamA := seedTeam(t, store, "emp-a", "emp-shared")
	teamB := seedTeam(t, store, "emp-b", "emp-shared")
	shiftA := seedShift(t, store, "Morning A", morning, model.Monday)
	seedShift(t, store, "Morning B", model.Window{Start: 600, End: 840}, model.Monday)
	_, err := svc.AssignTeamToShift(ctx, teamA, shiftA)
	require.NoError(t, err)

	_, _, err = svc.CommitScheduleMatrix(ctx, teamB, matrix.Selection{
		{Start: 600, End: 840}: model.NewWeekdaySet(model.Monday),
	}, "manager-1")
	var staffErr *conflict.StaffConflictError
	require.ErrorAs(t, err, &staffErr)

	links, err := store.ListLinks(ctx, teamB)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestGetScheduleMatrix(t *testing.T) {
	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	teamID := seedTeam(t, store, "emp-lead")
	shiftID := seedShift(t, store, "Morning", morning, model.Monday)
	_, err := svc.AssignTeamToShift(ctx, teamID, shiftID)
	require.NoError(t, err)

	m, err := svc.GetScheduleMatrix(ctx, teamID)
	require.NoError(t, err)
	assert.True(t, m.Cells[morning][model.Monday].Active)
}
