package roster

import (
	"context"
	"fmt"
	"testing"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	teams   map[string]model.Team
	members map[string]model.TeamMember
	links   map[string]model.TeamWorkShift
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		teams:   make(map[string]model.Team),
		members: make(map[string]model.TeamMember),
		links:   make(map[string]model.TeamWorkShift),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) ListTeams(_ context.Context) ([]model.Team, error) {
	var out []model.Team
	for _, t := range f.teams {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) GetTeam(_ context.Context, id string) (*model.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) CreateTeam(_ context.Context, team *model.Team) error {
	team.ID = f.id("team")
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeStore) UpdateTeam(_ context.Context, team *model.Team) error {
	if _, ok := f.teams[team.ID]; !ok {
		return model.ErrNotFound
	}
	f.teams[team.ID] = *team
	return nil
}

func (f *fakeStore) ListMembers(_ context.Context, teamID string) ([]model.TeamMember, error) {
	var out []model.TeamMember
	for _, m := range f.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) GetMember(_ context.Context, memberID string) (*model.TeamMember, error) {
	m, ok := f.members[memberID]
	if !ok {
		return nil, model.ErrNotFound
	}
	return &m, nil
}

func (f *fakeStore) AddMember(_ context.Context, member *model.TeamMember) error {
	member.ID = f.id("member")
	f.members[member.ID] = *member
	return nil
}

func (f *fakeStore) DeleteMember(_ context.Context, memberID string) error {
	delete(f.members, memberID)
	return nil
}

func (f *fakeStore) ListLinks(_ context.Context, teamID string) ([]model.TeamWorkShift, error) {
	var out []model.TeamWorkShift
	for _, l := range f.links {
		if l.TeamID == teamID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAllLinks(_ context.Context) ([]model.TeamWorkShift, error) {
	var out []model.TeamWorkShift
	for _, l := range f.links {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeStore) CreateLink(_ context.Context, link *model.TeamWorkShift) error {
	link.ID = f.id("link")
	f.links[link.ID] = *link
	return nil
}

func (f *fakeStore) DeleteLink(_ context.Context, linkID string) error {
	delete(f.links, linkID)
	return nil
}

func testRegistry(store Store) *Registry {
	logger := zerolog.Nop()
	return New(store, &logger)
}

func groomingTeam() TeamInput {
	return TeamInput{
		Name:        "Grooming",
		Description: "Dog and cat grooming",
		LeaderID:    "emp-lead",
		WorkTypeIDs: []string{"wt-grooming"},
		IsActive:    true,
	}
}

func TestCreateTeam(t *testing.T) {
	reg := testRegistry(newFakeStore())

	team, err := reg.CreateTeam(context.Background(), groomingTeam())
	require.NoError(t, err)
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, model.TeamStatusActive, team.Status, "status defaults to active")
}

func TestCreateTeamValidation(t *testing.T) {
	reg := testRegistry(newFakeStore())

	tests := []struct {
		name   string
		mutate func(*TeamInput)
	}{
		{"empty name", func(in *TeamInput) { in.Name = " " }},
		{"empty description", func(in *TeamInput) { in.Description = "" }},
		{"no leader", func(in *TeamInput) { in.LeaderID = "" }},
		{"no work types", func(in *TeamInput) { in.WorkTypeIDs = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := groomingTeam()
			tt.mutate(&in)
			_, err := reg.CreateTeam(context.Background(), in)
			assert.True(t, model.IsValidation(err), "want validation error, got %v", err)
		})
	}
}

func TestAddMembersIdempotent(t *testing.T) {
	store := newFakeStore()
	reg := testRegistry(store)
	ctx := context.Background()

	team, err := reg.CreateTeam(ctx, groomingTeam())
	require.NoError(t, err)

	require.NoError(t, reg.AddMembers(ctx, team.ID, []string{"emp-1", "emp-2"}))
	require.NoError(t, reg.AddMembers(ctx, team.ID, []string{"emp-2", "emp-3"}))

	members, err := store.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 3, "duplicates are skipped")
}

func TestAddMembersSkipsLeader(t *testing.T) {
	store := newFakeStore()
	reg := testRegistry(store)
	ctx := context.Background()

	team, err := reg.CreateTeam(ctx, groomingTeam())
	require.NoError(t, err)

	require.NoError(t, reg.AddMembers(ctx, team.ID, []string{"emp-lead", "emp-1", ""}))
	members, err := store.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "emp-1", members[0].EmployeeID)
}

func TestSetLeader(t *testing.T) {
	store := newFakeStore()
	reg := testRegistry(store)
	ctx := context.Background()

	team, err := reg.CreateTeam(ctx, groomingTeam())
	require.NoError(t, err)
	require.NoError(t, reg.AddMembers(ctx, team.ID, []string{"emp-1", "emp-2"}))

	require.NoError(t, reg.SetLeader(ctx, team.ID, "emp-1"))

	updated, err := store.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", updated.LeaderID)

	members, err := store.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2, "promoted leader leaves, demoted leader joins")
	ids := []string{members[0].EmployeeID, members[1].EmployeeID}
	assert.ElementsMatch(t, []string{"emp-2", "emp-lead"}, ids)
}

func TestSetLeaderRequiresMembership(t *testing.T) {
	reg := testRegistry(newFakeStore())
	ctx := context.Background()

	team, err := reg.CreateTeam(ctx, groomingTeam())
	require.NoError(t, err)

	err = reg.SetLeader(ctx, team.ID, "emp-outsider")
	assert.True(t, model.IsValidation(err))
}

func TestUpdateTeamDropsLeaderRow(t *testing.T) {
	store := newFakeStore()
	reg := testRegistry(store)
	ctx := context.Background()

	team, err := reg.CreateTeam(ctx, groomingTeam())
	require.NoError(t, err)
	require.NoError(t, reg.AddMembers(ctx, team.ID, []string{"emp-1"}))

	in := groomingTeam()
	in.LeaderID = "emp-1"
	_, err = reg.UpdateTeam(ctx, team.ID, in)
	require.NoError(t, err)

	members, err := store.ListMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, members, "new leader's member row is removed")
}

func TestAssignShiftIdempotent(t *testing.T) {
	store := newFakeStore()
	reg := testRegistry(store)
	ctx := context.Background()

	team, err := reg.CreateTeam(ctx, groomingTeam())
	require.NoError(t, err)

	first, err := reg.AssignShift(ctx, team.ID, "shift-1")
	require.NoError(t, err)
	second, err := reg.AssignShift(ctx, team.ID, "shift-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "re-assigning returns the existing link")

	links, err := store.ListLinks(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestUnassignShift(t *testing.T) {
	store := newFakeStore()
	reg := testRegistry(store)
	ctx := context.Background()

	team, err := reg.CreateTeam(ctx, groomingTeam())
	require.NoError(t, err)
	link, err := reg.AssignShift(ctx, team.ID, "shift-1")
	require.NoError(t, err)

	require.NoError(t, reg.UnassignShift(ctx, link.ID))
	links, err := store.ListLinks(ctx, team.ID)
	require.NoError(t, err)
	assert.Empty(t, links)
}
