package conflict

import (
	"testing"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotWith(shift model.WorkShift, teamID, employeeID string) Snapshot {
	return Snapshot{
		Shifts:  []model.WorkShift{shift},
		Teams:   []model.Team{{ID: teamID, Name: "Grooming", LeaderID: "emp-lead"}},
		Members: []model.TeamMember{{ID: "m1", TeamID: teamID, EmployeeID: employeeID}},
		Links:   []model.TeamWorkShift{{ID: "l1", TeamID: teamID, WorkShiftID: shift.ID}},
	}
}

var committed = model.WorkShift{
	ID:             "shift-1",
	Name:           "Morning Care",
	Window:         model.Window{Start: 480, End: 720}, // 08:00-12:00
	ApplicableDays: model.NewWeekdaySet(model.Monday, model.Wednesday),
}

func TestCheckDetectsOverlap(t *testing.T) {
	snap := snapshotWith(committed, "team-1", "emp-1")

	res := Check(snap, "emp-1", Candidate{
		Window: model.Window{Start: 660, End: 900}, // 11:00-15:00
		Days:   model.NewWeekdaySet(model.Wednesday, model.Friday),
	}, "")
	require.True(t, res.Conflict)
	assert.Equal(t, "shift-1", res.ConflictingShift.ID)
	assert.Equal(t, model.NewWeekdaySet(model.Wednesday), res.ConflictingDays)
	assert.Equal(t, "team-1", res.TeamID)
}

func TestCheckNoConflict(t *testing.T) {
	snap := snapshotWith(committed, "team-1", "emp-1")

	tests := []struct {
		name      string
		candidate Candidate
	}{
		{
			"disjoint days",
			Candidate{Window: model.Window{Start: 480, End: 720}, Days: model.NewWeekdaySet(model.Tuesday, model.Thursday)},
		},
		{
			"touching windows",
			Candidate{Window: model.Window{Start: 720, End: 960}, Days: model.NewWeekdaySet(model.Monday)},
		},
		{
			"disjoint windows",
			Candidate{Window: model.Window{Start: 900, End: 1020}, Days: model.NewWeekdaySet(model.Monday)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(snap, "emp-1", tt.candidate, "")
			assert.False(t, res.Conflict)
		})
	}
}

func TestCheckSymmetric(t *testing.T) {
	// Whichever of the two overlapping shifts is committed first, the
	// other must be detected as a conflict for the shared employee.
	shiftA := model.WorkShift{
		ID:             "shift-a",
		Name:           "Morning Care",
		Window:         model.Window{Start: 480, End: 720},
		ApplicableDays: model.NewWeekdaySet(model.Monday, model.Wednesday),
	}
	shiftB := model.WorkShift{
		ID:             "shift-b",
		Name:           "Midday Walks",
		Window:         model.Window{Start: 660, End: 900},
		ApplicableDays: model.NewWeekdaySet(model.Wednesday, model.Friday),
	}

	aCommitted := snapshotWith(shiftA, "team-a", "emp-shared")
	res := Check(aCommitted, "emp-shared", Candidate{Window: shiftB.Window, Days: shiftB.ApplicableDays}, "")
	require.True(t, res.Conflict)
	assert.Equal(t, model.NewWeekdaySet(model.Wednesday), res.ConflictingDays)

	bCommitted := snapshotWith(shiftB, "team-b", "emp-shared")
	res = Check(bCommitted, "emp-shared", Candidate{Window: shiftA.Window, Days: shiftA.ApplicableDays}, "")
	require.True(t, res.Conflict, "detection must not depend on which shift was committed first")
	assert.Equal(t, model.NewWeekdaySet(model.Wednesday), res.ConflictingDays)
}

func TestCheckOtherEmployeeUnaffected(t *testing.T) {
	snap := snapshotWith(committed, "team-1", "emp-1")

	res := Check(snap, "emp-2", Candidate{
		Window: committed.Window,
		Days:   committed.ApplicableDays,
	}, "")
	assert.False(t, res.Conflict, "emp-2 is not on team-1")
}

func TestCheckLeaderCountsAsStaff(t *testing.T) {
	snap := snapshotWith(committed, "team-1", "emp-1")

	res := Check(snap, "emp-lead", Candidate{
		Window: committed.Window,
		Days:   model.NewWeekdaySet(model.Monday),
	}, "")
	assert.True(t, res.Conflict, "team leader is committed through the team's links")
}

func TestCheckExcludeTeam(t *testing.T) {
	snap := snapshotWith(committed, "team-1", "emp-1")

	res := Check(snap, "emp-1", Candidate{
		Window: committed.Window,
		Days:   committed.ApplicableDays,
	}, "team-1")
	assert.False(t, res.Conflict, "own team's assignments are excluded during an edit")
}

func TestCheckIgnoresDeletedShift(t *testing.T) {
	gone := committed
	gone.IsDeleted = true
	snap := snapshotWith(gone, "team-1", "emp-1")

	res := Check(snap, "emp-1", Candidate{
		Window: committed.Window,
		Days:   committed.ApplicableDays,
	}, "")
	assert.False(t, res.Conflict)
}

func TestTeamEmployees(t *testing.T) {
	snap := Snapshot{
		Teams: []model.Team{{ID: "team-1", LeaderID: "emp-lead"}},
		Members: []model.TeamMember{
			{ID: "m1", TeamID: "team-1", EmployeeID: "emp-1"},
			{ID: "m2", TeamID: "team-1", EmployeeID: "emp-2"},
			{ID: "m3", TeamID: "team-2", EmployeeID: "emp-3"},
		},
	}
	assert.ElementsMatch(t, []string{"emp-lead", "emp-1", "emp-2"}, TeamEmployees(snap, "team-1"))
	assert.ElementsMatch(t, []string{"emp-3"}, TeamEmployees(snap, "team-2"))
	assert.Empty(t, TeamEmployees(snap, "team-3"))
}
