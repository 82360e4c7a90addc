// Package conflict answers whether a staff member would be
// double-booked by a candidate shift assignment. Detection is a pure
// query over an explicit snapshot of the staffing stores, so checks
// are deterministic and never read ambient state.
package conflict

import (
	"fmt"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"
)

// Snapshot is a consistent read of the staffing stores. Callers build
// one per request; a torn snapshot can produce false negatives.
type Snapshot struct {
	Shifts  []model.WorkShift
	Teams   []model.Team
	Members []model.TeamMember
	Links   []model.TeamWorkShift
}

// Candidate is the (window, days) pair being checked for an employee.
type Candidate struct {
	Window model.Window
	Days   model.WeekdaySet
}

// Result describes the first detected conflict, if any.
type Result struct {
	Conflict         bool
	ConflictingShift *model.WorkShift
	ConflictingDays  model.WeekdaySet
	TeamID           string
}

// StaffConflictError is the gate failure for an assignment that would
// double-book an employee. It carries enough context for an
// actionable message; it is never auto-resolved.
type StaffConflictError struct {
	EmployeeID       string
	EmployeeName     string
	ConflictingShift string
	Window           model.Window
	Days             model.WeekdaySet
}

func (e *StaffConflictError) Error() string {
	who := e.EmployeeName
	if who == "" {
		who = e.EmployeeID
	}
	return fmt.Sprintf("%s is already committed to %s (%s) on %s",
		who, e.ConflictingShift, e.Window, e.Days)
}

// Check reports whether employeeID is already committed elsewhere on
// any of the candidate days at an overlapping time. excludeTeamID
// skips one team's assignments, used when re-checking a team against
// itself during an edit. Two shifts on disjoint days never conflict;
// touching windows (end == start) do not conflict.
func Check(snap Snapshot, employeeID string, candidate Candidate, excludeTeamID string) Result {
	shiftsByID := make(map[string]*model.WorkShift, len(snap.Shifts))
	for i := range snap.Shifts {
		shiftsByID[snap.Shifts[i].ID] = &snap.Shifts[i]
	}

	memberTeams := make(map[string]bool)
	for _, t := range snap.Teams {
		if t.LeaderID == employeeID {
			memberTeams[t.ID] = true
		}
	}
	for _, m := range snap.Members {
		if m.EmployeeID == employeeID {
			memberTeams[m.TeamID] = true
		}
	}

	for _, link := range snap.Links {
		if link.TeamID == excludeTeamID || !memberTeams[link.TeamID] {
			continue
		}
		shift, ok := shiftsByID[link.WorkShiftID]
		if !ok || shift.IsDeleted {
			continue
		}
		overlapDays := candidate.Days.Intersect(shift.ApplicableDays)
		if overlapDays.IsEmpty() {
			continue
		}
		if !candidate.Window.Overlaps(shift.Window) {
			continue
		}
		return Result{
			Conflict:         true,
			ConflictingShift: shift,
			ConflictingDays:  overlapDays,
			TeamID:           link.TeamID,
		}
	}
	return Result{}
}

// TeamEmployees returns the employee ids staffing a team: the leader
// plus every member row. Used to gate assignments for a whole team.
func TeamEmployees(snap Snapshot, teamID string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, t := range snap.Teams {
		if t.ID == teamID && t.LeaderID != "" {
			ids = append(ids, t.LeaderID)
			seen[t.LeaderID] = true
		}
	}
	for _, m := range snap.Members {
		if m.TeamID == teamID && !seen[m.EmployeeID] {
			ids = append(ids, m.EmployeeID)
			seen[m.EmployeeID] = true
		}
	}
	return ids
}
