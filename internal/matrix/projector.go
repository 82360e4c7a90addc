// Package matrix projects the staffing stores into a weekday ×
// time-window grid for a team and converts an edited grid back into
// add/update/remove operations. The diff is computed and validated
// before anything is applied, so a team is never left transiently
// unschedulable by a half-applied edit.
package matrix

import (
	"sort"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"
)

// EmptyScheduleError rejects a commit that would leave the team with
// zero working days. Nothing is written; the caller edits and retries.
type EmptyScheduleError struct {
	TeamID string
}

func (e *EmptyScheduleError) Error() string {
	return "team " + e.TeamID + " would be left without any working day"
}

// Cell is one (weekday, window) grid position. A cell is selectable
// only if some shift exists with that exact window and that day among
// its applicable days; otherwise it is a permanent non-option.
type Cell struct {
	ShiftID    string
	Selectable bool
	Active     bool
}

// Matrix is the grid for one team: rows are the 7 weekdays, columns
// are the distinct windows observed across all non-deleted shifts.
type Matrix struct {
	TeamID  string
	Windows []model.Window
	Cells   map[model.Window]map[model.Weekday]Cell
}

// Selection is an edited grid: the checked days per window.
type Selection map[model.Window]model.WeekdaySet

// Selection returns the currently active cells of the matrix, i.e. the
// selection that reproduces the committed state.
func (m *Matrix) Selection() Selection {
	sel := make(Selection, len(m.Windows))
	for w, byDay := range m.Cells {
		days := model.WeekdaySet(0)
		for d, cell := range byDay {
			if cell.Active {
				days = days.Add(d)
			}
		}
		if !days.IsEmpty() {
			sel[w] = days
		}
	}
	return sel
}

// AddOp creates a team-shift link covering the shift's selected days.
type AddOp struct {
	WorkShiftID string
	Days        model.WeekdaySet
}

// UpdateOp narrows or widens the underlying shift's applicable days.
// Subject to the catalog's uniqueness invariant at apply time.
type UpdateOp struct {
	LinkID      string
	WorkShiftID string
	Days        model.WeekdaySet
}

// RemoveOp removes a team-shift link whose selection became empty.
type RemoveOp struct {
	LinkID      string
	WorkShiftID string
}

// Plan is the validated diff of an edited matrix against the
// committed state. Apply the three op lists inside one
// transaction-like boundary; on partial failure the caller must roll
// back entirely or reconcile manually.
type Plan struct {
	ToAdd    []AddOp
	ToUpdate []UpdateOp
	ToRemove []RemoveOp
}

// Empty reports whether the plan changes nothing.
func (p Plan) Empty() bool {
	return len(p.ToAdd) == 0 && len(p.ToUpdate) == 0 && len(p.ToRemove) == 0
}

// Build derives the grid for a team from all non-deleted shifts and
// the team's current shift links.
func Build(teamID string, shifts []model.WorkShift, links []model.TeamWorkShift) *Matrix {
	linked := teamLinkedShifts(teamID, links)

	windows := distinctWindows(shifts)
	cells := make(map[model.Window]map[model.Weekday]Cell, len(windows))
	for _, w := range windows {
		cells[w] = make(map[model.Weekday]Cell, 7)
	}

	// Linked shifts claim their cells first so the active flag always
	// points at the shift the team actually works.
	for _, pass := range []bool{true, false} {
		for _, s := range sortedShifts(shifts) {
			if s.IsDeleted {
				continue
			}
			if linked[s.ID] != pass {
				continue
			}
			byDay := cells[s.Window]
			for _, d := range s.ApplicableDays.Days() {
				if cell, ok := byDay[d]; ok && cell.Selectable {
					continue
				}
				byDay[d] = Cell{
					ShiftID:    s.ID,
					Selectable: true,
					Active:     linked[s.ID],
				}
			}
		}
	}

	return &Matrix{TeamID: teamID, Windows: windows, Cells: cells}
}

// Diff converts an edited selection into a plan against the committed
// state. It validates atomically before emitting: if every shift ends
// up with an empty selection the whole commit is rejected with
// EmptyScheduleError and no operations are produced.
func Diff(teamID string, shifts []model.WorkShift, links []model.TeamWorkShift, edited Selection) (Plan, error) {
	linkByShift := make(map[string]model.TeamWorkShift)
	for _, l := range links {
		if l.TeamID == teamID {
			linkByShift[l.WorkShiftID] = l
		}
	}

	// Unclaimed checked days per window, consumed by unlinked shifts
	// only. Linked shifts keep any checked day they already cover, even
	// one another linked shift under the same window also covers, so a
	// no-change commit never reads as a removal; unlinked shifts claim
	// only days no linked shift kept, so a day never adds twice.
	remaining := make(map[model.Window]model.WeekdaySet, len(edited))
	for w, days := range edited {
		remaining[w] = days
	}

	var plan Plan
	workingDays := model.WeekdaySet(0)

	for _, pass := range []bool{true, false} {
		for _, s := range sortedShifts(shifts) {
			if s.IsDeleted {
				continue
			}
			_, isLinked := linkByShift[s.ID]
			if isLinked != pass {
				continue
			}
			pool := remaining[s.Window]
			if isLinked {
				pool = edited[s.Window]
			}
			selected := s.ApplicableDays.Intersect(pool)
			remaining[s.Window] = remaining[s.Window].Diff(selected)

			link, hasLink := linkByShift[s.ID]
			switch {
			case !selected.IsEmpty() && !hasLink:
				plan.ToAdd = append(plan.ToAdd, AddOp{WorkShiftID: s.ID, Days: selected})
				workingDays = workingDays.Union(selected)
			case !selected.IsEmpty() && hasLink:
				if selected != s.ApplicableDays {
					plan.ToUpdate = append(plan.ToUpdate, UpdateOp{
						LinkID: link.ID, WorkShiftID: s.ID, Days: selected,
					})
				}
				workingDays = workingDays.Union(selected)
			case selected.IsEmpty() && hasLink:
				plan.ToRemove = append(plan.ToRemove, RemoveOp{LinkID: link.ID, WorkShiftID: s.ID})
			}
		}
	}

	if workingDays.IsEmpty() {
		return Plan{}, &EmptyScheduleError{TeamID: teamID}
	}
	return plan, nil
}

func teamLinkedShifts(teamID string, links []model.TeamWorkShift) map[string]bool {
	linked := make(map[string]bool)
	for _, l := range links {
		if l.TeamID == teamID {
			linked[l.WorkShiftID] = true
		}
	}
	return linked
}

func distinctWindows(shifts []model.WorkShift) []model.Window {
	seen := make(map[model.Window]bool)
	var windows []model.Window
	for _, s := range shifts {
		if s.IsDeleted || seen[s.Window] {
			continue
		}
		seen[s.Window] = true
		windows = append(windows, s.Window)
	}
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Start != windows[j].Start {
			return windows[i].Start < windows[j].Start
		}
		return windows[i].End < windows[j].End
	})
	return windows
}

func sortedShifts(shifts []model.WorkShift) []model.WorkShift {
	out := make([]model.WorkShift, len(shifts))
	copy(out, shifts)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
