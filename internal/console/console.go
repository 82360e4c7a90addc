// Package console is the operations surface of the scheduler: the
// query and command calls the presentation layer consumes. It owns no
// state of its own; it orchestrates the catalog, the registry, the
// conflict detector and the availability evaluator, and reports
// partial apply failures instead of hiding them.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/availability"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/catalog"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/conflict"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/directory"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/export"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/matrix"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/metrics"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/notify"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/roster"

	"github.com/rs/zerolog"
)

// SnapshotLoader reads a consistent view of the staffing stores.
type SnapshotLoader interface {
	Snapshot(ctx context.Context) (conflict.Snapshot, error)
}

// Service wires the scheduling components behind one call surface.
type Service struct {
	catalog   *catalog.Catalog
	registry  *roster.Registry
	snapshots SnapshotLoader
	employees directory.Directory
	evaluator *availability.Evaluator
	notifier  *notify.Notifier
	logger    *zerolog.Logger
}

// New creates the console service. notifier may be nil.
func New(
	cat *catalog.Catalog,
	reg *roster.Registry,
	snapshots SnapshotLoader,
	employees directory.Directory,
	evaluator *availability.Evaluator,
	notifier *notify.Notifier,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		catalog:   cat,
		registry:  reg,
		snapshots: snapshots,
		employees: employees,
		evaluator: evaluator,
		notifier:  notifier,
		logger:    logger,
	}
}

// ListShifts returns all non-deleted shifts.
func (s *Service) ListShifts(ctx context.Context) ([]model.WorkShift, error) {
	return s.catalog.ListActive(ctx)
}

// ListTeams returns all teams.
func (s *Service) ListTeams(ctx context.Context) ([]model.Team, error) {
	return s.registry.ListTeams(ctx)
}

// CreateShift creates a shift through the catalog.
func (s *Service) CreateShift(ctx context.Context, in catalog.CreateShiftInput) (*model.WorkShift, error) {
	shift, err := s.catalog.Create(ctx, in)
	if err != nil {
		var dc *catalog.DayConflictError
		if errors.As(err, &dc) {
			metrics.IncDayConflict()
		}
		return nil, err
	}
	metrics.IncShiftCreated()
	return shift, nil
}

// UpdateShift patches a shift through the catalog.
func (s *Service) UpdateShift(ctx context.Context, id string, patch catalog.UpdateShiftPatch) (*model.WorkShift, error) {
	shift, err := s.catalog.Update(ctx, id, patch)
	if err != nil {
		var dc *catalog.DayConflictError
		if errors.As(err, &dc) {
			metrics.IncDayConflict()
		}
		return nil, err
	}
	return shift, nil
}

// RemoveShiftDay removes one weekday from a shift, deleting the shift
// when it was the last day.
func (s *Service) RemoveShiftDay(ctx context.Context, shiftID string, day model.Weekday, actor string) error {
	return s.catalog.RemoveDay(ctx, shiftID, day, actor)
}

// DeleteShift soft-deletes a shift with all its days.
func (s *Service) DeleteShift(ctx context.Context, shiftID, actor string) error {
	return s.catalog.Delete(ctx, shiftID, actor)
}

// StaffCheck annotates one employee for an assignment UI.
type StaffCheck struct {
	EmployeeID       string
	EmployeeName     string
	Conflict         bool
	ConflictingShift *model.WorkShift
	ConflictingDays  model.WeekdaySet
}

// CheckStaffConflict reports whether an employee is already committed
// elsewhere on the candidate days at an overlapping time.
func (s *Service) CheckStaffConflict(ctx context.Context, employeeID string, window model.Window, days model.WeekdaySet, excludeTeamID string) (*StaffCheck, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	check := &StaffCheck{EmployeeID: employeeID}
	if emp, err := s.employees.GetEmployee(ctx, employeeID); err == nil {
		check.EmployeeName = emp.FullName
	}

	res := conflict.Check(snap, employeeID, conflict.Candidate{Window: window, Days: days}, excludeTeamID)
	if res.Conflict {
		metrics.IncStaffConflict()
		check.Conflict = true
		check.ConflictingShift = res.ConflictingShift
		check.ConflictingDays = res.ConflictingDays
	}
	return check, nil
}

// AssignTeamToShift links a team to a shift after verifying that no
// employee of the team would be double-booked. Conflicted staff block
// the assignment with StaffConflictError.
func (s *Service) AssignTeamToShift(ctx context.Context, teamID, shiftID string) (*model.TeamWorkShift, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var shift *model.WorkShift
	for i := range snap.Shifts {
		if snap.Shifts[i].ID == shiftID {
			shift = &snap.Shifts[i]
			break
		}
	}
	if shift == nil {
		return nil, fmt.Errorf("shift %s: %w", shiftID, model.ErrNotFound)
	}

	candidate := conflict.Candidate{Window: shift.Window, Days: shift.ApplicableDays}
	if err := s.gateEmployees(ctx, snap, teamID, candidate); err != nil {
		return nil, err
	}
	return s.registry.AssignShift(ctx, teamID, shiftID)
}

// UnassignTeamFromShift removes a team-shift link.
func (s *Service) UnassignTeamFromShift(ctx context.Context, linkID string) error {
	return s.registry.UnassignShift(ctx, linkID)
}

// GetScheduleMatrix builds the weekday × window grid for a team.
func (s *Service) GetScheduleMatrix(ctx context.Context, teamID string) (*matrix.Matrix, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return matrix.Build(teamID, snap.Shifts, snap.Links), nil
}

// ApplyReport lists which plan steps were applied and which step, if
// any, failed. Partial silent success is not allowed: the first
// failure stops the apply and is reported alongside the completed
// steps so the caller can reconcile or retry from a fresh read.
type ApplyReport struct {
	Applied []string
	Failed  string
	Err     error
}

// CommitScheduleMatrix diffs an edited grid against the committed
// state, validates it, gates new assignments against staff conflicts
// and applies the plan. Removals run first so narrowed days are freed
// before new claims.
func (s *Service) CommitScheduleMatrix(ctx context.Context, teamID string, edited matrix.Selection, actor string) (matrix.Plan, *ApplyReport, error) {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return matrix.Plan{}, nil, fmt.Errorf("load snapshot: %w", err)
	}

	plan, err := matrix.Diff(teamID, snap.Shifts, snap.Links, edited)
	if err != nil {
		metrics.IncMatrixCommit("rejected")
		return matrix.Plan{}, nil, err
	}

	shiftsByID := make(map[string]model.WorkShift, len(snap.Shifts))
	for _, sh := range snap.Shifts {
		shiftsByID[sh.ID] = sh
	}
	for _, op := range plan.ToAdd {
		sh, ok := shiftsByID[op.WorkShiftID]
		if !ok {
			return plan, nil, fmt.Errorf("shift %s: %w", op.WorkShiftID, model.ErrNotFound)
		}
		candidate := conflict.Candidate{Window: sh.Window, Days: op.Days}
		if err := s.gateEmployees(ctx, snap, teamID, candidate); err != nil {
			metrics.IncMatrixCommit("conflict")
			return plan, nil, err
		}
	}

	report := &ApplyReport{}
	for _, op := range plan.ToRemove {
		step := fmt.Sprintf("remove link %s", op.LinkID)
		if err := s.registry.UnassignShift(ctx, op.LinkID); err != nil {
			return plan, report, s.failStep(report, step, err)
		}
		report.Applied = append(report.Applied, step)
	}
	for _, op := range plan.ToUpdate {
		step := fmt.Sprintf("update shift %s days to %s", op.WorkShiftID, op.Days)
		days := op.Days
		if _, err := s.catalog.Update(ctx, op.WorkShiftID, catalog.UpdateShiftPatch{Days: &days, Actor: actor}); err != nil {
			return plan, report, s.failStep(report, step, err)
		}
		report.Applied = append(report.Applied, step)
	}
	for _, op := range plan.ToAdd {
		step := fmt.Sprintf("assign shift %s", op.WorkShiftID)
		if _, err := s.registry.AssignShift(ctx, teamID, op.WorkShiftID); err != nil {
			return plan, report, s.failStep(report, step, err)
		}
		report.Applied = append(report.Applied, step)
	}

	metrics.IncMatrixCommit("applied")
	if s.notifier != nil && !plan.Empty() {
		s.notifier.ScheduleCommitted(ctx, teamName(snap, teamID), plan)
	}
	return plan, report, nil
}

// EvaluateSlot computes the bookability of one calendar cell.
func (s *Service) EvaluateSlot(ctx context.Context, date time.Time, t model.TimeOfDay, svc model.ServiceContext, closed []model.ClosedSlot) model.SlotState {
	state := s.evaluator.Evaluate(date, t, svc, closed)
	metrics.IncSlotEvaluated(string(state))
	return state
}

// EnumerateSessions lists the session start times for a service day.
func (s *Service) EnumerateSessions(svc model.ServiceContext) []model.TimeOfDay {
	return s.evaluator.EnumerateSessions(svc)
}

// CanNavigateToWeek reports whether the booking calendar may move to
// the week starting at weekStart.
func (s *Service) CanNavigateToWeek(weekStart time.Time, svc model.ServiceContext, closed []model.ClosedSlot) bool {
	return s.evaluator.CanNavigateToWeek(weekStart, svc, closed)
}

// ExportSchedule writes a team's schedule grid as an .xlsx workbook.
func (s *Service) ExportSchedule(ctx context.Context, teamID string, w io.Writer) error {
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	m := matrix.Build(teamID, snap.Shifts, snap.Links)

	wb := export.NewWorkbook()
	defer wb.Close()
	if err := wb.AddTeamSheet(teamName(snap, teamID), m); err != nil {
		return fmt.Errorf("build sheet: %w", err)
	}
	return wb.Save(w)
}

func (s *Service) gateEmployees(ctx context.Context, snap conflict.Snapshot, teamID string, candidate conflict.Candidate) error {
	for _, empID := range conflict.TeamEmployees(snap, teamID) {
		res := conflict.Check(snap, empID, candidate, teamID)
		if !res.Conflict {
			continue
		}
		metrics.IncStaffConflict()
		scErr := &conflict.StaffConflictError{
			EmployeeID:       empID,
			ConflictingShift: res.ConflictingShift.Name,
			Window:           res.ConflictingShift.Window,
			Days:             res.ConflictingDays,
		}
		if emp, err := s.employees.GetEmployee(ctx, empID); err == nil {
			scErr.EmployeeName = emp.FullName
		}
		return scErr
	}
	return nil
}

func (s *Service) failStep(report *ApplyReport, step string, err error) error {
	report.Failed = step
	report.Err = err
	metrics.IncMatrixCommit("failed")
	s.logger.Error().Err(err).Str("step", step).
		Int("applied_steps", len(report.Applied)).
		Msg("schedule commit stopped on failed step")
	return fmt.Errorf("%s: %w", step, err)
}

func teamName(snap conflict.Snapshot, teamID string) string {
	for _, t := range snap.Teams {
		if t.ID == teamID {
			return t.Name
		}
	}
	return teamID
}
