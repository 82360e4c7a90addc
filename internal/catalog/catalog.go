// Package catalog owns WorkShift records and the uniqueness-per-day
// invariant: non-deleted shifts sharing a (name, window) identity must
// hold disjoint weekday sets.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/rs/zerolog"
)

// Store persists WorkShift records. List and Get return only
// non-deleted rows; Create assigns the id and audit stamps.
type Store interface {
	ListShifts(ctx context.Context) ([]model.WorkShift, error)
	GetShift(ctx context.Context, id string) (*model.WorkShift, error)
	CreateShift(ctx context.Context, shift *model.WorkShift) error
	UpdateShift(ctx context.Context, shift *model.WorkShift) error
}

// DayConflictError reports a uniqueness-per-day violation. The caller
// may resubmit with the conflicting days removed or surface the
// conflicting shift ids for manual resolution.
type DayConflictError struct {
	ConflictingDays     model.WeekdaySet
	ConflictingShiftIDs []string
}

func (e *DayConflictError) Error() string {
	return fmt.Sprintf("days %s already claimed by shifts [%s]",
		e.ConflictingDays, strings.Join(e.ConflictingShiftIDs, ", "))
}

// CreateShiftInput carries the fields for a new shift.
type CreateShiftInput struct {
	Name        string
	Window      model.Window
	Days        model.WeekdaySet
	Description string
	IsActive    bool
	Actor       string
}

// UpdateShiftPatch holds the fields to change; nil means keep current.
type UpdateShiftPatch struct {
	Name        *string
	Window      *model.Window
	Days        *model.WeekdaySet
	Description *string
	IsActive    *bool
	Actor       string
}

// Catalog is the shift system of record.
type Catalog struct {
	store  Store
	logger *zerolog.Logger
}

// New creates a shift catalog backed by store.
func New(store Store, logger *zerolog.Logger) *Catalog {
	return &Catalog{store: store, logger: logger}
}

// Create validates and persists a new shift. If any requested day is
// already claimed by another non-deleted shift with the same name and
// window, it fails with DayConflictError and nothing is written.
func (c *Catalog) Create(ctx context.Context, in CreateShiftInput) (*model.WorkShift, error) {
	if err := validateFields(in.Name, in.Window, in.Days); err != nil {
		return nil, err
	}

	shifts, err := c.store.ListShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	if err := checkDayConflict(shifts, in.Name, in.Window, in.Days, ""); err != nil {
		return nil, err
	}

	shift := &model.WorkShift{
		Name:           in.Name,
		Window:         in.Window,
		ApplicableDays: in.Days,
		Description:    in.Description,
		IsActive:       in.IsActive,
		CreatedBy:      in.Actor,
		UpdatedBy:      in.Actor,
	}
	if err := c.store.CreateShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("create shift: %w", err)
	}

	c.logger.Info().Str("shift_id", shift.ID).Str("name", shift.Name).
		Str("window", shift.Window.String()).Str("days", shift.ApplicableDays.String()).
		Msg("shift created")
	return shift, nil
}

// Update applies a patch to a shift. Days the record already owns are
// exempt from re-validation, so editing a description can never fail on
// the shift's own days; only newly added days are checked against other
// shifts sharing the resulting (name, window) identity.
func (c *Catalog) Update(ctx context.Context, id string, patch UpdateShiftPatch) (*model.WorkShift, error) {
	shift, err := c.store.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}

	identityChanged := false
	if patch.Name != nil && *patch.Name != shift.Name {
		shift.Name = *patch.Name
		identityChanged = true
	}
	if patch.Window != nil && *patch.Window != shift.Window {
		shift.Window = *patch.Window
		identityChanged = true
	}

	daysToCheck := model.WeekdaySet(0)
	if patch.Days != nil {
		daysToCheck = patch.Days.Diff(shift.ApplicableDays)
		shift.ApplicableDays = *patch.Days
	}
	if identityChanged {
		// Under a new identity every day is a fresh claim.
		daysToCheck = shift.ApplicableDays
	}
	if patch.Description != nil {
		shift.Description = *patch.Description
	}
	if patch.IsActive != nil {
		shift.IsActive = *patch.IsActive
	}

	if err := validateFields(shift.Name, shift.Window, shift.ApplicableDays); err != nil {
		return nil, err
	}

	if !daysToCheck.IsEmpty() {
		shifts, err := c.store.ListShifts(ctx)
		if err != nil {
			return nil, fmt.Errorf("list shifts: %w", err)
		}
		if err := checkDayConflict(shifts, shift.Name, shift.Window, daysToCheck, shift.ID); err != nil {
			return nil, err
		}
	}

	shift.UpdatedBy = patch.Actor
	if err := c.store.UpdateShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("update shift: %w", err)
	}
	return shift, nil
}

// RemoveDay removes one weekday from a shift. Removing the last day
// deletes the record entirely; otherwise the day set is narrowed
// without any conflict check, since removal never claims new days.
func (c *Catalog) RemoveDay(ctx context.Context, id string, day model.Weekday, actor string) error {
	if !day.Valid() {
		return model.Validationf("day", "unknown weekday %d", int(day))
	}

	shift, err := c.store.GetShift(ctx, id)
	if err != nil {
		return err
	}
	if !shift.ApplicableDays.Has(day) {
		return model.Validationf("day", "shift %s is not active on %s", id, day)
	}

	if shift.ApplicableDays.Count() == 1 {
		return c.Delete(ctx, id, actor)
	}

	shift.ApplicableDays = shift.ApplicableDays.Remove(day)
	shift.UpdatedBy = actor
	if err := c.store.UpdateShift(ctx, shift); err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	c.logger.Info().Str("shift_id", id).Str("day", day.String()).
		Str("remaining", shift.ApplicableDays.String()).Msg("shift day removed")
	return nil
}

// Delete soft-deletes a shift with all its days (bulk delete path).
func (c *Catalog) Delete(ctx context.Context, id, actor string) error {
	shift, err := c.store.GetShift(ctx, id)
	if err != nil {
		return err
	}
	shift.IsDeleted = true
	shift.UpdatedBy = actor
	if err := c.store.UpdateShift(ctx, shift); err != nil {
		return fmt.Errorf("delete shift: %w", err)
	}
	c.logger.Info().Str("shift_id", id).Msg("shift deleted")
	return nil
}

// ListActive returns all non-deleted shifts. Soft-delete and
// enabled/disabled are independent axes: consumers that care about the
// enabled state must additionally check IsActive.
func (c *Catalog) ListActive(ctx context.Context) ([]model.WorkShift, error) {
	return c.store.ListShifts(ctx)
}

func validateFields(name string, window model.Window, days model.WeekdaySet) error {
	if strings.TrimSpace(name) == "" {
		return model.Validationf("name", "must not be empty")
	}
	if !window.Valid() {
		return model.Validationf("window", "start %s must be before end %s", window.Start, window.End)
	}
	if days.IsEmpty() {
		return model.Validationf("applicable_days", "must not be empty")
	}
	return nil
}

// checkDayConflict scans non-deleted shifts sharing (name, window) and
// reports which of the requested days they already claim. excludeID
// exempts the record being edited from the scan.
func checkDayConflict(shifts []model.WorkShift, name string, window model.Window, days model.WeekdaySet, excludeID string) error {
	probe := model.WorkShift{Name: name, Window: window}
	conflictDays := model.WeekdaySet(0)
	var conflictIDs []string
	for _, s := range shifts {
		if s.ID == excludeID || s.IsDeleted {
			continue
		}
		if !s.SameIdentity(probe) {
			continue
		}
		overlap := s.ApplicableDays.Intersect(days)
		if !overlap.IsEmpty() {
			conflictDays = conflictDays.Union(overlap)
			conflictIDs = append(conflictIDs, s.ID)
		}
	}
	if conflictDays.IsEmpty() {
		return nil
	}
	return &DayConflictError{ConflictingDays: conflictDays, ConflictingShiftIDs: conflictIDs}
}
