package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/google/uuid"
)

const shiftColumns = `id, name, start_minutes, end_minutes, days_mask, description,
	is_active, is_deleted, created_at, created_by, updated_at, updated_by`

// ListShifts returns all non-deleted shifts.
func (db *DB) ListShifts(ctx context.Context) ([]model.WorkShift, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+shiftColumns+`
		FROM work_shifts
		WHERE is_deleted = 0
		ORDER BY name, start_minutes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []model.WorkShift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *s)
	}
	return shifts, rows.Err()
}

// GetShift returns one non-deleted shift by id.
func (db *DB) GetShift(ctx context.Context, id string) (*model.WorkShift, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+shiftColumns+`
		FROM work_shifts
		WHERE id = ? AND is_deleted = 0`, id)
	s, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("shift %s: %w", id, model.ErrNotFound)
	}
	return s, err
}

// CreateShift inserts a shift, assigning its id and audit stamps.
func (db *DB) CreateShift(ctx context.Context, shift *model.WorkShift) error {
	shift.ID = uuid.NewString()
	now := time.Now()
	shift.CreatedAt = now
	shift.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
		INSERT INTO work_shifts (`+shiftColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shift.ID, shift.Name, int(shift.Window.Start), int(shift.Window.End),
		int(shift.ApplicableDays), shift.Description, shift.IsActive, shift.IsDeleted,
		shift.CreatedAt, shift.CreatedBy, shift.UpdatedAt, shift.UpdatedBy,
	)
	return err
}

// UpdateShift saves all mutable shift fields, refreshing updated_at.
func (db *DB) UpdateShift(ctx context.Context, shift *model.WorkShift) error {
	shift.UpdatedAt = time.Now()
	res, err := db.ExecContext(ctx, `
		UPDATE work_shifts
		SET name = ?, start_minutes = ?, end_minutes = ?, days_mask = ?,
		    description = ?, is_active = ?, is_deleted = ?, updated_at = ?, updated_by = ?
		WHERE id = ?`,
		shift.Name, int(shift.Window.Start), int(shift.Window.End),
		int(shift.ApplicableDays), shift.Description, shift.IsActive, shift.IsDeleted,
		shift.UpdatedAt, shift.UpdatedBy, shift.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("shift %s: %w", shift.ID, model.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShift(row rowScanner) (*model.WorkShift, error) {
	var s model.WorkShift
	var start, end, mask int
	err := row.Scan(
		&s.ID, &s.Name, &start, &end, &mask, &s.Description,
		&s.IsActive, &s.IsDeleted, &s.CreatedAt, &s.CreatedBy, &s.UpdatedAt, &s.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	s.Window = model.Window{Start: model.TimeOfDay(start), End: model.TimeOfDay(end)}
	s.ApplicableDays = model.WeekdaySet(mask)
	return &s, nil
}
