package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/conflict"
	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"
)

// GetEmployee resolves an employee id for display and conflict
// annotation.
func (db *DB) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	err := db.QueryRowContext(ctx, `
		SELECT id, full_name, role
		FROM employees
		WHERE id = ?`, id,
	).Scan(&e.ID, &e.FullName, &e.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("employee %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpsertEmployee creates or refreshes a directory entry.
func (db *DB) UpsertEmployee(ctx context.Context, e *model.Employee) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO employees (id, full_name, role)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			role = excluded.role`,
		e.ID, e.FullName, e.Role,
	)
	return err
}

// Snapshot reads a consistent view of the staffing stores for
// conflict detection. The reads run inside one transaction so the
// team/shift join sets are never torn.
func (db *DB) Snapshot(ctx context.Context) (conflict.Snapshot, error) {
	var snap conflict.Snapshot

	tx, err := db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return snap, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	shiftRows, err := tx.QueryContext(ctx, `
		SELECT `+shiftColumns+`
		FROM work_shifts
		WHERE is_deleted = 0`)
	if err != nil {
		return snap, fmt.Errorf("snapshot shifts: %w", err)
	}
	for shiftRows.Next() {
		s, err := scanShift(shiftRows)
		if err != nil {
			shiftRows.Close()
			return snap, err
		}
		snap.Shifts = append(snap.Shifts, *s)
	}
	if err := shiftRows.Err(); err != nil {
		return snap, err
	}
	shiftRows.Close()

	teamRows, err := tx.QueryContext(ctx, `
		SELECT id, name, description, leader_id, work_type_ids, status, is_active, created_at, updated_at
		FROM teams`)
	if err != nil {
		return snap, fmt.Errorf("snapshot teams: %w", err)
	}
	for teamRows.Next() {
		t, err := scanTeam(teamRows)
		if err != nil {
			teamRows.Close()
			return snap, err
		}
		snap.Teams = append(snap.Teams, *t)
	}
	if err := teamRows.Err(); err != nil {
		return snap, err
	}
	teamRows.Close()

	memberRows, err := tx.QueryContext(ctx, `
		SELECT id, team_id, employee_id, is_active
		FROM team_members`)
	if err != nil {
		return snap, fmt.Errorf("snapshot members: %w", err)
	}
	for memberRows.Next() {
		var m model.TeamMember
		if err := memberRows.Scan(&m.ID, &m.TeamID, &m.EmployeeID, &m.IsActive); err != nil {
			memberRows.Close()
			return snap, err
		}
		snap.Members = append(snap.Members, m)
	}
	if err := memberRows.Err(); err != nil {
		return snap, err
	}
	memberRows.Close()

	linkRows, err := tx.QueryContext(ctx, `
		SELECT id, team_id, work_shift_id
		FROM team_work_shifts`)
	if err != nil {
		return snap, fmt.Errorf("snapshot links: %w", err)
	}
	for linkRows.Next() {
		var l model.TeamWorkShift
		if err := linkRows.Scan(&l.ID, &l.TeamID, &l.WorkShiftID); err != nil {
			linkRows.Close()
			return snap, err
		}
		snap.Links = append(snap.Links, l)
	}
	if err := linkRows.Err(); err != nil {
		return snap, err
	}
	linkRows.Close()

	return snap, nil
}
