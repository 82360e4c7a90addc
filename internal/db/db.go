// Package db is the sqlite persistence gateway for the scheduling
// stores. It owns the schema and maps missing rows to
// model.ErrNotFound so callers never see sql.ErrNoRows.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps sql.DB for the scheduling console.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// New opens the database at path and runs migrations.
func New(path string, logger *zerolog.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode and a busy timeout keep concurrent readers off the
	// single writer's back.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{DB: sqlDB, logger: logger}
	if err := db.createTables(); err != nil {
		return nil, err
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return db, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS work_shifts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			start_minutes INTEGER NOT NULL,
			end_minutes INTEGER NOT NULL,
			days_mask INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			is_deleted BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			updated_at DATETIME NOT NULL,
			updated_by TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			leader_id TEXT NOT NULL,
			work_type_ids TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS team_members (
			id TEXT PRIMARY KEY,
			team_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			UNIQUE(team_id, employee_id),
			FOREIGN KEY (team_id) REFERENCES teams(id)
		)`,

		`CREATE TABLE IF NOT EXISTS team_work_shifts (
			id TEXT PRIMARY KEY,
			team_id TEXT NOT NULL,
			work_shift_id TEXT NOT NULL,
			FOREIGN KEY (team_id) REFERENCES teams(id),
			FOREIGN KEY (work_shift_id) REFERENCES work_shifts(id)
		)`,

		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_work_shifts_live ON work_shifts(is_deleted, name)`,
		`CREATE INDEX IF NOT EXISTS idx_team_members_team ON team_members(team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_team_work_shifts_team ON team_work_shifts(team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_team_work_shifts_shift ON team_work_shifts(work_shift_id)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
