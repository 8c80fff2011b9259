// Package state persists run history in SQLite: one row per pipeline
// run, one per dataset loaded within it, one per rejected record.
package state

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // sqlite driver
)

// RunStatus tracks the lifecycle of a run or dataset run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Triggers record what started a run.
const (
	TriggerManual   = "manual"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
)

// Run is one invocation of the load pipeline.
type Run struct {
	ID          string
	Trigger     string // manual, schedule, or watch
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
	Datasets    []DatasetRun
}

// DatasetRun is the recorded outcome of loading one dataset in a run.
type DatasetRun struct {
	ID         string
	RunID      string
	Dataset    string
	Table      string
	Processed  int
	Skipped    int
	Failed     int
	DurationMS int64
	Status     RunStatus
	Error      string
	Failures   []RecordFailure
}

// RecordFailure is one rejected record, kept for debugging.
type RecordFailure struct {
	ID           string
	DatasetRunID string
	Table        string
	RecordID     string
	Reason       string
}

// Store wraps the history database. Safe for use from one process; the
// pool is confined to a single connection like every SQLite writer here.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the history database at path and
// applies pending migrations. Use ":memory:" for tests.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping state database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("state store opened", slog.String("path", path))
	return s, nil
}

// Close closes the history database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}
