package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MichalMlada/ETL-spacex/internal/loader"
)

// ErrRunNotFound reports a run id with no row behind it.
var ErrRunNotFound = errors.New("run not found")

// CreateRun records the start of a pipeline run.
func (s *Store) CreateRun(trigger string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:        generateID(),
		Trigger:   trigger,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating run", slog.String("id", run.ID), slog.String("trigger", trigger))

	_, err := s.db.Exec(
		`INSERT INTO runs (id, triggered_by, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Trigger, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run finished with the given status.
func (s *Store) CompleteRun(id string, status RunStatus, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errPtr *string
	if errMsg != "" {
		errPtr = &errMsg
	}

	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(status), now, errPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// SaveDatasetRun persists one dataset's load report under a run,
// including its per-record failures.
func (s *Store) SaveDatasetRun(runID, dataset string, report *loader.Report, loadErr error) (*DatasetRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	dr := &DatasetRun{
		ID:         generateID(),
		RunID:      runID,
		Dataset:    dataset,
		Table:      report.Table,
		Processed:  report.Processed,
		Skipped:    report.Skipped,
		Failed:     report.Failed,
		DurationMS: report.Duration.Milliseconds(),
		Status:     RunStatusCompleted,
	}
	if loadErr != nil {
		dr.Status = RunStatusFailed
		dr.Error = loadErr.Error()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var errPtr *string
	if dr.Error != "" {
		errPtr = &dr.Error
	}
	_, err = tx.Exec(
		`INSERT INTO dataset_runs (id, run_id, dataset, table_name, processed, skipped, failed, duration_ms, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		dr.ID, dr.RunID, dr.Dataset, dr.Table, dr.Processed, dr.Skipped, dr.Failed, dr.DurationMS, string(dr.Status), errPtr,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save dataset run: %w", err)
	}

	for _, f := range report.Failures {
		rf := RecordFailure{
			ID:           generateID(),
			DatasetRunID: dr.ID,
			Table:        f.Table,
			RecordID:     f.RecordID,
			Reason:       f.Reason,
		}
		if _, err := tx.Exec(
			`INSERT INTO record_failures (id, dataset_run_id, table_name, record_id, reason) VALUES (?, ?, ?, ?, ?)`,
			rf.ID, rf.DatasetRunID, rf.Table, rf.RecordID, rf.Reason,
		); err != nil {
			return nil, fmt.Errorf("failed to save record failure: %w", err)
		}
		dr.Failures = append(dr.Failures, rf)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit dataset run: %w", err)
	}
	return dr, nil
}

// GetRun retrieves a run with its dataset runs and their failures.
func (s *Store) GetRun(id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{}
	var (
		status      string
		completedAt sql.NullTime
		errMsg      sql.NullString
	)
	err := s.db.QueryRow(
		`SELECT id, triggered_by, status, started_at, completed_at, error FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.Trigger, &status, &run.StartedAt, &completedAt, &errMsg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Status = RunStatus(status)
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	run.Error = errMsg.String

	datasets, err := s.datasetRuns(id)
	if err != nil {
		return nil, err
	}
	run.Datasets = datasets
	return run, nil
}

// ListRuns returns the most recent runs, newest first, without children.
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, triggered_by, status, started_at, completed_at, error FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var (
			status      string
			completedAt sql.NullTime
			errMsg      sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Trigger, &status, &run.StartedAt, &completedAt, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Status = RunStatus(status)
		if completedAt.Valid {
			t := completedAt.Time
			run.CompletedAt = &t
		}
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) datasetRuns(runID string) ([]DatasetRun, error) {
	rows, err := s.db.Query(
		`SELECT id, run_id, dataset, table_name, processed, skipped, failed, duration_ms, status, error
		 FROM dataset_runs WHERE run_id = ? ORDER BY dataset`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []DatasetRun
	for rows.Next() {
		var (
			dr     DatasetRun
			status string
			errMsg sql.NullString
		)
		if err := rows.Scan(&dr.ID, &dr.RunID, &dr.Dataset, &dr.Table, &dr.Processed, &dr.Skipped,
			&dr.Failed, &dr.DurationMS, &status, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan dataset run: %w", err)
		}
		dr.Status = RunStatus(status)
		dr.Error = errMsg.String
		out = append(out, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dataset runs: %w", err)
	}

	for i := range out {
		failures, err := s.recordFailures(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Failures = failures
	}
	return out, nil
}

func (s *Store) recordFailures(datasetRunID string) ([]RecordFailure, error) {
	rows, err := s.db.Query(
		`SELECT id, dataset_run_id, table_name, record_id, reason FROM record_failures WHERE dataset_run_id = ?`,
		datasetRunID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list record failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RecordFailure
	for rows.Next() {
		var (
			rf       RecordFailure
			recordID sql.NullString
		)
		if err := rows.Scan(&rf.ID, &rf.DatasetRunID, &rf.Table, &recordID, &rf.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan record failure: %w", err)
		}
		rf.RecordID = recordID.String
		out = append(out, rf)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate record failures: %w", err)
	}
	return out, nil
}
