package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// StartRun inserts a new run in the running state and returns the stored row.
func (s *Store) StartRun(ctx context.Context, run *Run) (*Run, error) {
	if run == nil {
		return nil, errors.New("run is nil")
	}
	if strings.TrimSpace(run.RunID) == "" {
		return nil, errors.New("run id is required")
	}

	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (
            run_id, input_root, output_root, mode, policy, dry_run,
            started_at, status
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.InputRoot,
		run.OutputRoot,
		string(run.Mode),
		run.Policy,
		boolToInt(run.DryRun),
		startedAt.UTC().Format(time.RFC3339Nano),
		RunStatusRunning,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return s.RunByID(ctx, run.RunID)
}

// FinishRun records the terminal status and counters for a run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	if run.Status == RunStatusRunning || run.Status == "" {
		run.Status = RunStatusCompleted
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE runs
         SET finished_at = ?, status = ?, processed = ?, skipped = ?,
             duplicates = ?, failures = ?, error_message = ?
         WHERE run_id = ?`,
		finished.Format(time.RFC3339Nano),
		run.Status,
		run.Processed,
		run.Skipped,
		run.Duplicates,
		run.Failures,
		nullableString(run.ErrorMessage),
		run.RunID,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordEntry appends one per-file decision to a run.
func (s *Store) RecordEntry(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	if strings.TrimSpace(entry.RunID) == "" {
		return errors.New("entry run id is required")
	}
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	if err := s.execWithoutResultRetry(
		ctx,
		`INSERT INTO entries (
            run_id, source_path, destination_path, outcome, detail,
            content_hash, recorded_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.SourcePath,
		nullableString(entry.DestinationPath),
		string(entry.Outcome),
		nullableString(entry.Detail),
		nullableString(entry.ContentHash),
		recordedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("record entry: %w", err)
	}
	return nil
}

// RunByID fetches a run by its identifier.
func (s *Store) RunByID(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// RecentRuns returns the most recently started runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunEntries returns the per-file decisions of a run in recorded order.
func (s *Store) RunEntries(ctx context.Context, runID string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM entries WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Prune removes finished runs that started before the retention window,
// together with their entries. A non-positive retention disables pruning.
func (s *Store) Prune(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	ctx = ensureContext(ctx)
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM entries WHERE run_id IN (SELECT run_id FROM runs WHERE started_at < ? AND status != ?)`,
		cutoff,
		RunStatusRunning,
	); err != nil {
		return 0, fmt.Errorf("prune entries: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ? AND status != ?`, cutoff, RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}
	return removed, nil
}
