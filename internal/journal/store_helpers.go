package journal

import (
	"database/sql"
	"errors"
	"time"
)

const runColumns = "id, run_id, input_root, output_root, mode, policy, dry_run, started_at, finished_at, status, processed, skipped, duplicates, failures, error_message"

const entryColumns = "id, run_id, source_path, destination_path, outcome, detail, content_hash, recorded_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id           int64
		runID        string
		inputRoot    string
		outputRoot   string
		mode         string
		policy       string
		dryRun       sql.NullInt64
		startedRaw   sql.NullString
		finishedRaw  sql.NullString
		status       string
		processed    sql.NullInt64
		skipped      sql.NullInt64
		duplicates   sql.NullInt64
		failures     sql.NullInt64
		errorMessage sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&inputRoot,
		&outputRoot,
		&mode,
		&policy,
		&dryRun,
		&startedRaw,
		&finishedRaw,
		&status,
		&processed,
		&skipped,
		&duplicates,
		&failures,
		&errorMessage,
	); err != nil {
		return nil, err
	}

	run := &Run{
		ID:           id,
		RunID:        runID,
		InputRoot:    inputRoot,
		OutputRoot:   outputRoot,
		Mode:         Mode(mode),
		Policy:       policy,
		Status:       RunStatus(status),
		Processed:    int(processed.Int64),
		Skipped:      int(skipped.Int64),
		Duplicates:   int(duplicates.Int64),
		Failures:     int(failures.Int64),
		ErrorMessage: errorMessage.String,
	}
	if dryRun.Valid {
		run.DryRun = dryRun.Int64 != 0
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		id          int64
		runID       string
		sourcePath  string
		destination sql.NullString
		outcome     string
		detail      sql.NullString
		contentHash sql.NullString
		recordedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&sourcePath,
		&destination,
		&outcome,
		&detail,
		&contentHash,
		&recordedRaw,
	); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:              id,
		RunID:           runID,
		SourcePath:      sourcePath,
		DestinationPath: destination.String,
		Outcome:         Outcome(outcome),
		Detail:          detail.String,
		ContentHash:     contentHash.String,
	}
	if recorded, err := parseTimeString(recordedRaw.String); err == nil {
		entry.RecordedAt = recorded
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
