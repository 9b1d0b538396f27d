package journal

import (
	"time"
)

// RunStatus represents the lifecycle of a recorded run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Mode records whether a run relocated files by moving or copying.
type Mode string

const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// Outcome classifies what happened to a single file during a run.
type Outcome string

const (
	OutcomeMoved            Outcome = "moved"
	OutcomeCopied           Outcome = "copied"
	OutcomeRerouted         Outcome = "rerouted"
	OutcomeDuplicateSkipped Outcome = "duplicate_skipped"
	OutcomeDuplicateDeleted Outcome = "duplicate_deleted"
	OutcomeFailed           Outcome = "failed"
)

// Run represents one organizer invocation persisted in SQLite.
type Run struct {
	ID           int64
	RunID        string
	InputRoot    string
	OutputRoot   string
	Mode         Mode
	Policy       string
	DryRun       bool
	StartedAt    time.Time
	FinishedAt   *time.Time
	Status       RunStatus
	Processed    int
	Skipped      int
	Duplicates   int
	Failures     int
	ErrorMessage string
}

// Entry represents one per-file decision recorded under a run.
type Entry struct {
	ID              int64
	RunID           string
	SourcePath      string
	DestinationPath string
	Outcome         Outcome
	Detail          string
	ContentHash     string
	RecordedAt      time.Time
}

// Finished reports whether the run reached a terminal status.
func (r Run) Finished() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// Duration returns the wall time between start and finish, or zero while the
// run is still open.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
