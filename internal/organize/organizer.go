package organize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"shoebox/internal/config"
	"shoebox/internal/journal"
	"shoebox/internal/logging"
	"shoebox/internal/metadata"
	"shoebox/internal/notifications"
	"shoebox/internal/runlock"
	"shoebox/internal/services"
)

// Request describes one organizer invocation.
type Request struct {
	InputDir  string
	OutputDir string
	Copy      bool
	DryRun    bool
	Cleanup   bool
	Policy    Policy // empty selects the configured default
}

// ProcessedEntry records a single planned or performed relocation.
type ProcessedEntry struct {
	Source      string
	Destination string
}

// Summary aggregates the outcome of a run.
type Summary struct {
	RunID             string
	InputDir          string
	OutputDir         string
	Entries           []ProcessedEntry
	Processed         int
	Unsupported       int
	NoMetadata        int
	DuplicatesSkipped int
	DuplicatesDeleted int
	Rerouted          int
	Failures          int
	CleanedDirs       int
	DryRun            bool
	Duration          time.Duration
}

// Organizer relocates media files into the date-based library layout.
type Organizer struct {
	cfg       *config.Config
	logger    *slog.Logger
	extractor metadata.Extractor
	journal   *journal.Store
	notifier  notifications.Service
}

// NewOrganizer constructs an organizer using default dependencies.
func NewOrganizer(cfg *config.Config, store *journal.Store, logger *slog.Logger) *Organizer {
	return NewOrganizerWithDependencies(cfg, store, logger, metadata.New(), notifications.NewService(cfg))
}

// NewOrganizerWithDependencies allows injecting collaborators (used in tests).
func NewOrganizerWithDependencies(cfg *config.Config, store *journal.Store, logger *slog.Logger, extractor metadata.Extractor, notifier notifications.Service) *Organizer {
	return &Organizer{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "organizer"),
		extractor: extractor,
		journal:   store,
		notifier:  notifier,
	}
}

// pass carries the state of one run between the walk and per-file steps.
type pass struct {
	logger   *slog.Logger
	run      *journal.Run
	summary  *Summary
	input    string
	output   string
	policy   Policy
	copyMode bool
	dryRun   bool
}

// Run organizes the input tree described by req and reports what happened.
// The run lock for the input tree is held for the duration; a second run over
// the same tree fails immediately with services.ErrLocked.
func (o *Organizer) Run(ctx context.Context, req Request) (*Summary, error) {
	logger := logging.WithContext(ctx, o.logger)

	input, output, policy, err := o.validateRequest(req)
	if err != nil {
		return nil, err
	}

	lock := runlock.New(o.cfg.Paths.LockDir, input)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithInputRoot(ctx, input)
	logger = logging.WithContext(ctx, o.logger)

	mode := journal.ModeMove
	if req.Copy {
		mode = journal.ModeCopy
	}

	summary := &Summary{
		RunID:     runID,
		InputDir:  input,
		OutputDir: output,
		DryRun:    req.DryRun,
	}
	start := time.Now()

	var run *journal.Run
	if o.journal != nil {
		run, err = o.journal.StartRun(ctx, &journal.Run{
			RunID:      runID,
			InputRoot:  input,
			OutputRoot: output,
			Mode:       mode,
			Policy:     string(policy),
			DryRun:     req.DryRun,
		})
		if err != nil {
			logger.Warn("journal start failed", logging.Error(err))
			run = nil
		}
	}

	logger.Info("run started",
		logging.String("input", input),
		logging.String("output", output),
		logging.String("mode", string(mode)),
		logging.String("policy", string(policy)),
		logging.Bool("dry_run", req.DryRun),
	)
	if req.DryRun {
		logger.Warn("dry run cannot detect duplicates among files it would have relocated")
	}

	p := &pass{
		logger:   logger,
		run:      run,
		summary:  summary,
		input:    input,
		output:   output,
		policy:   policy,
		copyMode: req.Copy,
		dryRun:   req.DryRun,
	}
	walkErr := o.walkInput(ctx, p)

	if walkErr == nil && req.Cleanup {
		if req.DryRun {
			logger.Debug("dry run, skipping empty directory cleanup")
		} else {
			summary.CleanedDirs = o.cleanupEmptyDirs(ctx, logger, input)
		}
	}

	summary.Duration = time.Since(start)

	if run != nil {
		run.Processed = summary.Processed
		run.Skipped = summary.Unsupported
		run.Duplicates = summary.DuplicatesSkipped + summary.DuplicatesDeleted + summary.Rerouted
		run.Failures = summary.Failures
		run.Status = journal.RunStatusCompleted
		if walkErr != nil {
			run.Status = journal.RunStatusFailed
			run.ErrorMessage = walkErr.Error()
		}
		if err := o.journal.FinishRun(ctx, run); err != nil {
			logger.Warn("journal finish failed", logging.Error(err))
		}
	}

	if walkErr != nil {
		if !errors.Is(walkErr, context.Canceled) {
			o.notifyRunFailed(ctx, logger, input, walkErr)
		}
		return nil, walkErr
	}

	logger.Info("run completed",
		logging.Int("processed", summary.Processed),
		logging.Int("unsupported", summary.Unsupported),
		logging.Int("no_metadata", summary.NoMetadata),
		logging.Int("duplicates_skipped", summary.DuplicatesSkipped),
		logging.Int("duplicates_deleted", summary.DuplicatesDeleted),
		logging.Int("rerouted", summary.Rerouted),
		logging.Int("failures", summary.Failures),
		logging.Int("cleaned_dirs", summary.CleanedDirs),
		logging.Duration("duration", summary.Duration),
	)
	o.notifyRunCompleted(ctx, logger, summary)

	return summary, nil
}

func (o *Organizer) validateRequest(req Request) (string, string, Policy, error) {
	if o.cfg == nil {
		return "", "", "", services.Wrap(services.ErrConfiguration, "organize", "validate request", "configuration unavailable", nil)
	}
	input := strings.TrimSpace(req.InputDir)
	if input == "" {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "validate request", "input directory is required", nil)
	}
	output := strings.TrimSpace(req.OutputDir)
	if output == "" {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "validate request", "output directory is required", nil)
	}

	input, err := filepath.Abs(input)
	if err != nil {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "resolve input path", "", err)
	}
	output, err = filepath.Abs(output)
	if err != nil {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "resolve output path", "", err)
	}

	info, err := os.Stat(input)
	if err != nil {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "validate request", fmt.Sprintf("input directory %s is not accessible", input), err)
	}
	if !info.IsDir() {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "validate request", fmt.Sprintf("input path %s is not a directory", input), nil)
	}
	if input == output {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "validate request", "output directory must differ from input directory", nil)
	}

	raw := string(req.Policy)
	if strings.TrimSpace(raw) == "" {
		raw = o.cfg.Organizer.DuplicatePolicy
	}
	policy, err := ParsePolicy(raw)
	if err != nil {
		return "", "", "", services.Wrap(services.ErrValidation, "organize", "validate request", err.Error(), nil)
	}

	return input, output, policy, nil
}

func (o *Organizer) notifyRunCompleted(ctx context.Context, logger *slog.Logger, summary *Summary) {
	if o.notifier == nil {
		return
	}
	err := o.notifier.NotifyRunCompleted(ctx, notifications.RunSummary{
		InputRoot:  summary.InputDir,
		OutputRoot: summary.OutputDir,
		Processed:  summary.Processed,
		Duplicates: summary.DuplicatesSkipped + summary.DuplicatesDeleted + summary.Rerouted,
		Failures:   summary.Failures,
		DryRun:     summary.DryRun,
		Duration:   summary.Duration,
	})
	if err != nil {
		logger.Warn("run notification failed", logging.Error(err))
	}
}

func (o *Organizer) notifyRunFailed(ctx context.Context, logger *slog.Logger, input string, runErr error) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.NotifyRunFailed(ctx, input, runErr); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}
}
