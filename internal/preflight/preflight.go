package preflight

import (
	"context"

	"shoebox/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Input and output checks run only when the corresponding path is provided,
// so the command works both with and without a planned run.
func RunAll(ctx context.Context, cfg *config.Config, inputDir, outputDir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Working directories (always checked)
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("Lock directory", cfg.Paths.LockDir))

	// Journal database
	if cfg.Journal.Enabled {
		results = append(results, CheckJournal(cfg))
	}

	// Notifications endpoint
	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNotifications(ctx, cfg))
	}

	// Planned run
	if inputDir != "" {
		results = append(results, CheckDirectoryAccess("Input directory", inputDir))
		results = append(results, CheckLockAvailable(cfg, inputDir))
	}
	if outputDir != "" {
		results = append(results, CheckOutputWritable("Output directory", outputDir))
	}

	return results
}
