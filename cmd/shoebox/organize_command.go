package main

import (
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shoebox/internal/journal"
	"shoebox/internal/logging"
	"shoebox/internal/organize"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var copyMode bool
	var dryRun bool
	var skipDuplicates bool
	var deleteDuplicates bool
	var cleanup bool

	cmd := &cobra.Command{
		Use:   "organize INPUT_DIR OUTPUT_DIR",
		Short: "Relocate media files into the dated library layout",
		Long: `Walk INPUT_DIR, extract capture timestamps from media files, and relocate
each file into OUTPUT_DIR/<year>/<month>/<timestamp>_<hash><ext>. Files
without usable metadata land in the fallback bucket. Files whose destination
already holds identical content follow the duplicate policy.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			var store *journal.Store
			if cfg.Journal.Enabled {
				store, err = journal.Open(cfg)
				if err != nil {
					logger.Warn("journal unavailable, run will not be recorded", logging.Error(err))
					store = nil
				} else {
					defer store.Close()
				}
			}

			var policy organize.Policy
			switch {
			case skipDuplicates:
				policy = organize.PolicySkip
			case deleteDuplicates:
				policy = organize.PolicyDelete
			}

			organizer := organize.NewOrganizer(cfg, store, logger)
			summary, err := organizer.Run(runCtx, organize.Request{
				InputDir:  args[0],
				OutputDir: args[1],
				Copy:      copyMode,
				DryRun:    dryRun,
				Cleanup:   cleanup,
				Policy:    policy,
			})
			if err != nil {
				return err
			}

			printRunSummary(cmd.OutOrStdout(), summary)

			if store != nil {
				if _, err := store.Prune(runCtx, cfg.Journal.RetentionDays); err != nil {
					logger.Warn("journal prune failed", logging.Error(err))
				}
			}
			logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
				Dir:     cfg.Paths.LogDir,
				Pattern: "*.log",
				Exclude: []string{filepath.Join(cfg.Paths.LogDir, logging.LogFileName)},
			})
			return nil
		},
	}

	cmd.Flags().BoolVarP(&copyMode, "copy", "C", false, "Copy files instead of moving them")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log decisions without touching any files")
	cmd.Flags().BoolVar(&skipDuplicates, "skip-duplicates", false, "Leave duplicate sources in place")
	cmd.Flags().BoolVar(&deleteDuplicates, "delete-duplicates", false, "Delete duplicate sources")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "Remove directories the run emptied")
	cmd.MarkFlagsMutuallyExclusive("skip-duplicates", "delete-duplicates")

	return cmd
}

func printRunSummary(out io.Writer, summary *organize.Summary) {
	if summary.DryRun {
		fmt.Fprintln(out, "Dry run: no files were modified")
	}

	rows := [][]string{
		{"Processed", strconv.Itoa(summary.Processed)},
		{"Rerouted duplicates", strconv.Itoa(summary.Rerouted)},
		{"Skipped duplicates", strconv.Itoa(summary.DuplicatesSkipped)},
		{"Deleted duplicates", strconv.Itoa(summary.DuplicatesDeleted)},
		{"No metadata", strconv.Itoa(summary.NoMetadata)},
		{"Unsupported", strconv.Itoa(summary.Unsupported)},
		{"Failures", strconv.Itoa(summary.Failures)},
	}
	if summary.CleanedDirs > 0 {
		rows = append(rows, []string{"Removed empty dirs", strconv.Itoa(summary.CleanedDirs)})
	}

	table := renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
	fmt.Fprintln(out, table)
	fmt.Fprintf(out, "Run %s finished in %s\n", summary.RunID, summary.Duration.Round(time.Millisecond))
}
