package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shoebox/internal/journal"
	"shoebox/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "Show recent runs or the file decisions of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Journal.Enabled {
				return services.Wrap(services.ErrConfiguration, "journal", "history",
					"journal is disabled; enable it in the [journal] config section to record run history", nil)
			}

			store, err := journal.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return printRunEntries(cmd, store, strings.TrimSpace(args[0]))
			}
			return printRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")
	return cmd
}

func printRecentRuns(cmd *cobra.Command, store *journal.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		mode := string(run.Mode)
		if run.DryRun {
			mode += " (dry run)"
		}
		rows = append(rows, []string{
			run.RunID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(run.Status),
			mode,
			strconv.Itoa(run.Processed),
			strconv.Itoa(run.Duplicates),
			strconv.Itoa(run.Failures),
		})
	}

	table := renderTable(
		[]string{"Run", "Started", "Status", "Mode", "Processed", "Duplicates", "Failures"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	)
	fmt.Fprintln(out, table)
	return nil
}

func printRunEntries(cmd *cobra.Command, store *journal.Store, runID string) error {
	run, err := store.RunByID(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if run == nil {
		return services.Wrap(services.ErrNotFound, "journal", "history", fmt.Sprintf("run %s is not recorded", runID), nil)
	}
	entries, err := store.RunEntries(cmd.Context(), runID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s) organized %s into %s\n", run.RunID, run.Status, run.InputRoot, run.OutputRoot)
	if run.ErrorMessage != "" {
		fmt.Fprintf(out, "Error: %s\n", run.ErrorMessage)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No file decisions recorded")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		detail := entry.DestinationPath
		if entry.Outcome == journal.OutcomeFailed {
			detail = entry.Detail
		}
		rows = append(rows, []string{string(entry.Outcome), entry.SourcePath, detail})
	}

	table := renderTable(
		[]string{"Outcome", "Source", "Destination"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	)
	fmt.Fprintln(out, table)
	return nil
}
