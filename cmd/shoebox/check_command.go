package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shoebox/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [INPUT_DIR [OUTPUT_DIR]]",
		Short: "Verify the environment before organizing",
		Long: `Check that the configured directories, journal database, and notification
endpoint are usable. With INPUT_DIR and OUTPUT_DIR arguments the planned run
is checked too: input access, output writability, and lock availability.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var inputDir, outputDir string
			if len(args) > 0 {
				inputDir = args[0]
			}
			if len(args) > 1 {
				outputDir = args[1]
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}

			results := preflight.RunAll(cmd.Context(), cfg, inputDir, outputDir)
			failed := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			fmt.Fprintf(out, "\nAll %d checks passed\n", len(results))
			return nil
		},
	}
}
