package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/liftboard/internal/importer"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <file-or-dir>",
	Short: "Create schedules from TOML programs or exported schedule JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		stats, err := importer.New(client, log, defaultReps, importDryRun).Import(commandContext(cmd), args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		title := "IMPORT"
		if importDryRun {
			title = "IMPORT (dry run)"
		}
		printBoxedHeader(out, title)
		printMetric(out, "Files processed", stats.FilesProcessed)
		printMetric(out, "Files skipped", stats.FilesSkipped)
		printMetric(out, "Files with errors", stats.FilesErrored)
		printMetric(out, "Schedules created", stats.SchedulesCreated)
		printMetric(out, "Duplicates skipped", stats.SchedulesDuplicated)
		printMetric(out, "Sets imported", stats.SetsImported)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse and count without creating schedules")
	rootCmd.AddCommand(importCmd)
}
