// log.go implements the "sprout log" command for viewing the audit log.

package cmd

import (
	"fmt"
	"time"

	"github.com/jpl-au/sprout/internal/log"
	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent sprout operations for this project",
	Long: `Show recent operations recorded in the audit log
(~/.sprout/log/sprout-log.db), scoped to the current project directory.

  sprout log
  sprout log -n 50`,
	Args: cobra.NoArgs,
	RunE: runLog,
}

func runLog(_ *cobra.Command, _ []string) error {
	entries, err := log.Recent(logLimit)
	if err != nil {
		return PrintJSONError(fmt.Errorf("read audit log: %w", err))
	}

	if JSON() {
		return PrintJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(Out(), "No logged operations for this project.")
		return nil
	}
	for _, e := range entries {
		status := "ok"
		if !e.Success {
			status = "FAILED"
		}
		ts := time.Unix(e.Start, 0).Format("2006-01-02 15:04:05")
		fmt.Fprintf(Out(), "%s  %-10s %-6s", ts, e.Source, status)
		if e.Bundle != "" {
			fmt.Fprintf(Out(), "  %s", e.Bundle)
		}
		if e.Output != "" {
			fmt.Fprintf(Out(), " -> %s", e.Output)
		}
		if e.Files > 0 {
			fmt.Fprintf(Out(), " (%d files)", e.Files)
		}
		if e.Error != "" {
			fmt.Fprintf(Out(), "  %s", e.Error)
		}
		fmt.Fprintln(Out())
	}
	return nil
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Maximum number of entries to show")
	rootCmd.AddCommand(logCmd)
}
