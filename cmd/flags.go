/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags and accessors for shared state.
//
// Separated from root.go to isolate flag definitions from command logic.
// Subcommands access these via accessor functions rather than directly
// accessing the variables.
//
// Design: -o/--output names the output *directory*, matching the
// positional contract of the root command, so machine-readable output
// is selected with --json rather than the usual -o json convention.
// The JSON() helper simplifies output format detection across all
// commands.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

var (
	inputFlag  string
	outputFlag string
	forceFlag  bool
	dryRun     bool
	jsonOut    bool
)

// out is the output writer for commands. Defaults to os.Stdout.
// Tests can replace this to capture output.
var out io.Writer = os.Stdout

// errOut is the writer for warnings and diagnostics. Defaults to
// os.Stderr so stdout stays clean for piping.
var errOut io.Writer = os.Stderr

// Out returns the output writer.
func Out() io.Writer { return out }

// ErrOut returns the diagnostic writer.
func ErrOut() io.Writer { return errOut }

// SetOut sets the output writer (for testing).
func SetOut(w io.Writer) { out = w }

// SetErrOut sets the diagnostic writer (for testing).
func SetErrOut(w io.Writer) { errOut = w }

// JSON returns true if JSON output is requested.
func JSON() bool { return jsonOut }

// Force returns the force flag value.
func Force() bool { return forceFlag }

// PrintJSON marshals v to JSON and writes it to the output writer.
// Returns nil if output format is not JSON.
func PrintJSON(v any) error {
	if !jsonOut {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Fprintln(out, string(b))
	return nil
}

// PrintJSONError prints an error in JSON format if JSON output is
// requested. Returns nil if the error was printed (suppressing Cobra's
// duplicate printing), or the original error if not.
func PrintJSONError(err error) error {
	if !jsonOut || err == nil {
		return err
	}
	// We ignore the error from PrintJSON here because if we can't print
	// the error, checking it is futile.
	_ = PrintJSON(map[string]string{"error": err.Error()})
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&forceFlag, "force", "f", false, "Skip the collision pre-check")

	rootCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Bundle file path (alternative to the positional argument, \"-\" for stdin)")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory (overrides the positional argument)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and check, write nothing")
	rootCmd.Flags().BoolVar(&diffFlag, "diff", false, "Show diffs for files that would be overwritten")
}
