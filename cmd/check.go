// check.go implements the "sprout check" command for bundle validation.
//
// Check runs the full parse and collision pre-check without touching the
// filesystem, so a caller can validate a bundle before committing to an
// apply. The exit code distinguishes a clean bundle from a broken one.

package cmd

import (
	"fmt"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/log"
	"github.com/jpl-au/sprout/internal/materialise"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [BUNDLE_FILE] [OUTPUT_DIRECTORY]",
	Short: "Validate a bundle without writing files",
	Long: `Parse a bundle and report every validation error, warning, and
output path collision, without writing anything.

  sprout check bundle.txt
  sprout check bundle.txt src/
  cat bundle.txt | sprout check -i -`,
	Args: cobra.MaximumNArgs(2),
	RunE: runCheck,
}

// checkResult is the JSON shape of a check report.
type checkResult struct {
	Entries    int      `json:"entries"`
	Paths      []string `json:"paths"`
	Warnings   []string `json:"warnings,omitempty"`
	Collisions []string `json:"collisions,omitempty"`
}

func runCheck(_ *cobra.Command, args []string) error {
	bundlePath, err := resolveBundle(args)
	if err != nil {
		return PrintJSONError(err)
	}
	outputDir := resolveOutput(args)

	text, err := readBundle(bundlePath)
	if err != nil {
		return PrintJSONError(err)
	}

	result, err := bundle.Parse(text)
	log.Event("cli:check", "check").Bundle(bundlePath).Output(outputDir).Write(err)
	if err != nil {
		return reportParseError(err)
	}
	printWarnings(result.Warnings)

	collisions := materialise.CheckCollisions(result.Entries, outputDir)

	if !JSON() {
		fmt.Fprintf(Out(), "Bundle OK: %d entr%s\n", len(result.Entries), plural(len(result.Entries), "y", "ies"))
		for _, e := range result.Entries {
			fmt.Fprintf(Out(), "  %s (%d bytes)\n", e.Path, len(e.Content))
		}
		if len(collisions) > 0 {
			fmt.Fprintf(Out(), "%d path(s) would be overwritten (use --force to allow):\n", len(collisions))
			for _, p := range collisions {
				fmt.Fprintf(Out(), "  %s\n", p)
			}
		}
	}
	if err := PrintJSON(checkResult{
		Entries:    len(result.Entries),
		Paths:      entryPaths(result.Entries),
		Warnings:   warningStrings(result.Warnings),
		Collisions: collisions,
	}); err != nil {
		return err
	}

	if len(collisions) > 0 && !Force() {
		return errCollision
	}
	return nil
}

func entryPaths(entries []bundle.Entry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func init() {
	checkCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Bundle file path (\"-\" for stdin)")
	checkCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory for the collision check")
	rootCmd.AddCommand(checkCmd)
}
