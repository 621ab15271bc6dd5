// diff.go implements the "sprout diff" command.
//
// Diff compares each bundle entry against its target under the output
// directory and shows what an apply would change. New files and
// unchanged files are summarised; differing files get a unified-style
// inline diff with unchanged regions collapsed.

package cmd

import (
	"fmt"
	"os"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/diff"
	"github.com/jpl-au/sprout/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var diffCmd = &cobra.Command{
	Use:   "diff [BUNDLE_FILE] [OUTPUT_DIRECTORY]",
	Short: "Show what applying a bundle would change",
	Long: `Compare bundle entries against the files currently under the output
directory.

  sprout diff bundle.txt
  sprout diff bundle.txt src/`,
	Args: cobra.MaximumNArgs(2),
	RunE: runDiff,
}

type diffSummary struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Diff   string `json:"diff,omitempty"`
}

func runDiff(_ *cobra.Command, args []string) error {
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
	log.Event("cli:diff", "diff").Bundle(bundlePath).Output(outputDir).Write(err)
	if err != nil {
		return reportParseError(err)
	}
	printWarnings(result.Warnings)

	previews, err := diff.Entries(result.Entries, outputDir)
	if err != nil {
		return PrintJSONError(err)
	}

	if JSON() {
		summaries := make([]diffSummary, len(previews))
		for i, p := range previews {
			summaries[i] = diffSummary{Path: p.Path, Status: previewStatus(p), Diff: p.Diff}
		}
		return PrintJSON(summaries)
	}

	colour := term.IsTerminal(int(os.Stdout.Fd()))
	for _, p := range previews {
		fmt.Fprint(Out(), p.Format(colour))
	}
	return nil
}

func previewStatus(p diff.Preview) string {
	switch {
	case p.New:
		return "new"
	case p.Same:
		return "unchanged"
	default:
		return "modified"
	}
}

func init() {
	diffCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Bundle file path (\"-\" for stdin)")
	diffCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory to compare against")
	rootCmd.AddCommand(diffCmd)
}
