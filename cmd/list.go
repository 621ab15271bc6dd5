// list.go implements the "sprout list" command.
//
// List prints the manifest of a bundle: each entry path with its content
// size, in bundle order. Useful for a quick look at what an apply would
// produce without running the collision check.

package cmd

import (
	"fmt"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/log"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [BUNDLE_FILE]",
	Short: "List the files in a bundle",
	Long: `Print each file path in a bundle together with its content size.

  sprout list bundle.txt
  cat bundle.txt | sprout list -i -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

type listEntry struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

func runList(_ *cobra.Command, args []string) error {
	bundlePath, err := resolveBundle(args)
	if err != nil {
		return PrintJSONError(err)
	}

	text, err := readBundle(bundlePath)
	if err != nil {
		return PrintJSONError(err)
	}

	result, err := bundle.Parse(text)
	log.Event("cli:list", "list").Bundle(bundlePath).Write(err)
	if err != nil {
		return reportParseError(err)
	}
	printWarnings(result.Warnings)

	manifest := make([]listEntry, len(result.Entries))
	for i, e := range result.Entries {
		manifest[i] = listEntry{Path: e.Path, Size: len(e.Content)}
	}

	if !JSON() {
		for _, e := range manifest {
			fmt.Fprintf(Out(), "%8d  %s\n", e.Size, e.Path)
		}
	}
	return PrintJSON(manifest)
}

func init() {
	listCmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Bundle file path (\"-\" for stdin)")
	rootCmd.AddCommand(listCmd)
}
