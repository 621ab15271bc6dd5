/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// root.go defines the root command and CLI execution entry point.
//
// The root command is the apply operation itself: `sprout bundle.txt
// out/` parses the bundle and writes its files. Everything else
// (check, list, diff, log, config, guide, serve, version) hangs off it
// as a subcommand.
//
// Design: argument resolution mirrors the positional/flag precedence
// the tool has always had - the bundle comes from the positional
// argument or -i/--input (mutually exclusive, one required), the output
// directory from -o/--output, else the second positional argument, else
// the configured default. Validation is sequenced strictly before any
// filesystem mutation: a bundle with hard errors, or collisions without
// --force, writes zero files.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/config"
	"github.com/jpl-au/sprout/internal/diff"
	"github.com/jpl-au/sprout/internal/log"
	"github.com/jpl-au/sprout/internal/materialise"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var diffFlag bool

var rootCmd = &cobra.Command{
	Use:   "sprout [BUNDLE_FILE] [OUTPUT_DIRECTORY]",
	Short: "Extract files from a plain-text bundle",
	Long: `Parse a bundle - file entries framed by separator/'File: ' headers -
and materialise them as real files under an output directory.

The bundle comes from the positional argument or -i/--input ("-" reads
stdin). The output directory defaults to the current directory.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runApply,
}

// applyResult is the JSON shape of a successful apply.
type applyResult struct {
	Created     []string `json:"created"`
	Overwritten []string `json:"overwritten"`
	Warnings    []string `json:"warnings,omitempty"`
	DryRun      bool     `json:"dry_run,omitempty"`
}

func runApply(c *cobra.Command, args []string) error {
	bundlePath, err := resolveBundle(args)
	if err != nil {
		return PrintJSONError(err)
	}
	outputDir := resolveOutput(args)
	force := forceFlag || loadConfig().ApplyForce()

	text, err := readBundle(bundlePath)
	if err != nil {
		return PrintJSONError(err)
	}

	result, err := bundle.Parse(text)
	if err != nil {
		log.Event("cli:apply", "apply").Bundle(bundlePath).Output(outputDir).Write(err)
		return reportParseError(err)
	}
	printWarnings(result.Warnings)

	if len(result.Entries) == 0 {
		if !JSON() {
			fmt.Fprintln(Out(), "Bundle contains no entries. Nothing to do.")
		}
		return PrintJSON(applyResult{Created: []string{}, Overwritten: []string{}})
	}

	if diffFlag {
		if err := printDiffs(result.Entries, outputDir); err != nil {
			return PrintJSONError(err)
		}
	}

	if !force {
		if collisions := materialise.CheckCollisions(result.Entries, outputDir); len(collisions) > 0 {
			reportCollisions(collisions)
			log.Event("cli:apply", "apply").Bundle(bundlePath).Output(outputDir).
				Detail("collisions", len(collisions)).Write(nil)
			return errCollision
		}
	}

	written, err := materialise.Write(ErrOut(), result.Entries, outputDir, materialise.Options{
		Force:  force,
		DryRun: dryRun,
	})

	log.Event("cli:apply", "apply").
		Bundle(bundlePath).
		Output(outputDir).
		Files(len(written.Created) + len(written.Overwritten)).
		Detail("dry_run", dryRun).
		Write(err)

	if err != nil {
		return PrintJSONError(fmt.Errorf("apply %q: %w", bundlePath, err))
	}

	if !JSON() {
		verb := "Wrote"
		if dryRun {
			verb = "Would write"
		}
		fmt.Fprintf(Out(), "%s %d file(s) (%d created, %d overwritten) under %s\n",
			verb, len(written.Created)+len(written.Overwritten),
			len(written.Created), len(written.Overwritten), outputDir)
	}
	return PrintJSON(applyResult{
		Created:     written.Created,
		Overwritten: written.Overwritten,
		Warnings:    warningStrings(result.Warnings),
		DryRun:      dryRun,
	})
}

// errCollision signals that collisions blocked the apply. The details
// have already been printed; Execute only needs the non-zero exit.
var errCollision = errors.New("output path collision detected")

// resolveBundle determines the bundle path from the positional argument
// or -i/--input. Exactly one source must be provided.
func resolveBundle(args []string) (string, error) {
	switch {
	case len(args) > 0 && inputFlag != "":
		return "", errors.New("bundle file given both as positional argument and via --input")
	case len(args) > 0:
		return args[0], nil
	case inputFlag != "":
		return inputFlag, nil
	default:
		return "", errors.New("no bundle file given (positional argument or -i/--input)")
	}
}

// resolveOutput determines the output directory: -o/--output wins, then
// the second positional argument, then the configured default.
func resolveOutput(args []string) string {
	if outputFlag != "" {
		return outputFlag
	}
	if len(args) > 1 {
		return args[1]
	}
	return loadConfig().OutputDir()
}

// readBundle reads the bundle text from a file, or stdin when the path
// is "-".
func readBundle(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read bundle file %q: %w", path, err)
	}
	return string(data), nil
}

// loadConfig loads configuration, falling back to defaults on error.
// A broken config file should not block an explicit CLI invocation.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(ErrOut(), "warning: %v\n", err)
		return &config.Config{}
	}
	return cfg
}

// reportParseError prints every validation error and returns an error
// carrying the count for the exit path.
func reportParseError(err error) error {
	var parseErr *bundle.ParseError
	if !errors.As(err, &parseErr) {
		return PrintJSONError(err)
	}
	if JSON() {
		return PrintJSONError(err) // marshals the aggregate message
	}
	fmt.Fprintf(ErrOut(), "Bundle parsing failed with %d error(s):\n", len(parseErr.Errors))
	for _, v := range parseErr.Errors {
		fmt.Fprintf(ErrOut(), "- %s\n", v.Error())
	}
	return errParseFailed
}

var errParseFailed = errors.New("bundle validation failed")

// reportCollisions prints the collision list with guidance.
func reportCollisions(collisions []string) {
	if JSON() {
		_ = PrintJSON(map[string]any{"collisions": collisions})
		return
	}
	fmt.Fprintln(ErrOut(), "Output path collision detected. The following paths already exist or conflict with directory creation:")
	for _, p := range collisions {
		fmt.Fprintf(ErrOut(), "  - %s\n", p)
	}
	fmt.Fprintln(ErrOut(), "Use --force to overwrite.")
}

// printWarnings renders non-fatal parse advisories to stderr.
func printWarnings(warnings []bundle.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(ErrOut(), "Warning: %s\n", w)
	}
}

func warningStrings(warnings []bundle.Warning) []string {
	var out []string
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}

// printDiffs renders overwrite previews for entries whose target exists.
func printDiffs(entries []bundle.Entry, outputDir string) error {
	previews, err := diff.Entries(entries, outputDir)
	if err != nil {
		return err
	}
	colour := term.IsTerminal(int(os.Stdout.Fd()))
	for _, p := range previews {
		if p.New || p.Same {
			continue
		}
		fmt.Fprint(Out(), p.Format(colour))
	}
	return nil
}

// Execute runs the root command and handles process lifecycle.
// Opens audit logging, executes the command, and exits 1 on error.
func Execute() {
	cfg := loadConfig()
	if cfg.LogEnabled() {
		if err := log.Open(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: audit log unavailable: %v\n", err)
		}
		if wd, err := os.Getwd(); err == nil {
			log.SetProject(wd)
		}
		defer log.Close()
	}

	if err := rootCmd.Execute(); err != nil {
		log.Close()
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
