// Package diff previews what applying a bundle would change on disk.
// For each entry whose target file already exists, it computes a
// unified-style diff between the file's current content and the
// entry's content.
package diff

import (
	"fmt"
	"os"
	"strings"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/materialise"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown before/after changes.
// When equal sections exceed 2*contextLines, they're collapsed with "...".
const contextLines = 3

// Preview holds the diff for a single entry against the existing tree.
type Preview struct {
	Path   string `json:"path"`   // entry path as written in the bundle
	Target string `json:"target"` // filesystem path it materialises to
	New    bool   `json:"new"`    // target does not exist yet
	Same   bool   `json:"same"`   // target exists with identical content
	Diff   string `json:"diff,omitempty"`
}

// Entries computes previews for every entry against the tree under
// root. Unreadable existing targets are an error; missing targets are
// reported as new files with no diff.
func Entries(entries []bundle.Entry, root string) ([]Preview, error) {
	previews := make([]Preview, 0, len(entries))

	for _, e := range entries {
		target := materialise.Target(root, e.Path)
		p := Preview{Path: e.Path, Target: target}

		current, err := os.ReadFile(target)
		switch {
		case os.IsNotExist(err):
			p.New = true
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", target, err)
		case string(current) == e.Content:
			p.Same = true
		default:
			p.Diff = Compute(string(current), e.Content)
		}

		previews = append(previews, p)
	}

	return previews, nil
}

// Compute returns a unified-style diff between old and new content.
func Compute(oldContent, newContent string) string {
	dmp := diffmatchpatch.New()
	d := dmp.DiffMain(oldContent, newContent, false)
	d = dmp.DiffCleanupSemantic(d)
	return format(d)
}

// format converts diffs to unified-style text.
func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		// Trim trailing newline to avoid artefact empty string from Split
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Colourise adds ANSI colours to diff output.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format returns the preview rendered with a file header, colourised
// when requested.
func (p Preview) Format(colour bool) string {
	switch {
	case p.New:
		return fmt.Sprintf("--- /dev/null\n+++ %s (new file)\n", p.Target)
	case p.Same:
		return fmt.Sprintf("--- %s (unchanged)\n", p.Target)
	}
	header := fmt.Sprintf("--- %s\n+++ %s (from bundle)\n", p.Target, p.Path)
	if colour {
		return header + Colourise(p.Diff)
	}
	return header + p.Diff
}
