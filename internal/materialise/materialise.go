// Package materialise writes parsed bundle entries to the filesystem.
//
// The package has two halves: a read-only collision pre-check and the
// write pass itself. Callers are expected to run CheckCollisions before
// Write unless the user forced the operation - the write pass never
// re-checks, it only refuses physical impossibilities (a parent path
// component that exists as a plain file).
//
// Design: writes are sequential in parse order and non-transactional.
// The first failure aborts the remaining batch and leaves the files
// already written in place; callers surface the partial state rather
// than attempting rollback.
package materialise

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jpl-au/sprout/internal/bundle"
	"github.com/jpl-au/sprout/internal/path"
	"github.com/jpl-au/sprout/internal/progress"
)

// Options configures a write operation.
type Options struct {
	Force  bool // Skip the collision pre-check (caller already decided)
	DryRun bool // Report what would be written without writing
}

// Result contains the outcome of a write operation.
type Result struct {
	Created     []string // Paths that did not exist before
	Overwritten []string // Paths that existed and were replaced
}

// CheckCollisions reports every target path that conflicts with the
// existing tree under root: the joined path already exists, or an
// ancestor directory component of it exists as a plain file. All
// collisions are accumulated so the user sees the full list at once.
// An empty slice means the bundle can be written cleanly.
func CheckCollisions(entries []bundle.Entry, root string) []string {
	var collisions []string

	for _, e := range entries {
		target := Target(root, e.Path)
		if _, err := os.Lstat(target); err == nil {
			collisions = append(collisions, target)
			continue
		}

		// Walk ancestor components: a file where a directory is needed
		// blocks creation just as surely as an existing target.
		rel := filepath.FromSlash(path.Normalise(e.Path))
		dir := filepath.Dir(rel)
		if dir == "." {
			continue
		}
		partial := ""
		for _, comp := range splitComponents(dir) {
			partial = filepath.Join(partial, comp)
			joined := filepath.Join(root, partial)
			if info, err := os.Lstat(joined); err == nil && !info.IsDir() {
				collisions = append(collisions, joined)
				break
			}
		}
	}

	return collisions
}

// Write materialises entries under root in parse order, creating parent
// directories as needed and overwriting existing files. A parent path
// component that exists as a file is a fatal error even when forcing -
// force bypasses the pre-check, not physical impossibility. The first
// failure aborts the remaining writes; Result reflects what was done
// up to that point.
func Write(w io.Writer, entries []bundle.Entry, root string, opts Options) (Result, error) {
	var result Result

	prog := progress.New("Writing", len(entries))
	defer prog.Done()

	for _, e := range entries {
		target := Target(root, e.Path)

		if parent := filepath.Dir(target); parent != "." {
			info, err := os.Lstat(parent)
			switch {
			case err == nil && !info.IsDir():
				return result, fmt.Errorf("cannot create %s: parent %s is an existing file", target, parent)
			case err != nil:
				if opts.DryRun {
					break
				}
				if err := os.MkdirAll(parent, 0755); err != nil {
					return result, fmt.Errorf("creating parent directory %s: %w", parent, err)
				}
			}
		}

		existed := false
		if _, err := os.Lstat(target); err == nil {
			existed = true
		}

		if opts.DryRun {
			fmt.Fprintf(w, "Would write: %s\n", target)
		} else {
			if err := os.WriteFile(target, []byte(e.Content), 0644); err != nil {
				return result, fmt.Errorf("writing %s: %w", target, err)
			}
			fmt.Fprintf(w, "Wrote: %s\n", target)
		}

		if existed {
			result.Overwritten = append(result.Overwritten, target)
		} else {
			result.Created = append(result.Created, target)
		}
		prog.Increment()
		prog.Print()
	}

	return result, nil
}

// Target returns the filesystem path an entry materialises to: its
// normalised relative path joined under root.
func Target(root, entryPath string) string {
	return filepath.Join(root, filepath.FromSlash(path.Normalise(entryPath)))
}

// splitComponents splits a cleaned relative path into its components.
func splitComponents(p string) []string {
	var comps []string
	for p != "" && p != "." {
		dir, base := filepath.Dir(p), filepath.Base(p)
		comps = append([]string{base}, comps...)
		if dir == p {
			break
		}
		p = dir
	}
	return comps
}
