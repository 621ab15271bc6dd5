//go:build !windows

// path_unix.go provides Unix-specific path policy (Linux, macOS, etc).
//
// On Unix systems, backslashes are valid filename characters, not path
// separators. filepath.ToSlash does NOT convert them, so Normalise
// replaces them explicitly - a bundle produced on Windows should extract
// to the same tree here.

package path

import (
	"path/filepath"
	"strings"
)

// Forbidden reports whether p may not be used as an entry path: an
// absolute path, a path rooted with a leading slash or backslash, or a
// drive-letter-prefixed path.
func Forbidden(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\") {
		return true
	}
	return drivePrefixed(p)
}

// Normalise returns the canonical slash-separated form of a relative
// entry path, used for duplicate detection and for joining under the
// output root.
func Normalise(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return filepath.Clean(p)
}
