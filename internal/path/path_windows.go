//go:build windows

// path_windows.go provides Windows-specific path policy.
//
// On Windows, backslashes are native separators and filepath.ToSlash
// converts them. Rooted paths like `\temp` are not absolute in the
// filepath sense (no volume) but still escape the output root, so they
// are forbidden alongside absolute and drive-prefixed paths.

package path

import (
	"path/filepath"
	"strings"
)

// Forbidden reports whether p may not be used as an entry path: an
// absolute path, a path rooted with a leading slash or backslash, or a
// drive-letter-prefixed path.
func Forbidden(p string) bool {
	if filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return true
	}
	return strings.HasPrefix(p, "/") || strings.HasPrefix(p, "\\")
}

// Normalise returns the canonical slash-separated form of a relative
// entry path, used for duplicate detection and for joining under the
// output root.
func Normalise(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
