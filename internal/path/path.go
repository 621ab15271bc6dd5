// Package path implements the relative-path policy for bundle entries.
//
// Every entry path in a bundle must be relative: materialising an entry
// joins it under the chosen output root, and an absolute or
// drive-prefixed path would escape that root entirely. The parser
// consults this package when validating header path lines.
//
// Two checks are provided:
//   - Forbidden rejects platform-absolute paths and paths whose first
//     component is a root directory or a drive-letter prefix. Drive
//     prefixes are rejected on every platform - a bundle written on
//     Windows must fail the same way when extracted on Linux.
//   - Normalise produces the canonical slash-separated form used for
//     duplicate detection, so "dir//file", "./dir/file" and "dir/file"
//     are recognised as the same entry.
//
// Platform differences in separator handling live in path_unix.go and
// path_windows.go.
package path

// drivePrefixed reports whether p begins with a Windows drive-letter
// prefix such as "C:".
func drivePrefixed(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
