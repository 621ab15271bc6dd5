// errors.go defines the validation error taxonomy for bundle parsing.
//
// Separated to centralise error definitions. Every way a bundle can be
// malformed maps to exactly one ErrorKind, so callers (CLI, MCP, tests)
// can branch on structure rather than on message text.
//
// Design: ValidationError is a value type carrying a kind, a 1-based line
// number and enough context to render a diagnostic. Parse collects them
// into a ParseError rather than failing on the first defect - a user can
// fix many bundle problems in one pass. Use errors.As to recover the
// *ParseError from a wrapped error chain.

package bundle

import (
	"fmt"
	"strings"
)

// ErrorKind identifies a category of bundle validation failure.
type ErrorKind int

const (
	// ContentBeforeFirstHeader: non-whitespace text precedes the first
	// header and no valid header exists anywhere in the bundle.
	ContentBeforeFirstHeader ErrorKind = iota
	// MalformedHeaderMissingFilePrefix: the line after a separator does
	// not begin with the "File: " prefix.
	MalformedHeaderMissingFilePrefix
	// MalformedHeaderMissingSeparatorAfterPath: the line after the path
	// line is not a separator.
	MalformedHeaderMissingSeparatorAfterPath
	// MalformedHeaderPathLineInterruptedBySeparator: the separator token
	// appears inside the path line before its newline.
	MalformedHeaderPathLineInterruptedBySeparator
	// MalformedHeaderPathLineMissingNewline: the path line runs to the
	// end of input with no terminating newline.
	MalformedHeaderPathLineMissingNewline
	// MalformedHeaderMissingNewlineAfterContentSeparator: the second
	// separator of a header is not immediately followed by a newline.
	MalformedHeaderMissingNewlineAfterContentSeparator
	// EmptyPath: the path is empty after trimming.
	EmptyPath
	// AbsolutePathNotAllowed: the path is absolute or begins with a root
	// or drive component.
	AbsolutePathNotAllowed
	// DuplicatePath: the path repeats an earlier entry's path.
	DuplicatePath
	// PrematureEOFBeforePathLine: input ends where a path line was required.
	PrematureEOFBeforePathLine
	// PrematureEOFBeforeContentSeparator: input ends where the second
	// separator was required.
	PrematureEOFBeforeContentSeparator
	// PrematureEOFBeforeContentSeparatorNewline: input ends immediately
	// after the second separator, before its newline.
	PrematureEOFBeforeContentSeparatorNewline
	// UnexpectedContentAfterLastEntry: non-whitespace text appears after
	// a content block without being followed by another valid header.
	UnexpectedContentAfterLastEntry
)

// String returns the kind's identifier, used in JSON output.
func (k ErrorKind) String() string {
	switch k {
	case ContentBeforeFirstHeader:
		return "content_before_first_header"
	case MalformedHeaderMissingFilePrefix:
		return "missing_file_prefix"
	case MalformedHeaderMissingSeparatorAfterPath:
		return "missing_separator_after_path"
	case MalformedHeaderPathLineInterruptedBySeparator:
		return "path_line_interrupted_by_separator"
	case MalformedHeaderPathLineMissingNewline:
		return "path_line_missing_newline"
	case MalformedHeaderMissingNewlineAfterContentSeparator:
		return "missing_newline_after_content_separator"
	case EmptyPath:
		return "empty_path"
	case AbsolutePathNotAllowed:
		return "absolute_path_not_allowed"
	case DuplicatePath:
		return "duplicate_path"
	case PrematureEOFBeforePathLine:
		return "premature_eof_before_path_line"
	case PrematureEOFBeforeContentSeparator:
		return "premature_eof_before_content_separator"
	case PrematureEOFBeforeContentSeparatorNewline:
		return "premature_eof_before_content_separator_newline"
	case UnexpectedContentAfterLastEntry:
		return "unexpected_content_after_last_entry"
	default:
		return "unknown"
	}
}

// ValidationError describes a single structural defect in a bundle.
//
// Line is 1-based. Path carries the offending path for path-related
// kinds. Text carries the offending line's literal text, or an excerpt
// truncated to 50 characters for content-related kinds.
type ValidationError struct {
	Kind ErrorKind `json:"kind"`
	Line int       `json:"line"`
	Path string    `json:"path,omitempty"`
	Text string    `json:"text,omitempty"`
}

func (e ValidationError) Error() string {
	switch e.Kind {
	case ContentBeforeFirstHeader:
		return fmt.Sprintf("L%d: Content found before the first file header. Starts with: %q", e.Line, e.Text)
	case MalformedHeaderMissingFilePrefix:
		return fmt.Sprintf("L%d: Malformed file header. Expected %q after separator line, found: %q", e.Line, PathPrefix, e.Text)
	case MalformedHeaderMissingSeparatorAfterPath:
		return fmt.Sprintf("L%d: Malformed file header. Expected separator line after path line, found: %q", e.Line, e.Text)
	case MalformedHeaderPathLineInterruptedBySeparator:
		return fmt.Sprintf("L%d: Malformed file header. File path line is interrupted by a separator: %q", e.Line, e.Text)
	case MalformedHeaderPathLineMissingNewline:
		return fmt.Sprintf("L%d: Malformed file header. File path line does not end with a newline: %q", e.Line, e.Text)
	case MalformedHeaderMissingNewlineAfterContentSeparator:
		return fmt.Sprintf("L%d: Malformed file header. Expected newline after content separator line: %q", e.Line, e.Text)
	case EmptyPath:
		return fmt.Sprintf("L%d: File path is empty.", e.Line)
	case AbsolutePathNotAllowed:
		return fmt.Sprintf("L%d: Absolute path not allowed: %q", e.Line, e.Path)
	case DuplicatePath:
		return fmt.Sprintf("L%d: Duplicate path found: %q", e.Line, e.Path)
	case PrematureEOFBeforePathLine:
		return fmt.Sprintf("L%d: Premature EOF. Expected 'File: <path>' line after separator.", e.Line)
	case PrematureEOFBeforeContentSeparator:
		return fmt.Sprintf("L%d: Premature EOF for file %q. Expected second separator line after path.", e.Line, e.Path)
	case PrematureEOFBeforeContentSeparatorNewline:
		return fmt.Sprintf("L%d: Premature EOF for file %q. Expected newline after content separator.", e.Line, e.Path)
	case UnexpectedContentAfterLastEntry:
		return fmt.Sprintf("L%d: Unexpected content found after the last valid file entry. Starts with: %q", e.Line, e.Text)
	default:
		return fmt.Sprintf("L%d: Unknown bundle validation error.", e.Line)
	}
}

// ParseError aggregates every validation error found during one parse.
// It is the only error type Parse returns for malformed input.
type ParseError struct {
	Errors []ValidationError
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bundle parsing failed with %d error(s):\n", len(e.Errors))
	for _, v := range e.Errors {
		b.WriteString("- " + v.Error() + "\n")
	}
	return b.String()
}

// Has reports whether the aggregate contains an error of the given kind.
func (e *ParseError) Has(kind ErrorKind) bool {
	for _, v := range e.Errors {
		if v.Kind == kind {
			return true
		}
	}
	return false
}
