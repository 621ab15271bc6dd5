// Package bundle parses the plain-text bundle format: a sequence of file
// entries, each framed by a two-separator header naming a relative path,
// followed by the file's raw content.
//
//	================================================
//	File: docs/readme.md
//	================================================
//	# Readme
//	...content up to the next separator or end of input...
//
// The parser is a single forward scan over byte offsets. It validates
// structural well-formedness, collects every defect it can (rather than
// stopping at the first), and anchors each diagnostic to a 1-based line
// number derived by counting the lines consumed before it.
//
// # Design
//
// Path validity failures (empty, absolute, duplicate) accumulate and the
// scan continues - the entry's content span is still consumed so that
// later offsets and line numbers stay correct; the entry itself is
// excluded from the result. Framing failures (a broken header, premature
// end of input) abort the rest of the scan: once a header's framing
// breaks there is no reliable point to resynchronise at, and guessing
// would produce cascading noise. Errors accumulated before the break
// are still reported.
//
// The format has no escape mechanism: a content line that begins with
// the 48-character separator run terminates the entry early and is read
// as the next header. This is a known limitation of the format, not of
// the parser.
package bundle

import (
	"fmt"
	"strings"

	"github.com/jpl-au/sprout/internal/path"
)

// Separator is the fixed delimiter line framing headers and content
// boundaries: a run of exactly 48 '=' characters, matched as a prefix.
const Separator = "================================================"

// PathPrefix must prefix the path line of every header.
const PathPrefix = "File: "

// excerptLen caps diagnostic excerpts at 50 characters.
const excerptLen = 50

// Entry is one decoded (path, content) pair extracted from a bundle.
// Path is the trimmed text of the header's path line, always relative
// and non-empty. Content is the exact byte span between the header and
// the next separator (or end of input) - nothing is trimmed.
type Entry struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Warning reports a non-fatal advisory: a run of non-blank lines that
// preceded the first valid header and was skipped. FirstLine and
// LastLine are 1-based and equal when a single line was skipped.
type Warning struct {
	FirstLine int `json:"first_line"`
	LastLine  int `json:"last_line"`
}

func (w Warning) String() string {
	if w.FirstLine == w.LastLine {
		return fmt.Sprintf("Line %d excluded due to content before the first file header.", w.FirstLine)
	}
	return fmt.Sprintf("Lines %d-%d excluded due to content before the first file header.", w.FirstLine, w.LastLine)
}

// Result holds a successful parse: entries in first-occurrence order
// plus any non-fatal warnings. Entries whose path failed validation are
// excluded even though their content was structurally parsed.
type Result struct {
	Entries  []Entry   `json:"entries"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Parse scans text and returns its entries, or a *ParseError collecting
// every structural defect found. Empty or all-whitespace input is a
// valid empty bundle, not an error. Success and failure are exclusive:
// when the returned error is non-nil the Result is nil.
func Parse(text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return &Result{}, nil
	}

	s := scanner{text: text}
	s.run()

	if len(s.errs) > 0 {
		return nil, &ParseError{Errors: s.errs}
	}
	return &Result{Entries: s.entries, Warnings: s.warnings}, nil
}

// scanner holds the state of one parse: an absolute byte offset into the
// full text, the accepted entries, the seen-path set for duplicate
// detection, and the accumulated errors and warnings.
type scanner struct {
	text     string
	off      int
	entries  []Entry
	warnings []Warning
	errs     []ValidationError
	seen     map[string]struct{}
}

func (s *scanner) run() {
	s.seen = make(map[string]struct{})

	start, found := s.findFirstHeader()
	if !found {
		s.errs = append(s.errs, ValidationError{
			Kind: ContentBeforeFirstHeader,
			Line: 1,
			Text: excerpt(firstNonBlankLine(s.text)),
		})
		return
	}
	s.off = start

	for s.off < len(s.text) {
		rel := strings.Index(s.text[s.off:], Separator)
		if rel < 0 {
			s.finishTrailing()
			return
		}
		if !s.scanEntry(s.off + rel) {
			return
		}
	}
}

// findFirstHeader locates the byte offset of the first separator line
// that is immediately followed by a path-prefix line. Non-blank lines
// before it are recorded as a warning and skipped. Both lines tolerate
// leading whitespace so that indented bundles are still recognised.
func (s *scanner) findFirstHeader() (int, bool) {
	lines := strings.Split(s.text, "\n")

	headerIdx := -1
	for i := 0; i+1 < len(lines); i++ {
		if strings.HasPrefix(strings.TrimLeft(lines[i], " \t"), Separator) &&
			strings.HasPrefix(strings.TrimLeft(lines[i+1], " \t"), PathPrefix) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return 0, false
	}

	first, last := 0, 0
	for i := range headerIdx {
		if strings.TrimSpace(lines[i]) != "" {
			if first == 0 {
				first = i + 1
			}
			last = i + 1
		}
	}
	if first > 0 {
		s.warnings = append(s.warnings, Warning{FirstLine: first, LastLine: last})
	}

	off := 0
	for i := range headerIdx {
		off += len(lines[i]) + 1
	}
	return off, true
}

// scanEntry consumes one entry block whose opening separator starts at
// sepStart. It returns false when a framing error aborts the scan.
func (s *scanner) scanEntry(sepStart int) bool {
	text := s.text
	sepLine := lineAt(text, sepStart)

	// Trailing garbage between the previous content span and this
	// separator could not belong to any entry.
	if skipped := text[s.off:sepStart]; strings.TrimSpace(skipped) != "" {
		s.errs = append(s.errs, ValidationError{
			Kind: UnexpectedContentAfterLastEntry,
			Line: countLines(text[:s.off]),
			Text: excerpt(firstNonBlankLine(skipped)),
		})
	}

	afterSep := sepStart + len(Separator)
	if afterSep >= len(text) {
		s.abort(ValidationError{Kind: PrematureEOFBeforePathLine, Line: sepLine})
		return false
	}
	if text[afterSep] != '\n' {
		s.abort(ValidationError{
			Kind: MalformedHeaderMissingFilePrefix,
			Line: sepLine + 1,
			Text: strings.TrimRight(firstLine(text[afterSep:]), " \t\r"),
		})
		return false
	}

	pathLineNum := sepLine + 1
	pathLineStart := afterSep + 1
	if pathLineStart >= len(text) {
		s.abort(ValidationError{Kind: PrematureEOFBeforePathLine, Line: pathLineNum})
		return false
	}
	if !strings.HasPrefix(text[pathLineStart:], PathPrefix) {
		s.abort(ValidationError{
			Kind: MalformedHeaderMissingFilePrefix,
			Line: pathLineNum,
			Text: firstLine(text[pathLineStart:]),
		})
		return false
	}

	pathStart := pathLineStart + len(PathPrefix)
	nl := strings.IndexByte(text[pathStart:], '\n')
	if nl < 0 {
		s.abort(ValidationError{
			Kind: MalformedHeaderPathLineMissingNewline,
			Line: pathLineNum,
			Text: strings.TrimRight(firstLine(text[pathStart:]), " \t\r"),
		})
		return false
	}
	if strings.Contains(text[pathStart:pathStart+nl], Separator) {
		s.abort(ValidationError{
			Kind: MalformedHeaderPathLineInterruptedBySeparator,
			Line: pathLineNum,
			Text: strings.TrimRight(text[pathStart:pathStart+nl], " \t\r"),
		})
		return false
	}
	pathEnd := pathStart + nl

	entryPath := strings.TrimSpace(text[pathStart:pathEnd])
	valid := s.validatePath(entryPath, pathLineNum)

	sepTwoLineNum := pathLineNum + 1
	sepTwoStart := pathEnd + 1
	if sepTwoStart >= len(text) {
		s.abort(ValidationError{Kind: PrematureEOFBeforeContentSeparator, Line: sepTwoLineNum, Path: entryPath})
		return false
	}
	if !strings.HasPrefix(text[sepTwoStart:], Separator) {
		s.abort(ValidationError{
			Kind: MalformedHeaderMissingSeparatorAfterPath,
			Line: sepTwoLineNum,
			Text: entryPath,
		})
		return false
	}

	afterSepTwo := sepTwoStart + len(Separator)
	if afterSepTwo >= len(text) {
		s.abort(ValidationError{Kind: PrematureEOFBeforeContentSeparatorNewline, Line: sepTwoLineNum, Path: entryPath})
		return false
	}
	if text[afterSepTwo] != '\n' {
		s.abort(ValidationError{
			Kind: MalformedHeaderMissingNewlineAfterContentSeparator,
			Line: sepTwoLineNum,
			Text: strings.TrimRight(text[sepTwoStart:afterSepTwo], " \t\r"),
		})
		return false
	}

	// Content is the exact byte span from after the header's newline up
	// to the next separator occurrence, or end of input. Consumed even
	// when the path was invalid, so the offset keeps advancing correctly.
	contentStart := afterSepTwo + 1
	contentEnd := len(text)
	if i := strings.Index(text[contentStart:], Separator); i >= 0 {
		contentEnd = contentStart + i
	}

	if valid {
		s.entries = append(s.entries, Entry{Path: entryPath, Content: text[contentStart:contentEnd]})
	}
	s.off = contentEnd
	return true
}

// validatePath runs the emptiness, absoluteness and duplicate checks in
// order, each producing its own error. Only syntactically valid,
// non-duplicate paths are registered into the seen-set.
func (s *scanner) validatePath(p string, line int) bool {
	if p == "" {
		s.errs = append(s.errs, ValidationError{Kind: EmptyPath, Line: line})
		return false
	}
	if path.Forbidden(p) {
		s.errs = append(s.errs, ValidationError{Kind: AbsolutePathNotAllowed, Line: line, Path: p})
		return false
	}
	norm := path.Normalise(p)
	if _, dup := s.seen[norm]; dup {
		s.errs = append(s.errs, ValidationError{Kind: DuplicatePath, Line: line, Path: p})
		return false
	}
	s.seen[norm] = struct{}{}
	return true
}

// finishTrailing handles text remaining after the last separator
// occurrence. Leftover non-blank text is an error only once at least
// one entry has been accepted; before that it is unreachable garbage
// already covered by the first-header search.
func (s *scanner) finishTrailing() {
	rest := s.text[s.off:]
	if strings.TrimSpace(rest) != "" && len(s.entries) > 0 {
		s.errs = append(s.errs, ValidationError{
			Kind: UnexpectedContentAfterLastEntry,
			Line: countLines(s.text[:s.off]) + 1,
			Text: excerpt(firstNonBlankLine(rest)),
		})
	}
	s.off = len(s.text)
}

// abort records a framing error and jumps the offset to end of input,
// ending the scan. Errors accumulated so far are preserved.
func (s *scanner) abort(v ValidationError) {
	s.errs = append(s.errs, v)
	s.off = len(s.text)
}

// lineAt returns the 1-based line number of the byte offset, derived by
// counting the lines consumed before it.
func lineAt(text string, off int) int {
	return countLines(text[:off]) + 1
}

// countLines counts the lines in s. A trailing fragment with no final
// newline still counts as a line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}

// firstLine returns s up to (excluding) its first newline.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// firstNonBlankLine returns the trimmed first non-blank line of s.
func firstNonBlankLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return ""
}

// excerpt truncates s to excerptLen characters.
func excerpt(s string) string {
	r := []rune(s)
	if len(r) > excerptLen {
		r = r[:excerptLen]
	}
	return string(r)
}
