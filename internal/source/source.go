// Package source holds the immutable input unit of an analysis run.
package source

import (
	"strings"
	"unicode/utf8"
)

// Unit is one file's worth of source text plus its physical lines.
// Lines are 1-indexed: Line(1) is the first line. A Unit is never
// mutated after construction; every analysis pass reads the same view.
type Unit struct {
	// Name is the logical identifier of the unit, usually a file path.
	Name string

	// Text is the raw source text as loaded.
	Text string

	lines []string
}

// NewUnit builds a Unit from raw text. Line splitting is on '\n';
// carriage returns are stripped so CRLF input behaves like LF input.
func NewUnit(name, text string) *Unit {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Unit{
		Name:  name,
		Text:  text,
		lines: lines,
	}
}

// Lines returns the physical lines of the unit. Callers must not
// modify the returned slice.
func (u *Unit) Lines() []string {
	return u.lines
}

// Line returns the 1-indexed physical line, or "" when n is out of range.
func (u *Unit) Line(n int) string {
	if n < 1 || n > len(u.lines) {
		return ""
	}
	return u.lines[n-1]
}

// LineCount returns the number of physical lines.
func (u *Unit) LineCount() int {
	return len(u.lines)
}

// IsBlank reports whether the unit contains only whitespace.
func (u *Unit) IsBlank() bool {
	return strings.TrimSpace(u.Text) == ""
}

// Readable reports whether the text can be decomposed at all:
// it must be valid UTF-8 and free of NUL bytes. Binary blobs and
// mis-decoded files fail here and degrade to a line-count-only report.
func (u *Unit) Readable() bool {
	if !utf8.ValidString(u.Text) {
		return false
	}
	return !strings.ContainsRune(u.Text, 0)
}
