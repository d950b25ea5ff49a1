// Package document describes the text an outline is drawn from.
package document

import "strings"

// Document is the host's view of an editor buffer: a sequence of lines
// without their terminating newlines.
type Document interface {
	LineCount() int
	Line(i int) string
}

// Snapshot is an immutable Document.
type Snapshot struct {
	lines []string
}

var _ Document = (*Snapshot)(nil)

// Empty is the document with no lines.
var Empty = &Snapshot{}

// New splits text into lines. The empty string has no lines and a
// trailing newline does not start a further line.
func New(text string) *Snapshot {
	if text == "" {
		return Empty
	}
	text = strings.TrimSuffix(text, "\n")
	return &Snapshot{lines: strings.Split(text, "\n")}
}

// FromBytes is New for a byte slice.
func FromBytes(b []byte) *Snapshot {
	return New(string(b))
}

// FromLines wraps lines without copying them.
func FromLines(lines []string) *Snapshot {
	return &Snapshot{lines: lines}
}

func (s *Snapshot) LineCount() int { return len(s.lines) }

// Line returns line i, or "" when i is out of range.
func (s *Snapshot) Line(i int) string {
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return s.lines[i]
}
