package text

import (
	"fmt"
	"strings"
)

// Tree shape constants.
const (
	// Branch is the maximum number of lines in a leaf, and the target
	// number of children in a branch node.
	Branch = 32

	// BranchShift is log2(Branch).
	BranchShift = 5
)

// Text is an immutable document value.
// Leaf nodes (children == nil) hold line strings.
// Branch nodes hold child Texts joined by implicit line breaks.
type Text struct {
	text     []string // Lines of a leaf node
	children []*Text  // Child nodes of a branch node
	length   int      // Byte length, counting one byte per implicit line break
	lines    int      // Number of lines (>= 1)
}

// Empty is the shared empty document.
var Empty = &Text{text: []string{""}, lines: 1}

// Line describes one line of a document.
type Line struct {
	// From is the byte offset of the start of the line.
	From int

	// To is the byte offset of the end of the line, before the line break.
	To int

	// Number is the 1-based line number.
	Number int

	// Text is the line's content without the line break.
	Text string
}

// Len returns the byte length of the line.
func (l Line) Len() int {
	return l.To - l.From
}

// Of creates a Text from a sequence of lines.
// Panics with ErrNoLines if no lines are given.
func Of(lines ...string) *Text {
	if len(lines) == 0 {
		panic(ErrNoLines)
	}
	if len(lines) == 1 && lines[0] == "" {
		return Empty
	}
	owned := make([]string, len(lines))
	copy(owned, lines)
	if len(owned) <= Branch {
		return newLeaf(owned)
	}
	return fromChildren(splitLeaves(owned), -1)
}

// FromString creates a Text by splitting s at line breaks.
// An empty sep splits on "\r\n", "\r" and "\n".
func FromString(s, sep string) *Text {
	return Of(SplitLines(s, sep)...)
}

// SplitLines splits s into lines. An empty sep splits on "\r\n", "\r" and "\n".
func SplitLines(s, sep string) []string {
	if sep != "" {
		return strings.Split(s, sep)
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// Len returns the byte length of the document.
func (t *Text) Len() int {
	return t.length
}

// Lines returns the number of lines in the document.
func (t *Text) Lines() int {
	return t.lines
}

// Children returns the child nodes of a branch, or nil for a leaf.
// The returned slice must not be modified.
func (t *Text) Children() []*Text {
	return t.children
}

// IsLeaf returns true if this node stores lines directly.
func (t *Text) IsLeaf() bool {
	return t.children == nil
}

// LineAt returns the line containing the given byte offset.
func (t *Text) LineAt(pos int) (Line, error) {
	if pos < 0 || pos > t.length {
		return Line{}, fmt.Errorf("offset %d not in document of length %d: %w", pos, t.length, ErrOutOfRange)
	}
	return t.lineInner(pos, false, 1, 0), nil
}

// Line returns the line with the given 1-based number.
func (t *Text) Line(n int) (Line, error) {
	if n < 1 || n > t.lines {
		return Line{}, fmt.Errorf("line %d not in document with %d lines: %w", n, t.lines, ErrOutOfRange)
	}
	return t.lineInner(n, true, 1, 0), nil
}

// Replace returns a new Text with [from, to) replaced by ins.
// Positions are clipped to the document.
func (t *Text) Replace(from, to int, ins *Text) *Text {
	from, to = t.clip(from, to)
	if t.IsLeaf() {
		if !ins.IsLeaf() {
			return t.replaceParts(from, to, ins)
		}
		lines := appendText(t.text, appendText(ins.text, sliceText(t.text, 0, from), 0, maxPos), to, maxPos)
		newLen := t.length + ins.length - (to - from)
		if len(lines) <= Branch {
			return newLeafLen(lines, newLen)
		}
		return fromChildren(splitLeaves(lines), newLen)
	}

	if ins.lines < t.lines {
		pos := 0
		for i, child := range t.children {
			end := pos + child.length
			// An edit inside one child only rebuilds that child while its
			// size stays in the acceptable range for this node.
			if from >= pos && to <= end {
				updated := child.Replace(from-pos, to-pos, ins)
				total := t.lines - child.lines + updated.lines
				if updated.lines < total>>(BranchShift-1) && updated.lines > total>>(BranchShift+1) &&
					!isSmallLeaf(updated) {
					children := make([]*Text, len(t.children))
					copy(children, t.children)
					children[i] = updated
					return newBranch(children, t.length-(to-from)+ins.length)
				}
				return t.replaceParts(pos, end, updated)
			}
			pos = end + 1
		}
	}
	return t.replaceParts(from, to, ins)
}

// replaceParts is the general replace: decompose, splice, rebalance.
func (t *Text) replaceParts(from, to int, ins *Text) *Text {
	from, to = t.clip(from, to)
	parts := make([]*Text, 0, 8)
	parts = t.decompose(0, from, parts, openTo)
	if ins.length > 0 {
		parts = ins.decompose(0, ins.length, parts, openFrom|openTo)
	}
	parts = t.decompose(to, t.length, parts, openFrom)
	return fromChildren(parts, t.length-(to-from)+ins.length)
}

// Append returns a new Text with other appended to the end.
func (t *Text) Append(other *Text) *Text {
	return t.Replace(t.length, t.length, other)
}

// Slice returns the document between from and to.
func (t *Text) Slice(from, to int) *Text {
	from, to = t.clip(from, to)
	parts := t.decompose(from, to, nil, 0)
	return fromChildren(parts, to-from)
}

// SliceString returns the content between from and to, joining lines with lineSep.
func (t *Text) SliceString(from, to int, lineSep string) string {
	from, to = t.clip(from, to)
	var sb strings.Builder
	sb.Grow(to - from)
	t.appendString(&sb, from, to, lineSep)
	return sb.String()
}

// String returns the full document content joined with "\n".
// Use sparingly for large documents.
func (t *Text) String() string {
	return t.SliceString(0, t.length, "\n")
}

// JSON returns the document as a list of lines.
func (t *Text) JSON() []string {
	lines := make([]string, 0, t.lines)
	return t.flatten(lines)
}

// Eq returns true if both documents hold the same content.
// Shared subtrees at either end are skipped without comparing their content.
func (t *Text) Eq(other *Text) bool {
	if t == other {
		return true
	}
	if other.length != t.length || other.lines != t.lines {
		return false
	}
	start := t.scanIdentical(other, 1)
	end := t.length - t.scanIdentical(other, -1)
	a, b := newRawCursor(t, 1), newRawCursor(other, 1)
	for skip, pos := start, start; ; {
		a.next(skip)
		b.next(skip)
		skip = 0
		if a.lineBreak != b.lineBreak || a.done != b.done || a.value != b.value {
			return false
		}
		pos += len(a.value)
		if a.done || pos >= end {
			return true
		}
	}
}

// Iter returns a cursor over the whole document.
// dir is 1 to iterate forwards or -1 to iterate backwards.
func (t *Text) Iter(dir int) Cursor {
	if dir < 0 {
		return newRawCursor(t, -1)
	}
	return newRawCursor(t, 1)
}

// IterRange returns a cursor over [from, to). If from > to the range is
// walked backwards.
func (t *Text) IterRange(from, to int) Cursor {
	from, _ = t.clip(from, from)
	to, _ = t.clip(to, to)
	return newPartialCursor(t, from, to)
}

// IterLines returns a cursor yielding the content of lines [from, to),
// one value per line. Line numbers are clamped to the document; from < 1
// iterates the whole document.
func (t *Text) IterLines(from, to int) Cursor {
	if from < 1 {
		return newLineCursor(newRawCursor(t, 1))
	}
	from = min(from, t.lines)
	to = max(from, min(to, t.lines+1))
	start := t.lineInner(from, true, 1, 0).From
	end := 0
	switch {
	case to == t.lines+1:
		end = t.length
	case to > 1:
		end = t.lineInner(to-1, true, 1, 0).To
	}
	return newLineCursor(newPartialCursor(t, start, max(start, end)))
}

func (t *Text) clip(from, to int) (int, int) {
	from = max(0, min(t.length, from))
	return from, max(from, min(t.length, to))
}
