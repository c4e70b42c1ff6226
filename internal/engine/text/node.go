package text

import (
	"math"
	"slices"
	"strings"
)

// maxPos is an open upper bound for appendText.
const maxPos = math.MaxInt

// minLeaf is the smallest number of lines a leaf holds unless it is the
// whole document.
const minLeaf = Branch >> 1

// Open flags mark the sides of a decomposed part that continue into a
// neighbouring part, so adjacent leaves are joined on the shared line.
const (
	openFrom uint8 = 1 << iota
	openTo
)

// newLeaf creates a leaf, computing its length.
func newLeaf(lines []string) *Text {
	return newLeafLen(lines, textLength(lines))
}

// newLeafLen creates a leaf with a precomputed length.
func newLeafLen(lines []string, length int) *Text {
	return &Text{text: lines, length: length, lines: len(lines)}
}

// newBranch creates a branch node over children.
func newBranch(children []*Text, length int) *Text {
	lines := 0
	for _, child := range children {
		lines += child.lines
	}
	return &Text{children: children, length: length, lines: lines}
}

// size returns the number of lines of a leaf or children of a branch.
func (t *Text) size() int {
	if t.IsLeaf() {
		return len(t.text)
	}
	return len(t.children)
}

func textLength(lines []string) int {
	length := -1
	for _, line := range lines {
		length += len(line) + 1
	}
	return length
}

// partsLength returns the length of parts joined by line breaks.
func partsLength(parts []*Text) int {
	length := -1
	for _, part := range parts {
		length += part.length + 1
	}
	return length
}

// appendText appends the part of text between from and to to target.
// The first appended fragment extends target's last line.
func appendText(text, target []string, from, to int) []string {
	first := true
	for pos, i := 0, 0; i < len(text) && pos <= to; i++ {
		line := text[i]
		end := pos + len(line)
		if end >= from {
			if end > to {
				line = line[:to-pos]
			}
			if pos < from {
				line = line[from-pos:]
			}
			if first {
				target[len(target)-1] += line
				first = false
			} else {
				target = append(target, line)
			}
		}
		pos = end + 1
	}
	return target
}

func sliceText(text []string, from, to int) []string {
	return appendText(text, []string{""}, from, to)
}

// splitLeaves groups lines into full leaves.
func splitLeaves(lines []string) []*Text {
	var leaves []*Text
	for i := 0; i < len(lines); i += Branch {
		end := min(i+Branch, len(lines))
		leaves = append(leaves, newLeaf(lines[i:end:end]))
	}
	return leaves
}

func (t *Text) lineInner(target int, isLine bool, line, offset int) Line {
	if t.IsLeaf() {
		for i := 0; ; i++ {
			s := t.text[i]
			end := offset + len(s)
			if (isLine && line >= target) || (!isLine && end >= target) {
				return Line{From: offset, To: end, Number: line, Text: s}
			}
			offset = end + 1
			line++
		}
	}
	for i := 0; ; i++ {
		child := t.children[i]
		end := offset + child.length
		endLine := line + child.lines - 1
		if (isLine && endLine >= target) || (!isLine && end >= target) {
			return child.lineInner(target, isLine, line, offset)
		}
		offset = end + 1
		line = endLine + 1
	}
}

// decompose appends the parts of t between from and to to target.
// Whole subtrees inside the range are reused; edges are sliced.
func (t *Text) decompose(from, to int, target []*Text, open uint8) []*Text {
	if !t.IsLeaf() {
		for i, pos := 0, 0; pos <= to && i < len(t.children); i++ {
			child := t.children[i]
			end := pos + child.length
			if from <= end && to >= pos {
				var side uint8
				if pos <= from {
					side |= openFrom
				}
				if end >= to {
					side |= openTo
				}
				childOpen := open & side
				if pos >= from && end <= to && childOpen == 0 {
					target = append(target, child)
				} else {
					target = child.decompose(from-pos, to-pos, target, childOpen)
				}
			}
			pos = end + 1
		}
		return target
	}

	leaf := t
	if from > 0 || to < t.length {
		leaf = newLeafLen(sliceText(t.text, from, to), min(to, t.length)-max(0, from))
	}
	if open&openFrom == 0 {
		return append(target, leaf)
	}
	prev := target[len(target)-1]
	target = target[:len(target)-1]
	joined := appendText(leaf.text, append([]string(nil), prev.text...), 0, leaf.length)
	if len(joined) <= Branch {
		return append(target, newLeafLen(joined, prev.length+leaf.length))
	}
	mid := len(joined) >> 1
	return append(target, newLeaf(joined[:mid:mid]), newLeaf(joined[mid:]))
}

// fromChildren builds a balanced tree from a list of parts.
// A negative length is computed from the parts.
func fromChildren(children []*Text, length int) *Text {
	if length < 0 {
		length = partsLength(children)
	}
	lines := 0
	for _, child := range children {
		lines += child.lines
	}
	if lines < Branch {
		flat := make([]string, 0, lines)
		for _, child := range children {
			flat = child.flatten(flat)
		}
		return newLeafLen(flat, length)
	}

	children = balanceLeaves(children)
	chunk := max(Branch, lines>>BranchShift)
	maxChunk, minChunk := chunk<<1, chunk>>1
	var chunked, current []*Text
	currentLines, currentLen := 0, -1

	flush := func() {
		if currentLines == 0 {
			return
		}
		if len(current) == 1 {
			chunked = append(chunked, current[0])
		} else {
			chunked = append(chunked, fromChildren(current, currentLen))
		}
		current = nil
		currentLines, currentLen = 0, -1
	}

	var add func(child *Text)
	add = func(child *Text) {
		if child.lines > maxChunk && !child.IsLeaf() {
			for _, node := range child.children {
				add(node)
			}
			return
		}
		if child.lines > minChunk && (currentLines > minChunk || currentLines == 0) {
			flush()
			chunked = append(chunked, child)
			return
		}
		if child.IsLeaf() && currentLines > 0 {
			last := current[len(current)-1]
			if last.IsLeaf() && child.lines+last.lines <= Branch {
				currentLines += child.lines
				currentLen += child.length + 1
				merged := make([]string, 0, len(last.text)+len(child.text))
				merged = append(append(merged, last.text...), child.text...)
				current[len(current)-1] = newLeafLen(merged, last.length+1+child.length)
				return
			}
		}
		if currentLines+child.lines > chunk {
			flush()
		}
		currentLines += child.lines
		currentLen += child.length + 1
		current = append(current, child)
	}

	for _, child := range children {
		add(child)
	}
	flush()
	if len(chunked) == 1 {
		return chunked[0]
	}
	return newBranch(chunked, length)
}

// balanceLeaves merges leaves holding fewer than minLeaf lines into an
// adjacent leaf, opening neighbouring branches down to their edge leaf
// when needed. A merge that overflows Branch is split in halves.
func balanceLeaves(parts []*Text) []*Text {
	if len(parts) < 2 || !slices.ContainsFunc(parts, isSmallLeaf) {
		return parts
	}
	out := make([]*Text, 0, len(parts)+4)
	var push func(p *Text)
	push = func(p *Text) {
		if len(out) == 0 {
			out = append(out, p)
			return
		}
		last := out[len(out)-1]
		switch {
		case isSmallLeaf(p) && !last.IsLeaf():
			out = out[:len(out)-1]
			for _, child := range last.children {
				push(child)
			}
			push(p)
		case isSmallLeaf(last) && !p.IsLeaf():
			for _, child := range p.children {
				push(child)
			}
		case isSmallLeaf(p) || isSmallLeaf(last):
			out = append(out[:len(out)-1], joinLeaves(last, p)...)
		default:
			out = append(out, p)
		}
	}
	for _, p := range parts {
		push(p)
	}
	return out
}

func isSmallLeaf(t *Text) bool {
	return t.IsLeaf() && len(t.text) < minLeaf
}

// joinLeaves concatenates two adjacent leaves into one or two leaves.
func joinLeaves(a, b *Text) []*Text {
	lines := make([]string, 0, len(a.text)+len(b.text))
	lines = append(append(lines, a.text...), b.text...)
	if len(lines) <= Branch {
		return []*Text{newLeafLen(lines, a.length+1+b.length)}
	}
	mid := len(lines) >> 1
	return []*Text{newLeaf(lines[:mid:mid]), newLeaf(lines[mid:])}
}

// flatten appends all lines of t to target.
func (t *Text) flatten(target []string) []string {
	if t.IsLeaf() {
		return append(target, t.text...)
	}
	for _, child := range t.children {
		target = child.flatten(target)
	}
	return target
}

// appendString writes the content between from and to.
func (t *Text) appendString(sb *strings.Builder, from, to int, lineSep string) {
	if t.IsLeaf() {
		for pos, i := 0, 0; pos <= to && i < len(t.text); i++ {
			line := t.text[i]
			end := pos + len(line)
			if pos > from && i > 0 {
				sb.WriteString(lineSep)
			}
			if from < end && to > pos {
				sb.WriteString(line[max(0, from-pos):min(len(line), to-pos)])
			}
			pos = end + 1
		}
		return
	}
	for i, pos := 0, 0; i < len(t.children) && pos <= to; i++ {
		child := t.children[i]
		end := pos + child.length
		if pos > from && i > 0 {
			sb.WriteString(lineSep)
		}
		if from < end && to > pos {
			child.appendString(sb, max(0, from-pos), min(child.length, to-pos), lineSep)
		}
		pos = end + 1
	}
}

// scanIdentical returns the length of the shared prefix (dir > 0) or
// suffix (dir < 0) made of identical child nodes.
func (t *Text) scanIdentical(other *Text, dir int) int {
	if t.IsLeaf() || other.IsLeaf() {
		return 0
	}
	length := 0
	iA, iB, eA, eB := 0, 0, len(t.children), len(other.children)
	if dir < 0 {
		iA, iB, eA, eB = len(t.children)-1, len(other.children)-1, -1, -1
	}
	for ; ; iA, iB = iA+dir, iB+dir {
		if iA == eA || iB == eB {
			return length
		}
		chA, chB := t.children[iA], other.children[iB]
		if chA != chB {
			return length + chA.scanIdentical(chB, dir)
		}
		length += chA.length + 1
	}
}
