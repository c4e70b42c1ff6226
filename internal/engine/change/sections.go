package change

import (
	"fmt"

	"github.com/dshills/docstate/internal/engine/text"
)

// addSection appends a (length, ins) pair, merging it into the last
// section when both are unchanged runs, both deletions, or when the new
// section is a pure insertion following a pure insertion. forceJoin
// merges unconditionally.
func addSection(sections []int, length, ins int, forceJoin bool) []int {
	if length == 0 && ins <= 0 {
		return sections
	}
	last := len(sections) - 2
	switch {
	case last >= 0 && ins <= 0 && ins == sections[last+1]:
		sections[last] += length
	case last >= 0 && length == 0 && sections[last] == 0:
		sections[last+1] += ins
	case forceJoin:
		sections[last] += length
		sections[last+1] += ins
	default:
		sections = append(sections, length, ins)
	}
	return sections
}

// addInsert records value as the inserted content of the last section,
// appending to it when that section already has content.
func addInsert(values []*text.Text, sections []int, value *text.Text) []*text.Text {
	if value.Len() == 0 {
		return values
	}
	index := (len(sections) - 2) >> 1
	if index < len(values) {
		values[len(values)-1] = values[len(values)-1].Append(value)
		return values
	}
	for len(values) < index {
		values = append(values, text.Empty)
	}
	return append(values, value)
}

// insertedAt returns the content inserted by section index, or the empty
// document when none was recorded.
func insertedAt(inserted []*text.Text, index int) *text.Text {
	if index < len(inserted) && inserted[index] != nil {
		return inserted[index]
	}
	return text.Empty
}

func iterChanges(sections []int, inserted []*text.Text, individual bool, f func(fromA, toA, fromB, toB int, ins *text.Text)) {
	for posA, posB, i := 0, 0, 0; i < len(sections); {
		length, ins := sections[i], sections[i+1]
		i += 2
		if ins < 0 {
			posA += length
			posB += length
			continue
		}
		endA, endB, content := posA, posB, text.Empty
		for {
			endA += length
			endB += ins
			if ins > 0 {
				if next := insertedAt(inserted, (i-2)>>1); content == text.Empty {
					content = next
				} else {
					content = content.Append(next)
				}
			}
			if individual || i == len(sections) || sections[i+1] < 0 {
				break
			}
			length, ins = sections[i], sections[i+1]
			i += 2
		}
		f(posA, endA, posB, endB, content)
		posA, posB = endA, endB
	}
}

// sectionIter walks a section list, allowing partial consumption of the
// current section.
type sectionIter struct {
	sections []int
	inserted []*text.Text
	i        int // index after the current section
	length   int // remaining old length of the current section
	off      int // amount already consumed from the current section
	ins      int // remaining insert length, -1 unchanged, -2 done
}

func newSectionIter(sections []int, inserted []*text.Text) *sectionIter {
	it := &sectionIter{sections: sections, inserted: inserted}
	it.next()
	return it
}

func (it *sectionIter) next() {
	if it.i < len(it.sections) {
		it.length = it.sections[it.i]
		it.ins = it.sections[it.i+1]
		it.i += 2
	} else {
		it.length = 0
		it.ins = -2
	}
	it.off = 0
}

func (it *sectionIter) done() bool { return it.ins == -2 }

// length2 is the remaining new-document length of the current section.
func (it *sectionIter) length2() int {
	if it.ins < 0 {
		return it.length
	}
	return it.ins
}

func (it *sectionIter) text() *text.Text {
	return insertedAt(it.inserted, (it.i-2)>>1)
}

// textBit returns n bytes of the current insertion, starting at the
// consumed offset.
func (it *sectionIter) textBit(n int) *text.Text {
	content := it.text()
	if n == 0 || content == text.Empty {
		return text.Empty
	}
	return content.Slice(it.off, it.off+n)
}

func (it *sectionIter) forward(n int) {
	if n == it.length {
		it.next()
	} else {
		it.length -= n
		it.off += n
	}
}

func (it *sectionIter) forward2(n int) {
	switch {
	case it.ins == -1:
		it.forward(n)
	case n == it.ins:
		it.next()
	default:
		it.ins -= n
		it.off += n
	}
}

func mismatch() error {
	return fmt.Errorf("section walk ran off one side: %w", ErrLengthMismatch)
}

// composeSets walks a and b in lockstep. a's new-document coordinates
// line up with b's old-document coordinates.
func composeSets(a, b *sectionIter, withText bool) ([]int, []*text.Text) {
	var sections []int
	var inserted []*text.Text
	for open := false; ; {
		switch {
		case a.done() && b.done():
			return sections, inserted

		case a.ins == 0:
			// Deletion in a.
			sections = addSection(sections, a.length, 0, open)
			a.next()

		case b.length == 0 && !b.done():
			// Insertion in b.
			sections = addSection(sections, 0, b.ins, open)
			if withText {
				inserted = addInsert(inserted, sections, b.text())
			}
			b.next()

		case a.done() || b.done():
			panic(mismatch())

		default:
			n := min(a.length2(), b.length)
			sectionLen := len(sections)
			switch {
			case a.ins == -1:
				insB := -1
				if b.ins != -1 {
					insB = b.ins
					if b.off > 0 {
						insB = 0
					}
				}
				sections = addSection(sections, n, insB, open)
				if withText && insB > 0 {
					inserted = addInsert(inserted, sections, b.text())
				}
			case b.ins == -1:
				lenA := a.length
				if a.off > 0 {
					lenA = 0
				}
				sections = addSection(sections, lenA, n, open)
				if withText {
					inserted = addInsert(inserted, sections, a.textBit(n))
				}
			default:
				lenA, insB := a.length, b.ins
				if a.off > 0 {
					lenA = 0
				}
				if b.off > 0 {
					insB = 0
				}
				sections = addSection(sections, lenA, insB, open)
				if withText && b.off == 0 {
					inserted = addInsert(inserted, sections, b.text())
				}
			}
			open = (a.ins > n || b.ins >= 0 && b.length > n) && (open || len(sections) > sectionLen)
			a.forward2(n)
			b.forward(n)
		}
	}
}

// mapSet rebases a over b. Both describe changes to the same document.
func mapSet(a, b *sectionIter, before, withText bool) ([]int, []*text.Text) {
	var sections []int
	var inserted []*text.Text
	for insertedIdx := -1; ; {
		switch {
		case a.done() && b.length > 0 || b.done() && a.length > 0:
			panic(mismatch())

		case a.ins == -1 && b.ins == -1:
			n := min(a.length, b.length)
			sections = addSection(sections, n, -1, false)
			a.forward(n)
			b.forward(n)

		case b.ins >= 0 && (a.ins < 0 || insertedIdx == a.i || a.off == 0 && (b.length < a.length || b.length == a.length && !before)):
			// b's change comes first: skip over its insertion and drop
			// whatever of a it deleted.
			n := b.length
			sections = addSection(sections, b.ins, -1, false)
			for n > 0 {
				if a.done() {
					panic(mismatch())
				}
				piece := min(a.length, n)
				if a.ins >= 0 && insertedIdx < a.i && a.length <= piece {
					sections = addSection(sections, 0, a.ins, false)
					if withText {
						inserted = addInsert(inserted, sections, a.text())
					}
					insertedIdx = a.i
				}
				a.forward(piece)
				n -= piece
			}
			b.next()

		case a.ins >= 0:
			// a's change comes first: it covers whatever of the mapped
			// document survived b.
			n, left := 0, a.length
			for left > 0 {
				if b.ins == -1 {
					piece := min(left, b.length)
					n += piece
					left -= piece
					b.forward(piece)
				} else if b.ins == 0 && b.length < left {
					left -= b.length
					b.next()
				} else {
					break
				}
			}
			ins := 0
			if insertedIdx < a.i {
				ins = a.ins
			}
			sections = addSection(sections, n, ins, false)
			if withText && insertedIdx < a.i {
				inserted = addInsert(inserted, sections, a.text())
			}
			insertedIdx = a.i
			a.forward(a.length - left)

		case a.done() && b.done():
			return sections, inserted

		default:
			panic(mismatch())
		}
	}
}
