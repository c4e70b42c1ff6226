package change

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/docstate/internal/engine/text"
)

// MapMode controls how positions inside deleted content are mapped.
type MapMode uint8

const (
	// Simple maps every position, moving deleted positions to the
	// start of the replacement.
	Simple MapMode = iota

	// TrackDel drops positions that fall strictly inside a deletion.
	TrackDel

	// TrackBefore drops positions whose preceding character was deleted.
	TrackBefore

	// TrackAfter drops positions whose following character was deleted.
	TrackAfter
)

// String returns the mode name.
func (m MapMode) String() string {
	switch m {
	case Simple:
		return "simple"
	case TrackDel:
		return "trackdel"
	case TrackBefore:
		return "trackbefore"
	case TrackAfter:
		return "trackafter"
	default:
		return "unknown"
	}
}

// ParseMapMode parses a mode name as produced by String.
func ParseMapMode(s string) (MapMode, error) {
	switch strings.ToLower(s) {
	case "", "simple":
		return Simple, nil
	case "trackdel":
		return TrackDel, nil
	case "trackbefore":
		return TrackBefore, nil
	case "trackafter":
		return TrackAfter, nil
	}
	return Simple, fmt.Errorf("unknown map mode %q", s)
}

// Touch reports how a change relates to a range.
type Touch uint8

const (
	// TouchNone means no change touches the range.
	TouchNone Touch = iota

	// TouchYes means a change touches or overlaps the range.
	TouchYes

	// TouchCover means a single change covers the whole range and
	// extends past both ends.
	TouchCover
)

// Desc describes a change without its inserted content.
// The zero value is the empty change of an empty document.
type Desc struct {
	sections []int
}

// NewDesc creates a Desc from raw (len, ins) section pairs.
// The slice is owned by the returned Desc.
func NewDesc(sections []int) Desc {
	return Desc{sections: sections}
}

// Sections returns the raw section pairs. The result must not be modified.
func (d Desc) Sections() []int {
	return d.sections
}

// Len returns the length of the document the change applies to.
func (d Desc) Len() int {
	length := 0
	for i := 0; i < len(d.sections); i += 2 {
		length += d.sections[i]
	}
	return length
}

// NewLen returns the length of the document after the change.
func (d Desc) NewLen() int {
	length := 0
	for i := 0; i < len(d.sections); i += 2 {
		if ins := d.sections[i+1]; ins < 0 {
			length += d.sections[i]
		} else {
			length += ins
		}
	}
	return length
}

// Empty returns true if the change leaves the document untouched.
func (d Desc) Empty() bool {
	return len(d.sections) == 0 || len(d.sections) == 2 && d.sections[1] < 0
}

// IterGaps calls f for each unchanged range, with its start in the old
// document, its start in the new document, and its length.
func (d Desc) IterGaps(f func(posA, posB, length int)) {
	for i, posA, posB := 0, 0, 0; i < len(d.sections); i += 2 {
		length, ins := d.sections[i], d.sections[i+1]
		if ins < 0 {
			f(posA, posB, length)
			posB += length
		} else {
			posB += ins
		}
		posA += length
	}
}

// IterChangedRanges calls f for each changed range, giving its extent in
// the old and new document. Adjacent changes are merged unless individual
// is set.
func (d Desc) IterChangedRanges(f func(fromA, toA, fromB, toB int), individual bool) {
	iterChanges(d.sections, nil, individual, func(fromA, toA, fromB, toB int, _ *text.Text) {
		f(fromA, toA, fromB, toB)
	})
}

// InvertedDesc returns the description of the inverse change.
func (d Desc) InvertedDesc() Desc {
	sections := make([]int, 0, len(d.sections))
	for i := 0; i < len(d.sections); i += 2 {
		length, ins := d.sections[i], d.sections[i+1]
		if ins < 0 {
			sections = append(sections, length, ins)
		} else {
			sections = append(sections, ins, length)
		}
	}
	return Desc{sections: sections}
}

// ComposeDesc combines d with other, which must apply to the document d
// produces. Panics with ErrLengthMismatch otherwise.
func (d Desc) ComposeDesc(other Desc) Desc {
	if d.NewLen() != other.Len() {
		panic(fmt.Errorf("compose %d onto %d: %w", other.Len(), d.NewLen(), ErrLengthMismatch))
	}
	if d.Empty() {
		return other
	}
	if other.Empty() {
		return d
	}
	sections, _ := composeSets(newSectionIter(d.sections, nil), newSectionIter(other.sections, nil), false)
	return Desc{sections: sections}
}

// MapDesc rebases d over other, a change to the same document.
// before puts d's insertions before other's insertions at the same
// position. Panics with ErrLengthMismatch if the lengths differ.
func (d Desc) MapDesc(other Desc, before bool) Desc {
	if d.Len() != other.Len() {
		panic(fmt.Errorf("map %d over %d: %w", d.Len(), other.Len(), ErrLengthMismatch))
	}
	if other.Empty() {
		return d
	}
	sections, _ := mapSet(newSectionIter(d.sections, nil), newSectionIter(other.sections, nil), before, false)
	return Desc{sections: sections}
}

// MapPos maps a position in the old document to the new document.
// A negative assoc keeps the position before insertions at pos, a
// positive one moves it after them.
// Panics with ErrOutOfRange if pos lies outside the document.
func (d Desc) MapPos(pos, assoc int) int {
	result, _ := d.MapPosMode(pos, assoc, Simple)
	return result
}

// MapPosMode maps pos like MapPos. ok is false when mode asks for
// positions in deleted content to be dropped and pos was deleted.
func (d Desc) MapPosMode(pos, assoc int, mode MapMode) (result int, ok bool) {
	if pos < 0 {
		panic(fmt.Errorf("position %d: %w", pos, ErrOutOfRange))
	}
	posA, posB := 0, 0
	for i := 0; i < len(d.sections); i += 2 {
		length, ins := d.sections[i], d.sections[i+1]
		endA := posA + length
		if ins < 0 {
			if endA > pos {
				return posB + (pos - posA), true
			}
			posB += length
		} else {
			if mode != Simple && endA >= pos &&
				(mode == TrackDel && posA < pos && endA > pos ||
					mode == TrackBefore && posA < pos ||
					mode == TrackAfter && endA > pos) {
				return 0, false
			}
			if endA > pos || endA == pos && assoc < 0 && length == 0 {
				if pos == posA || assoc < 0 {
					return posB, true
				}
				return posB + ins, true
			}
			posB += ins
		}
		posA = endA
	}
	if pos > posA {
		panic(fmt.Errorf("position %d in change of length %d: %w", pos, posA, ErrOutOfRange))
	}
	return posB, true
}

// TouchesRange reports whether any change touches [from, to].
func (d Desc) TouchesRange(from, to int) Touch {
	for i, pos := 0, 0; i < len(d.sections) && pos <= to; i += 2 {
		length, ins := d.sections[i], d.sections[i+1]
		end := pos + length
		if ins >= 0 && pos <= to && end >= from {
			if pos < from && end > to {
				return TouchCover
			}
			return TouchYes
		}
		pos = end
	}
	return TouchNone
}

// String renders the sections, e.g. "4 0:2 4".
func (d Desc) String() string {
	var sb strings.Builder
	for i := 0; i < len(d.sections); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(d.sections[i]))
		if ins := d.sections[i+1]; ins >= 0 {
			sb.WriteByte(':')
			sb.WriteString(strconv.Itoa(ins))
		}
	}
	return sb.String()
}
