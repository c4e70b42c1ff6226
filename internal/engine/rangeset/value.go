package rangeset

import (
	"cmp"

	"github.com/dshills/docstate/internal/engine/change"
)

const (
	// ChunkSize is the maximum number of ranges per chunk.
	ChunkSize = 250

	// Far is a position and side bound beyond any document.
	Far = 1_000_000_000
)

// Value is the payload of a range.
type Value interface {
	// StartSide orders ranges starting at the same position and decides
	// whether the start moves past text inserted there (positive) or not.
	StartSide() int

	// EndSide does the same for the end of the range.
	EndSide() int

	// Point reports whether the value covers its range as one unit.
	Point() bool

	// MapMode is used when mapping empty ranges through deletions.
	MapMode() change.MapMode

	// Eq reports whether two values are interchangeable.
	Eq(other Value) bool
}

// Range is a value positioned in a document.
type Range struct {
	From  int
	To    int
	Value Value
}

func cmpRange(a, b Range) int {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c
	}
	return cmp.Compare(a.Value.StartSide(), b.Value.StartSide())
}

// Mark is a Value tagging a range with a class name.
type Mark struct {
	Class     string
	StartBias int
	EndBias   int
	IsPoint   bool
	Mode      change.MapMode
}

// NewMark returns a mark value. An inclusive end grows when text is
// inserted right at it.
func NewMark(class string, inclusiveStart, inclusiveEnd bool) *Mark {
	m := &Mark{Class: class, StartBias: 1, EndBias: -1, Mode: change.TrackDel}
	if inclusiveStart {
		m.StartBias = -1
	}
	if inclusiveEnd {
		m.EndBias = 1
	}
	return m
}

// NewPoint returns a point value. side places it before (negative) or
// after (positive) other content at its position.
func NewPoint(class string, side int) *Mark {
	return &Mark{Class: class, StartBias: side, EndBias: side, IsPoint: true, Mode: change.TrackDel}
}

// Range returns the mark positioned at [from, to).
func (m *Mark) Range(from, to int) Range {
	return Range{From: from, To: to, Value: m}
}

func (m *Mark) StartSide() int          { return m.StartBias }
func (m *Mark) EndSide() int            { return m.EndBias }
func (m *Mark) Point() bool             { return m.IsPoint }
func (m *Mark) MapMode() change.MapMode { return m.Mode }

// Eq compares marks by content.
func (m *Mark) Eq(other Value) bool {
	o, ok := other.(*Mark)
	return ok && (m == o || *m == *o)
}

func startSide(v Value) int {
	if v == nil {
		return 0
	}
	return v.StartSide()
}

func endSide(v Value) int {
	if v == nil {
		return 0
	}
	return v.EndSide()
}

// sameValues compares two active lists element by element.
func sameValues(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}
