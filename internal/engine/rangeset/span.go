package rangeset

import (
	"slices"

	"github.com/dshills/docstate/internal/engine/change"
)

// SpanIterator receives the output of Spans.
type SpanIterator interface {
	// Span is called for a stretch of content covered by the given
	// non-point ranges. openStart counts active ranges that started
	// before from. The active slice is reused and must not be retained.
	Span(from, to int, active []Value, openStart int)

	// Point is called for a point range or the visible part of one.
	// index is the rank of the set the point came from.
	Point(from, to int, value Value, active []Value, openStart, index int)
}

// Comparator receives the differences found by Compare. Positions are in
// the new document.
type Comparator interface {
	CompareRange(from, to int, activeA, activeB []Value)
	ComparePoint(from, to int, pointA, pointB Value)
}

// BoundChanger is implemented by comparators that want to hear about
// positions where a range boundary differs between the two sides.
type BoundChanger interface {
	BoundChange(pos int)
}

// spanCursor walks a region as alternating spans and points, tracking
// the non-point ranges active at each step.
type spanCursor struct {
	cursor     cursor
	active     []Value
	activeTo   []int
	activeRank []int
	minActive  int
	point      Value
	pointFrom  int
	pointRank  int
	to         int
	endSide    int
	openStart  int
}

func newSpanCursor(sets []*RangeSet, skip map[*Chunk]bool, minPoint int) *spanCursor {
	return &spanCursor{
		cursor:    newCursor(sets, skip, minPoint),
		minActive: -1,
		to:        -Far,
		openStart: -1,
	}
}

func (s *spanCursor) seek(pos, side int) *spanCursor {
	s.cursor.seek(pos, side)
	s.active = s.active[:0]
	s.activeTo = s.activeTo[:0]
	s.activeRank = s.activeRank[:0]
	s.minActive = -1
	s.to = pos
	s.endSide = side
	s.openStart = -1
	s.next()
	return s
}

func (s *spanCursor) forward(pos, side int) {
	for s.minActive > -1 {
		diff := s.activeTo[s.minActive] - pos
		if diff == 0 {
			diff = s.active[s.minActive].EndSide() - side
		}
		if diff >= 0 {
			break
		}
		s.removeActive(s.minActive)
	}
	s.cursor.forward(pos, side)
}

func (s *spanCursor) removeActive(index int) {
	s.active = slices.Delete(s.active, index, index+1)
	s.activeTo = slices.Delete(s.activeTo, index, index+1)
	s.activeRank = slices.Delete(s.activeRank, index, index+1)
	s.minActive = findMinIndex(s.active, s.activeTo)
}

// addActive inserts the cursor's current range, ordered by rank and then
// by end position, and returns its index.
func (s *spanCursor) addActive() int {
	value, to, rank := s.cursor.Value(), s.cursor.To(), s.cursor.rankOf()
	i := 0
	for i < len(s.activeRank) {
		d := rank - s.activeRank[i]
		if d == 0 {
			d = to - s.activeTo[i]
		}
		if d <= 0 {
			break
		}
		i++
	}
	s.active = slices.Insert(s.active, i, value)
	s.activeTo = slices.Insert(s.activeTo, i, to)
	s.activeRank = slices.Insert(s.activeRank, i, rank)
	s.minActive = findMinIndex(s.active, s.activeTo)
	return i
}

func (s *spanCursor) next() {
	from, wasPoint := s.to, s.point
	s.point = nil
	trackOpen := s.openStart < 0
	var openFrom []int
	for {
		a := s.minActive
		if a > -1 && s.endsBeforeCursor(a) {
			if s.activeTo[a] > from {
				s.to = s.activeTo[a]
				s.endSide = s.active[a].EndSide()
				break
			}
			s.removeActive(a)
			if trackOpen {
				openFrom = slices.Delete(openFrom, a, a+1)
			}
		} else if s.cursor.Done() {
			s.to, s.endSide = Far, Far
			break
		} else if s.cursor.From() > from {
			s.to = s.cursor.From()
			s.endSide = s.cursor.Value().StartSide()
			break
		} else {
			nextVal := s.cursor.Value()
			switch {
			case !nextVal.Point():
				i := s.addActive()
				if trackOpen {
					openFrom = slices.Insert(openFrom, i, s.cursor.From())
				}
				s.cursor.Next()
			case wasPoint != nil && s.cursor.To() == s.to && s.cursor.From() < s.cursor.To():
				// A non-empty point ending where the previous point ended
				// is hidden by it.
				s.cursor.Next()
			default:
				s.point = nextVal
				s.pointFrom = s.cursor.From()
				s.pointRank = s.cursor.rankOf()
				s.to = s.cursor.To()
				s.endSide = nextVal.EndSide()
				s.cursor.Next()
				s.forward(s.to, s.endSide)
			}
			if s.point != nil {
				break
			}
		}
	}
	if trackOpen {
		s.openStart = 0
		for i := len(openFrom) - 1; i >= 0 && openFrom[i] < from; i-- {
			s.openStart++
		}
	}
}

func (s *spanCursor) endsBeforeCursor(a int) bool {
	diff := s.activeTo[a] - s.cursor.From()
	if diff == 0 {
		diff = s.active[a].EndSide() - startSide(s.cursor.Value())
	}
	return diff < 0
}

// activeForPoint returns the active ranges that continue past a point
// ending at to and belong to a set of at least the point's rank.
func (s *spanCursor) activeForPoint(to int) []Value {
	if len(s.active) == 0 {
		return s.active
	}
	var active []Value
	for i := len(s.active) - 1; i >= 0; i-- {
		if s.activeRank[i] < s.pointRank {
			break
		}
		if s.activeTo[i] > to || s.activeTo[i] == to && s.active[i].EndSide() >= s.point.EndSide() {
			active = append(active, s.active[i])
		}
	}
	slices.Reverse(active)
	return active
}

// openEnd counts active ranges extending past to.
func (s *spanCursor) openEnd(to int) int {
	open := 0
	for i := len(s.activeTo) - 1; i >= 0 && s.activeTo[i] > to; i-- {
		open++
	}
	return open
}

func findMinIndex(values []Value, ends []int) int {
	found, foundPos := -1, Far
	for i, end := range ends {
		diff := end - foundPos
		if diff == 0 && found >= 0 {
			diff = values[i].EndSide() - values[found].EndSide()
		}
		if diff < 0 {
			found, foundPos = i, end
		}
	}
	return found
}

// Spans iterates over [from, to] in the given sets, calling iter for each
// span of non-point content and each point. A negative minPointSize
// includes every range; otherwise only points at least that long are
// reported. It returns the number of ranges open at to.
func Spans(sets []*RangeSet, from, to int, iter SpanIterator, minPointSize int) int {
	c := newSpanCursor(sets, nil, minPointSize).seek(from, -Far)
	pos := from
	openRanges := c.openStart
	for {
		curTo := min(c.to, to)
		if c.point != nil {
			active := c.activeForPoint(c.to)
			var openCount int
			switch {
			case c.pointFrom < from:
				openCount = len(active) + 1
			case c.point.StartSide() < 0:
				openCount = len(active)
			default:
				openCount = min(len(active), openRanges)
			}
			iter.Point(pos, curTo, c.point, active, openCount, c.pointRank)
			openRanges = min(c.openEnd(curTo), len(active))
		} else if curTo > pos {
			iter.Span(pos, curTo, c.active, openRanges)
			openRanges = c.openEnd(curTo)
		}
		if c.to > to {
			if c.point != nil && c.to > to {
				return openRanges + 1
			}
			return openRanges
		}
		pos = c.to
		c.next()
	}
}

// Compare reports the differences between two generations of sets.
// textDiff maps positions in the old document to the new one; only
// unchanged stretches of text are compared. Chunks shared by both sides
// at the same position are skipped.
func Compare(oldSets, newSets []*RangeSet, textDiff change.Desc, comparator Comparator, minPointSize int) {
	a := filterForCompare(oldSets, minPointSize)
	b := filterForCompare(newSets, minPointSize)
	shared := findSharedChunks(a, b, &textDiff)
	sideA := newSpanCursor(a, shared, minPointSize)
	sideB := newSpanCursor(b, shared, minPointSize)
	textDiff.IterGaps(func(fromA, fromB, length int) {
		compareSides(sideA, fromA, sideB, fromB, length, comparator)
	})
	if textDiff.Empty() && textDiff.Len() == 0 {
		compareSides(sideA, 0, sideB, 0, 0, comparator)
	}
}

func filterForCompare(sets []*RangeSet, minPointSize int) []*RangeSet {
	var out []*RangeSet
	for _, set := range sets {
		if set.maxPoint > 0 || !set.IsEmpty() && set.maxPoint >= minPointSize {
			out = append(out, set)
		}
	}
	return out
}

// Eq reports whether the sets produce the same spans and points over
// [from, to]. A negative to compares to the end of the document.
func Eq(oldSets, newSets []*RangeSet, from, to int) bool {
	if to < 0 {
		to = Far - 1
	}
	a := uniqueSets(oldSets, newSets)
	b := uniqueSets(newSets, oldSets)
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	shared := findSharedChunks(a, b, nil)
	sideA := newSpanCursor(a, shared, -1).seek(from, -Far)
	sideB := newSpanCursor(b, shared, -1).seek(from, -Far)
	for {
		if sideA.to != sideB.to || !sameValues(sideA.active, sideB.active) ||
			sideA.point != nil && (sideB.point == nil || !sideA.point.Eq(sideB.point)) {
			return false
		}
		if sideA.to > to {
			return true
		}
		sideA.next()
		sideB.next()
	}
}

// uniqueSets returns the non-empty sets of sets that do not appear in
// others.
func uniqueSets(sets, others []*RangeSet) []*RangeSet {
	var out []*RangeSet
	for _, set := range sets {
		if !set.IsEmpty() && !slices.Contains(others, set) {
			out = append(out, set)
		}
	}
	return out
}

// findSharedChunks returns chunks present in the top layers of both a and
// b at corresponding positions. Chunks containing points are not shared.
func findSharedChunks(a, b []*RangeSet, textDiff *change.Desc) map[*Chunk]bool {
	inA := make(map[*Chunk]int)
	for _, set := range a {
		for i, c := range set.chunk {
			if c.maxPoint <= 0 {
				inA[c] = set.chunkPos[i]
			}
		}
	}
	shared := make(map[*Chunk]bool)
	for _, set := range b {
		for i, c := range set.chunk {
			known, ok := inA[c]
			if !ok {
				continue
			}
			if textDiff == nil {
				if known == set.chunkPos[i] {
					shared[c] = true
				}
				continue
			}
			if textDiff.MapPos(known, -1) == set.chunkPos[i] && textDiff.TouchesRange(known, known+c.Len()) == change.TouchNone {
				shared[c] = true
			}
		}
	}
	return shared
}

// compareSides walks two span cursors over matching stretches of text and
// reports where they differ.
func compareSides(a *spanCursor, startA int, b *spanCursor, startB, length int, comparator Comparator) {
	a.seek(startA, -Far)
	b.seek(startB, -Far)
	endB := startB + length
	pos, dPos := startB, startB-startA
	bounds, _ := comparator.(BoundChanger)
	// boundChange defers a boundary report to the next span step.
	for boundChange := false; ; {
		dEnd := (a.to + dPos) - b.to
		diff := dEnd
		if diff == 0 {
			diff = a.endSide - b.endSide
		}
		end := b.to
		if diff < 0 {
			end = a.to + dPos
		}
		clipEnd := min(end, endB)
		if a.point != nil || b.point != nil {
			if !(a.point != nil && b.point != nil && a.point.Eq(b.point) &&
				sameValues(a.activeForPoint(a.to), b.activeForPoint(b.to))) {
				comparator.ComparePoint(pos, clipEnd, a.point, b.point)
			}
			boundChange = false
		} else {
			if boundChange {
				bounds.BoundChange(pos)
			}
			if clipEnd > pos && !sameValues(a.active, b.active) {
				comparator.CompareRange(pos, clipEnd, a.active, b.active)
			}
			boundChange = bounds != nil && clipEnd < endB &&
				(dEnd != 0 || a.openEnd(end) != b.openEnd(end))
		}
		if end > endB {
			return
		}
		pos = end
		if diff <= 0 {
			a.next()
		}
		if diff >= 0 {
			b.next()
		}
	}
}
