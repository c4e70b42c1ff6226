package rangeset

import (
	"slices"

	"github.com/dshills/docstate/internal/engine/change"
)

// RangeSet is an immutable, layered collection of ranges.
type RangeSet struct {
	chunkPos []int
	chunk    []*Chunk
	next     *RangeSet // nil only for the empty sentinel
	maxPoint int
}

var emptySet = &RangeSet{maxPoint: -1}

// Empty returns the shared empty set.
func Empty() *RangeSet {
	return emptySet
}

// IsEmpty returns true if the set holds no ranges.
func (s *RangeSet) IsEmpty() bool {
	return s.next == nil
}

// MaxPoint returns the length of the longest point range, or -1.
func (s *RangeSet) MaxPoint() int {
	return s.maxPoint
}

func (s *RangeSet) chunkEnd(i int) int {
	return s.chunkPos[i] + s.chunk[i].Len()
}

// Len returns the end position of the last range in the set.
func (s *RangeSet) Len() int {
	last := len(s.chunk) - 1
	if last < 0 {
		return 0
	}
	return max(s.chunkEnd(last), s.next.Len())
}

// Size returns the number of ranges in the set.
func (s *RangeSet) Size() int {
	if s.IsEmpty() {
		return 0
	}
	size := s.next.Size()
	for _, c := range s.chunk {
		size += len(c.value)
	}
	return size
}

// Of builds a set from ranges. With sort unset the ranges must already be
// ordered by from position and start side; otherwise Of panics with
// ErrUnsorted.
func Of(ranges []Range, sort bool) *RangeSet {
	b := NewBuilder()
	if sort {
		ranges = lazySort(ranges)
	}
	for _, r := range ranges {
		b.Add(r.From, r.To, r.Value)
	}
	return b.Finish()
}

// lazySort returns ranges sorted, copying only when they are out of order.
func lazySort(ranges []Range) []Range {
	for i := 1; i < len(ranges); i++ {
		if cmpRange(ranges[i-1], ranges[i]) > 0 {
			sorted := slices.Clone(ranges)
			slices.SortStableFunc(sorted, cmpRange)
			return sorted
		}
	}
	return ranges
}

// Join stacks sets into one. Ranges are not merged; each input keeps its
// layers.
func Join(sets []*RangeSet) *RangeSet {
	if len(sets) == 0 {
		return emptySet
	}
	result := sets[len(sets)-1]
	for i := len(sets) - 2; i >= 0; i-- {
		for layer := sets[i]; !layer.IsEmpty(); layer = layer.next {
			result = &RangeSet{
				chunkPos: layer.chunkPos,
				chunk:    layer.chunk,
				next:     result,
				maxPoint: max(layer.maxPoint, result.maxPoint),
			}
		}
	}
	return result
}

// UpdateSpec describes ranges to add to and remove from a set.
type UpdateSpec struct {
	// Add holds new ranges, ordered unless Sort is set.
	Add []Range

	// Sort sorts Add before merging.
	Sort bool

	// Filter decides whether an existing range is kept. Only ranges
	// touching [FilterFrom, FilterTo] are tested.
	Filter func(from, to int, value Value) bool

	// FilterFrom and FilterTo limit filtering. A negative FilterTo, such
	// as ToEnd, means the end of the set.
	FilterFrom int
	FilterTo   int
}

// ToEnd is a FilterTo that extends filtering to the end of the set.
const ToEnd = -1

// Update returns a new set with spec applied. Untouched chunks are shared
// with the receiver.
func (s *RangeSet) Update(spec UpdateSpec) *RangeSet {
	add, filter := spec.Add, spec.Filter
	filterFrom, filterTo := spec.FilterFrom, spec.FilterTo
	if filterTo < 0 {
		filterTo = s.Len()
	}
	if len(add) == 0 && filter == nil {
		return s
	}
	if spec.Sort {
		add = lazySort(add)
	}
	if s.IsEmpty() {
		if len(add) > 0 {
			return Of(add, false)
		}
		return s
	}

	cur := newLayerCursor(s, nil, -1, 0)
	cur.seek(0, -Far)
	b := NewBuilder()
	var spill []Range
	for i := 0; cur.value != nil || i < len(add); {
		if i < len(add) && cmpCursorRange(cur, add[i]) >= 0 {
			r := add[i]
			i++
			if !b.addInner(r.From, r.To, r.Value) {
				spill = append(spill, r)
			}
		} else if cur.rangeIndex == 1 && cur.chunkIndex < len(s.chunk) &&
			(i == len(add) || s.chunkEnd(cur.chunkIndex) < add[i].From) &&
			(filter == nil || filterFrom > s.chunkEnd(cur.chunkIndex) || filterTo < s.chunkPos[cur.chunkIndex]) &&
			b.addChunk(s.chunkPos[cur.chunkIndex], s.chunk[cur.chunkIndex]) {
			cur.nextChunk()
		} else {
			if filter == nil || filterFrom > cur.to || filterTo < cur.from || filter(cur.from, cur.to, cur.value) {
				if !b.addInner(cur.from, cur.to, cur.value) {
					spill = append(spill, Range{From: cur.from, To: cur.to, Value: cur.value})
				}
			}
			cur.Next()
		}
	}

	next := emptySet
	if !s.next.IsEmpty() || len(spill) > 0 {
		next = s.next.Update(UpdateSpec{Add: spill, Filter: filter, FilterFrom: filterFrom, FilterTo: filterTo})
	}
	return b.finishInner(next)
}

func cmpCursorRange(cur *layerCursor, r Range) int {
	if d := cur.from - r.From; d != 0 {
		return d
	}
	return startSide(cur.value) - r.Value.StartSide()
}

// Map moves all ranges through changes. Ranges whose content was deleted
// are dropped according to their sides and map mode. A range that no
// longer fits its layer after mapping moves to a deeper layer.
func (s *RangeSet) Map(changes change.Desc) *RangeSet {
	if changes.Empty() || s.IsEmpty() {
		return s
	}
	var chunks []*Chunk
	var chunkPos []int
	var touched []bool
	maxPoint := -1
	for i, c := range s.chunk {
		start := s.chunkPos[i]
		switch changes.TouchesRange(start, start+c.Len()) {
		case change.TouchNone:
			maxPoint = max(maxPoint, c.maxPoint)
			chunks = append(chunks, c)
			chunkPos = append(chunkPos, changes.MapPos(start, -1))
			touched = append(touched, false)
		case change.TouchYes:
			if mapped, pos := c.mapChunk(start, changes); mapped != nil {
				maxPoint = max(maxPoint, mapped.maxPoint)
				chunks = append(chunks, mapped)
				chunkPos = append(chunkPos, pos)
				touched = append(touched, true)
			}
		}
	}
	next := s.next.Map(changes)
	if len(chunks) == 0 {
		return next
	}
	if !layerOrdered(chunkPos, chunks, touched) {
		return relayer(chunkPos, chunks, next)
	}
	return &RangeSet{chunkPos: chunkPos, chunk: chunks, next: next, maxPoint: maxPoint}
}

// layerTail is the last range kept in a layer.
type layerTail struct {
	from, to int
	value    Value
}

// accepts reports whether a range starting at from can follow the tail in
// the same layer: it must sort after it and must not overlap it.
func (t *layerTail) accepts(from int, value Value) bool {
	if t.value == nil {
		return true
	}
	diff := from - t.to
	if diff == 0 {
		diff = value.StartSide() - t.value.EndSide()
	}
	if diff < 0 {
		return false
	}
	order := from - t.from
	if order == 0 {
		order = value.StartSide() - t.value.StartSide()
	}
	return order >= 0
}

// layerOrdered checks that mapped chunks still form a valid layer. Chunks
// that were not remapped are only checked at their first range.
func layerOrdered(chunkPos []int, chunks []*Chunk, touched []bool) bool {
	var tail layerTail
	for i, c := range chunks {
		pos := chunkPos[i]
		if !tail.accepts(c.from[0]+pos, c.value[0]) {
			return false
		}
		if touched[i] {
			for j := 1; j < len(c.value); j++ {
				prev := layerTail{from: c.from[j-1] + pos, to: c.to[j-1] + pos, value: c.value[j-1]}
				if !prev.accepts(c.from[j]+pos, c.value[j]) {
					return false
				}
			}
		}
		last := len(c.value) - 1
		tail = layerTail{from: c.from[last] + pos, to: c.to[last] + pos, value: c.value[last]}
	}
	return true
}

// relayer rebuilds a layer from mapped chunks, moving ranges that are out
// of order or overlap their predecessor into next.
func relayer(chunkPos []int, chunks []*Chunk, next *RangeSet) *RangeSet {
	b := NewBuilder()
	var tail layerTail
	var spill []Range
	for i, c := range chunks {
		for j, v := range c.value {
			from, to := c.from[j]+chunkPos[i], c.to[j]+chunkPos[i]
			if !tail.accepts(from, v) {
				spill = append(spill, Range{From: from, To: to, Value: v})
				continue
			}
			b.addInner(from, to, v)
			tail = layerTail{from: from, to: to, value: v}
		}
	}
	if len(spill) > 0 {
		next = next.Update(UpdateSpec{Add: spill, Sort: true})
	}
	return b.finishInner(next)
}

// Between calls f for every range touching [from, to], layer by layer.
// Iteration stops when f returns false.
func (s *RangeSet) Between(from, to int, f func(from, to int, value Value) bool) {
	if s.IsEmpty() {
		return
	}
	for i, c := range s.chunk {
		start := s.chunkPos[i]
		if to >= start && from <= start+c.Len() && !c.between(start, from-start, to-start, f) {
			return
		}
	}
	s.next.Between(from, to, f)
}

// Iter returns a cursor over the set's ranges, starting at the first
// range that ends at or after from.
func (s *RangeSet) Iter(from int) Cursor {
	return IterSets([]*RangeSet{s}, from)
}

// IterSets returns a cursor over the ranges of several sets. Ranges at the
// same position and side are ordered by the index of their set.
func IterSets(sets []*RangeSet, from int) Cursor {
	c := newCursor(sets, nil, -1)
	c.seek(from, -Far)
	return c
}
