package rangeset

import "fmt"

// Builder creates a RangeSet from ranges added in order of from position
// and start side.
type Builder struct {
	chunks      []*Chunk
	chunkPos    []int
	chunkStart  int
	last        Value
	lastFrom    int
	lastTo      int
	from        []int
	to          []int
	value       []Value
	maxPoint    int
	setMaxPoint int
	nextLayer   *Builder
	finished    bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		chunkStart:  -1,
		lastFrom:    -Far,
		lastTo:      -Far,
		maxPoint:    -1,
		setMaxPoint: -1,
	}
}

// Add appends a range. Ranges overlapping the previous one go to a deeper
// layer. Panics with ErrUnsorted if the range sorts before the previous
// one.
func (b *Builder) Add(from, to int, value Value) {
	if !b.addInner(from, to, value) {
		if b.nextLayer == nil {
			b.nextLayer = NewBuilder()
		}
		b.nextLayer.Add(from, to, value)
	}
}

func (b *Builder) addInner(from, to int, value Value) bool {
	if b.finished {
		panic(ErrBuilderFinished)
	}
	diff := from - b.lastTo
	if diff == 0 {
		diff = value.StartSide() - b.last.EndSide()
	}
	if diff <= 0 {
		order := from - b.lastFrom
		if order == 0 {
			order = value.StartSide() - b.last.StartSide()
		}
		if order < 0 {
			panic(fmt.Errorf("range %d-%d after %d-%d: %w", from, to, b.lastFrom, b.lastTo, ErrUnsorted))
		}
	}
	if diff < 0 {
		return false
	}
	if len(b.from) == ChunkSize {
		b.finishChunk(true)
	}
	if b.chunkStart < 0 {
		b.chunkStart = from
	}
	b.from = append(b.from, from-b.chunkStart)
	b.to = append(b.to, to-b.chunkStart)
	b.last = value
	b.lastFrom = from
	b.lastTo = to
	b.value = append(b.value, value)
	if value.Point() {
		b.maxPoint = max(b.maxPoint, to-from)
	}
	return true
}

// addChunk appends a whole existing chunk when it does not overlap the
// last range.
func (b *Builder) addChunk(from int, c *Chunk) bool {
	diff := from - b.lastTo
	if diff == 0 {
		diff = c.value[0].StartSide() - b.last.EndSide()
	}
	if diff < 0 {
		return false
	}
	if len(b.from) > 0 {
		b.finishChunk(true)
	}
	b.setMaxPoint = max(b.setMaxPoint, c.maxPoint)
	b.chunks = append(b.chunks, c)
	b.chunkPos = append(b.chunkPos, from)
	last := len(c.value) - 1
	b.last = c.value[last]
	b.lastFrom = c.from[last] + from
	b.lastTo = c.to[last] + from
	return true
}

func (b *Builder) finishChunk(newArrays bool) {
	b.chunks = append(b.chunks, &Chunk{from: b.from, to: b.to, value: b.value, maxPoint: b.maxPoint})
	b.chunkPos = append(b.chunkPos, b.chunkStart)
	b.chunkStart = -1
	b.setMaxPoint = max(b.setMaxPoint, b.maxPoint)
	b.maxPoint = -1
	if newArrays {
		b.from, b.to, b.value = nil, nil, nil
	}
}

// Finish returns the built set. The builder cannot be used afterwards.
func (b *Builder) Finish() *RangeSet {
	return b.finishInner(emptySet)
}

func (b *Builder) finishInner(next *RangeSet) *RangeSet {
	if b.finished {
		panic(ErrBuilderFinished)
	}
	if len(b.from) > 0 {
		b.finishChunk(false)
	}
	b.finished = true
	if len(b.chunks) == 0 {
		return next
	}
	if b.nextLayer != nil {
		next = b.nextLayer.finishInner(next)
	}
	return &RangeSet{chunkPos: b.chunkPos, chunk: b.chunks, next: next, maxPoint: b.setMaxPoint}
}
