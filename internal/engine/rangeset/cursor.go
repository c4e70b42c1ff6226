package rangeset

// Cursor walks ranges in order of from position and start side.
//
//	for c := set.Iter(0); !c.Done(); c.Next() {
//		fmt.Println(c.From(), c.To(), c.Value())
//	}
type Cursor interface {
	// Next advances to the next range.
	Next()

	// Done returns true once all ranges have been visited.
	Done() bool

	// From returns the start of the current range, or Far when done.
	From() int

	// To returns the end of the current range, or Far when done.
	To() int

	// Value returns the current value, or nil when done.
	Value() Value
}

// cursor is the internal interface shared by layer and heap cursors.
type cursor interface {
	Cursor
	seek(pos, side int)
	forward(pos, side int)
	rankOf() int
}

// newCursor returns a cursor over all layers of sets. A single layer gets
// a plain layer cursor; several are merged through a heap.
func newCursor(sets []*RangeSet, skip map[*Chunk]bool, minPoint int) cursor {
	var heap []*layerCursor
	for i, set := range sets {
		for layer := set; !layer.IsEmpty(); layer = layer.next {
			if layer.maxPoint >= minPoint {
				heap = append(heap, newLayerCursor(layer, skip, minPoint, i))
			}
		}
	}
	if len(heap) == 1 {
		return heap[0]
	}
	return &heapCursor{heap: heap}
}

// layerCursor walks the ranges of a single layer.
type layerCursor struct {
	layer      *RangeSet
	skip       map[*Chunk]bool
	minPoint   int
	rank       int
	from       int
	to         int
	value      Value
	chunkIndex int
	rangeIndex int
}

func newLayerCursor(layer *RangeSet, skip map[*Chunk]bool, minPoint, rank int) *layerCursor {
	return &layerCursor{layer: layer, skip: skip, minPoint: minPoint, rank: rank}
}

func (c *layerCursor) Next()        { c.next() }
func (c *layerCursor) Done() bool   { return c.value == nil }
func (c *layerCursor) From() int    { return c.from }
func (c *layerCursor) To() int      { return c.to }
func (c *layerCursor) Value() Value { return c.value }
func (c *layerCursor) rankOf() int  { return c.rank }

func (c *layerCursor) seek(pos, side int) {
	c.chunkIndex, c.rangeIndex = 0, 0
	c.gotoInner(pos, side, false)
}

func (c *layerCursor) gotoInner(pos, side int, forward bool) {
	for c.chunkIndex < len(c.layer.chunk) {
		next := c.layer.chunk[c.chunkIndex]
		if !(c.skip[next] || c.layer.chunkEnd(c.chunkIndex) < pos || next.maxPoint < c.minPoint) {
			break
		}
		c.chunkIndex++
		forward = false
	}
	if c.chunkIndex < len(c.layer.chunk) {
		rangeIndex := c.layer.chunk[c.chunkIndex].findIndex(pos-c.layer.chunkPos[c.chunkIndex], side, true, 0)
		if !forward || c.rangeIndex < rangeIndex {
			c.setRangeIndex(rangeIndex)
		}
	}
	c.next()
}

func (c *layerCursor) forward(pos, side int) {
	diff := c.to - pos
	if diff == 0 {
		diff = endSide(c.value) - side
	}
	if diff < 0 {
		c.gotoInner(pos, side, true)
	}
}

func (c *layerCursor) next() {
	for {
		if c.chunkIndex == len(c.layer.chunk) {
			c.from, c.to = Far, Far
			c.value = nil
			return
		}
		chunkPos, chunk := c.layer.chunkPos[c.chunkIndex], c.layer.chunk[c.chunkIndex]
		c.from = chunkPos + chunk.from[c.rangeIndex]
		c.to = chunkPos + chunk.to[c.rangeIndex]
		c.value = chunk.value[c.rangeIndex]
		c.setRangeIndex(c.rangeIndex + 1)
		if c.minPoint < 0 || c.value.Point() && c.to-c.from >= c.minPoint {
			return
		}
	}
}

func (c *layerCursor) setRangeIndex(index int) {
	if index == len(c.layer.chunk[c.chunkIndex].value) {
		c.chunkIndex++
		for c.skip != nil && c.chunkIndex < len(c.layer.chunk) && c.skip[c.layer.chunk[c.chunkIndex]] {
			c.chunkIndex++
		}
		c.rangeIndex = 0
	} else {
		c.rangeIndex = index
	}
}

func (c *layerCursor) nextChunk() {
	c.chunkIndex++
	c.rangeIndex = 0
	c.next()
}

func (c *layerCursor) compare(other *layerCursor) int {
	if d := c.from - other.from; d != 0 {
		return d
	}
	if d := startSide(c.value) - startSide(other.value); d != 0 {
		return d
	}
	if d := c.rank - other.rank; d != 0 {
		return d
	}
	if d := c.to - other.to; d != 0 {
		return d
	}
	return endSide(c.value) - endSide(other.value)
}

// heapCursor merges several layer cursors, keeping the one with the
// lowest position at the top of a binary heap.
type heapCursor struct {
	heap  []*layerCursor
	from  int
	to    int
	value Value
	rank  int
}

func (c *heapCursor) Next()        { c.next() }
func (c *heapCursor) Done() bool   { return c.value == nil }
func (c *heapCursor) From() int    { return c.from }
func (c *heapCursor) To() int      { return c.to }
func (c *heapCursor) Value() Value { return c.value }
func (c *heapCursor) rankOf() int  { return c.rank }

func (c *heapCursor) seek(pos, side int) {
	for _, cur := range c.heap {
		cur.seek(pos, side)
	}
	for i := len(c.heap) >> 1; i >= 0; i-- {
		heapBubble(c.heap, i)
	}
	c.next()
}

func (c *heapCursor) forward(pos, side int) {
	for _, cur := range c.heap {
		cur.forward(pos, side)
	}
	for i := len(c.heap) >> 1; i >= 0; i-- {
		heapBubble(c.heap, i)
	}
	diff := c.to - pos
	if diff == 0 {
		diff = endSide(c.value) - side
	}
	if diff < 0 {
		c.next()
	}
}

func (c *heapCursor) next() {
	if len(c.heap) == 0 {
		c.from, c.to = Far, Far
		c.value = nil
		c.rank = -1
		return
	}
	top := c.heap[0]
	c.from, c.to, c.value, c.rank = top.from, top.to, top.value, top.rank
	if top.value != nil {
		top.next()
	}
	heapBubble(c.heap, 0)
}

func heapBubble(heap []*layerCursor, index int) {
	if index >= len(heap) {
		return
	}
	for cur := heap[index]; ; {
		childIndex := index<<1 + 1
		if childIndex >= len(heap) {
			return
		}
		child := heap[childIndex]
		if childIndex+1 < len(heap) && child.compare(heap[childIndex+1]) >= 0 {
			child = heap[childIndex+1]
			childIndex++
		}
		if cur.compare(child) < 0 {
			return
		}
		heap[childIndex] = cur
		heap[index] = child
		index = childIndex
	}
}
