package rangeset

import "github.com/dshills/docstate/internal/engine/change"

// Chunk is an immutable block of ranges with positions relative to the
// chunk start.
type Chunk struct {
	from     []int
	to       []int
	value    []Value
	maxPoint int // longest point range, or -1
}

// Len returns the end of the last range, relative to the chunk start.
func (c *Chunk) Len() int {
	return c.to[len(c.to)-1]
}

// Size returns the number of ranges in the chunk.
func (c *Chunk) Size() int {
	return len(c.value)
}

// findIndex returns the first index whose from (or to, with end set) is at
// or after pos/side.
func (c *Chunk) findIndex(pos, side int, end bool, startAt int) int {
	arr := c.from
	if end {
		arr = c.to
	}
	for lo, hi := startAt, len(arr); ; {
		if lo == hi {
			return lo
		}
		mid := (lo + hi) >> 1
		diff := arr[mid] - pos
		if diff == 0 {
			if end {
				diff = c.value[mid].EndSide() - side
			} else {
				diff = c.value[mid].StartSide() - side
			}
		}
		if mid == lo {
			if diff >= 0 {
				return lo
			}
			return hi
		}
		if diff >= 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
}

// between calls f for ranges touching [from, to], relative to the chunk.
// Returns false if f stopped the iteration.
func (c *Chunk) between(offset, from, to int, f func(from, to int, value Value) bool) bool {
	i := c.findIndex(from, -Far, true, 0)
	e := c.findIndex(to, Far, false, i)
	for ; i < e; i++ {
		if !f(c.from[i]+offset, c.to[i]+offset, c.value[i]) {
			return false
		}
	}
	return true
}

// mapChunk maps every range in c through changes. It returns nil when no
// range survives, along with the new chunk start.
func (c *Chunk) mapChunk(offset int, changes change.Desc) (*Chunk, int) {
	var (
		values   []Value
		from, to []int
		newPos   = -1
		maxPoint = -1
	)
	for i, val := range c.value {
		curFrom, curTo := c.from[i]+offset, c.to[i]+offset
		var newFrom, newTo int
		if curFrom == curTo {
			mapped, ok := changes.MapPosMode(curFrom, val.StartSide(), val.MapMode())
			if !ok {
				continue
			}
			newFrom, newTo = mapped, mapped
			if val.StartSide() != val.EndSide() {
				newTo = changes.MapPos(curFrom, val.EndSide())
				if newTo < newFrom {
					continue
				}
			}
		} else {
			newFrom = changes.MapPos(curFrom, val.StartSide())
			newTo = changes.MapPos(curTo, val.EndSide())
			if newFrom > newTo || newFrom == newTo && val.StartSide() > 0 && val.EndSide() <= 0 {
				continue
			}
		}
		if d := newTo - newFrom; d < 0 || d == 0 && val.EndSide()-val.StartSide() < 0 {
			continue
		}
		if newPos < 0 {
			newPos = newFrom
		}
		if val.Point() {
			maxPoint = max(maxPoint, newTo-newFrom)
		}
		values = append(values, val)
		from = append(from, newFrom-newPos)
		to = append(to, newTo-newPos)
	}
	if len(values) == 0 {
		return nil, newPos
	}
	return &Chunk{from: from, to: to, value: values, maxPoint: maxPoint}, newPos
}
