package text

// Cursor iterates over a document's content.
// Each step yields either a line fragment or a line break marker.
type Cursor interface {
	// Next advances to the next element.
	// Returns true if there is an element, false if iteration is complete.
	Next() bool

	// Skip advances past n bytes before yielding the next element.
	// A negative n moves against the iteration direction first.
	Skip(n int) bool

	// Value returns the current fragment, "\n" for a line break,
	// or "" when done.
	Value() string

	// LineBreak returns true if the current element is a line break.
	LineBreak() bool

	// Done returns true once iteration is complete.
	Done() bool
}

// rawCursor walks the tree with an explicit stack. Each offset encodes
// an index (offset >> 1) and whether a line break is pending before the
// element at that index (the low bit).
type rawCursor struct {
	dir       int
	nodes     []*Text
	offsets   []int
	done      bool
	lineBreak bool
	value     string
}

func newRawCursor(t *Text, dir int) *rawCursor {
	c := &rawCursor{
		dir:     dir,
		nodes:   make([]*Text, 1, 8),
		offsets: make([]int, 1, 8),
	}
	c.nodes[0] = t
	if dir > 0 {
		c.offsets[0] = 1
	} else {
		c.offsets[0] = t.size() << 1
	}
	return c
}

func (c *rawCursor) nextInner(skip, dir int) {
	c.done, c.lineBreak = false, false
	for {
		last := len(c.nodes) - 1
		top := c.nodes[last]
		offsetValue := c.offsets[last]
		offset := offsetValue >> 1
		edge, breakBit := 0, 1
		if dir > 0 {
			edge, breakBit = top.size(), 0
		}

		switch {
		case offset == edge:
			if last == 0 {
				c.done = true
				c.value = ""
				return
			}
			if dir > 0 {
				c.offsets[last-1]++
			}
			c.nodes = c.nodes[:last]
			c.offsets = c.offsets[:last]

		case offsetValue&1 == breakBit:
			c.offsets[last] += dir
			if skip == 0 {
				c.lineBreak = true
				c.value = "\n"
				return
			}
			skip--

		case top.IsLeaf():
			idx := offset
			if dir < 0 {
				idx--
			}
			next := top.text[idx]
			c.offsets[last] += dir
			if len(next) > max(0, skip) {
				switch {
				case skip == 0:
					c.value = next
				case dir > 0:
					c.value = next[skip:]
				default:
					c.value = next[:len(next)-skip]
				}
				return
			}
			skip -= len(next)

		default:
			idx := offset
			if dir < 0 {
				idx--
			}
			next := top.children[idx]
			if skip > next.length {
				skip -= next.length
				c.offsets[last] += dir
				continue
			}
			if dir < 0 {
				c.offsets[last]--
			}
			c.nodes = append(c.nodes, next)
			if dir > 0 {
				c.offsets = append(c.offsets, 1)
			} else {
				c.offsets = append(c.offsets, next.size()<<1)
			}
		}
	}
}

func (c *rawCursor) next(skip int) {
	if skip < 0 {
		c.nextInner(-skip, -c.dir)
		skip = len(c.value)
	}
	c.nextInner(skip, c.dir)
}

func (c *rawCursor) Next() bool      { c.next(0); return !c.done }
func (c *rawCursor) Skip(n int) bool { c.next(n); return !c.done }
func (c *rawCursor) Value() string   { return c.value }
func (c *rawCursor) LineBreak() bool { return c.lineBreak }
func (c *rawCursor) Done() bool      { return c.done }

// partialCursor restricts a rawCursor to [from, to).
type partialCursor struct {
	cursor *rawCursor
	pos    int
	from   int
	to     int
	value  string
	done   bool
}

func newPartialCursor(t *Text, start, end int) *partialCursor {
	dir, pos := 1, 0
	if start > end {
		dir, pos = -1, t.length
	}
	return &partialCursor{
		cursor: newRawCursor(t, dir),
		pos:    pos,
		from:   min(start, end),
		to:     max(start, end),
	}
}

func (c *partialCursor) nextInner(skip, dir int) {
	if (dir < 0 && c.pos <= c.from) || (dir > 0 && c.pos >= c.to) {
		c.value = ""
		c.done = true
		return
	}
	var limit int
	if dir < 0 {
		skip += max(0, c.pos-c.to)
		limit = c.pos - c.from
	} else {
		skip += max(0, c.from-c.pos)
		limit = c.to - c.pos
	}
	if skip > limit {
		skip = limit
	}
	limit -= skip
	c.cursor.next(skip)
	value := c.cursor.value
	c.pos += (len(value) + skip) * dir
	switch {
	case len(value) <= limit:
		c.value = value
	case dir < 0:
		c.value = value[len(value)-limit:]
	default:
		c.value = value[:limit]
	}
	c.done = c.value == ""
}

func (c *partialCursor) next(skip int) {
	if skip < 0 {
		skip = max(skip, c.from-c.pos)
	} else if skip > 0 {
		skip = min(skip, c.to-c.pos)
	}
	c.nextInner(skip, c.cursor.dir)
}

func (c *partialCursor) Next() bool      { c.next(0); return !c.done }
func (c *partialCursor) Skip(n int) bool { c.next(n); return !c.done }
func (c *partialCursor) Value() string   { return c.value }
func (c *partialCursor) LineBreak() bool { return c.cursor.lineBreak && c.value != "" }
func (c *partialCursor) Done() bool      { return c.done }

// lineCursor turns a fragment cursor into one value per line.
type lineCursor struct {
	inner      Cursor
	value      string
	done       bool
	afterBreak bool
}

func newLineCursor(inner Cursor) *lineCursor {
	return &lineCursor{inner: inner, afterBreak: true}
}

func (c *lineCursor) next(skip int) {
	c.inner.Skip(skip)
	switch {
	case c.inner.Done() && c.afterBreak:
		c.value = ""
		c.afterBreak = false
	case c.inner.Done():
		c.done = true
		c.value = ""
	case c.inner.LineBreak():
		if c.afterBreak {
			c.value = ""
		} else {
			c.afterBreak = true
			c.next(0)
		}
	default:
		c.value = c.inner.Value()
		c.afterBreak = false
	}
}

func (c *lineCursor) Next() bool      { c.next(0); return !c.done }
func (c *lineCursor) Skip(n int) bool { c.next(n); return !c.done }
func (c *lineCursor) Value() string   { return c.value }
func (c *lineCursor) LineBreak() bool { return false }
func (c *lineCursor) Done() bool      { return c.done }
