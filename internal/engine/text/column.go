package text

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// FindClusterBreak returns the grapheme cluster boundary after (forward)
// or before pos in s. Cursor motion uses this so a combined character or
// emoji sequence is never split.
func FindClusterBreak(s string, pos int, forward bool) int {
	if forward {
		if pos >= len(s) {
			return len(s)
		}
		cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s[pos:], -1)
		return pos + len(cluster)
	}
	if pos <= 0 {
		return 0
	}
	offset, state := 0, -1
	for rest := s; rest != ""; {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if offset+len(cluster) >= pos {
			return offset
		}
		offset += len(cluster)
	}
	return offset
}

// CountColumn returns the display column at byte offset to in s.
// Tabs advance to the next multiple of tabSize; wide characters count
// as two columns.
func CountColumn(s string, tabSize, to int) int {
	col := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		start, _ := g.Positions()
		if start >= to {
			break
		}
		col += clusterWidth(g.Str(), col, tabSize)
	}
	return col
}

// FindColumn returns the byte offset in s of display column col.
// Past the end of the line it returns len(s), or -1 when strict is set.
func FindColumn(s string, col, tabSize int, strict bool) int {
	n := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		start, _ := g.Positions()
		if n >= col {
			return start
		}
		n += clusterWidth(g.Str(), n, tabSize)
	}
	if n >= col || !strict {
		return len(s)
	}
	return -1
}

func clusterWidth(cluster string, col, tabSize int) int {
	if cluster == "\t" {
		if tabSize <= 0 {
			return 1
		}
		return tabSize - col%tabSize
	}
	return runewidth.StringWidth(cluster)
}
