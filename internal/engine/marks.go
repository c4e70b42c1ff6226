package engine

import (
	"fmt"
	"slices"

	"github.com/dshills/docstate/internal/engine/rangeset"
)

// ============================================================================
// Annotation Layers
// ============================================================================

// AddMarks adds ranges to the named layer, creating it if needed. Ranges
// may be given in any order.
func (e *Engine) AddMarks(layer string, ranges ...rangeset.Range) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, r := range ranges {
		if err := e.checkRange(r.From, r.To); err != nil {
			return fmt.Errorf("layer %q: %w", layer, err)
		}
	}
	e.layers[layer] = e.marksLocked(layer).Update(rangeset.UpdateSpec{Add: ranges, Sort: true})
	return nil
}

// Mark tags [from, to) in the named layer with a class. The mark does not
// grow when text is inserted at either end.
func (e *Engine) Mark(layer string, from, to int, class string) error {
	return e.AddMarks(layer, rangeset.NewMark(class, false, false).Range(from, to))
}

// RemoveMarks drops every range in the named layer that touches
// [from, to].
func (e *Engine) RemoveMarks(layer string, from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkRange(from, to); err != nil {
		return fmt.Errorf("layer %q: %w", layer, err)
	}
	set, ok := e.layers[layer]
	if !ok {
		return nil
	}
	e.layers[layer] = set.Update(rangeset.UpdateSpec{
		Filter:     func(f, t int, _ rangeset.Value) bool { return t < from || f > to },
		FilterFrom: from,
		FilterTo:   to,
	})
	return nil
}

// ClearLayer removes the named layer.
func (e *Engine) ClearLayer(layer string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.layers, layer)
}

// Marks returns the named layer, or the empty set.
func (e *Engine) Marks(layer string) *rangeset.RangeSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.marksLocked(layer)
}

func (e *Engine) marksLocked(layer string) *rangeset.RangeSet {
	if set, ok := e.layers[layer]; ok {
		return set
	}
	return rangeset.Empty()
}

// Layers returns the names of all layers, sorted.
func (e *Engine) Layers() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.layerNamesLocked()
}

func (e *Engine) layerNamesLocked() []string {
	names := make([]string, 0, len(e.layers))
	for name := range e.layers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Spans walks [from, to] over all layers in name order.
// See rangeset.Spans.
func (e *Engine) Spans(from, to int, iter rangeset.SpanIterator) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.checkRange(from, to); err != nil {
		return 0, err
	}
	names := e.layerNamesLocked()
	sets := make([]*rangeset.RangeSet, len(names))
	for i, name := range names {
		sets[i] = e.layers[name]
	}
	return rangeset.Spans(sets, from, to, iter, -1), nil
}
