package change

import (
	"fmt"
	"slices"

	"github.com/dshills/docstate/internal/engine/text"
)

// ChangeSet is a change together with the content it inserts.
// The zero value is the empty change of an empty document.
type ChangeSet struct {
	sections []int
	inserted []*text.Text // indexed by section; missing entries are empty
}

// Empty returns the change set that leaves a document of length
// untouched.
func Empty(length int) ChangeSet {
	if length == 0 {
		return ChangeSet{}
	}
	return ChangeSet{sections: []int{length, -1}}
}

// Desc returns the change set without its inserted content.
func (cs ChangeSet) Desc() Desc {
	return Desc{sections: cs.sections}
}

// Len returns the length of the document the change applies to.
func (cs ChangeSet) Len() int { return cs.Desc().Len() }

// NewLen returns the length of the document after the change.
func (cs ChangeSet) NewLen() int { return cs.Desc().NewLen() }

// Empty returns true if the change leaves the document untouched.
func (cs ChangeSet) Empty() bool { return cs.Desc().Empty() }

// String renders the sections, e.g. "4 0:2 4".
func (cs ChangeSet) String() string { return cs.Desc().String() }

// MapPos maps a position through the change. See Desc.MapPos.
func (cs ChangeSet) MapPos(pos, assoc int) int { return cs.Desc().MapPos(pos, assoc) }

// MapPosMode maps a position through the change. See Desc.MapPosMode.
func (cs ChangeSet) MapPosMode(pos, assoc int, mode MapMode) (int, bool) {
	return cs.Desc().MapPosMode(pos, assoc, mode)
}

// TouchesRange reports whether any change touches [from, to].
func (cs ChangeSet) TouchesRange(from, to int) Touch { return cs.Desc().TouchesRange(from, to) }

// IterGaps calls f for each unchanged range. See Desc.IterGaps.
func (cs ChangeSet) IterGaps(f func(posA, posB, length int)) { cs.Desc().IterGaps(f) }

// IterChangedRanges calls f for each changed range. See Desc.IterChangedRanges.
func (cs ChangeSet) IterChangedRanges(f func(fromA, toA, fromB, toB int), individual bool) {
	cs.Desc().IterChangedRanges(f, individual)
}

// IterChanges calls f for each replaced range with its extent in the old
// and new document and the inserted content. Adjacent changes are merged
// unless individual is set.
func (cs ChangeSet) IterChanges(f func(fromA, toA, fromB, toB int, inserted *text.Text), individual bool) {
	iterChanges(cs.sections, cs.inserted, individual, f)
}

// Apply applies the change to doc, which must have length cs.Len().
func (cs ChangeSet) Apply(doc *text.Text) (*text.Text, error) {
	if doc.Len() != cs.Len() {
		return nil, fmt.Errorf("apply change of length %d to document of length %d: %w", cs.Len(), doc.Len(), ErrLengthMismatch)
	}
	iterChanges(cs.sections, cs.inserted, false, func(fromA, toA, fromB, _ int, ins *text.Text) {
		doc = doc.Replace(fromB, fromB+(toA-fromA), ins)
	})
	return doc, nil
}

// Invert returns the change that undoes cs. doc is the document cs was
// applied to. Panics with ErrLengthMismatch if its length differs.
func (cs ChangeSet) Invert(doc *text.Text) ChangeSet {
	if doc.Len() != cs.Len() {
		panic(fmt.Errorf("invert change of length %d against document of length %d: %w", cs.Len(), doc.Len(), ErrLengthMismatch))
	}
	sections := slices.Clone(cs.sections)
	var inserted []*text.Text
	for i, pos := 0, 0; i < len(sections); i += 2 {
		length, ins := sections[i], sections[i+1]
		if ins >= 0 {
			sections[i], sections[i+1] = ins, length
			for len(inserted) < i>>1 {
				inserted = append(inserted, text.Empty)
			}
			if length > 0 {
				inserted = append(inserted, doc.Slice(pos, pos+length))
			} else {
				inserted = append(inserted, text.Empty)
			}
		}
		pos += length
	}
	return ChangeSet{sections: sections, inserted: inserted}
}

// Compose returns a change with the effect of cs followed by other.
// other must apply to the document cs produces; panics with
// ErrLengthMismatch otherwise.
func (cs ChangeSet) Compose(other ChangeSet) ChangeSet {
	if cs.NewLen() != other.Len() {
		panic(fmt.Errorf("compose %d onto %d: %w", other.Len(), cs.NewLen(), ErrLengthMismatch))
	}
	if cs.Empty() {
		return other
	}
	if other.Empty() {
		return cs
	}
	sections, inserted := composeSets(newSectionIter(cs.sections, cs.inserted), newSectionIter(other.sections, other.inserted), true)
	return ChangeSet{sections: sections, inserted: inserted}
}

// Map rebases cs over other, a change to the same document, so it can be
// applied after other. before puts cs's insertions before other's
// insertions at the same position. Panics with ErrLengthMismatch if the
// lengths differ.
func (cs ChangeSet) Map(other Desc, before bool) ChangeSet {
	if cs.Len() != other.Len() {
		panic(fmt.Errorf("map %d over %d: %w", cs.Len(), other.Len(), ErrLengthMismatch))
	}
	if other.Empty() {
		return cs
	}
	sections, inserted := mapSet(newSectionIter(cs.sections, cs.inserted), newSectionIter(other.sections, nil), before, true)
	return ChangeSet{sections: sections, inserted: inserted}
}
