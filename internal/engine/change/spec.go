package change

import (
	"fmt"

	"github.com/dshills/docstate/internal/engine/text"
)

// Spec describes a single replacement of [From, To) in the original
// document.
type Spec struct {
	From int
	To   int

	// Insert is the inserted string, split into lines on the separator
	// passed to Of.
	Insert string

	// Text, when set, is inserted instead of Insert.
	Text *text.Text
}

// Insert returns a spec inserting s at pos.
func Insert(pos int, s string) Spec {
	return Spec{From: pos, To: pos, Insert: s}
}

// Delete returns a spec deleting [from, to).
func Delete(from, to int) Spec {
	return Spec{From: from, To: to}
}

// Replace returns a spec replacing [from, to) with s.
func Replace(from, to int, s string) Spec {
	return Spec{From: from, To: to, Insert: s}
}

func (s Spec) content(lineSep string) *text.Text {
	if s.Text != nil {
		return s.Text
	}
	if s.Insert == "" {
		return text.Empty
	}
	return text.FromString(s.Insert, lineSep)
}

// Of builds a change set from specs addressing a document of the given
// length. Specs refer to the original document and may come in any
// order; overlapping or out-of-order specs are combined as if applied
// independently. An empty lineSep splits inserted strings on "\r\n",
// "\r" and "\n".
func Of(specs []Spec, length int, lineSep string) (ChangeSet, error) {
	var (
		sections []int
		inserted []*text.Text
		pos      int
		total    *ChangeSet
	)

	flush := func(force bool) {
		if !force && len(sections) == 0 {
			return
		}
		if pos < length {
			sections = addSection(sections, length-pos, -1, false)
		}
		set := ChangeSet{sections: sections, inserted: inserted}
		if total == nil {
			total = &set
		} else {
			merged := total.Compose(set.Map(total.Desc(), false))
			total = &merged
		}
		sections, inserted, pos = nil, nil, 0
	}

	for _, spec := range specs {
		if spec.From > spec.To || spec.From < 0 || spec.To > length {
			return ChangeSet{}, fmt.Errorf("invalid change range %d to %d (in doc of length %d): %w", spec.From, spec.To, length, ErrOutOfRange)
		}
		ins := spec.content(lineSep)
		if spec.From == spec.To && ins.Len() == 0 {
			continue
		}
		if spec.From < pos {
			flush(false)
		}
		if spec.From > pos {
			sections = addSection(sections, spec.From-pos, -1, false)
		}
		sections = addSection(sections, spec.To-spec.From, ins.Len(), false)
		inserted = addInsert(inserted, sections, ins)
		pos = spec.To
	}
	flush(total == nil)
	return *total, nil
}

// OfSet merges change sets that all apply to the same document of the
// given length, as if each were applied independently.
func OfSet(sets []ChangeSet, length int) (ChangeSet, error) {
	total := Empty(length)
	for i, set := range sets {
		if set.Len() != length {
			return ChangeSet{}, fmt.Errorf("change set %d has length %d, want %d: %w", i, set.Len(), length, ErrLengthMismatch)
		}
		total = total.Compose(set.Map(total.Desc(), false))
	}
	return total, nil
}
