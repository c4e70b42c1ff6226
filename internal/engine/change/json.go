package change

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/docstate/internal/engine/text"
)

// MarshalJSON encodes the sections as a flat number array.
func (d Desc) MarshalJSON() ([]byte, error) {
	out := []byte("[]")
	for _, n := range d.sections {
		var err error
		if out, err = sjson.SetBytes(out, "-1", n); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DescFromJSON decodes a Desc written by MarshalJSON.
func DescFromJSON(data []byte) (Desc, error) {
	if !gjson.ValidBytes(data) {
		return Desc{}, fmt.Errorf("malformed JSON: %w", ErrInvalidJSON)
	}
	value := gjson.ParseBytes(data)
	if !value.IsArray() {
		return Desc{}, fmt.Errorf("expected array, got %s: %w", value.Type, ErrInvalidJSON)
	}
	var sections []int
	for i, elem := range value.Array() {
		n, ok := jsonInt(elem)
		if !ok || n < -1 || i%2 == 0 && n < 0 {
			return Desc{}, fmt.Errorf("invalid section value %s at %d: %w", elem.Raw, i, ErrInvalidJSON)
		}
		sections = append(sections, n)
	}
	if len(sections)%2 != 0 {
		return Desc{}, fmt.Errorf("odd number of section values: %w", ErrInvalidJSON)
	}
	return Desc{sections: sections}, nil
}

// MarshalJSON encodes the change set as an array with one element per
// section: a number for an unchanged run, [len] for a deletion, and
// [len, line...] for a replacement.
func (cs ChangeSet) MarshalJSON() ([]byte, error) {
	out := []byte("[]")
	for i := 0; i < len(cs.sections); i += 2 {
		length, ins := cs.sections[i], cs.sections[i+1]
		var part any
		switch {
		case ins < 0:
			part = length
		case ins == 0:
			part = []any{length}
		default:
			lines := insertedAt(cs.inserted, i>>1).JSON()
			elems := make([]any, 0, len(lines)+1)
			elems = append(elems, length)
			for _, line := range lines {
				elems = append(elems, line)
			}
			part = elems
		}
		var err error
		if out, err = sjson.SetBytes(out, "-1", part); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FromJSON decodes a change set written by ChangeSet.MarshalJSON.
func FromJSON(data []byte) (ChangeSet, error) {
	if !gjson.ValidBytes(data) {
		return ChangeSet{}, fmt.Errorf("malformed JSON: %w", ErrInvalidJSON)
	}
	return FromJSONValue(gjson.ParseBytes(data))
}

// FromJSONValue decodes a change set already parsed by gjson.
func FromJSONValue(value gjson.Result) (ChangeSet, error) {
	if !value.IsArray() {
		return ChangeSet{}, fmt.Errorf("expected array, got %s: %w", value.Type, ErrInvalidJSON)
	}
	var sections []int
	var inserted []*text.Text
	for i, part := range value.Array() {
		if n, ok := jsonInt(part); ok {
			if n < 0 {
				return ChangeSet{}, fmt.Errorf("negative length at %d: %w", i, ErrInvalidJSON)
			}
			sections = append(sections, n, -1)
			continue
		}
		elems := part.Array()
		if !part.IsArray() || len(elems) == 0 {
			return ChangeSet{}, fmt.Errorf("invalid section %s at %d: %w", part.Raw, i, ErrInvalidJSON)
		}
		n, ok := jsonInt(elems[0])
		if !ok || n < 0 {
			return ChangeSet{}, fmt.Errorf("invalid length %s at %d: %w", elems[0].Raw, i, ErrInvalidJSON)
		}
		if len(elems) == 1 {
			sections = append(sections, n, 0)
			continue
		}
		lines := make([]string, 0, len(elems)-1)
		for _, line := range elems[1:] {
			if line.Type != gjson.String {
				return ChangeSet{}, fmt.Errorf("inserted line %s at %d is not a string: %w", line.Raw, i, ErrInvalidJSON)
			}
			lines = append(lines, line.Str)
		}
		for len(inserted) < i {
			inserted = append(inserted, text.Empty)
		}
		ins := text.Of(lines...)
		inserted = append(inserted, ins)
		sections = append(sections, n, ins.Len())
	}
	return ChangeSet{sections: sections, inserted: inserted}, nil
}

// jsonInt returns the value of an integral JSON number.
func jsonInt(v gjson.Result) (int, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	n := v.Int()
	if float64(n) != v.Num {
		return 0, false
	}
	return int(n), true
}
