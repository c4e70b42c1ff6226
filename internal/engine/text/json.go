package text

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MarshalJSON encodes the document as an array of lines.
func (t *Text) MarshalJSON() ([]byte, error) {
	out := []byte("[]")
	for _, line := range t.JSON() {
		var err error
		if out, err = sjson.SetBytes(out, "-1", line); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FromJSON decodes an array of line strings.
func FromJSON(data []byte) (*Text, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("malformed JSON: %w", ErrInvalidJSON)
	}
	lines, err := linesFromJSON(gjson.ParseBytes(data))
	if err != nil {
		return nil, err
	}
	return Of(lines...), nil
}

// FromJSONValue decodes a line array already parsed by gjson.
func FromJSONValue(value gjson.Result) (*Text, error) {
	lines, err := linesFromJSON(value)
	if err != nil {
		return nil, err
	}
	return Of(lines...), nil
}

func linesFromJSON(value gjson.Result) ([]string, error) {
	if !value.IsArray() {
		return nil, fmt.Errorf("expected array, got %s: %w", value.Type, ErrInvalidJSON)
	}
	var lines []string
	var bad error
	value.ForEach(func(_, line gjson.Result) bool {
		if line.Type != gjson.String {
			bad = fmt.Errorf("line %d is %s, not a string: %w", len(lines)+1, line.Type, ErrInvalidJSON)
			return false
		}
		lines = append(lines, line.Str)
		return true
	})
	if bad != nil {
		return nil, bad
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty line array: %w", ErrInvalidJSON)
	}
	return lines, nil
}
