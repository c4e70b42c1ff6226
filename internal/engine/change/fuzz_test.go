package change

import (
	"testing"

	"github.com/dshills/docstate/internal/engine/text"
)

// FuzzOf compares a single-spec change set against string splicing.
func FuzzOf(f *testing.F) {
	f.Add("0123456789", 5, 5, "hi")
	f.Add("hello\nworld", 3, 8, "")
	f.Add("a\nb\nc", 0, 5, "x\ny")

	f.Fuzz(func(t *testing.T, initial string, from, to int, insert string) {
		doc := text.FromString(initial, "\n")
		from = max(0, min(len(initial), from))
		to = max(from, min(len(initial), to))

		cs, err := Of([]Spec{Replace(from, to, insert)}, doc.Len(), "\n")
		if err != nil {
			t.Fatal(err)
		}
		got, err := cs.Apply(doc)
		if err != nil {
			t.Fatal(err)
		}
		want := initial[:from] + insert + initial[to:]
		if got.String() != want {
			t.Errorf("Apply = %q, want %q", got, want)
		}

		inverse, err := cs.Invert(doc).Apply(got)
		if err != nil {
			t.Fatal(err)
		}
		if inverse.String() != initial {
			t.Errorf("inverse = %q, want %q", inverse, initial)
		}
	})
}

// FuzzFromJSON checks that decoding arbitrary input never panics and that
// anything accepted encodes back to an equivalent change set.
func FuzzFromJSON(f *testing.F) {
	f.Add(`[5,[0,"hi"],1,[1],1,[2,"ok"]]`)
	f.Add(`[]`)
	f.Add(`[[3]]`)

	f.Fuzz(func(t *testing.T, input string) {
		cs, err := FromJSON([]byte(input))
		if err != nil {
			return
		}
		data, err := cs.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		back, err := FromJSON(data)
		if err != nil {
			t.Fatalf("re-decoding %s: %v", data, err)
		}
		if back.String() != cs.String() {
			t.Errorf("round trip %q != %q", back, cs)
		}
	})
}
