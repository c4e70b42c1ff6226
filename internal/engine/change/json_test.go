package change

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/dshills/docstate/internal/engine/text"
)

func TestChangeSetJSON(t *testing.T) {
	cs, err := Of([]Spec{Insert(5, "hi"), Delete(6, 7), Replace(8, 10, "o\nk")}, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	data, err := cs.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	want := `[5,[0,"hi"],1,[1],1,[2,"o","k"]]`
	if got := strings.ReplaceAll(string(data), " ", ""); got != want {
		t.Errorf("MarshalJSON = %s, want %s", got, want)
	}

	back, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != cs.String() {
		t.Errorf("round trip sections %q, want %q", back, cs)
	}
	doc := text.Of("0123456789")
	if !mustApply(t, back, doc).Eq(mustApply(t, cs, doc)) {
		t.Error("round trip changes the applied result")
	}
}

func TestChangeSetJSONRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		doc := randomDoc(rng)
		cs := randomSet(t, rng, doc.Len())
		data, err := cs.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		back, err := FromJSON(data)
		if err != nil {
			t.Fatalf("FromJSON(%s): %v", data, err)
		}
		if back.String() != cs.String() || !mustApply(t, back, doc).Eq(mustApply(t, cs, doc)) {
			t.Fatalf("round trip of %s failed", data)
		}
	}
}

func TestDescJSON(t *testing.T) {
	desc := NewDesc([]int{4, -1, 0, 2, 4, -1})
	data, err := desc.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.ReplaceAll(string(data), " ", ""); got != "[4,-1,0,2,4,-1]" {
		t.Errorf("MarshalJSON = %s", got)
	}
	back, err := DescFromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != desc.String() {
		t.Errorf("round trip = %q, want %q", back, desc)
	}
}

func TestFromJSONErrors(t *testing.T) {
	tests := []string{
		`{}`,
		`[`,
		`[1.5]`,
		`[-3]`,
		`[[]]`,
		`[["a"]]`,
		`[[2, 3]]`,
		`["x"]`,
	}
	for _, input := range tests {
		if _, err := FromJSON([]byte(input)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("FromJSON(%s) error = %v, want ErrInvalidJSON", input, err)
		}
	}

	for _, input := range []string{`[1, -1, 2]`, `[-1, -1]`, `[1, -2]`, `["1", -1]`, `3`} {
		if _, err := DescFromJSON([]byte(input)); !errors.Is(err, ErrInvalidJSON) {
			t.Errorf("DescFromJSON(%s) error = %v, want ErrInvalidJSON", input, err)
		}
	}
}
