package rangeset

import (
	"testing"

	"github.com/dshills/docstate/internal/engine/change"
)

func largeSet(n int) *RangeSet {
	b := NewBuilder()
	for i := range n {
		b.Add(i*4, i*4+2, mark("m"))
	}
	return b.Finish()
}

func BenchmarkMap(b *testing.B) {
	s := largeSet(10000)
	cs, err := change.Of([]change.Spec{change.Insert(20000, "abc")}, s.Len(), "")
	if err != nil {
		b.Fatal(err)
	}
	changes := cs.Desc()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Map(changes)
	}
}

func BenchmarkIter(b *testing.B) {
	s := largeSet(10000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for c := s.Iter(0); !c.Done(); c.Next() {
		}
	}
}

func BenchmarkUpdate(b *testing.B) {
	s := largeSet(10000)
	add := []Range{NewPoint("p", 1).Range(20001, 20001)}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Update(UpdateSpec{Add: add})
	}
}
