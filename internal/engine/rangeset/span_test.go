package rangeset

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/docstate/internal/engine/change"
)

func classes(values []Value) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.(*Mark).Class
	}
	return "[" + strings.Join(names, " ") + "]"
}

func className(v Value) string {
	if v == nil {
		return "-"
	}
	return v.(*Mark).Class
}

type spanRecorder struct {
	events []string
}

func (r *spanRecorder) Span(from, to int, active []Value, openStart int) {
	r.events = append(r.events, fmt.Sprintf("span %d-%d %s %d", from, to, classes(active), openStart))
}

func (r *spanRecorder) Point(from, to int, value Value, active []Value, openStart, index int) {
	r.events = append(r.events, fmt.Sprintf("point %d-%d %s %s %d %d", from, to, className(value), classes(active), openStart, index))
}

type compareRecorder struct {
	events []string
}

func (r *compareRecorder) CompareRange(from, to int, activeA, activeB []Value) {
	r.events = append(r.events, fmt.Sprintf("range %d-%d %s %s", from, to, classes(activeA), classes(activeB)))
}

func (r *compareRecorder) ComparePoint(from, to int, pointA, pointB Value) {
	r.events = append(r.events, fmt.Sprintf("point %d-%d %s %s", from, to, className(pointA), className(pointB)))
}

func (r *compareRecorder) BoundChange(pos int) {
	r.events = append(r.events, fmt.Sprintf("bound %d", pos))
}

// nested returns a set with a covering mark, a nested mark, and a point.
func nested() *RangeSet {
	return Of([]Range{
		mark("a").Range(0, 10),
		mark("b").Range(3, 5),
		NewPoint("w", 1).Range(7, 8),
	}, false)
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
		open     int
	}{
		{"whole", 0, 10, []string{
			"span 0-3 [a] 0",
			"span 3-5 [b a] 1",
			"span 5-7 [a] 1",
			"point 7-8 w [a] 1 0",
			"span 8-10 [a] 1",
		}, 0},
		{"partial", 4, 6, []string{
			"span 4-5 [b a] 2",
			"span 5-6 [a] 1",
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec spanRecorder
			open := Spans([]*RangeSet{nested()}, tt.from, tt.to, &rec, -1)
			if !slices.Equal(rec.events, tt.want) {
				t.Errorf("events:\n%s\nwant:\n%s", strings.Join(rec.events, "\n"), strings.Join(tt.want, "\n"))
			}
			if open != tt.open {
				t.Errorf("open ranges = %d, want %d", open, tt.open)
			}
		})
	}
}

func TestSpansPointsOnly(t *testing.T) {
	var rec spanRecorder
	Spans([]*RangeSet{nested()}, 0, 10, &rec, 0)
	want := []string{"span 0-7 [] 0", "point 7-8 w [] 0 0", "span 8-10 [] 0"}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestCompare(t *testing.T) {
	unchanged := desc(t, 20)

	t.Run("moved end", func(t *testing.T) {
		oldSet := Of([]Range{mark("a").Range(2, 6)}, false)
		newSet := Of([]Range{mark("a").Range(2, 8)}, false)
		var rec compareRecorder
		Compare([]*RangeSet{oldSet}, []*RangeSet{newSet}, unchanged, &rec, -1)
		want := []string{"bound 6", "range 6-8 [] [a]", "bound 8"}
		if !slices.Equal(rec.events, want) {
			t.Errorf("events = %v, want %v", rec.events, want)
		}
	})

	t.Run("split mark", func(t *testing.T) {
		oldSet := Of([]Range{mark("x").Range(0, 10), mark("y").Range(2, 5)}, false)
		newSet := Of([]Range{mark("x").Range(0, 5), mark("y").Range(2, 5), mark("x").Range(5, 10)}, false)
		var rec compareRecorder
		Compare([]*RangeSet{oldSet}, []*RangeSet{newSet}, unchanged, &rec, -1)
		want := []string{"bound 5"}
		if !slices.Equal(rec.events, want) {
			t.Errorf("events = %v, want %v", rec.events, want)
		}
	})

	t.Run("changed point", func(t *testing.T) {
		oldSet := Of([]Range{NewPoint("x", 1).Range(3, 3)}, false)
		newSet := Of([]Range{NewPoint("y", 1).Range(3, 3)}, false)
		var rec compareRecorder
		Compare([]*RangeSet{oldSet}, []*RangeSet{newSet}, unchanged, &rec, -1)
		want := []string{"point 3-3 x y"}
		if !slices.Equal(rec.events, want) {
			t.Errorf("events = %v, want %v", rec.events, want)
		}
	})

	t.Run("mapped", func(t *testing.T) {
		oldSet := Of([]Range{mark("a").Range(2, 6)}, false)
		changes := desc(t, 20, change.Insert(0, "xx"))
		var rec compareRecorder
		Compare([]*RangeSet{oldSet}, []*RangeSet{oldSet.Map(changes)}, changes, &rec, -1)
		if len(rec.events) != 0 {
			t.Errorf("mapped set reported differences: %v", rec.events)
		}
	})
}

func TestEq(t *testing.T) {
	a := Of([]Range{mark("a").Range(2, 6)}, false)
	same := Of([]Range{mark("a").Range(2, 6)}, false)
	longer := Of([]Range{mark("a").Range(2, 7)}, false)
	extra := Of([]Range{mark("a").Range(2, 6), mark("b").Range(10, 12)}, false)

	tests := []struct {
		name          string
		before, after []*RangeSet
		from, to      int
		want          bool
	}{
		{"identical sets", []*RangeSet{a}, []*RangeSet{a}, 0, -1, true},
		{"equal content", []*RangeSet{a}, []*RangeSet{same}, 0, -1, true},
		{"different end", []*RangeSet{a}, []*RangeSet{longer}, 0, -1, false},
		{"different count", []*RangeSet{a}, []*RangeSet{same, extra}, 0, -1, false},
		{"extra range", []*RangeSet{a}, []*RangeSet{extra}, 0, -1, false},
		{"extra range outside", []*RangeSet{a}, []*RangeSet{extra}, 0, 5, true},
		{"empty sets", []*RangeSet{Empty()}, nil, 0, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eq(tt.before, tt.after, tt.from, tt.to); got != tt.want {
				t.Errorf("Eq = %v, want %v", got, tt.want)
			}
		})
	}
}
