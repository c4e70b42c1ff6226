package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/docstate/internal/engine/change"
	"github.com/dshills/docstate/internal/engine/rangeset"
)

func marks(set *rangeset.RangeSet) []string {
	var out []string
	for c := set.Iter(0); !c.Done(); c.Next() {
		out = append(out, fmt.Sprintf("%s:%d-%d", c.Value().(*rangeset.Mark).Class, c.From(), c.To()))
	}
	return out
}

func checkChanges(t *testing.T, e *Engine) {
	t.Helper()
	doc, err := e.Changes().Apply(e.Base())
	if err != nil {
		t.Fatalf("applying pending changes to base: %v", err)
	}
	if !doc.Eq(e.Doc()) {
		t.Errorf("pending changes produce %q, document is %q", doc.String(), e.Doc().String())
	}
}

// ============================================================================
// Basic Operations
// ============================================================================

func TestNew(t *testing.T) {
	e := New()
	if e.Len() != 0 {
		t.Errorf("expected empty engine, got len %d", e.Len())
	}
	if e.Text() != "" {
		t.Errorf("expected empty text, got %q", e.Text())
	}
	if e.Lines() != 1 {
		t.Errorf("expected 1 line, got %d", e.Lines())
	}
	if !e.IsEmpty() {
		t.Error("expected IsEmpty")
	}
}

func TestNewWithContent(t *testing.T) {
	content := "Hello, World!\nsecond line"
	e := New(WithContent(content))

	if e.Text() != content {
		t.Errorf("expected %q, got %q", content, e.Text())
	}
	if e.Len() != len(content) {
		t.Errorf("expected len %d, got %d", len(content), e.Len())
	}
	if e.Lines() != 2 {
		t.Errorf("expected 2 lines, got %d", e.Lines())
	}
}

func TestNewFromReader(t *testing.T) {
	e, err := NewFromReader(strings.NewReader("one\r\ntwo\rthree"), WithLineSeparator("\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Len() != len("one\ntwo\nthree") {
		t.Errorf("line breaks not normalized: len %d", e.Len())
	}
	if e.Text() != "one\r\ntwo\r\nthree" {
		t.Errorf("expected CRLF output, got %q", e.Text())
	}
}

func TestInsert(t *testing.T) {
	e := New()

	end, err := e.Insert(0, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 5 {
		t.Errorf("expected end position 5, got %d", end)
	}

	if _, err := e.Insert(5, ", World!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "Hello, World!" {
		t.Errorf("expected %q, got %q", "Hello, World!", e.Text())
	}
	if e.Revision() != 2 {
		t.Errorf("expected revision 2, got %d", e.Revision())
	}
	checkChanges(t, e)
}

func TestDelete(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	if err := e.Delete(5, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "HelloWorld!" {
		t.Errorf("expected %q, got %q", "HelloWorld!", e.Text())
	}
	checkChanges(t, e)
}

func TestReplace(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	end, err := e.Replace(7, 12, "Go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 9 {
		t.Errorf("expected end position 9, got %d", end)
	}
	if e.Text() != "Hello, Go!" {
		t.Errorf("expected %q, got %q", "Hello, Go!", e.Text())
	}

	end, err = e.Replace(10, 10, "\nnext")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end != 15 || e.Lines() != 2 {
		t.Errorf("end %d, lines %d", end, e.Lines())
	}
	checkChanges(t, e)
}

func TestEditErrors(t *testing.T) {
	e := New(WithContent("Hello"))

	tests := []struct {
		name string
		edit func() error
		want error
	}{
		{"insert past end", func() error { _, err := e.Insert(100, "x"); return err }, ErrOffsetOutOfRange},
		{"negative delete", func() error { return e.Delete(-1, 2) }, ErrOffsetOutOfRange},
		{"reversed range", func() error { _, err := e.Replace(3, 1, "x"); return err }, ErrRangeInvalid},
		{"slice past end", func() error { _, err := e.Slice(0, 6); return err }, ErrOffsetOutOfRange},
		{"apply wrong length", func() error { return e.Apply(change.Empty(99)) }, change.ErrLengthMismatch},
		{"spec past end", func() error { _, err := e.ApplySpecs(change.Delete(2, 9)); return err }, change.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.edit(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if e.Text() != "Hello" || e.Revision() != 0 {
		t.Errorf("failed edits changed the document: %q rev %d", e.Text(), e.Revision())
	}
}

func TestReadOnly(t *testing.T) {
	e := New(WithContent("fixed"), WithReadOnly())

	if !e.IsReadOnly() {
		t.Error("expected read-only engine")
	}
	if _, err := e.Insert(0, "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Insert: expected ErrReadOnly, got %v", err)
	}
	if err := e.Apply(change.Empty(5)); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Apply: expected ErrReadOnly, got %v", err)
	}
	if err := e.SetContent("other"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("SetContent: expected ErrReadOnly, got %v", err)
	}
}

func TestApplySpecs(t *testing.T) {
	e := New(WithContent("0123456789"))

	cs, err := e.ApplySpecs(change.Replace(8, 10, "ok"), change.Insert(5, "hi"), change.Delete(6, 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "01234hi57ok" {
		t.Errorf("expected %q, got %q", "01234hi57ok", e.Text())
	}
	if cs.Len() != 10 || cs.NewLen() != 11 {
		t.Errorf("change set lengths %d -> %d", cs.Len(), cs.NewLen())
	}
}

// ============================================================================
// Change Tracking
// ============================================================================

func TestChangesAndCommit(t *testing.T) {
	e := New(WithContent("the quick brown fox"))

	e.Replace(4, 9, "slow")
	e.Insert(0, "> ")
	e.Delete(e.Len()-4, e.Len())
	checkChanges(t, e)

	committed := e.Commit()
	if committed.Len() != len("the quick brown fox") || committed.NewLen() != e.Len() {
		t.Errorf("committed lengths %d -> %d", committed.Len(), committed.NewLen())
	}
	if !e.Changes().Empty() {
		t.Errorf("changes after commit: %s", e.Changes())
	}
	if !e.Base().Eq(e.Doc()) {
		t.Error("base not reset by commit")
	}

	e.Insert(0, "x")
	checkChanges(t, e)
}

func TestMapPos(t *testing.T) {
	e := New(WithContent("0123456789"))
	e.Insert(5, "xx")
	e.Delete(1, 3)

	tests := []struct {
		pos, assoc int
		mode       change.MapMode
		want       int
		ok         bool
	}{
		{5, -1, change.Simple, 3, true},
		{5, 1, change.Simple, 5, true},
		{9, 1, change.Simple, 9, true},
		{2, 1, change.TrackDel, 0, false},
		{1, 1, change.TrackDel, 1, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d/%s", tt.pos, tt.assoc, tt.mode), func(t *testing.T) {
			got, ok, err := e.MapPos(tt.pos, tt.assoc, tt.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.ok || ok && got != tt.want {
				t.Errorf("MapPos = %d, %v; want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}

	if _, _, err := e.MapPos(11, 1, change.Simple); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestSetContent(t *testing.T) {
	e := New(WithContent("hello world"))
	if err := e.Mark("words", 6, 11, "w"); err != nil {
		t.Fatal(err)
	}

	if err := e.SetContent("hello there world"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Text() != "hello there world" {
		t.Errorf("got %q", e.Text())
	}
	if got := marks(e.Marks("words")); len(got) != 1 || got[0] != "w:12-17" {
		t.Errorf("mark after SetContent: %v", got)
	}
	checkChanges(t, e)
}

// ============================================================================
// Position Conversion
// ============================================================================

func TestSetContentInvalidUTF8(t *testing.T) {
	e := New(WithContent("a\xffb"))
	if err := e.SetContent("a\xffc"); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if e.Text() != "a\xffc" {
		t.Errorf("Text() = %q", e.Text())
	}
	checkChanges(t, e)
}

func TestPositions(t *testing.T) {
	e := New(WithContent("ab\ncd\tx"), WithTabSize(4))

	p, err := e.OffsetToPoint(4)
	if err != nil || p != (Point{Line: 2, Column: 1}) {
		t.Errorf("OffsetToPoint(4) = %+v, %v", p, err)
	}
	off, err := e.PointToOffset(Point{Line: 2, Column: 10})
	if err != nil || off != 7 {
		t.Errorf("PointToOffset clamps to line end: %d, %v", off, err)
	}
	if _, err := e.PointToOffset(Point{Line: 3}); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}

	for offset, want := range map[int]int{3: 0, 5: 2, 6: 4, 7: 5} {
		if got, err := e.Column(offset); err != nil || got != want {
			t.Errorf("Column(%d) = %d, %v; want %d", offset, got, err, want)
		}
	}
	e.SetTabSize(8)
	if got, _ := e.Column(7); got != 9 {
		t.Errorf("Column(7) with tab size 8 = %d, want 9", got)
	}

	line, err := e.LineAt(4)
	if err != nil || line.Number != 2 || line.Text != "cd\tx" {
		t.Errorf("LineAt(4) = %+v, %v", line, err)
	}
}

// ============================================================================
// Annotation Layers
// ============================================================================

func TestMarksFollowEdits(t *testing.T) {
	e := New(WithContent("Hello, World!"))
	if err := e.Mark("diag", 0, 5, "error"); err != nil {
		t.Fatal(err)
	}
	if err := e.Mark("diag", 7, 12, "warning"); err != nil {
		t.Fatal(err)
	}

	e.Insert(0, ">> ")
	if got, want := marks(e.Marks("diag")), []string{"error:3-8", "warning:10-15"}; strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("after insert: %v, want %v", got, want)
	}

	e.Delete(2, 9)
	if got, want := marks(e.Marks("diag")), []string{"warning:3-8"}; strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("after delete: %v, want %v", got, want)
	}

	if layers := e.Layers(); len(layers) != 1 || layers[0] != "diag" {
		t.Errorf("Layers() = %v", layers)
	}
	e.ClearLayer("diag")
	if !e.Marks("diag").IsEmpty() || len(e.Layers()) != 0 {
		t.Error("layer not cleared")
	}
}

func TestMarksAfterOverlappingReplace(t *testing.T) {
	e := New(WithContent("0123456789abcdefghij"))
	err := e.AddMarks("l",
		rangeset.NewPoint("p", 1).Range(5, 8),
		rangeset.NewMark("i", true, true).Range(9, 15),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Replace(2, 10, "ab"); err != nil {
		t.Fatal(err)
	}
	if err := e.Mark("l", 5, 6, "x"); err != nil {
		t.Fatal(err)
	}
	want := []string{"i:2-9", "p:4-4", "x:5-6"}
	if got := marks(e.Marks("l")); !slices.Equal(got, want) {
		t.Errorf("marks = %v, want %v", got, want)
	}
}

func TestRemoveMarks(t *testing.T) {
	e := New(WithContent("0123456789"))
	e.AddMarks("m",
		rangeset.NewMark("c", false, false).Range(7, 9),
		rangeset.NewMark("a", false, false).Range(0, 2),
		rangeset.NewMark("b", false, false).Range(4, 6),
	)

	if err := e.RemoveMarks("m", 3, 4); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(marks(e.Marks("m")), " "); got != "a:0-2 c:7-9" {
		t.Errorf("after RemoveMarks: %s", got)
	}
	if err := e.RemoveMarks("m", 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(marks(e.Marks("m")), " "); got != "c:7-9" {
		t.Errorf("after RemoveMarks at 0: %s", got)
	}
	if err := e.RemoveMarks("m", 0, 20); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if err := e.Mark("m", 5, 11, "x"); !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

type spanLog []string

func (l *spanLog) Span(from, to int, active []rangeset.Value, _ int) {
	*l = append(*l, fmt.Sprintf("%d-%d:%d", from, to, len(active)))
}

func (l *spanLog) Point(from, to int, _ rangeset.Value, _ []rangeset.Value, _, _ int) {
	*l = append(*l, fmt.Sprintf("%d-%d:point", from, to))
}

func TestSpans(t *testing.T) {
	e := New(WithContent("0123456789"))
	e.Mark("a", 2, 6, "x")
	e.Mark("b", 4, 8, "y")

	var log spanLog
	if _, err := e.Spans(0, 10, &log); err != nil {
		t.Fatal(err)
	}
	want := "0-2:0 2-4:1 4-6:2 6-8:1 8-10:0"
	if got := strings.Join(log, " "); got != want {
		t.Errorf("Spans = %s, want %s", got, want)
	}
}

// ============================================================================
// Snapshots
// ============================================================================

func TestSnapshots(t *testing.T) {
	e := New(WithContent("original text"))
	e.Mark("m", 0, 8, "word")
	id := e.CreateSnapshot("before")

	e.Replace(0, 8, "changed")
	e.Insert(e.Len(), "!")

	snap, err := e.GetSnapshot(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Doc().String() != "original text" {
		t.Errorf("snapshot text %q", snap.Doc().String())
	}
	if got := marks(snap.Marks("m")); len(got) != 1 || got[0] != "word:0-8" {
		t.Errorf("snapshot marks %v", got)
	}

	since, err := e.ChangesSinceSnapshot(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := since.Apply(snap.Doc())
	if err != nil || !doc.Eq(e.Doc()) {
		t.Errorf("changes since snapshot produce %q, %v", doc, err)
	}

	byName, err := e.GetSnapshotByName("before")
	if err != nil || byName.ID != id {
		t.Errorf("GetSnapshotByName = %v, %v", byName, err)
	}

	replaced := e.CreateSnapshot("before")
	if _, err := e.GetSnapshot(id); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("replaced snapshot still present: %v", err)
	}
	e.DeleteSnapshot(replaced)
	if _, err := e.ChangesSinceSnapshot(replaced); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestMaxSnapshots(t *testing.T) {
	e := New(WithMaxSnapshots(2))
	first := e.CreateSnapshot("one")
	e.CreateSnapshot("two")
	e.CreateSnapshot("three")

	list := e.ListSnapshots()
	if len(list) != 2 || list[0].Name != "two" || list[1].Name != "three" {
		t.Errorf("ListSnapshots = %v", list)
	}
	if _, err := e.GetSnapshot(first); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("oldest snapshot not evicted: %v", err)
	}
}

type compareLog []string

func (l *compareLog) CompareRange(from, to int, a, b []rangeset.Value) {
	*l = append(*l, fmt.Sprintf("range %d-%d %d/%d", from, to, len(a), len(b)))
}

func (l *compareLog) ComparePoint(from, to int, a, b rangeset.Value) {
	*l = append(*l, fmt.Sprintf("point %d-%d", from, to))
}

func TestCompareSnapshot(t *testing.T) {
	e := New(WithContent("0123456789"))
	e.Mark("m", 1, 3, "a")
	id := e.CreateSnapshot("")

	e.Insert(0, "xx")
	e.Mark("m", 8, 10, "b")

	var log compareLog
	if err := e.CompareSnapshot(id, "m", &log); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(log, ", "); got != "range 8-10 0/1" {
		t.Errorf("CompareSnapshot = %s", got)
	}
	if err := e.CompareSnapshot("missing", "m", &log); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}

// ============================================================================
// Concurrency
// ============================================================================

func TestConcurrentReads(t *testing.T) {
	e := New(WithContent("Hello, World!"))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Text()
			_ = e.Len()
			_ = e.Lines()
			_, _ = e.Line(1)
			_, _ = e.OffsetToPoint(0)
		}()
	}
	wg.Wait()
}

func TestConcurrentReadWrite(t *testing.T) {
	e := New()
	e.AddMarks("m", rangeset.NewPoint("start", -1).Range(0, 0))

	var wg sync.WaitGroup

	// Writers
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				e.Insert(0, "x")
			}
		}()
	}

	// Readers
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = e.Text()
				_ = e.Changes()
				_ = e.Marks("m").Size()
			}
		}()
	}

	wg.Wait()

	if e.Len() != 100 {
		t.Errorf("expected len 100, got %d", e.Len())
	}
	if got := marks(e.Marks("m")); len(got) != 1 || got[0] != "start:0-0" {
		t.Errorf("point mark moved: %v", got)
	}
	checkChanges(t, e)
}
