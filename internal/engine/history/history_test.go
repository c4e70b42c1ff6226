package history

import (
	"errors"
	"testing"

	"github.com/dshills/docstate/internal/engine/change"
	"github.com/dshills/docstate/internal/engine/text"
)

// edit applies specs to doc and returns the new document, the change set
// and its inverse.
func edit(t *testing.T, doc *text.Text, specs ...change.Spec) (*text.Text, change.ChangeSet, change.ChangeSet) {
	t.Helper()
	cs, err := change.Of(specs, doc.Len(), "")
	if err != nil {
		t.Fatalf("change.Of: %v", err)
	}
	after, err := cs.Apply(doc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return after, cs, cs.Invert(doc)
}

func apply(t *testing.T, cs change.ChangeSet, doc *text.Text) *text.Text {
	t.Helper()
	out, err := cs.Apply(doc)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return out
}

func TestHistoryPushAndUndo(t *testing.T) {
	h := New(100)
	doc := text.FromString("hello", "")

	after, cs, inv := edit(t, doc, change.Insert(5, " world"))
	h.Push("insert", cs, inv)

	if !h.CanUndo() || h.UndoCount() != 1 {
		t.Fatalf("expected one undo entry, got %d", h.UndoCount())
	}

	entry, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if entry.Description != "insert" {
		t.Errorf("Description = %q", entry.Description)
	}
	if got := apply(t, entry.Inverted, after).String(); got != "hello" {
		t.Errorf("after undo = %q, want %q", got, "hello")
	}
	if h.CanUndo() || !h.CanRedo() {
		t.Error("entry should have moved to the redo stack")
	}
}

func TestHistoryRedo(t *testing.T) {
	h := New(100)
	doc := text.FromString("hello", "")

	_, cs, inv := edit(t, doc, change.Delete(0, 1))
	h.Push("delete", cs, inv)

	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	entry, err := h.Redo()
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if got := apply(t, entry.Changes, doc).String(); got != "ello" {
		t.Errorf("after redo = %q, want %q", got, "ello")
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts = %d/%d, want 1/0", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryRedoClearedOnPush(t *testing.T) {
	h := New(100)
	doc := text.FromString("abc", "")

	_, cs, inv := edit(t, doc, change.Insert(3, "d"))
	h.Push("a", cs, inv)
	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}

	_, cs, inv = edit(t, doc, change.Insert(0, "x"))
	h.Push("b", cs, inv)

	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestHistoryIgnoresEmpty(t *testing.T) {
	h := New(100)
	h.Push("noop", change.Empty(4), change.Empty(4))
	if h.CanUndo() {
		t.Error("empty change sets should not be recorded")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := New(3)
	doc := text.FromString("", "")
	for i := 0; i < 5; i++ {
		var cs, inv change.ChangeSet
		doc, cs, inv = edit(t, doc, change.Insert(doc.Len(), "x"))
		h.Push("insert", cs, inv)
	}
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount = %d, want 3", h.UndoCount())
	}

	h.SetMaxEntries(2)
	if h.UndoCount() != 2 || h.MaxEntries() != 2 {
		t.Errorf("after SetMaxEntries: count %d, max %d", h.UndoCount(), h.MaxEntries())
	}
	h.SetMaxEntries(0)
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries = %d, want default", h.MaxEntries())
	}
}

func TestHistoryErrors(t *testing.T) {
	h := New(0)
	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo error = %v, want ErrNothingToUndo", err)
	}
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo error = %v, want ErrNothingToRedo", err)
	}
}

func TestHistoryClear(t *testing.T) {
	h := New(100)
	doc := text.FromString("abc", "")
	_, cs, inv := edit(t, doc, change.Insert(0, "x"))
	h.Push("x", cs, inv)
	h.BeginGroup("g")

	h.Clear()
	if h.CanUndo() || h.CanRedo() || h.IsGrouping() {
		t.Error("Clear should reset all state")
	}
}

func TestHistoryGrouping(t *testing.T) {
	h := New(100)
	doc := text.FromString("one two", "")

	h.BeginGroup("rename")
	if !h.IsGrouping() {
		t.Fatal("expected grouping")
	}
	doc1, cs1, inv1 := edit(t, doc, change.Replace(0, 3, "uno"))
	h.Push("replace", cs1, inv1)
	doc2, cs2, inv2 := edit(t, doc1, change.Replace(4, 7, "dos"), change.Insert(7, "!"))
	h.Push("replace", cs2, inv2)
	h.EndGroup()

	if doc2.String() != "uno dos!" {
		t.Fatalf("doc = %q", doc2.String())
	}
	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", h.UndoCount())
	}

	entry, err := h.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if entry.Description != "rename" {
		t.Errorf("Description = %q, want group name", entry.Description)
	}
	if got := apply(t, entry.Inverted, doc2).String(); got != "one two" {
		t.Errorf("undo group = %q, want %q", got, "one two")
	}
	if got := apply(t, entry.Changes, doc).String(); got != "uno dos!" {
		t.Errorf("redo group = %q, want %q", got, "uno dos!")
	}
	if info := entry.Info(); info.BytesDelta != 1 {
		t.Errorf("BytesDelta = %d, want 1", info.BytesDelta)
	}
}

func TestHistoryEmptyGroup(t *testing.T) {
	h := New(100)
	h.BeginGroup("nothing")
	h.BeginGroup("nested")
	h.EndGroup()
	if h.CanUndo() || h.IsGrouping() {
		t.Error("empty group should not create an entry")
	}
}

func TestHistoryUndoClosesGroup(t *testing.T) {
	h := New(100)
	doc := text.FromString("ab", "")

	h.BeginGroup("typing")
	doc1, cs, inv := edit(t, doc, change.Insert(2, "c"))
	h.Push("insert", cs, inv)

	entry, err := h.Undo()
	if err != nil {
		t.Fatalf("Undo during group: %v", err)
	}
	if h.IsGrouping() {
		t.Error("Undo should close the open group")
	}
	if got := apply(t, entry.Inverted, doc1).String(); got != "ab" {
		t.Errorf("undo = %q", got)
	}
}

func TestHistoryGroupScope(t *testing.T) {
	h := New(100)
	doc := text.FromString("", "")

	func() {
		defer h.GroupScope("scoped").End()
		for _, s := range []string{"a", "b", "c"} {
			var cs, inv change.ChangeSet
			doc, cs, inv = edit(t, doc, change.Insert(doc.Len(), s))
			h.Push("insert", cs, inv)
		}
	}()

	if h.IsGrouping() || h.UndoCount() != 1 {
		t.Fatalf("grouping=%v count=%d", h.IsGrouping(), h.UndoCount())
	}
	entry, _ := h.Undo()
	if got := apply(t, entry.Inverted, doc).String(); got != "" {
		t.Errorf("undo = %q, want empty", got)
	}
}

func TestHistoryUndoInfo(t *testing.T) {
	h := New(100)
	doc := text.FromString("abcdef", "")

	doc, cs, inv := edit(t, doc, change.Insert(0, "xy"))
	h.Push("insert", cs, inv)
	_, cs, inv = edit(t, doc, change.Delete(0, 5))
	h.Push("delete", cs, inv)

	info := h.UndoInfo()
	if len(info) != 2 {
		t.Fatalf("len(UndoInfo) = %d", len(info))
	}
	if info[0].Description != "insert" || info[0].BytesDelta != 2 {
		t.Errorf("info[0] = %+v", info[0])
	}
	if info[1].Description != "delete" || info[1].BytesDelta != -5 {
		t.Errorf("info[1] = %+v", info[1])
	}
	if info[1].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	if redo := h.RedoInfo(); len(redo) != 1 || redo[0].Description != "delete" {
		t.Errorf("RedoInfo = %+v", redo)
	}
}
