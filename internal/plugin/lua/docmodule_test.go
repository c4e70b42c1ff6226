package lua

import (
	"context"
	"testing"

	"github.com/dshills/docstate/internal/engine"
)

func setupDocTest(t *testing.T, content string) (*State, *engine.Engine) {
	t.Helper()

	eng := engine.New(engine.WithContent(content))
	state := NewState()
	state.Register(NewDocModule(eng))
	t.Cleanup(func() { state.Close() })
	return state, eng
}

func runLua(t *testing.T, state *State, code string) {
	t.Helper()
	if err := state.DoString(context.Background(), code); err != nil {
		t.Fatalf("lua error: %v", err)
	}
}

func TestDocRead(t *testing.T) {
	state, _ := setupDocTest(t, "hello\nworld")

	runLua(t, state, `
		assert(doc.len() == 11, "len")
		assert(doc.lines() == 2, "lines")
		assert(doc.text() == "hello\nworld", "text")
		assert(doc.slice(3, 8) == "lo\nwo", "slice")

		local text, from, to = doc.line(2)
		assert(text == "world" and from == 6 and to == 11, "line")

		local n, lfrom, lto = doc.line_at(5)
		assert(n == 1 and lfrom == 0 and lto == 5, "line_at")
	`)
}

func TestDocRequire(t *testing.T) {
	state, _ := setupDocTest(t, "abc")

	runLua(t, state, `
		local d = require("doc")
		assert(d.len() == 3)
	`)
}

func TestDocEdit(t *testing.T) {
	state, eng := setupDocTest(t, "hello\nworld")

	runLua(t, state, `
		assert(doc.replace(0, 5, "HELLO") == 5, "replace end")
		assert(doc.insert(11, "!") == 12, "insert end")
		doc.delete(5, 6)
	`)

	if got := eng.Text(); got != "HELLOworld!" {
		t.Errorf("Text() = %q, want %q", got, "HELLOworld!")
	}
	if got := eng.Revision(); got != 3 {
		t.Errorf("Revision() = %d, want 3", got)
	}
}

func TestDocErrors(t *testing.T) {
	state, _ := setupDocTest(t, "abc")

	tests := []struct {
		name string
		code string
	}{
		{"slice inverted", `doc.slice(2, 1)`},
		{"insert past end", `doc.insert(10, "x")`},
		{"line zero", `doc.line(0)`},
		{"bad mode", `doc.map_pos(0, 1, "sideways")`},
		{"bad json", `doc.apply("[1,")`},
		{"missing argument", `doc.replace(0, 1)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := state.DoString(context.Background(), tt.code); err == nil {
				t.Errorf("%s: expected error", tt.code)
			}
		})
	}
}

func TestDocMarks(t *testing.T) {
	state, _ := setupDocTest(t, "hello\nworld")

	runLua(t, state, `
		doc.mark(6, 11, "word")
		doc.mark(0, 5, "greeting", "other")
		doc.insert(0, ">> ")

		local ms = doc.marks()
		assert(#ms == 1, "one mark in default layer")
		assert(ms[1].from == 9 and ms[1].to == 14 and ms[1].class == "word", "mark moved")

		local other = doc.marks("other")
		assert(#other == 1 and other[1].from == 3 and other[1].to == 8, "other layer")

		doc.unmark(9, 14)
		assert(#doc.marks() == 0, "unmarked")
	`)
}

func TestDocMapPosAndChanges(t *testing.T) {
	state, eng := setupDocTest(t, "0123456789")

	runLua(t, state, `
		doc.delete(2, 5)
		assert(doc.map_pos(6) == 3, "after deletion")
		assert(doc.map_pos(3, -1, "trackdel") == nil, "deleted")
		assert(doc.map_pos(3) == 2, "simple mode")
		assert(doc.changes() == '[2,[3],5]', doc.changes())

		local committed = doc.commit()
		assert(committed == '[2,[3],5]', committed)
		assert(doc.changes() == '[7]', doc.changes())
	`)

	if got := eng.Text(); got != "0156789" {
		t.Errorf("Text() = %q", got)
	}
}

func TestDocApply(t *testing.T) {
	state, eng := setupDocTest(t, "0123456789")

	runLua(t, state, `doc.apply('[2,[0,"xy"],8]')`)

	if got := eng.Text(); got != "01xy23456789" {
		t.Errorf("Text() = %q, want %q", got, "01xy23456789")
	}
}

func TestDocSnapshot(t *testing.T) {
	state, eng := setupDocTest(t, "abc")

	runLua(t, state, `
		snap = doc.snapshot("before")
		doc.insert(3, "d")
	`)

	snap, err := eng.GetSnapshotByName("before")
	if err != nil {
		t.Fatalf("GetSnapshotByName() error = %v", err)
	}
	if got := state.GetGlobal("snap").String(); got != string(snap.ID) {
		t.Errorf("snapshot id = %q, want %q", got, snap.ID)
	}
	if got := snap.Doc().String(); got != "abc" {
		t.Errorf("snapshot doc = %q, want abc", got)
	}
}

func TestDocUndoRedo(t *testing.T) {
	state, eng := setupDocTest(t, "abc")

	runLua(t, state, `
		assert(doc.undo() == false, "nothing to undo")
		doc.insert(3, "d")
		doc.insert(0, ">")
		assert(doc.text() == ">abcd")
		assert(doc.undo() == true)
		assert(doc.text() == "abcd", "first undo")
		assert(doc.undo() == true)
		assert(doc.text() == "abc", "second undo")
		assert(doc.redo() == true)
		assert(doc.redo() == true)
		assert(doc.redo() == false, "redo stack exhausted")
	`)
	if got := eng.Text(); got != ">abcd" {
		t.Errorf("expected %q, got %q", ">abcd", got)
	}
}
