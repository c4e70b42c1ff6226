package lua

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/docstate/internal/engine"
	"github.com/dshills/docstate/internal/engine/change"
	"github.com/dshills/docstate/internal/engine/history"
	"github.com/dshills/docstate/internal/engine/rangeset"
)

// DefaultLayer is the annotation layer used when a script names none.
const DefaultLayer = "script"

// DocModule implements the doc API module over an engine session.
// Offsets are 0-based bytes; line numbers are 1-based.
type DocModule struct {
	eng *engine.Engine
}

// NewDocModule creates a doc module for eng.
func NewDocModule(eng *engine.Engine) *DocModule {
	return &DocModule{eng: eng}
}

// Name returns the module name.
func (m *DocModule) Name() string {
	return "doc"
}

// Table builds the module table.
func (m *DocModule) Table(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"text":     m.text,
		"len":      m.docLen,
		"lines":    m.lines,
		"line":     m.line,
		"line_at":  m.lineAt,
		"slice":    m.slice,
		"column":   m.column,
		"replace":  m.replace,
		"insert":   m.insert,
		"delete":   m.delete,
		"apply":    m.apply,
		"mark":     m.mark,
		"marks":    m.marks,
		"unmark":   m.unmark,
		"map_pos":  m.mapPos,
		"changes":  m.changes,
		"commit":   m.commit,
		"snapshot": m.snapshot,
		"undo":     m.undo,
		"redo":     m.redo,
	})
}

// text() -> string
func (m *DocModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.eng.Text()))
	return 1
}

// len() -> number
func (m *DocModule) docLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Len()))
	return 1
}

// lines() -> number
func (m *DocModule) lines(L *lua.LState) int {
	L.Push(lua.LNumber(m.eng.Lines()))
	return 1
}

// line(n) -> text, from, to
func (m *DocModule) line(L *lua.LState) int {
	ln, err := m.eng.Line(L.CheckInt(1))
	if err != nil {
		L.RaiseError("line: %v", err)
		return 0
	}
	L.Push(lua.LString(ln.Text))
	L.Push(lua.LNumber(ln.From))
	L.Push(lua.LNumber(ln.To))
	return 3
}

// line_at(pos) -> number, from, to
func (m *DocModule) lineAt(L *lua.LState) int {
	ln, err := m.eng.LineAt(L.CheckInt(1))
	if err != nil {
		L.RaiseError("line_at: %v", err)
		return 0
	}
	L.Push(lua.LNumber(ln.Number))
	L.Push(lua.LNumber(ln.From))
	L.Push(lua.LNumber(ln.To))
	return 3
}

// slice(from, to) -> string
func (m *DocModule) slice(L *lua.LState) int {
	s, err := m.eng.Slice(L.CheckInt(1), L.CheckInt(2))
	if err != nil {
		L.RaiseError("slice: %v", err)
		return 0
	}
	L.Push(lua.LString(s))
	return 1
}

// column(pos) -> number
// Returns the display column of pos.
func (m *DocModule) column(L *lua.LState) int {
	col, err := m.eng.Column(L.CheckInt(1))
	if err != nil {
		L.RaiseError("column: %v", err)
		return 0
	}
	L.Push(lua.LNumber(col))
	return 1
}

// replace(from, to, text) -> end
func (m *DocModule) replace(L *lua.LState) int {
	end, err := m.eng.Replace(L.CheckInt(1), L.CheckInt(2), L.CheckString(3))
	if err != nil {
		L.RaiseError("replace: %v", err)
		return 0
	}
	L.Push(lua.LNumber(end))
	return 1
}

// insert(pos, text) -> end
func (m *DocModule) insert(L *lua.LState) int {
	end, err := m.eng.Insert(L.CheckInt(1), L.CheckString(2))
	if err != nil {
		L.RaiseError("insert: %v", err)
		return 0
	}
	L.Push(lua.LNumber(end))
	return 1
}

// delete(from, to)
func (m *DocModule) delete(L *lua.LState) int {
	if err := m.eng.Delete(L.CheckInt(1), L.CheckInt(2)); err != nil {
		L.RaiseError("delete: %v", err)
	}
	return 0
}

// apply(json)
// Applies a change set in JSON form to the current document.
func (m *DocModule) apply(L *lua.LState) int {
	cs, err := change.FromJSON([]byte(L.CheckString(1)))
	if err != nil {
		L.RaiseError("apply: %v", err)
		return 0
	}
	if err := m.eng.Apply(cs); err != nil {
		L.RaiseError("apply: %v", err)
	}
	return 0
}

// mark(from, to, class [, layer])
func (m *DocModule) mark(L *lua.LState) int {
	from, to, class := L.CheckInt(1), L.CheckInt(2), L.CheckString(3)
	layer := L.OptString(4, DefaultLayer)
	if err := m.eng.Mark(layer, from, to, class); err != nil {
		L.RaiseError("mark: %v", err)
	}
	return 0
}

// marks([layer]) -> { {from=, to=, class=}, ... }
func (m *DocModule) marks(L *lua.LState) int {
	set := m.eng.Marks(L.OptString(1, DefaultLayer))
	result := L.NewTable()
	for cur := set.Iter(0); !cur.Done(); cur.Next() {
		entry := L.NewTable()
		entry.RawSetString("from", lua.LNumber(cur.From()))
		entry.RawSetString("to", lua.LNumber(cur.To()))
		if mk, ok := cur.Value().(*rangeset.Mark); ok {
			entry.RawSetString("class", lua.LString(mk.Class))
		}
		result.Append(entry)
	}
	L.Push(result)
	return 1
}

// unmark(from, to [, layer])
// Removes marks touching [from, to].
func (m *DocModule) unmark(L *lua.LState) int {
	if err := m.eng.RemoveMarks(L.OptString(3, DefaultLayer), L.CheckInt(1), L.CheckInt(2)); err != nil {
		L.RaiseError("unmark: %v", err)
	}
	return 0
}

// map_pos(pos [, assoc [, mode]]) -> number | nil
// Maps a position in the committed document through the pending changes.
// Returns nil when mode tracks a deletion covering pos.
func (m *DocModule) mapPos(L *lua.LState) int {
	pos := L.CheckInt(1)
	assoc := L.OptInt(2, -1)
	mode, err := change.ParseMapMode(L.OptString(3, "simple"))
	if err != nil {
		L.ArgError(3, err.Error())
		return 0
	}
	mapped, ok, err := m.eng.MapPos(pos, assoc, mode)
	if err != nil {
		L.RaiseError("map_pos: %v", err)
		return 0
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(mapped))
	return 1
}

// changes() -> json
// Returns the pending changes composed into one change set.
func (m *DocModule) changes(L *lua.LState) int {
	return pushChangeSet(L, m.eng.Changes())
}

// commit() -> json
// Returns the pending changes and starts a new change set.
func (m *DocModule) commit(L *lua.LState) int {
	return pushChangeSet(L, m.eng.Commit())
}

// snapshot(name) -> id
func (m *DocModule) snapshot(L *lua.LState) int {
	L.Push(lua.LString(m.eng.CreateSnapshot(L.CheckString(1))))
	return 1
}

// undo() -> bool
func (m *DocModule) undo(L *lua.LState) int {
	return pushHistoryResult(L, "undo", m.eng.Undo(), history.ErrNothingToUndo)
}

// redo() -> bool
func (m *DocModule) redo(L *lua.LState) int {
	return pushHistoryResult(L, "redo", m.eng.Redo(), history.ErrNothingToRedo)
}

func pushHistoryResult(L *lua.LState, op string, err, empty error) int {
	switch {
	case err == nil:
		L.Push(lua.LTrue)
	case errors.Is(err, empty):
		L.Push(lua.LFalse)
	default:
		L.RaiseError("%s: %v", op, err)
		return 0
	}
	return 1
}

func pushChangeSet(L *lua.LState, cs change.ChangeSet) int {
	data, err := cs.MarshalJSON()
	if err != nil {
		L.RaiseError("changes: %v", err)
		return 0
	}
	L.Push(lua.LString(data))
	return 1
}
