// Package lua runs document scripts on an embedded gopher-lua runtime.
//
// A State wraps a sandboxed Lua VM. Scripts cannot load files or code
// from strings, and require only resolves the standard string, table and
// math libraries plus modules registered with Register. Every run is
// bounded by an execution timeout:
//
//	state := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	defer state.Close()
//
//	state.Register(lua.NewDocModule(eng))
//	if err := state.DoFile(ctx, "fix.lua"); err != nil {
//	    return err
//	}
//
// # Doc module
//
// DocModule exposes an engine.Engine to scripts as the global "doc" (also
// available through require("doc")). Positions are 0-based byte offsets,
// line numbers are 1-based:
//
//	local text, from, to = doc.line(1)
//	doc.replace(from, to, text:upper())
//	doc.mark(0, 5, "keyword")
//	print(doc.changes())
//
// Edits go through the engine, so annotation layers, pending changes and
// undo history stay consistent with edits made from Go.
package lua
