// Package history provides undo/redo stacks of change sets.
//
// Each entry pairs a change set with its inverse, computed against the
// document the change was applied to. Undoing applies the inverse;
// redoing applies the change again. Entries on a stack always apply to
// the document produced by the entry above them, so the stacks stay valid
// as long as every edit to the document is pushed.
//
// # History Stack
//
//	h := history.New(1000) // Max 1000 undo entries
//
//	h.Push("insert", cs, cs.Invert(before))
//
//	entry, err := h.Undo() // apply entry.Inverted
//	entry, err = h.Redo()  // apply entry.Changes
//
// # Grouping
//
// Pushes between BeginGroup and EndGroup are composed into a single entry:
//
//	h.BeginGroup("Find and Replace")
//	// ... multiple edits ...
//	h.EndGroup()
//
// Now all edits undo together.
package history
