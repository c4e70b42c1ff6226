package engine

import (
	"github.com/dshills/docstate/internal/engine/history"
)

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the last edit (or edit group). Annotation layers and
// pending changes follow the inverse change like any other edit.
// Returns history.ErrNothingToUndo when there is nothing to undo.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	entry, err := e.history.Undo()
	if err != nil {
		return err
	}
	return e.updateLocked(entry.Inverted)
}

// Redo reapplies the last undone edit.
// Returns history.ErrNothingToRedo when there is nothing to redo.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	entry, err := e.history.Redo()
	if err != nil {
		return err
	}
	return e.updateLocked(entry.Changes)
}

// CanUndo returns true if there is an edit to undo.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if there is an undone edit to redo.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// BeginGroup starts grouping edits into a single undo entry.
func (e *Engine) BeginGroup(name string) {
	e.history.BeginGroup(name)
}

// EndGroup closes the current undo group.
func (e *Engine) EndGroup() {
	e.history.EndGroup()
}

// UndoHistory returns the undo entries, oldest first.
func (e *Engine) UndoHistory() []history.OperationInfo {
	return e.history.UndoInfo()
}
