package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/docstate/internal/engine/change"
)

// DefaultMaxEntries bounds the undo stack when no limit is given.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History manages undo/redo state for a document.
type History struct {
	mu sync.Mutex

	undoStack []*Entry
	redoStack []*Entry

	// Grouping state
	group     *Entry
	grouping  bool
	groupName string

	maxEntries int
}

// New creates a new history manager.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records an applied edit and its inverse. Empty change sets are
// ignored. Pushing clears the redo stack.
func (h *History) Push(description string, cs, inverted change.ChangeSet) {
	if cs.Empty() {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		if h.group == nil {
			h.group = &Entry{
				Description: h.groupName,
				Changes:     cs,
				Inverted:    inverted,
				Timestamp:   time.Now(),
			}
		} else {
			h.group.add(cs, inverted)
		}
		h.redoStack = nil
		return
	}
	h.pushLocked(&Entry{
		Description: description,
		Changes:     cs,
		Inverted:    inverted,
		Timestamp:   time.Now(),
	})
}

func (h *History) pushLocked(entry *Entry) {
	h.undoStack = append(h.undoStack, entry)
	h.redoStack = nil

	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo pops the last entry, moves it to the redo stack and returns it.
// The caller applies entry.Inverted. An open group is closed first.
func (h *History) Undo() (*Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.endGroupLocked()
	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}
	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, entry)
	return entry, nil
}

// Redo pops the last undone entry, moves it back to the undo stack and
// returns it. The caller applies entry.Changes.
func (h *History) Redo() (*Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}
	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, entry)
	return entry, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0 || h.group != nil
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// BeginGroup starts a group. Edits pushed while grouping become a single
// undo entry. Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.group = nil
}

// EndGroup closes the current group and pushes its entry, if any edits
// were made.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.endGroupLocked()
}

func (h *History) endGroupLocked() {
	if !h.grouping {
		return
	}
	h.grouping = false
	if h.group != nil {
		h.pushLocked(h.group)
		h.group = nil
	}
}

// IsGrouping returns true if currently in a group.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.group = nil
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.undoStack)
}

// RedoInfo returns info about available redo entries, oldest first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.redoStack)
}

func infos(stack []*Entry) []OperationInfo {
	result := make([]OperationInfo, len(stack))
	for i, entry := range stack {
		result[i] = entry.Info()
	}
	return result
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	if excess := len(h.undoStack) - max; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
