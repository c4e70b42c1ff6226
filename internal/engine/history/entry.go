package history

import (
	"time"

	"github.com/dshills/docstate/internal/engine/change"
)

// Entry is one undo unit.
type Entry struct {
	// Description is a human-readable name for the edit.
	Description string

	// Changes turns the document before the edit into the document after.
	Changes change.ChangeSet

	// Inverted turns the document after the edit back into the one before.
	Inverted change.ChangeSet

	// Timestamp is when the edit (or the last edit of a group) was pushed.
	Timestamp time.Time
}

// Info returns a read-only summary of the entry.
func (e *Entry) Info() OperationInfo {
	return OperationInfo{
		Description: e.Description,
		Timestamp:   e.Timestamp,
		BytesDelta:  e.Changes.NewLen() - e.Changes.Len(),
	}
}

// add folds a later edit into the entry.
func (e *Entry) add(cs, inverted change.ChangeSet) {
	e.Changes = e.Changes.Compose(cs)
	e.Inverted = inverted.Compose(e.Inverted)
	e.Timestamp = time.Now()
}

// OperationInfo provides read-only info about an entry.
// Used for displaying undo/redo history to users.
type OperationInfo struct {
	Description string    // Human-readable description
	Timestamp   time.Time // When the edit occurred
	BytesDelta  int       // Positive for insertions, negative for deletions
}
