// Package engine provides a document session over the docstate core.
//
// The engine package serves as the main facade, combining the persistent
// text tree, the change algebra and annotation range sets into a single
// thread-safe API. Every edit is expressed as a change set: it is applied
// to the current document, composed into the pending changes, and used to
// map every annotation layer and snapshot forward.
//
// # Architecture
//
// The engine is built on four sub-packages:
//
//   - text: immutable B-tree of lines (O(log n) lookup and replace)
//   - change: change descriptions and change sets with compose, map and invert
//   - rangeset: layered, chunked interval sets mapped through changes
//   - history: undo/redo stacks of change sets and their inverses
//
// # Thread Safety
//
// All Engine operations are thread-safe. The engine uses a read-write mutex
// to allow concurrent reads while serializing writes. Values returned by
// the engine (documents, change sets, range sets, snapshots) are immutable
// and can be kept after the engine moves on.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello, World!"))
//
//	e.Replace(7, 12, "Go") // "Hello, Go!"
//
//	// Everything applied since creation, as one change set
//	cs := e.Changes()
//
// # Annotations
//
// Named layers hold range sets that follow the text:
//
//	e.Mark("diagnostics", 0, 5, "error")
//	e.Insert(0, ">> ")
//	e.Marks("diagnostics") // the mark now covers 3-8
//
// # Undo/Redo
//
// Every edit records its inverse in the history sub-package. Undo and
// Redo apply those change sets like any other edit, so layers and pending
// changes follow them. Edits between BeginGroup and EndGroup undo as one:
//
//	e.BeginGroup("wrap")
//	e.Insert(0, "(")
//	e.Insert(e.Len(), ")")
//	e.EndGroup()
//	e.Undo() // both inserts reverted
//
// # Snapshots
//
// Snapshots record the document and its layers at a point in time, along
// with the changes applied since:
//
//	id := e.CreateSnapshot("before_format")
//	// ... edits ...
//	changes, _ := e.ChangesSinceSnapshot(id)
//	e.CompareSnapshot(id, "diagnostics", comparator)
//
// # Error Handling
//
// The package defines several sentinel errors:
//
//   - ErrOffsetOutOfRange: invalid byte offset
//   - ErrRangeInvalid: invalid range (e.g., end < start)
//   - ErrSnapshotNotFound: requested snapshot does not exist
//   - ErrReadOnly: write operation on a read-only engine
//
// Errors from the core packages (for example change.ErrLengthMismatch) are
// returned wrapped and can be matched with errors.Is.
package engine
