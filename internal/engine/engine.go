package engine

import (
	"fmt"
	"io"
	"sync"

	"github.com/dshills/docstate/internal/engine/change"
	"github.com/dshills/docstate/internal/engine/history"
	"github.com/dshills/docstate/internal/engine/rangeset"
	"github.com/dshills/docstate/internal/engine/text"
)

// Point is a line and byte column position. Lines are 1-based, columns
// are byte offsets from the start of the line.
type Point struct {
	Line   int
	Column int
}

// Engine is the main facade for a document session.
// It owns the current document, the changes applied since the session
// started (or since the last Commit), annotation layers, and snapshots.
//
// All operations are thread-safe and can be called from multiple goroutines.
type Engine struct {
	mu sync.RWMutex

	doc      *text.Text
	base     *text.Text
	pending  change.ChangeSet
	revision uint64

	layers    map[string]*rangeset.RangeSet
	snapshots *snapshotStore
	history   *history.History

	// Configuration
	tabSize      int
	lineSep      string
	maxSnapshots int
	maxUndo      int
	readOnly     bool

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		tabSize:      DefaultTabSize,
		lineSep:      DefaultLineSeparator,
		maxSnapshots: DefaultMaxSnapshots,
		maxUndo:      DefaultMaxUndo,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.reset(text.FromString(e.initContent, ""))
	return e
}

// NewFromReader creates an Engine from an io.Reader.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return New(append(opts, WithContent(string(data)))...), nil
}

func (e *Engine) reset(doc *text.Text) {
	e.doc = doc
	e.base = doc
	e.pending = change.Empty(doc.Len())
	e.layers = make(map[string]*rangeset.RangeSet)
	e.snapshots = newSnapshotStore(e.maxSnapshots)
	e.history = history.New(e.maxUndo)
}

// ============================================================================
// Read Operations
// ============================================================================

// Doc returns the current document.
func (e *Engine) Doc() *text.Text {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc
}

// Text returns the full document content joined with the line separator.
// For large documents, prefer Slice or Doc().Iter.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.SliceString(0, e.doc.Len(), e.lineSep)
}

// Slice returns the content between from and to.
func (e *Engine) Slice(from, to int) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkRange(from, to); err != nil {
		return "", err
	}
	return e.doc.SliceString(from, to, e.lineSep), nil
}

// Len returns the byte length of the document.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Len()
}

// Lines returns the number of lines.
func (e *Engine) Lines() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Lines()
}

// Line returns the 1-based line n.
func (e *Engine) Line(n int) (text.Line, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Line(n)
}

// LineAt returns the line containing offset.
func (e *Engine) LineAt(offset int) (text.Line, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.LineAt(offset)
}

// IsEmpty returns true if the document is empty.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doc.Len() == 0
}

// Revision returns the number of non-empty change sets applied.
func (e *Engine) Revision() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.revision
}

// ============================================================================
// Position Conversion
// ============================================================================

// OffsetToPoint converts a byte offset to line/column.
func (e *Engine) OffsetToPoint(offset int) (Point, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	line, err := e.doc.LineAt(offset)
	if err != nil {
		return Point{}, fmt.Errorf("offset %d: %w", offset, ErrOffsetOutOfRange)
	}
	return Point{Line: line.Number, Column: offset - line.From}, nil
}

// PointToOffset converts line/column to a byte offset. Columns past the
// end of the line are clamped to it.
func (e *Engine) PointToOffset(p Point) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	line, err := e.doc.Line(p.Line)
	if err != nil || p.Column < 0 {
		return 0, fmt.Errorf("point %d:%d: %w", p.Line, p.Column, ErrOffsetOutOfRange)
	}
	return line.From + min(p.Column, line.Len()), nil
}

// Column returns the display column of offset, expanding tabs to the
// engine's tab size and counting wide runes as two cells.
func (e *Engine) Column(offset int) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	line, err := e.doc.LineAt(offset)
	if err != nil {
		return 0, fmt.Errorf("offset %d: %w", offset, ErrOffsetOutOfRange)
	}
	return text.CountColumn(line.Text, e.tabSize, offset-line.From), nil
}

// ============================================================================
// Write Operations
// ============================================================================

// Insert inserts s at offset and returns the end of the inserted text.
func (e *Engine) Insert(offset int, s string) (int, error) {
	return e.Replace(offset, offset, s)
}

// Delete removes the text between start and end.
func (e *Engine) Delete(start, end int) error {
	_, err := e.Replace(start, end, "")
	return err
}

// Replace replaces the text between start and end with s and returns the
// end of the inserted text.
func (e *Engine) Replace(start, end int, s string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return 0, ErrReadOnly
	}
	if err := e.checkRange(start, end); err != nil {
		return 0, err
	}
	cs, err := change.Of([]change.Spec{change.Replace(start, end, s)}, e.doc.Len(), "")
	if err != nil {
		return 0, err
	}
	if err := e.applyLocked(cs, describeEdit(start, end, s)); err != nil {
		return 0, err
	}
	return cs.MapPos(end, 1), nil
}

// ApplySpecs builds a change set from specs against the current document
// and applies it. Specs address the document as it was before the call.
func (e *Engine) ApplySpecs(specs ...change.Spec) (change.ChangeSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return change.ChangeSet{}, ErrReadOnly
	}
	cs, err := change.Of(specs, e.doc.Len(), "")
	if err != nil {
		return change.ChangeSet{}, err
	}
	if err := e.applyLocked(cs, "apply"); err != nil {
		return change.ChangeSet{}, err
	}
	return cs, nil
}

// Apply applies a change set built against the current document.
func (e *Engine) Apply(cs change.ChangeSet) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.applyLocked(cs, "apply")
}

// SetContent replaces the whole document with content. The replacement is
// recorded as the minimal change between the old and new text, so
// annotations outside the edited regions keep their positions.
func (e *Engine) SetContent(content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}
	return e.applyLocked(change.Diff(e.doc, text.FromString(content, "")), "set content")
}

// applyLocked applies cs and records it in the undo history.
func (e *Engine) applyLocked(cs change.ChangeSet, description string) error {
	before := e.doc
	if err := e.updateLocked(cs); err != nil {
		return err
	}
	if !cs.Empty() {
		e.history.Push(description, cs, cs.Invert(before))
	}
	return nil
}

// updateLocked applies cs to the document, the pending changes, the
// annotation layers and the snapshots.
func (e *Engine) updateLocked(cs change.ChangeSet) error {
	doc, err := cs.Apply(e.doc)
	if err != nil {
		return fmt.Errorf("apply %s: %w", cs, err)
	}
	if cs.Empty() {
		return nil
	}

	e.doc = doc
	e.pending = e.pending.Compose(cs)
	desc := cs.Desc()
	for name, set := range e.layers {
		e.layers[name] = set.Map(desc)
	}
	e.snapshots.record(cs)
	e.revision++
	return nil
}

func describeEdit(start, end int, s string) string {
	switch {
	case start == end:
		return "insert"
	case s == "":
		return "delete"
	default:
		return "replace"
	}
}

// ============================================================================
// Change Tracking
// ============================================================================

// Changes returns every change applied since creation or the last Commit,
// composed into a single change set.
func (e *Engine) Changes() change.ChangeSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pending
}

// Base returns the document as it was at creation or the last Commit.
// Changes().Apply(Base()) yields Doc().
func (e *Engine) Base() *text.Text {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.base
}

// Commit returns the pending changes and starts a new, empty change set
// from the current document.
func (e *Engine) Commit() change.ChangeSet {
	e.mu.Lock()
	defer e.mu.Unlock()

	committed := e.pending
	e.base = e.doc
	e.pending = change.Empty(e.doc.Len())
	return committed
}

// MapPos maps a position in the base document through the pending
// changes. ok is false when mode tracks a deletion that removed pos.
func (e *Engine) MapPos(pos, assoc int, mode change.MapMode) (mapped int, ok bool, err error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if pos < 0 || pos > e.pending.Len() {
		return 0, false, fmt.Errorf("position %d: %w", pos, ErrOffsetOutOfRange)
	}
	mapped, ok = e.pending.MapPosMode(pos, assoc, mode)
	return mapped, ok, nil
}

// ============================================================================
// Configuration
// ============================================================================

// TabSize returns the tab size used for display columns.
func (e *Engine) TabSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tabSize
}

// SetTabSize sets the tab size. Non-positive sizes are ignored.
func (e *Engine) SetTabSize(size int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if size > 0 {
		e.tabSize = size
	}
}

// LineSeparator returns the separator used to join lines on output.
func (e *Engine) LineSeparator() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lineSep
}

// IsReadOnly returns true if the engine rejects writes.
func (e *Engine) IsReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// checkRange validates [from, to] against the current document.
func (e *Engine) checkRange(from, to int) error {
	if from > to {
		return fmt.Errorf("range %d-%d: %w", from, to, ErrRangeInvalid)
	}
	if from < 0 || to > e.doc.Len() {
		return fmt.Errorf("range %d-%d in document of length %d: %w", from, to, e.doc.Len(), ErrOffsetOutOfRange)
	}
	return nil
}
