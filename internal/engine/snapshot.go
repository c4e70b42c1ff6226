package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/docstate/internal/engine/change"
	"github.com/dshills/docstate/internal/engine/rangeset"
	"github.com/dshills/docstate/internal/engine/text"
)

// SnapshotID uniquely identifies a snapshot.
type SnapshotID string

// Snapshot represents a named checkpoint of the document and its
// annotation layers. Snapshots are immutable and can be safely shared
// across goroutines.
type Snapshot struct {
	// ID uniquely identifies this snapshot.
	ID SnapshotID

	// Name is the human-readable name for this snapshot.
	Name string

	// Timestamp when this snapshot was created.
	Timestamp time.Time

	// Revision is the engine revision at the time of the snapshot.
	Revision uint64

	doc    *text.Text
	layers map[string]*rangeset.RangeSet
}

// Doc returns the document at this snapshot.
func (s *Snapshot) Doc() *text.Text {
	return s.doc
}

// Marks returns the named layer at this snapshot, or the empty set.
func (s *Snapshot) Marks(layer string) *rangeset.RangeSet {
	if set, ok := s.layers[layer]; ok {
		return set
	}
	return rangeset.Empty()
}

// Age returns how long ago this snapshot was created.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.Timestamp)
}

// snapshotStore keeps snapshots in creation order together with the
// changes applied since each one. It is guarded by the engine's lock.
type snapshotStore struct {
	max   int
	order []*Snapshot
	since map[SnapshotID]change.ChangeSet
}

func newSnapshotStore(max int) *snapshotStore {
	return &snapshotStore{max: max, since: make(map[SnapshotID]change.ChangeSet)}
}

func (st *snapshotStore) add(snap *Snapshot) {
	if i := st.indexByName(snap.Name); i >= 0 && snap.Name != "" {
		st.remove(st.order[i].ID)
	}
	if len(st.order) == st.max {
		st.remove(st.order[0].ID)
	}
	st.order = append(st.order, snap)
	st.since[snap.ID] = change.Empty(snap.doc.Len())
}

func (st *snapshotStore) remove(id SnapshotID) {
	st.order = slices.DeleteFunc(st.order, func(s *Snapshot) bool { return s.ID == id })
	delete(st.since, id)
}

func (st *snapshotStore) indexByName(name string) int {
	return slices.IndexFunc(st.order, func(s *Snapshot) bool { return s.Name == name })
}

func (st *snapshotStore) get(id SnapshotID) (*Snapshot, bool) {
	i := slices.IndexFunc(st.order, func(s *Snapshot) bool { return s.ID == id })
	if i < 0 {
		return nil, false
	}
	return st.order[i], true
}

func (st *snapshotStore) record(cs change.ChangeSet) {
	for id, since := range st.since {
		st.since[id] = since.Compose(cs)
	}
}

// CreateSnapshot records the current document and layers under name.
// If a snapshot with the same name exists, it is replaced.
func (e *Engine) CreateSnapshot(name string) SnapshotID {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := &Snapshot{
		ID:        SnapshotID(uuid.NewString()),
		Name:      name,
		Timestamp: time.Now(),
		Revision:  e.revision,
		doc:       e.doc,
		layers:    make(map[string]*rangeset.RangeSet, len(e.layers)),
	}
	for layer, set := range e.layers {
		snap.layers[layer] = set
	}
	e.snapshots.add(snap)
	return snap.ID
}

// GetSnapshot retrieves a snapshot by ID.
func (e *Engine) GetSnapshot(id SnapshotID) (*Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap, ok := e.snapshots.get(id)
	if !ok {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	return snap, nil
}

// GetSnapshotByName retrieves a snapshot by name.
func (e *Engine) GetSnapshotByName(name string) (*Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	i := e.snapshots.indexByName(name)
	if i < 0 {
		return nil, fmt.Errorf("snapshot %q: %w", name, ErrSnapshotNotFound)
	}
	return e.snapshots.order[i], nil
}

// DeleteSnapshot removes a snapshot by ID.
func (e *Engine) DeleteSnapshot(id SnapshotID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshots.remove(id)
}

// ListSnapshots returns all snapshots, oldest first.
func (e *Engine) ListSnapshots() []*Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.snapshots.order)
}

// ChangesSinceSnapshot returns the changes applied since the snapshot was
// taken, composed into one change set.
func (e *Engine) ChangesSinceSnapshot(id SnapshotID) (change.ChangeSet, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cs, ok := e.snapshots.since[id]
	if !ok {
		return change.ChangeSet{}, fmt.Errorf("snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	return cs, nil
}

// CompareSnapshot reports to comparator how the named layer differs
// between the snapshot and now, in current document positions. Only text
// left unchanged since the snapshot is compared.
func (e *Engine) CompareSnapshot(id SnapshotID, layer string, comparator rangeset.Comparator) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap, ok := e.snapshots.get(id)
	if !ok {
		return fmt.Errorf("snapshot %s: %w", id, ErrSnapshotNotFound)
	}
	since := e.snapshots.since[id]
	rangeset.Compare(
		[]*rangeset.RangeSet{snap.Marks(layer)},
		[]*rangeset.RangeSet{e.marksLocked(layer)},
		since.Desc(), comparator, -1,
	)
	return nil
}

// String implements fmt.Stringer.
func (s *Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", s.ID)
	if s.Name != "" {
		fmt.Fprintf(&sb, " (%s)", s.Name)
	}
	fmt.Fprintf(&sb, " rev %d, %d bytes", s.Revision, s.doc.Len())
	return sb.String()
}
