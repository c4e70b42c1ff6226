// Package change describes document edits as values that can be applied,
// composed, inverted and rebased.
//
// # Sections
//
// A change is stored as a flat list of (len, ins) section pairs walking the
// original document from start to end. An unchanged section has ins == -1
// and covers len bytes that survive the change. A changed section replaces
// len bytes of the original with ins bytes of new content.
//
//	"4 0:2 4"    keep 4 bytes, insert 2, keep 4
//	"4 4:0 4"    keep 4 bytes, delete 4, keep 4
//
// [Desc] holds only the sections and is enough to map positions. [ChangeSet]
// adds the inserted content so it can be applied to a document.
//
// # Algebra
//
// Changes form a small algebra:
//
//   - a.Compose(b) is one change with the effect of a followed by b
//   - b.Map(a, before) rebases b onto the document a produced
//   - a.Invert(doc) undoes a when applied to a.Apply(doc)
//
// For changes a and b over the same document, the diamond law holds:
//
//	a.Compose(b.Map(a, false)).Apply(doc) == b.Compose(a.Map(b, true)).Apply(doc)
//
// # Position Mapping
//
// MapPos moves a position in the old document to the new one. assoc picks
// the side for insertions at exactly that position: negative stays before
// the insertion, positive moves after it. MapPosMode additionally reports
// positions whose surroundings were deleted, according to a [MapMode].
//
// All values are immutable and safe for concurrent use.
package change
