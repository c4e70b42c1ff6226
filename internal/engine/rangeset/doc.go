// Package rangeset stores annotated ranges over a document and keeps them
// positioned across edits.
//
// A [RangeSet] is an immutable stack of layers. Each layer holds sorted,
// non-overlapping ranges grouped into chunks of up to ChunkSize ranges with
// positions stored relative to the chunk start. A range that would overlap
// its predecessor spills into the next layer. The last layer is a shared
// empty sentinel.
//
// # Values
//
// Range values implement [Value]. The start and end sides decide how a
// range end behaves at a position where text is inserted, and how ranges
// starting or ending at the same position are ordered. Point values cover
// their range as a single unit (a widget or a replaced region); other values
// mark up the content they span.
//
// # Mapping
//
// Map moves every range through a change.Desc. Chunks the change does not
// touch are reused unchanged with a shifted position; touched chunks are
// remapped range by range; chunks entirely covered by a deletion are
// dropped.
//
// # Iteration
//
// Iter and IterSets yield ranges ordered by from position and start side.
// Spans walks a region as a sequence of spans and points with the set of
// active ranges at each step; Compare reports where two generations of sets
// differ, skipping chunks they share.
package rangeset
