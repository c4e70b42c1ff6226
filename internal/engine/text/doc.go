// Package text provides an immutable, persistent document type for editor state.
//
// A Text is a balanced tree of line arrays. Leaf nodes hold up to Branch lines;
// branch nodes hold child Texts, each separated from the next by one implicit
// line break. Length and line count are memoized on every node, so line and
// offset lookups descend the tree in O(log n).
//
// Key features:
//   - Offsets are byte offsets into the UTF-8 content; line numbers are 1-based
//   - Replace, Slice and Append return new Texts sharing untouched subtrees
//   - Trees are rebalanced on structural edits so depth stays logarithmic
//     and no leaf holds more than Branch lines
//   - Cursors walk a range forwards or backwards, yielding line fragments and
//     line break markers
//
// Basic usage:
//
//	doc := text.Of("hello", "world")
//	doc = doc.Replace(5, 5, text.Of("!"))   // "hello!\nworld"
//	line, _ := doc.Line(2)                  // {From: 7, To: 12, Number: 2, Text: "world"}
//	s := doc.SliceString(0, 5, "\n")        // "hello"
//
// Texts are never modified after construction and are safe for concurrent
// reads from any number of goroutines.
package text
