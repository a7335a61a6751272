/*
Package rope implements a persistent rope for UTF-8 text: a balanced binary
tree of immutable string fragments supporting sub-linear concatenation,
splitting, insertion, and deletion, with cached, composable measurements
(bytes, code points, graphemes, lines) usable as polymorphic index
coordinates.

A Rope is a value wrapping a shared reference to a root node. Edits are
available in two forms: a persistent form that returns a new Rope and
leaves the receiver untouched, and a destructive form that is a thin
wrapper rebinding the receiver's root. Both share the same tree core;
neither mutates any existing node.

Typical usage:

	r := rope.FromString("Hello World")
	r2, _ := r.Insert(rope.Byte, 5, ",")
	s, _ := r2.Slice(rope.Byte, 0, r2.Len(rope.Byte))

Package rope does not implement Unicode segmentation itself; it consumes a
Segmenter collaborator (see segment.go) for grapheme-cluster boundaries.
Code points are decoded directly with unicode/utf8, not through the
Segmenter. The default Segmenter is backed by github.com/npillmayer/uax.
*/
package rope

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rope'.
func tracer() tracing.Trace {
	return tracing.Select("rope")
}

// RopeError is the package error type: comparable string constants so that
// callers can use errors.Is against the sentinels below.
type RopeError string

func (e RopeError) Error() string {
	return string(e)
}

// ErrOutOfBounds is raised whenever a requested index or range exceeds the
// rope's length in the metric under which it was given.
const ErrOutOfBounds = RopeError("rope: index out of bounds")

// ErrNotOnBoundary is raised when a slice/split/index operation would land
// inside a code point (under Byte) or inside a grapheme cluster (under
// Grapheme), violating the UTF-8/grapheme boundary invariant.
const ErrNotOnBoundary = RopeError("rope: index is not on a metric boundary")

// ErrIllegalArguments is raised for programmer errors unrelated to bounds,
// such as an invalid range (end before start) or adding fragments to a
// Builder after Done. Validate also returns it for a malformed tree.
const ErrIllegalArguments = RopeError("rope: illegal arguments")

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
