package rope

import (
	"unicode/utf8"
	"unsafe"
)

// MaxLeafBytes is the soft maximum size, in bytes, of a single leaf
// fragment. Constructors split longer input at a grapheme-cluster boundary
// at or before this many bytes (spec §3, §9); rebalance reuses the
// existing leaves and does not cut them.
//
// Overly small leaves inflate tree depth; overly large leaves inflate the
// cost of edits that touch them. 1024 mirrors the default leaf budget of
// the other_examples rope implementations in the retrieval pack, which
// converge on the same order of magnitude.
const MaxLeafBytes = 1024

// Leaf is an immutable UTF-8 string fragment at a tree bottom (component
// C1). The default implementation, stringLeaf, is a plain Go string; a
// LeafFactory may substitute a different storage representation (the
// small_string_opt configuration flag, spec §6) without changing leaf
// semantics.
type Leaf interface {
	Len() int              // length of the fragment in bytes
	String() string        // fragment content as a string
	Bytes() []byte         // fragment content as bytes (no copy)
	Slice(i, j int) Leaf   // sub-fragment [i:j), i and j are byte offsets
	Split(i int) (Leaf, Leaf) // split into two fragments at byte offset i
}

// LeafFactory constructs Leaf values from strings. Substituting a
// LeafFactory is how the small_string_opt configuration flag (spec §6)
// changes storage layout without touching tree or metric code: callers
// supply a factory backed by a compact/small-string-optimized primitive
// and every leaf in a Rope built with that factory uses it.
type LeafFactory interface {
	NewLeaf(s string) Leaf
}

// stringLeafFactory is the default LeafFactory, producing stringLeaf values.
type stringLeafFactory struct{}

func (stringLeafFactory) NewLeaf(s string) Leaf { return stringLeaf(s) }

// stringLeaf is the default Leaf implementation: a plain Go string.
type stringLeaf string

func (l stringLeaf) Len() int       { return len(l) }
func (l stringLeaf) String() string { return string(l) }

// Bytes shares the string's memory rather than copying it; the returned
// slice must not be modified.
func (l stringLeaf) Bytes() []byte {
	return unsafe.Slice(unsafe.StringData(string(l)), len(l))
}

func (l stringLeaf) Slice(i, j int) Leaf {
	return stringLeaf(l[i:j])
}

func (l stringLeaf) Split(i int) (Leaf, Leaf) {
	return stringLeaf(l[:i]), stringLeaf(l[i:])
}

var _ Leaf = stringLeaf("")

// splitIntoLeaves breaks s into a left-to-right sequence of leaves, each at
// most maxBytes long, cut only at grapheme-cluster boundaries reported by
// seg (Invariant 3). An empty string yields an empty slice.
func splitIntoLeaves(s string, seg Segmenter, factory LeafFactory, maxBytes int) []Leaf {
	if len(s) == 0 {
		return nil
	}
	if factory == nil {
		factory = stringLeafFactory{}
	}
	if len(s) <= maxBytes {
		return []Leaf{factory.NewLeaf(s)}
	}
	b := []byte(s)
	bounds := seg.GraphemeBoundaries(b)
	if len(bounds) == 0 {
		bounds = []int{0}
	}
	var leaves []Leaf
	start := 0
	// idx tracks the last bounds entry known to equal start; both start
	// and idx only move forward, so the whole scan is amortized O(len(bounds)).
	idx := 0
	for start < len(b) {
		limit := start + maxBytes
		if limit >= len(b) {
			leaves = append(leaves, factory.NewLeaf(string(b[start:])))
			break
		}
		cut := -1
		cutIdx := idx
		for j := idx; j < len(bounds) && bounds[j] <= limit; j++ {
			if bounds[j] > start {
				cut = bounds[j]
				cutIdx = j
			}
		}
		if cut < 0 {
			// No grapheme boundary fits within the budget (a single
			// cluster longer than maxBytes); fall back to a code-point
			// boundary so we never split mid-rune.
			cut = codePointCutAtOrBefore(b, start, limit)
		} else {
			idx = cutIdx
		}
		leaves = append(leaves, factory.NewLeaf(string(b[start:cut])))
		start = cut
	}
	return leaves
}

func codePointCutAtOrBefore(b []byte, start, limit int) int {
	cut := limit
	for cut > start && !utf8.RuneStart(b[cut]) {
		cut--
	}
	if cut <= start {
		// A single rune wider than the budget; take it whole.
		_, size := utf8.DecodeRune(b[start:])
		if size <= 0 {
			size = 1
		}
		cut = start + size
	}
	return cut
}
