package rope

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// This file implements the read-only navigation surface of component C4:
// leaf, code-point, grapheme, and line iteration, plus RopeSlice, a
// borrowed view that reads a byte range without rebuilding any tree nodes
// (spec §4.4).

// LeafIter walks a Rope's leaf fragments left to right. It holds an
// explicit stack rather than recursing, so iteration cost is amortized
// O(1) per leaf regardless of tree depth.
type LeafIter struct {
	stack []node
}

// Leaves returns an iterator over r's leaf fragments, in order.
func (r Rope) Leaves() *LeafIter {
	it := &LeafIter{}
	if r.root != nil {
		it.stack = append(it.stack, r.root)
	}
	return it
}

// Next returns the next leaf, or ok=false once exhausted.
func (it *LeafIter) Next() (leaf Leaf, ok bool) {
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		if l, isLeaf := n.(*leafNode); isLeaf {
			return l.leaf, true
		}
		b := n.(*branchNode)
		it.stack = append(it.stack, b.right, b.left)
	}
	return nil, false
}

// ByteIter walks a Rope's raw bytes left to right, each paired with its
// Byte-metric position. Unlike Reader, which streams content for copying,
// ByteIter is the counted iterator analogous to Chars/Graphemes/Lines.
type ByteIter struct {
	leaves *LeafIter
	cur    []byte
	pos    int
	idx    Measure
}

// Bytes returns an iterator over r's raw bytes.
func (r Rope) Bytes() *ByteIter {
	return &ByteIter{leaves: r.Leaves()}
}

// Next returns the next byte and its Byte position, or ok=false once
// exhausted.
func (it *ByteIter) Next() (b byte, pos Measure, ok bool) {
	for {
		if it.pos < len(it.cur) {
			b := it.cur[it.pos]
			i := it.idx
			it.pos++
			it.idx++
			return b, i, true
		}
		leaf, more := it.leaves.Next()
		if !more {
			return 0, 0, false
		}
		it.cur = leaf.Bytes()
		it.pos = 0
	}
}

// CharIter walks a Rope's Unicode scalar values (code points) left to
// right, each paired with its Char-metric position.
type CharIter struct {
	leaves *LeafIter
	cur    []byte
	pos    int
	idx    Measure
}

// Chars returns an iterator over r's code points.
func (r Rope) Chars() *CharIter {
	return &CharIter{leaves: r.Leaves()}
}

// Next returns the next rune and its Char position, or ok=false once
// exhausted.
func (it *CharIter) Next() (ru rune, pos Measure, ok bool) {
	for {
		if it.pos < len(it.cur) {
			r, size := utf8.DecodeRune(it.cur[it.pos:])
			i := it.idx
			it.pos += size
			it.idx++
			return r, i, true
		}
		leaf, more := it.leaves.Next()
		if !more {
			return 0, 0, false
		}
		it.cur = leaf.Bytes()
		it.pos = 0
	}
}

// GraphemeIter walks a Rope's extended grapheme clusters left to right,
// each paired with its Grapheme-metric position. Each leaf is segmented on
// its own, without cross-leaf lookahead: constructors cut leaves on
// grapheme boundaries, but a cluster that Insert or Concat leaves spanning
// two leaves is yielded as two pieces.
type GraphemeIter struct {
	leaves *LeafIter
	seg    Segmenter
	cur    []byte
	bounds []int
	bi     int
	idx    Measure
}

// Graphemes returns an iterator over r's extended grapheme clusters,
// using r's own Segmenter.
func (r Rope) Graphemes() *GraphemeIter {
	return &GraphemeIter{leaves: r.Leaves(), seg: r.cfg.segmenter}
}

// Next returns the next grapheme cluster and its position, or ok=false
// once exhausted.
func (it *GraphemeIter) Next() (cluster string, pos Measure, ok bool) {
	for {
		if it.cur != nil && it.bi < len(it.bounds) {
			start := it.bounds[it.bi]
			end := len(it.cur)
			if it.bi+1 < len(it.bounds) {
				end = it.bounds[it.bi+1]
			}
			i := it.idx
			it.bi++
			it.idx++
			return string(it.cur[start:end]), i, true
		}
		leaf, more := it.leaves.Next()
		if !more {
			return "", 0, false
		}
		it.cur = leaf.Bytes()
		it.bounds = it.seg.GraphemeBoundaries(it.cur)
		it.bi = 0
	}
}

// LineIter walks a Rope's lines left to right. Each yielded line includes
// its trailing '\n' when one is present. A final line with no trailing
// '\n' is still yielded — the committed reading of the Line metric's open
// question (spec §1, §9): such a line contributes to the preceding
// Len(Line) count but is still surfaced as its own element here.
type LineIter struct {
	leaves  *LeafIter
	cur     []byte
	pos     int
	pending strings.Builder
	done    bool
}

// Lines returns an iterator over r's lines.
func (r Rope) Lines() *LineIter {
	return &LineIter{leaves: r.Leaves()}
}

// Next returns the next line, or ok=false once exhausted.
func (it *LineIter) Next() (line string, ok bool) {
	if it.done {
		return "", false
	}
	for {
		if it.cur == nil || it.pos >= len(it.cur) {
			leaf, more := it.leaves.Next()
			if !more {
				it.done = true
				if it.pending.Len() > 0 {
					s := it.pending.String()
					it.pending.Reset()
					return s, true
				}
				return "", false
			}
			it.cur = leaf.Bytes()
			it.pos = 0
			continue
		}
		if idx := bytes.IndexByte(it.cur[it.pos:], '\n'); idx >= 0 {
			it.pending.Write(it.cur[it.pos : it.pos+idx+1])
			it.pos += idx + 1
			s := it.pending.String()
			it.pending.Reset()
			return s, true
		}
		it.pending.Write(it.cur[it.pos:])
		it.pos = len(it.cur)
	}
}

// --- RopeSlice: a borrowed, non-restructuring view ------------------------

// RopeSlice is a read-only, non-owning view onto a byte range of a Rope
// (spec §4.4 "borrowed-slice lookup"). Unlike Rope.Slice, constructing a
// RopeSlice allocates no tree nodes at all: it is just a pair of byte
// offsets against the parent Rope's existing, untouched tree.
type RopeSlice struct {
	rope       Rope
	start, end uint64
}

// View returns a RopeSlice over [start,end) under metric m.
func (r Rope) View(m Metric, start, end Measure) (RopeSlice, error) {
	if end < start {
		return RopeSlice{}, ErrIllegalArguments
	}
	s, err := byteOffsetForMeasure(r.root, m, start)
	if err != nil {
		return RopeSlice{}, err
	}
	e, err := byteOffsetForMeasure(r.root, m, end)
	if err != nil {
		return RopeSlice{}, err
	}
	return RopeSlice{rope: r, start: s, end: e}, nil
}

// Len returns the view's width in bytes.
func (v RopeSlice) Len() uint64 {
	return v.end - v.start
}

// String materializes the view's content. O(width).
func (v RopeSlice) String() string {
	var sb strings.Builder
	sb.Grow(int(v.Len()))
	writeRange(&sb, v.rope.root, v.start, v.end)
	return sb.String()
}

// Equal reports whether v's content equals s, without allocating unless a
// comparison is actually required.
func (v RopeSlice) Equal(s string) bool {
	if v.Len() != uint64(len(s)) {
		return false
	}
	return v.String() == s
}

func writeRange(sb *strings.Builder, n node, start, end uint64) {
	if n == nil || start >= end {
		return
	}
	if leaf, ok := n.(*leafNode); ok {
		b := leaf.leaf.Bytes()
		if end > uint64(len(b)) {
			end = uint64(len(b))
		}
		sb.Write(b[start:end])
		return
	}
	b := n.(*branchNode)
	if start < b.weight {
		le := end
		if le > b.weight {
			le = b.weight
		}
		writeRange(sb, b.left, start, le)
	}
	if end > b.weight {
		lo := uint64(0)
		if start > b.weight {
			lo = start - b.weight
		}
		writeRange(sb, b.right, lo, end-b.weight)
	}
}
