package rope

import (
	"strings"
	"unicode/utf8"
)

// Rope is a persistent, balanced binary tree of immutable UTF-8 fragments
// (component C4, spec §1). The zero value is an empty Rope without any
// configuration (no Segmenter, LeafFactory or leaf budget; auto-rebalance
// off): Len, String, IsEmpty and Equal work on it, but editing it or
// segmenting it into graphemes needs a Rope obtained from New or FromString.
type Rope struct {
	root node
	cfg  config
}

// New returns an empty Rope configured by opts.
func New(opts ...Option) Rope {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return Rope{cfg: cfg}
}

// FromString builds a Rope from s, cutting it into grapheme-safe leaves
// (Invariant 3, spec §9 "Builder/Segmenter pipeline").
func FromString(s string, opts ...Option) Rope {
	r := New(opts...)
	r.root = leavesToNode(splitIntoLeaves(s, r.cfg.segmenter, r.cfg.leafFactory, r.cfg.maxLeafBytes))
	return r
}

// FromStrings builds a Rope by concatenating parts in order, each cut into
// grapheme-safe leaves independently. Useful for assembling a Rope from
// chunks read incrementally (e.g. off a stream) without first joining
// them into one large string.
func FromStrings(parts []string, opts ...Option) Rope {
	r := New(opts...)
	var root node
	for _, p := range parts {
		root = concatNodes(root, leavesToNode(splitIntoLeaves(p, r.cfg.segmenter, r.cfg.leafFactory, r.cfg.maxLeafBytes)))
	}
	r.root = root
	return r
}

func leavesToNode(leaves []Leaf) node {
	var n node
	for _, l := range leaves {
		n = concatNodes(n, &leafNode{leaf: l})
	}
	return n
}

// Len returns the rope's length under metric m.
func (r Rope) Len(m Metric) Measure {
	return measure(r.root, m)
}

// IsEmpty reports whether the rope holds no content.
func (r Rope) IsEmpty() bool {
	return r.root == nil
}

// String returns the rope's full content as a single Go string. O(n).
func (r Rope) String() string {
	if r.root == nil {
		tracer().Debugf("String(): empty rope")
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.root.byteLen()))
	writeNode(&sb, r.root)
	return sb.String()
}

func writeNode(sb *strings.Builder, n node) {
	if n == nil {
		return
	}
	if leaf, ok := n.(*leafNode); ok {
		sb.WriteString(leaf.leaf.String())
		return
	}
	b := n.(*branchNode)
	writeNode(sb, b.left)
	writeNode(sb, b.right)
}

// GraphemeMetric returns a Grapheme metric bound to this Rope's own
// Segmenter. Prefer this over the package-level Grapheme value whenever
// the Rope was built with WithSegmenter, so boundary detection stays
// consistent with whatever cut the rope's leaves.
func (r Rope) GraphemeMetric() Metric {
	return GraphemeMetricWith(r.cfg.segmenter)
}

// Depth returns the height of the tree, per spec §3's Node.depth.
func (r Rope) Depth() int {
	if r.root == nil {
		return 0
	}
	return r.root.depth()
}

// IsBalanced reports whether the tree currently satisfies the Fibonacci
// depth bound at its root (Invariant 5, spec §3).
func (r Rope) IsBalanced() bool {
	return isBalanced(r.root)
}

// Equal reports whether r and other hold the same byte sequence. Trees
// need not share any structure: two Ropes built through entirely
// different edit histories are equal as long as their content matches.
func (r Rope) Equal(other Rope) bool {
	if r.Len(Byte) != other.Len(Byte) {
		return false
	}
	return r.String() == other.String()
}

// --- Persistent editing API (spec §4.3) -----------------------------------

// Concat returns a new Rope holding r's content followed by other's. O(1)
// in tree size; r and other are left untouched. If auto-rebalance is
// enabled and the result falls outside the Fibonacci bound, it is
// rebalanced before being returned.
func (r Rope) Concat(other Rope) Rope {
	out := r
	out.root = concatNodes(r.root, other.root)
	return out.maybeRebalance()
}

// Append is Concat against a plain string, built with r's own
// configuration (Segmenter, LeafFactory, leaf budget).
func (r Rope) Append(s string) Rope {
	return r.Concat(FromString(s, withConfig(r.cfg)))
}

// Insert returns a new Rope with s spliced in at position k under metric
// m. k == r.Len(m) is a valid append position, except under Line: there
// r.Len(Line) is the start of a final line with no trailing '\n', so text
// inserted at it lands before that line.
func (r Rope) Insert(m Metric, k Measure, s string) (Rope, error) {
	return r.InsertRope(m, k, FromString(s, withConfig(r.cfg)))
}

// InsertRope returns a new Rope with ins spliced in at position k under
// metric m.
func (r Rope) InsertRope(m Metric, k Measure, ins Rope) (Rope, error) {
	byteIdx, err := byteOffsetForMeasure(r.root, m, k)
	if err != nil {
		tracer().Errorf(err.Error())
		return Rope{}, err
	}
	if m.Name() == "Byte" {
		if err := checkByteBoundary(r.root, byteIdx); err != nil {
			tracer().Errorf(err.Error())
			return Rope{}, err
		}
	}
	out := r
	out.root = insertAtByte(r.root, byteIdx, ins.root)
	return out.maybeRebalance(), nil
}

// Delete returns a new Rope with the [start,end) range under metric m
// removed.
func (r Rope) Delete(m Metric, start, end Measure) (Rope, error) {
	if end < start {
		return Rope{}, ErrIllegalArguments
	}
	s, err := byteOffsetForMeasure(r.root, m, start)
	if err != nil {
		return Rope{}, err
	}
	e, err := byteOffsetForMeasure(r.root, m, end)
	if err != nil {
		return Rope{}, err
	}
	if m.Name() == "Byte" {
		if err := checkByteBoundary(r.root, s); err != nil {
			return Rope{}, err
		}
		if err := checkByteBoundary(r.root, e); err != nil {
			return Rope{}, err
		}
	}
	out := r
	out.root = deleteByteRange(r.root, s, e)
	return out.maybeRebalance(), nil
}

// Split returns the two Ropes obtained by cutting r at position k under
// metric m. k == 0 or k == r.Len(m) yields an empty Rope on one side,
// except that under Line a final line with no trailing '\n' stays on the
// right at k == r.Len(Line).
func (r Rope) Split(m Metric, k Measure) (Rope, Rope, error) {
	byteIdx, err := byteOffsetForMeasure(r.root, m, k)
	if err != nil {
		return Rope{}, Rope{}, err
	}
	if m.Name() == "Byte" {
		if err := checkByteBoundary(r.root, byteIdx); err != nil {
			return Rope{}, Rope{}, err
		}
	}
	l, rr := splitAtByte(r.root, byteIdx)
	left, right := r, r
	left.root, right.root = l, rr
	return left, right, nil
}

// Slice returns the content of r in [start,end) under metric m as a new
// Rope, sharing structure with r.
func (r Rope) Slice(m Metric, start, end Measure) (Rope, error) {
	if end < start {
		return Rope{}, ErrIllegalArguments
	}
	_, mid, err := r.Split(m, start)
	if err != nil {
		return Rope{}, err
	}
	left, _, err := mid.Split(m, end-start)
	if err != nil {
		return Rope{}, err
	}
	return left, nil
}

// Rebalance returns a Rope over the same content with its tree rebuilt
// via the Fibonacci bucket method (spec §4.3, §9).
func (r Rope) Rebalance() Rope {
	out := r
	out.root = rebalanceNode(r.root)
	return out
}

func (r Rope) maybeRebalance() Rope {
	if r.cfg.autoRebalance && !isBalanced(r.root) {
		return r.Rebalance()
	}
	return r
}

// --- Destructive API: thin wrappers rebinding the receiver ---------------

// InsertInPlace mutates r to hold the result of Insert.
func (r *Rope) InsertInPlace(m Metric, k Measure, s string) error {
	out, err := r.Insert(m, k, s)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// DeleteInPlace mutates r to hold the result of Delete.
func (r *Rope) DeleteInPlace(m Metric, start, end Measure) error {
	out, err := r.Delete(m, start, end)
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// AppendInPlace mutates r to hold the result of Append.
func (r *Rope) AppendInPlace(s string) {
	*r = r.Append(s)
}

// RebalanceInPlace mutates r to hold the result of Rebalance.
func (r *Rope) RebalanceInPlace() {
	*r = r.Rebalance()
}

// --- Query operations (spec §4.4) -----------------------------------------

// At returns the rune at code-point position k.
func (r Rope) At(k Measure) (rune, error) {
	leaf, off, err := indexLeaf(r.root, Char, k)
	if err != nil {
		return 0, err
	}
	b := leaf.Bytes()
	if off >= len(b) {
		return 0, ErrOutOfBounds
	}
	ru, _ := utf8.DecodeRune(b[off:])
	return ru, nil
}

// GraphemeAt returns the extended grapheme cluster at position k, as a
// string, under this Rope's own Segmenter.
func (r Rope) GraphemeAt(k Measure) (string, error) {
	gm := r.GraphemeMetric()
	s, err := r.Slice(gm, k, k+1)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}
