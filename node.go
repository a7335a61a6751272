package rope

// node is either a leaf or a branch (spec §3 "Node"). Both implementations
// are immutable once constructed: edits clone the nodes along the affected
// spine and leave everything else shared, which is what makes the tree
// persistent (spec §1, §9).
type node interface {
	isLeaf() bool
	byteLen() uint64
	depth() int
}

// leafNode wraps a Leaf at the bottom of the tree.
type leafNode struct {
	leaf Leaf
}

func (n *leafNode) isLeaf() bool     { return true }
func (n *leafNode) byteLen() uint64  { return uint64(n.leaf.Len()) }
func (n *leafNode) depth() int       { return 1 }

// metricCache holds a lazily-computed, memoized measurement for one metric
// on a branch's subtree (Invariant 4). Because branch children are
// immutable, a populated cache entry is valid for the branch's entire
// lifetime — there is no invalidation path, only first-time computation.
type metricCache struct {
	value Measure
	ok    bool
}

// branchNode is an internal node with exactly two children (spec §3
// "Branch"). weight is the classical rope pivot: the byte length of the
// left subtree, used for O(depth) binary search during descent.
type branchNode struct {
	left, right node
	weight      uint64 // byte length of left subtree
	blen        uint64 // byte length of entire subtree
	ht          int
	cache       [numMetrics]metricCache
}

func (n *branchNode) isLeaf() bool    { return false }
func (n *branchNode) byteLen() uint64 { return n.blen }
func (n *branchNode) depth() int      { return n.ht }

// newBranch builds a branch from two non-nil children, computing weight,
// byte length, and depth in O(1). Metric caches start empty: a branch that
// is never queried under a given metric never pays to compute it.
func newBranch(left, right node) *branchNode {
	return &branchNode{
		left:   left,
		right:  right,
		weight: left.byteLen(),
		blen:   left.byteLen() + right.byteLen(),
		ht:     1 + max(left.depth(), right.depth()),
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// measureMetric returns the M-length of n's subtree, computing and
// memoizing it on a branch the first time it is requested under m
// (Invariant 4, spec §9 "Lazy metric caches on immutable nodes").
func measureMetric(n node, m Metric, id metricID) Measure {
	if n == nil {
		return m.Zero()
	}
	if leaf, ok := n.(*leafNode); ok {
		return m.Measure(leaf.leaf)
	}
	b := n.(*branchNode)
	if b.cache[id].ok {
		return b.cache[id].value
	}
	v := m.Combine(measureMetric(b.left, m, id), measureMetric(b.right, m, id))
	b.cache[id] = metricCache{value: v, ok: true}
	return v
}

// idFor maps a Metric to its fixed cache slot. User-supplied metrics with
// the four reserved names use the matching slot (so a custom Grapheme
// metric bound to a different Segmenter still benefits from the branch
// cache); anything else is never cached at the branch level and is always
// recomputed bottom-up. That's correct, just slower — exactly the
// trade-off spec §4.2 allows for metrics composed outside the shipped set.
func idFor(m Metric) (metricID, bool) {
	switch m.Name() {
	case "Byte":
		return byteMetricID, true
	case "Char":
		return charMetricID, true
	case "Grapheme":
		return graphemeMetricID, true
	case "Line":
		return lineMetricID, true
	default:
		return 0, false
	}
}

// measure is the metric-dispatch entry point used throughout ops.go.
func measure(n node, m Metric) Measure {
	if n == nil {
		return m.Zero()
	}
	id, cacheable := idFor(m)
	if !cacheable {
		return measureUncached(n, m)
	}
	return measureMetric(n, m, id)
}

func measureUncached(n node, m Metric) Measure {
	if n == nil {
		return m.Zero()
	}
	if leaf, ok := n.(*leafNode); ok {
		return m.Measure(leaf.leaf)
	}
	b := n.(*branchNode)
	return m.Combine(measureUncached(b.left, m), measureUncached(b.right, m))
}

// cloneBranch returns a shallow copy of b: same children, but its own
// cache array, so that attaching it in place of the original (copy-on-
// write) never mutates a node another Rope still references.
func cloneBranch(b *branchNode) *branchNode {
	cp := *b
	return &cp
}
