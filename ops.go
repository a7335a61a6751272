package rope

import "unicode/utf8"

// This file implements component C3's tree operations: concat, index,
// split, insert, delete, and rebalance (spec §4.3). All functions are
// pure: they never mutate an existing node, only build new branches on
// top of shared, untouched children (structural sharing, spec §1).

// concatNodes joins two subtrees in O(1). A nil side (the empty rope) is
// simply dropped, per spec §4.3 "concat(left, right)".
func concatNodes(a, b node) node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return newBranch(a, b)
}

func byteLenOf(n node) uint64 {
	if n == nil {
		return 0
	}
	return n.byteLen()
}

// indexLeaf finds the leaf containing metric position k and the byte
// offset within that leaf (spec §4.3 "index(node, metric, k)").
func indexLeaf(n node, m Metric, k Measure) (Leaf, int, error) {
	if n == nil {
		return nil, 0, ErrOutOfBounds
	}
	if k > measure(n, m) {
		return nil, 0, ErrOutOfBounds
	}
	cur, rem := n, k
	for {
		if leaf, ok := cur.(*leafNode); ok {
			return leaf.leaf, m.ToByteIndex(leaf.leaf, rem), nil
		}
		b := cur.(*branchNode)
		leftM := measure(b.left, m)
		if rem < leftM {
			cur = b.left
		} else {
			rem -= leftM
			cur = b.right
		}
	}
}

// byteOffsetForMeasure converts metric position k into an absolute byte
// offset from the start of the tree. Branch descent compares against the
// metric-specific measure of the left subtree (to decide direction) but
// accumulates using the branch's byte weight (to build an absolute byte
// position), since weight is always in bytes regardless of metric
// (spec §3 Invariant 2, §4.3). A position equal to the left subtree's
// measure resolves inside the left subtree: for Byte, Char and Grapheme
// that is the same offset as the start of the right subtree, and for Line
// it is the offset just past the k-th '\n', wherever in the left subtree
// that newline lies.
func byteOffsetForMeasure(n node, m Metric, k Measure) (uint64, error) {
	if n == nil {
		if k == 0 {
			return 0, nil
		}
		return 0, ErrOutOfBounds
	}
	if k > measure(n, m) {
		return 0, ErrOutOfBounds
	}
	var acc uint64
	cur, rem := n, k
	for {
		if leaf, ok := cur.(*leafNode); ok {
			return acc + uint64(m.ToByteIndex(leaf.leaf, rem)), nil
		}
		b := cur.(*branchNode)
		leftM := measure(b.left, m)
		if rem <= leftM {
			cur = b.left
		} else {
			acc += b.weight
			rem -= leftM
			cur = b.right
		}
	}
}

// checkByteBoundary verifies that byte offset i lands on a UTF-8 rune
// boundary within n, raising ErrNotOnBoundary otherwise (spec §7). This is
// the one boundary check the tree must do explicitly: Char, Grapheme, and
// Line positions are always translated through ToByteIndex implementations
// that can only ever produce a boundary for their own metric, but a raw
// Byte-metric offset supplied by a caller is an arbitrary integer and may
// fall inside a multi-byte code point.
func checkByteBoundary(n node, i uint64) error {
	if n == nil || i == 0 || i >= n.byteLen() {
		return nil
	}
	leaf, off, err := indexLeaf(n, Byte, Measure(i))
	if err != nil {
		return err
	}
	b := leaf.Bytes()
	if off < len(b) && !utf8.RuneStart(b[off]) {
		return ErrNotOnBoundary
	}
	return nil
}

// splitAtByte splits n into two new subtrees at absolute byte offset i,
// preserving content order and leaving n's nodes untouched (spec §4.3
// "split"). Complexity is O(depth): one new branch is allocated per level
// of the spine, via concatNodes.
func splitAtByte(n node, i uint64) (node, node) {
	if n == nil {
		return nil, nil
	}
	if leaf, ok := n.(*leafNode); ok {
		ln := leaf.byteLen()
		if i == 0 {
			return nil, n
		}
		if i >= ln {
			return n, nil
		}
		tracer().Debugf("splitAtByte: cutting leaf %q at %d", leaf.leaf.String(), i)
		l, r := leaf.leaf.Split(int(i))
		return &leafNode{leaf: l}, &leafNode{leaf: r}
	}
	b := n.(*branchNode)
	switch {
	case i < b.weight:
		ll, lr := splitAtByte(b.left, i)
		return ll, concatNodes(lr, b.right)
	case i == b.weight:
		return b.left, b.right
	default:
		rl, rr := splitAtByte(b.right, i-b.weight)
		return concatNodes(b.left, rl), rr
	}
}

// insertAtByte splices ins into n at absolute byte offset i (spec §4.3
// "insert(node, byte_index, s)": split then concat(left, concat(s, right))).
func insertAtByte(n node, i uint64, ins node) node {
	if ins == nil {
		return n
	}
	tracer().Debugf("insertAtByte: splicing %d bytes in at offset %d", byteLenOf(ins), i)
	l, r := splitAtByte(n, i)
	return concatNodes(l, concatNodes(ins, r))
}

// deleteByteRange removes [start,end) from n (spec §4.3 "delete"): two
// splits, the middle piece discarded.
func deleteByteRange(n node, start, end uint64) node {
	if start == end {
		return n
	}
	l, mid := splitAtByte(n, start)
	_, r := splitAtByte(mid, end-start)
	return concatNodes(l, r)
}

// --- Rebalance: Fibonacci bucket method (Boehm, Atkinson, Plass) ----------

// fibTable[i] is F(i) for the standard Fibonacci sequence F(0)=0, F(1)=1.
// Its 91 entries hold F(0) through F(90) (about 2.9e18), beyond any
// realistic rope length; bucketIndexFor and isBalanced clamp larger
// lengths and depths to the last entry.
var fibTable = func() [91]uint64 {
	var t [91]uint64
	t[0], t[1] = 0, 1
	for i := 2; i < len(t); i++ {
		t[i] = t[i-1] + t[i-2]
	}
	return t
}()

// isBalanced reports whether n satisfies the Fibonacci bound at its root
// (Invariant 5, spec §3): F(depth+2) <= len. Checking only the root is an
// O(1) approximation of the full per-branch invariant, matching spec §9's
// "trigger by a depth-vs-length heuristic" guidance — imbalance elsewhere
// in the tree is tolerated until the next rebalance.
func isBalanced(n node) bool {
	if n == nil {
		return true
	}
	idx := n.depth() + 2
	if idx >= len(fibTable) {
		idx = len(fibTable) - 1
	}
	return fibTable[idx] <= n.byteLen()
}

// bucketIndexFor returns i such that F(i) <= length < F(i+1) (spec §4.3),
// clamped to the table's range.
func bucketIndexFor(length uint64) int {
	i := 0
	for i+1 < len(fibTable) && fibTable[i+1] <= length {
		i++
	}
	return i
}

// rebalanceNode rebuilds n from scratch via the Fibonacci bucket method:
// fold leaves left to right into depth-indexed buckets, merging on
// collision, then concatenate all buckets from largest index down to
// smallest. Rebalance is pure — n's nodes are untouched — and preserves
// content exactly (spec §4.3 "rebalance").
func rebalanceNode(n node) node {
	if n == nil {
		return nil
	}
	leaves := collectLeaves(n)
	if len(leaves) <= 1 {
		return n
	}
	tracer().Debugf("rebalanceNode: folding %d leaves into Fibonacci buckets", len(leaves))
	buckets := make([]node, len(fibTable))
	for _, leaf := range leaves {
		insertIntoBuckets(buckets, leaf)
	}
	var result node
	for i := len(buckets) - 1; i >= 0; i-- {
		if buckets[i] != nil {
			result = concatNodes(result, buckets[i])
		}
	}
	return result
}

func collectLeaves(n node) []node {
	leaves := make([]node, 0, 16)
	var walk func(node)
	walk = func(x node) {
		if x == nil {
			return
		}
		if x.isLeaf() {
			leaves = append(leaves, x)
			return
		}
		b := x.(*branchNode)
		walk(b.left)
		walk(b.right)
	}
	walk(n)
	return leaves
}

// insertIntoBuckets places leaf into buckets following the canonical
// add_to_forest step: before landing tmp in its natural slot, every
// occupied bucket at a lower-or-equal index is folded into it first, in
// increasing index order. This matters whenever a short leaf already
// sits in a low bucket and a much longer one arrives targeting a high,
// empty bucket directly; without the fold, the short leaf would be
// stranded below content that logically follows it, and the high-to-low
// assembly in rebalanceNode would then emit it on the wrong side.
// Folding can grow tmp past its original target, so the whole search
// repeats against the new, larger tmp until a pass folds nothing in,
// at which point tmp is placed.
func insertIntoBuckets(buckets []node, leaf node) {
	tmp := leaf
	for {
		i := bucketIndexFor(tmp.byteLen())
		if i >= len(buckets) {
			i = len(buckets) - 1
		}
		folded := false
		for j := 0; j <= i; j++ {
			if buckets[j] != nil {
				tmp = concatNodes(buckets[j], tmp)
				buckets[j] = nil
				folded = true
			}
		}
		if !folded {
			tracer().Debugf("rebalance: placing %d bytes in bucket %d", tmp.byteLen(), i)
			buckets[i] = tmp
			return
		}
	}
}
