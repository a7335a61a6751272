package rope

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func buildNode(s string) node {
	leaves := splitIntoLeaves(s, DefaultSegmenter(), nil, 4)
	var n node
	for _, l := range leaves {
		n = concatNodes(n, &leafNode{leaf: l})
	}
	return n
}

func nodeString(n node) string {
	if n == nil {
		return ""
	}
	if leaf, ok := n.(*leafNode); ok {
		return leaf.leaf.String()
	}
	b := n.(*branchNode)
	return nodeString(b.left) + nodeString(b.right)
}

func TestConcatNodesNilIdentity(t *testing.T) {
	l := leafOf("a")
	if concatNodes(nil, l) != l {
		t.Error("concat(nil, x) should return x unchanged")
	}
	if concatNodes(l, nil) != l {
		t.Error("concat(x, nil) should return x unchanged")
	}
}

func TestSplitAtByteRoundTrips(t *testing.T) {
	n := buildNode("hello world, this is a longer string")
	for i := 0; i <= len(nodeString(n)); i++ {
		l, r := splitAtByte(n, uint64(i))
		got := nodeString(l) + nodeString(r)
		if got != nodeString(n) {
			t.Fatalf("split at %d: got %q, want %q", i, got, nodeString(n))
		}
	}
}

func TestInsertAtByte(t *testing.T) {
	n := buildNode("hello world")
	ins := buildNode(", dear")
	got := nodeString(insertAtByte(n, 5, ins))
	want := "hello, dear world"
	if got != want {
		t.Errorf("insert = %q, want %q", got, want)
	}
}

func TestDeleteByteRange(t *testing.T) {
	n := buildNode("hello, dear world")
	got := nodeString(deleteByteRange(n, 5, 11))
	want := "hello world"
	if got != want {
		t.Errorf("delete = %q, want %q", got, want)
	}
}

func TestIndexLeafOutOfBounds(t *testing.T) {
	n := buildNode("short")
	if _, _, err := indexLeaf(n, Byte, 100); err != ErrOutOfBounds {
		t.Errorf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestByteOffsetForMeasureChar(t *testing.T) {
	n := buildNode("héllo world")
	off, err := byteOffsetForMeasure(n, Char, 2)
	if err != nil {
		t.Fatal(err)
	}
	if off != 3 {
		t.Errorf("byte offset = %d, want 3 (past the 2-byte é)", off)
	}
}

func TestCheckByteBoundary(t *testing.T) {
	// "héllo": h=0, é occupies bytes [1,3) as 0xC3 0xA9, l=3, l=4, o=5.
	n := buildNode("héllo")
	if err := checkByteBoundary(n, 1); err != nil {
		t.Errorf("err = %v, want nil (offset 1 starts the 2-byte é)", err)
	}
	if err := checkByteBoundary(n, 2); err != ErrNotOnBoundary {
		t.Errorf("err = %v, want ErrNotOnBoundary (offset 2 splits é mid-rune)", err)
	}
	if err := checkByteBoundary(n, 3); err != nil {
		t.Errorf("err = %v, want nil (offset 3 is after é)", err)
	}
}

func TestBucketIndexFor(t *testing.T) {
	if got := bucketIndexFor(0); got != 0 {
		t.Errorf("bucketIndexFor(0) = %d, want 0", got)
	}
	if got := bucketIndexFor(1); fibTable[got] > 1 || fibTable[got+1] <= 1 {
		t.Errorf("bucketIndexFor(1) = %d violates F(i) <= 1 < F(i+1): F(i)=%d F(i+1)=%d", got, fibTable[got], fibTable[got+1])
	}
	if got := bucketIndexFor(100); fibTable[got] > 100 || fibTable[got+1] <= 100 {
		t.Errorf("bucketIndexFor(100) = %d violates F(i) <= 100 < F(i+1): F(i)=%d F(i+1)=%d", got, fibTable[got], fibTable[got+1])
	}
}

func TestRebalancePreservesContentAndImprovesDepth(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	// Build a deliberately unbalanced, left-leaning chain of tiny leaves.
	var n node
	s := ""
	for i := 0; i < 40; i++ {
		leaf := &leafNode{leaf: stringLeaf("x")}
		n = concatNodes(n, leaf)
		s += "x"
	}
	before := n.depth()
	balanced := rebalanceNode(n)
	if nodeString(balanced) != s {
		t.Fatalf("rebalance changed content: got %q, want %q", nodeString(balanced), s)
	}
	after := balanced.depth()
	if after > before {
		t.Errorf("rebalance increased depth: %d -> %d", before, after)
	}
	if !isBalanced(balanced) {
		t.Errorf("rebalanced tree fails the Fibonacci bound: depth=%d len=%d", after, balanced.byteLen())
	}
}

func TestRebalancePreservesContentWithMixedLeafSizes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	r := FromString("x", WithAutoRebalance(false)).Append(strings.Repeat("y", 1000))
	want := "x" + strings.Repeat("y", 1000)
	if got := r.String(); got != want {
		t.Fatalf("before rebalance: got %q, want %q", got, want)
	}
	r = r.Rebalance()
	if got := r.String(); got != want {
		t.Fatalf("rebalance reordered content: got len %d starting %q, want %q starting %q",
			len(got), got[:min(10, len(got))], want, want[:min(10, len(want))])
	}
}

func TestIsBalancedEmpty(t *testing.T) {
	if !isBalanced(nil) {
		t.Error("nil (empty rope) should be considered balanced")
	}
}
