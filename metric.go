package rope

import "unicode/utf8"

// Measure is the value type shared by all shipped metrics: a non-negative
// count that forms a commutative monoid under ordinary integer addition
// (spec §4.2).
type Measure = uint64

// Metric is a scheme for measuring lengths of leaf content in some unit
// (component C2). All editing and navigation operations on a Rope are
// parameterized by a Metric, letting the same tree-descent code serve
// byte, code-point, grapheme, and line coordinates alike (spec §9,
// "Pluggable metric as polymorphism").
//
// Combine must be associative with Zero() as its identity element.
// Measure and ToByteIndex operate on a single leaf's content and never
// look across a leaf boundary.
type Metric interface {
	// Name identifies the metric, used in cache indexing and error text.
	Name() string
	// Zero is the monoid identity: the measure of an empty fragment.
	Zero() Measure
	// Combine merges the measures of a left and right sibling subtree.
	Combine(left, right Measure) Measure
	// Measure returns the M-length of leaf.
	Measure(leaf Leaf) Measure
	// ToByteIndex converts measure k (0 <= k <= Measure(leaf)) into a byte
	// offset within leaf. For Byte, Char and Grapheme,
	// ToByteIndex(leaf, Measure(leaf)) equals leaf.Len(); for Line it is
	// the offset just past the leaf's last '\n'. The result always lands
	// on a valid boundary for this metric (UTF-8 for Byte/Char,
	// grapheme-cluster for Grapheme, line-start for Line).
	ToByteIndex(leaf Leaf, k Measure) int
}

// metricID indexes the fixed per-branch measurement cache. The four
// shipped metrics are a closed set (spec §4.2 "Shipped metrics"), so a
// small fixed-size array outperforms a map and needs no hashing.
type metricID int

const (
	byteMetricID metricID = iota
	charMetricID
	graphemeMetricID
	lineMetricID
	numMetrics
)

// byteMetric counts UTF-8 bytes: one unit per byte.
type byteMetric struct{}

func (byteMetric) Name() string                 { return "Byte" }
func (byteMetric) Zero() Measure                { return 0 }
func (byteMetric) Combine(l, r Measure) Measure { return l + r }
func (byteMetric) Measure(leaf Leaf) Measure    { return Measure(leaf.Len()) }
func (byteMetric) ToByteIndex(leaf Leaf, k Measure) int {
	n := leaf.Len()
	if int(k) >= n {
		return n
	}
	return int(k)
}

// charMetric counts Unicode scalar values (code points). Decoding UTF-8 is
// a language primitive (unicode/utf8), not a concern any example in the
// retrieval pack reaches for a third-party library to cover.
type charMetric struct{}

func (charMetric) Name() string                 { return "Char" }
func (charMetric) Zero() Measure                { return 0 }
func (charMetric) Combine(l, r Measure) Measure { return l + r }

func (charMetric) Measure(leaf Leaf) Measure {
	return Measure(utf8.RuneCount(leaf.Bytes()))
}

func (charMetric) ToByteIndex(leaf Leaf, k Measure) int {
	b := leaf.Bytes()
	n := 0
	for i := 0; i < len(b); {
		if Measure(n) == k {
			return i
		}
		_, size := utf8.DecodeRune(b[i:])
		if size <= 0 {
			size = 1
		}
		i += size
		n++
	}
	return len(b)
}

// graphemeMetric counts extended grapheme clusters, per the Segmenter
// collaborator (spec §6). Each leaf is segmented on its own, so a cluster
// that Insert or Concat leaves spanning two leaves is counted as two.
type graphemeMetric struct {
	seg Segmenter
}

func (graphemeMetric) Name() string                 { return "Grapheme" }
func (graphemeMetric) Zero() Measure                { return 0 }
func (graphemeMetric) Combine(l, r Measure) Measure { return l + r }

func (m graphemeMetric) Measure(leaf Leaf) Measure {
	return Measure(len(m.seg.GraphemeBoundaries(leaf.Bytes())))
}

func (m graphemeMetric) ToByteIndex(leaf Leaf, k Measure) int {
	b := leaf.Bytes()
	bounds := m.seg.GraphemeBoundaries(b)
	if int(k) >= len(bounds) {
		return len(b)
	}
	return bounds[k]
}

// lineMetric counts '\n' occurrences; the measure of a leaf with N
// newlines is N (spec §4.2). ToByteIndex(leaf, k) yields the start of the
// (k+1)-th line, i.e. one past the k-th newline.
type lineMetric struct{}

func (lineMetric) Name() string                 { return "Line" }
func (lineMetric) Zero() Measure                { return 0 }
func (lineMetric) Combine(l, r Measure) Measure { return l + r }

func (lineMetric) Measure(leaf Leaf) Measure {
	b := leaf.Bytes()
	var n Measure
	for _, c := range b {
		if c == '\n' {
			n++
		}
	}
	return n
}

func (lineMetric) ToByteIndex(leaf Leaf, k Measure) int {
	if k == 0 {
		return 0
	}
	b := leaf.Bytes()
	var seen Measure
	for i, c := range b {
		if c == '\n' {
			seen++
			if seen == k {
				return i + 1
			}
		}
	}
	return len(b)
}

// Shipped metric singletons (spec §4.2). Byte, Char, and Line carry no
// state. Grapheme is parameterized by the active Segmenter; the
// package-level Grapheme value uses DefaultSegmenter and is suitable
// whenever a Rope was built with the default segmenter.
var (
	// Byte measures UTF-8 byte length.
	Byte Metric = byteMetric{}
	// Char measures Unicode scalar values (code points).
	Char Metric = charMetric{}
	// Line measures '\n'-terminated lines.
	Line Metric = lineMetric{}
	// Grapheme measures extended grapheme clusters using the default
	// Segmenter. Ropes built with WithSegmenter should use
	// Rope.GraphemeMetric() instead so boundary detection is consistent
	// with the Segmenter that built the rope's leaves.
	Grapheme Metric = graphemeMetric{seg: DefaultSegmenter()}
)

// GraphemeMetricWith returns a Grapheme metric bound to seg. Use this to
// keep metric boundary detection consistent with a non-default Segmenter.
func GraphemeMetricWith(seg Segmenter) Metric {
	return graphemeMetric{seg: seg}
}
