package rope

import "testing"

func leafOf(s string) *leafNode {
	return &leafNode{leaf: stringLeaf(s)}
}

func TestNewBranchComputesFieldsInO1(t *testing.T) {
	l := leafOf("hello")
	r := leafOf(" world")
	b := newBranch(l, r)
	if b.weight != 5 {
		t.Errorf("weight = %d, want 5 (byte length of left)", b.weight)
	}
	if b.blen != 11 {
		t.Errorf("blen = %d, want 11", b.blen)
	}
	if b.ht != 2 {
		t.Errorf("ht = %d, want 2", b.ht)
	}
}

func TestMeasureMetricMemoizes(t *testing.T) {
	l := leafOf("hello")
	r := leafOf(" world")
	b := newBranch(l, r)
	if b.cache[charMetricID].ok {
		t.Fatal("cache should start empty")
	}
	got := measureMetric(b, Char, charMetricID)
	if got != 11 {
		t.Errorf("Char measure = %d, want 11", got)
	}
	if !b.cache[charMetricID].ok || b.cache[charMetricID].value != 11 {
		t.Errorf("branch did not memoize Char measure: %+v", b.cache[charMetricID])
	}
	// Byte metric untouched: a query under one metric never computes
	// another (spec Invariant 4).
	if b.cache[byteMetricID].ok {
		t.Error("querying Char must not populate the Byte cache slot")
	}
}

func TestIdForKnownAndUnknownMetrics(t *testing.T) {
	if id, ok := idFor(Byte); !ok || id != byteMetricID {
		t.Errorf("idFor(Byte) = (%d, %v), want (%d, true)", id, ok, byteMetricID)
	}
	if _, ok := idFor(fakeMetric{}); ok {
		t.Error("idFor should report false for an unrecognized metric name")
	}
}

type fakeMetric struct{}

func (fakeMetric) Name() string                 { return "Fake" }
func (fakeMetric) Zero() Measure                { return 0 }
func (fakeMetric) Combine(l, r Measure) Measure { return l + r }
func (fakeMetric) Measure(leaf Leaf) Measure    { return 1 }
func (fakeMetric) ToByteIndex(leaf Leaf, k Measure) int { return 0 }

func TestCloneBranchIsIndependent(t *testing.T) {
	l := leafOf("hi")
	r := leafOf("!")
	b := newBranch(l, r)
	measureMetric(b, Byte, byteMetricID)
	cp := cloneBranch(b)
	cp.cache[byteMetricID] = metricCache{}
	if !b.cache[byteMetricID].ok {
		t.Error("cloning must not affect the original branch's cache")
	}
}
