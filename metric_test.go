package rope

import "testing"

func TestByteMetric(t *testing.T) {
	l := stringLeaf("hello")
	if got := Byte.Measure(l); got != 5 {
		t.Errorf("Byte.Measure = %d, want 5", got)
	}
	if got := Byte.ToByteIndex(l, 3); got != 3 {
		t.Errorf("Byte.ToByteIndex(3) = %d, want 3", got)
	}
}

func TestCharMetricASCII(t *testing.T) {
	l := stringLeaf("hello")
	if got := Char.Measure(l); got != 5 {
		t.Errorf("Char.Measure = %d, want 5", got)
	}
}

func TestCharMetricMultibyte(t *testing.T) {
	l := stringLeaf("héllo") // é is 2 bytes, 1 code point
	if got := Char.Measure(l); got != 5 {
		t.Errorf("Char.Measure = %d, want 5 code points", got)
	}
	if got := Byte.Measure(l); got != 6 {
		t.Errorf("Byte.Measure = %d, want 6 bytes", got)
	}
	if off := Char.ToByteIndex(l, 2); off != 3 {
		t.Errorf("Char.ToByteIndex(2) = %d, want 3 (past the 2-byte é)", off)
	}
}

func TestLineMetric(t *testing.T) {
	l := stringLeaf("a\nb\nc")
	if got := Line.Measure(l); got != 2 {
		t.Errorf("Line.Measure = %d, want 2", got)
	}
	if off := Line.ToByteIndex(l, 1); off != 2 {
		t.Errorf("Line.ToByteIndex(1) = %d, want 2 (start of second line)", off)
	}
	if off := Line.ToByteIndex(l, 0); off != 0 {
		t.Errorf("Line.ToByteIndex(0) = %d, want 0", off)
	}
}

func TestGraphemeMetricASCII(t *testing.T) {
	l := stringLeaf("abc")
	g := GraphemeMetricWith(DefaultSegmenter())
	if got := g.Measure(l); got != 3 {
		t.Errorf("Grapheme.Measure = %d, want 3", got)
	}
}

func TestMetricNames(t *testing.T) {
	cases := []struct {
		m    Metric
		want string
	}{
		{Byte, "Byte"},
		{Char, "Char"},
		{Line, "Line"},
		{Grapheme, "Grapheme"},
	}
	for _, c := range cases {
		if got := c.m.Name(); got != c.want {
			t.Errorf("Name() = %q, want %q", got, c.want)
		}
	}
}
