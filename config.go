package rope

// config holds the construction-time options for a Rope (spec §6):
// the Segmenter collaborator, the Leaf storage factory
// (small_string_opt), the soft per-leaf byte budget, and the
// rebalance-trigger mode (automatic vs. manual-only).
type config struct {
	segmenter     Segmenter
	leafFactory   LeafFactory
	maxLeafBytes  int
	autoRebalance bool
}

func defaultConfig() config {
	return config{
		segmenter:     DefaultSegmenter(),
		leafFactory:   stringLeafFactory{},
		maxLeafBytes:  MaxLeafBytes,
		autoRebalance: true,
	}
}

// Option configures a Rope at construction time, following the
// functional-options style used throughout the retrieval pack's
// configuration layers.
type Option func(*config)

// WithSegmenter selects the Unicode grapheme-boundary collaborator used to
// cut leaves and to measure the Grapheme metric (spec §6).
func WithSegmenter(seg Segmenter) Option {
	return func(c *config) {
		if seg != nil {
			c.segmenter = seg
		}
	}
}

// WithLeafFactory selects the Leaf storage implementation — the
// small_string_opt configuration flag (spec §6).
func WithLeafFactory(f LeafFactory) Option {
	return func(c *config) {
		if f != nil {
			c.leafFactory = f
		}
	}
}

// WithMaxLeafBytes overrides the soft maximum leaf size used when text is
// cut into leaves (FromString, Append, Insert, Builder). Rebalance reuses
// the existing leaves and does not cut them.
func WithMaxLeafBytes(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLeafBytes = n
		}
	}
}

// WithAutoRebalance controls whether an edit that leaves the tree
// sufficiently unbalanced (Invariant 5) triggers an automatic Rebalance.
// This is the rebalance configuration flag of spec §6. Default is on;
// WithAutoRebalance(false) is the manual-only configuration, under which
// only an explicit call to Rebalance ever restructures the tree.
func WithAutoRebalance(enabled bool) Option {
	return func(c *config) {
		c.autoRebalance = enabled
	}
}

// withConfig copies an existing config verbatim, used internally to build
// helper Ropes (e.g. the argument to Insert) that must share their
// parent's Segmenter, LeafFactory, and leaf budget.
func withConfig(cfg config) Option {
	return func(c *config) {
		*c = cfg
	}
}
