package rope

// Builder assembles a Rope by appending or prepending fragments one at a
// time, without paying the O(depth) Concat cost per fragment: each
// fragment is pushed onto an explicit stack and merged with the entries
// below it only while it is at least as long as the top entry, so total
// merge work across n fragments stays O(n) rather than O(n * depth).
//
// The zero value carries no Segmenter or leaf budget, so Append and
// Prepend need a Builder obtained from NewBuilder. After Done, further
// fragments are rejected with ErrIllegalArguments; Rope may be called any
// number of times and does not end the build.
type Builder struct {
	stack []node // stack[i] holds a subtree, or nil; merged lazily, smallest on top
	cfg   config
	done  bool
}

// NewBuilder creates a new, empty Builder using opts for any Ropes it
// eventually produces.
func NewBuilder(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Builder{cfg: cfg}
}

// Rope returns the Rope this Builder holds so far. Calling Rope does not
// prevent further Append/Prepend calls unless the caller also calls Done.
func (b *Builder) Rope() Rope {
	r := Rope{cfg: b.cfg}
	var root node
	for _, n := range b.stack {
		root = concatNodes(root, n)
	}
	r.root = root
	return r
}

// Done finalizes the builder: further Append/Prepend calls return
// ErrIllegalArguments.
func (b *Builder) Done() {
	b.done = true
}

// Reset drops the in-progress build and prepares the Builder for a fresh
// one.
func (b *Builder) Reset() {
	b.stack = b.stack[:0]
	b.done = false
}

// Append adds a fragment to the end of the rope under construction.
func (b *Builder) Append(s string) error {
	if b.done {
		return ErrIllegalArguments
	}
	if s == "" {
		return nil
	}
	for _, leaf := range splitIntoLeaves(s, b.cfg.segmenter, b.cfg.leafFactory, b.cfg.maxLeafBytes) {
		b.pushLeaf(&leafNode{leaf: leaf})
	}
	return nil
}

// AppendLeaf adds a single, already-cut Leaf fragment to the end of the
// rope under construction. Callers are responsible for ensuring leaf ends
// on a grapheme-cluster boundary (Invariant 3).
func (b *Builder) AppendLeaf(leaf Leaf) error {
	if b.done {
		return ErrIllegalArguments
	}
	if leaf == nil || leaf.Len() == 0 {
		return nil
	}
	b.pushLeaf(&leafNode{leaf: leaf})
	return nil
}

// Prepend adds a fragment to the beginning of the rope under construction.
// Prepend is O(depth) rather than amortized O(1): it must graft onto the
// already-assembled tree rather than the pending stack, since the stack
// order only ever grows rightward.
func (b *Builder) Prepend(s string) error {
	if b.done {
		return ErrIllegalArguments
	}
	if s == "" {
		return nil
	}
	leaves := splitIntoLeaves(s, b.cfg.segmenter, b.cfg.leafFactory, b.cfg.maxLeafBytes)
	var prefix node
	for _, leaf := range leaves {
		prefix = concatNodes(prefix, &leafNode{leaf: leaf})
	}
	existing := b.Rope().root
	b.stack = b.stack[:0]
	if prefix != nil {
		b.stack = append(b.stack, prefix)
	}
	if existing != nil {
		b.stack = append(b.stack, existing)
	}
	return nil
}

// pushLeaf merges n down through the stack, Fibonacci-style: as long as
// the top of the stack holds a subtree no bigger than n, they're merged
// and the process repeats one level down, keeping the stack's subtree
// sizes strictly decreasing bottom to top (smallest on top).
func (b *Builder) pushLeaf(n node) {
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		if top.byteLen() > n.byteLen() {
			break
		}
		n = concatNodes(top, n)
		b.stack = b.stack[:len(b.stack)-1]
	}
	b.stack = append(b.stack, n)
}
