package rope

import "io"

// Reader returns an io.Reader over r's content, in byte order, without
// materializing the whole string up front.
func (r Rope) Reader() io.Reader {
	return &ropeReader{rope: r, total: byteLenOf(r.root)}
}

type ropeReader struct {
	rope   Rope
	cursor uint64
	total  uint64
}

func (rr *ropeReader) Read(p []byte) (n int, err error) {
	if rr.rope.root == nil || rr.cursor >= rr.total {
		return 0, io.EOF
	}
	want := uint64(len(p))
	if rr.cursor+want > rr.total {
		want = rr.total - rr.cursor
	}
	view, verr := rr.rope.View(Byte, rr.cursor, rr.cursor+want)
	if verr != nil {
		return 0, verr
	}
	s := view.String()
	n = copy(p, s)
	rr.cursor += uint64(n)
	return n, nil
}
