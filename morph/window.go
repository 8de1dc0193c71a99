package morph

// window is the active [start, end) range of a word. Trimming only moves
// the cursors; buf is never modified.
type window struct {
	buf        string
	start, end int
}

func newWindow(s string) window {
	return window{buf: s, end: len(s)}
}

// trimEnd drops n bytes from the end, never past start.
func (w *window) trimEnd(n int) {
	if n > w.end-w.start {
		n = w.end - w.start
	}
	if n > 0 {
		w.end -= n
	}
}

// trimStart drops n bytes from the front, never past end.
func (w *window) trimStart(n int) {
	if n > w.end-w.start {
		n = w.end - w.start
	}
	if n > 0 {
		w.start += n
	}
}

func (w window) text() string { return w.buf[w.start:w.end] }
