package engine

// WindowSize is the number of samples the dashboard keeps: the 30 most
// recent existing samples plus the newly appended one.
const WindowSize = 31

// Window is a fixed-capacity ring buffer of samples in insertion order.
// It is not safe for concurrent use; the owner serializes access.
type Window struct {
	buf   []Sample
	start int // index of the oldest sample
	n     int
}

// NewWindow creates an empty window. Capacity below 1 is raised to 1.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([]Sample, capacity)}
}

// Append adds s as the newest sample, evicting the oldest when full.
// Reports whether an eviction happened.
func (w *Window) Append(s Sample) bool {
	if w.n < len(w.buf) {
		w.buf[(w.start+w.n)%len(w.buf)] = s
		w.n++
		return false
	}
	w.buf[w.start] = s
	w.start = (w.start + 1) % len(w.buf)
	return true
}

// Len returns the number of stored samples.
func (w *Window) Len() int {
	return w.n
}

// Cap returns the window capacity.
func (w *Window) Cap() int {
	return len(w.buf)
}

// At returns the i-th sample, 0 being the oldest. Panics when out of range.
func (w *Window) At(i int) Sample {
	if i < 0 || i >= w.n {
		panic("engine: window index out of range")
	}
	return w.buf[(w.start+i)%len(w.buf)]
}

// Last returns the newest sample, or false when the window is empty.
func (w *Window) Last() (Sample, bool) {
	if w.n == 0 {
		return Sample{}, false
	}
	return w.At(w.n - 1), true
}

// Samples returns a copy of the contents, oldest first.
func (w *Window) Samples() []Sample {
	out := make([]Sample, w.n)
	for i := range out {
		out[i] = w.At(i)
	}
	return out
}
