package datagen

// Window tracks the position keys of the last N accepted samples so
// near-term repeats can be discarded. Zero capacity accepts everything.
type Window struct {
	seen  map[uint64]struct{}
	order []uint64
	next  int
}

// NewWindow returns a window holding up to capacity keys.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		return &Window{}
	}
	return &Window{
		seen:  make(map[uint64]struct{}, capacity),
		order: make([]uint64, 0, capacity),
	}
}

// Accept records the key and reports whether it was new to the window.
// Once the window is full the oldest key falls out first.
func (w *Window) Accept(key uint64) bool {
	if w.seen == nil {
		return true
	}
	if _, dup := w.seen[key]; dup {
		return false
	}
	if len(w.order) < cap(w.order) {
		w.order = append(w.order, key)
	} else {
		delete(w.seen, w.order[w.next])
		w.order[w.next] = key
		w.next = (w.next + 1) % len(w.order)
	}
	w.seen[key] = struct{}{}
	return true
}
