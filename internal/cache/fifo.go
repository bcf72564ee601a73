package cache

import "time"

// Clock returns the current time. Both caches take one so tests can move time.
type Clock func() time.Time

// Observer receives cache events, typically for metrics.
type Observer interface {
	Hit(cache string)
	Miss(cache string)
	Coalesced(cache string)
	FetchError(cache string)
	Evicted(cache string, n int)
}

type nopObserver struct{}

func (nopObserver) Hit(string)          {}
func (nopObserver) Miss(string)         {}
func (nopObserver) Coalesced(string)    {}
func (nopObserver) FetchError(string)   {}
func (nopObserver) Evicted(string, int) {}

type slot struct {
	key string
	seq uint64
}

// fifo tracks key insertion order. Overwriting a live key keeps its slot;
// a key that was removed and inserted again goes to the back.
// Stale slots are skipped lazily on pop.
type fifo struct {
	slots []slot
	next  uint64
}

func (f *fifo) push(key string) uint64 {
	f.next++
	f.slots = append(f.slots, slot{key: key, seq: f.next})
	return f.next
}

// pop returns the oldest slot for which live reports true.
func (f *fifo) pop(live func(slot) bool) (string, bool) {
	for len(f.slots) > 0 {
		s := f.slots[0]
		f.slots[0] = slot{}
		f.slots = f.slots[1:]
		if live(s) {
			return s.key, true
		}
	}
	return "", false
}

// keys returns the live keys oldest first.
func (f *fifo) keys(live func(slot) bool) []string {
	out := make([]string, 0, len(f.slots))
	for _, s := range f.slots {
		if live(s) {
			out = append(out, s.key)
		}
	}
	return out
}

func (f *fifo) reset() {
	f.slots = nil
}

// compact drops stale slots once they dominate the queue.
func (f *fifo) compact(live func(slot) bool, size int) {
	if len(f.slots) < 64 || len(f.slots) < 4*size {
		return
	}
	kept := f.slots[:0]
	for _, s := range f.slots {
		if live(s) {
			kept = append(kept, s)
		}
	}
	f.slots = kept
}
