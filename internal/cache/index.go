package cache

import (
	"strings"
	"sync"
	"time"
)

const (
	DefaultIndexTTL        = 5 * time.Minute
	DefaultIndexMaxEntries = 2000
)

type indexEntry[V any] struct {
	value     V
	expiresAt time.Time
	seq       uint64
}

// Index maps lookup codes (barcodes, SKUs) straight to a value. Several codes
// may point at the same value. It shares the TTL cache's expiry and
// insertion-order size bound but is written to explicitly, never fetched.
type Index[V any] struct {
	cfg Config

	mu      sync.Mutex
	entries map[string]*indexEntry[V]
	order   fifo
}

func NewIndex[V any](cfg Config) *Index[V] {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultIndexTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultIndexMaxEntries
	}
	return &Index[V]{
		cfg:     cfg.withDefaults(),
		entries: make(map[string]*indexEntry[V]),
	}
}

func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}

// Lookup returns the value indexed under code. An expired entry is removed and
// reported as a miss.
func (x *Index[V]) Lookup(code string) (V, bool) {
	var zero V
	code = normalizeCode(code)
	if code == "" {
		return zero, false
	}

	x.mu.Lock()
	e, ok := x.entries[code]
	if ok && !x.cfg.Now().Before(e.expiresAt) {
		delete(x.entries, code)
		ok = false
	}
	x.mu.Unlock()

	if !ok {
		x.cfg.Observer.Miss(x.cfg.Name)
		return zero, false
	}
	x.cfg.Observer.Hit(x.cfg.Name)
	return e.value, true
}

// Put indexes v under every non-empty code.
func (x *Index[V]) Put(v V, codes ...string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.put(v, codes, x.cfg.Now().Add(x.cfg.TTL))
	x.evict()
}

// PutAll indexes every item under the codes returned by codesOf, then sweeps
// expired entries.
func (x *Index[V]) PutAll(items []V, codesOf func(V) []string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	expiresAt := x.cfg.Now().Add(x.cfg.TTL)
	for _, it := range items {
		x.put(it, codesOf(it), expiresAt)
	}
	x.sweep()
	x.evict()
}

func (x *Index[V]) put(v V, codes []string, expiresAt time.Time) {
	for _, code := range codes {
		code = normalizeCode(code)
		if code == "" {
			continue
		}
		if e, ok := x.entries[code]; ok {
			e.value = v
			e.expiresAt = expiresAt
			continue
		}
		x.entries[code] = &indexEntry[V]{
			value:     v,
			expiresAt: expiresAt,
			seq:       x.order.push(code),
		}
	}
}

// Sweep removes expired entries and returns how many were dropped.
func (x *Index[V]) Sweep() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.sweep()
}

func (x *Index[V]) sweep() int {
	now := x.cfg.Now()
	n := 0
	for code, e := range x.entries {
		if !now.Before(e.expiresAt) {
			delete(x.entries, code)
			n++
		}
	}
	return n
}

func (x *Index[V]) evict() {
	n := 0
	for len(x.entries) > x.cfg.MaxEntries {
		code, ok := x.order.pop(x.live)
		if !ok {
			break
		}
		delete(x.entries, code)
		n++
	}
	x.order.compact(x.live, len(x.entries))
	if n > 0 {
		x.cfg.Observer.Evicted(x.cfg.Name, n)
	}
}

func (x *Index[V]) live(s slot) bool {
	e, ok := x.entries[s.key]
	return ok && e.seq == s.seq
}

func (x *Index[V]) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.entries)
}

func (x *Index[V]) Purge() {
	x.mu.Lock()
	x.entries = make(map[string]*indexEntry[V])
	x.order.reset()
	x.mu.Unlock()
}
