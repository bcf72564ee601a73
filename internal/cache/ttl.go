package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL        = 30 * time.Second
	DefaultMaxEntries = 200
)

type Config struct {
	// Name labels observer events.
	Name       string
	TTL        time.Duration
	MaxEntries int
	Now        Clock
	Observer   Observer
}

func (c Config) withDefaults() Config {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxEntries <= 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	return c
}

// FetchError wraps a fetcher failure. The key is dropped before it is returned.
type FetchError struct {
	Key string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("cache fetch %q: %v", e.Key, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type entry[V any] struct {
	data      V
	hasData   bool
	expiresAt time.Time
	inFlight  bool
	seq       uint64
}

// TTL is a key/value cache with time based expiry, coalescing of concurrent
// fetches for the same key, and a size bound enforced in insertion order.
type TTL[V any] struct {
	cfg Config

	mu      sync.Mutex
	entries map[string]*entry[V]
	order   fifo
	group   singleflight.Group
}

func NewTTL[V any](cfg Config) *TTL[V] {
	return &TTL[V]{
		cfg:     cfg.withDefaults(),
		entries: make(map[string]*entry[V]),
	}
}

// Get returns the fresh value for key, or waits on the fetch already running
// for key, or runs fetch. The fetch runs detached from ctx: a caller giving up
// does not cancel it and the result is still cached.
func (c *TTL[V]) Get(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, error) {
	var zero V

	c.mu.Lock()
	e := c.entries[key]
	if e != nil && c.fresh(e) {
		c.mu.Unlock()
		c.cfg.Observer.Hit(c.cfg.Name)
		return e.data, nil
	}
	joining := e != nil && e.inFlight
	c.mu.Unlock()

	if joining {
		c.cfg.Observer.Coalesced(c.cfg.Name)
	} else {
		c.cfg.Observer.Miss(c.cfg.Name)
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.load(detached, key, fetch)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *TTL[V]) load(ctx context.Context, key string, fetch func(context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	if e := c.entries[key]; e != nil && c.fresh(e) {
		// A fetch for key finished between the caller's check and this one.
		c.mu.Unlock()
		return e.data, nil
	}
	c.upsert(key).inFlight = true
	c.mu.Unlock()

	v, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		delete(c.entries, key)
		c.cfg.Observer.FetchError(c.cfg.Name)
		var zero V
		return zero, &FetchError{Key: key, Err: err}
	}

	e := c.upsert(key)
	e.data = v
	e.hasData = true
	e.expiresAt = c.cfg.Now().Add(c.cfg.TTL)
	e.inFlight = false
	return v, nil
}

// upsert returns the entry for key, inserting it at the back of the eviction
// order when absent. Callers hold c.mu.
func (c *TTL[V]) upsert(key string) *entry[V] {
	if e, ok := c.entries[key]; ok {
		return e
	}
	e := &entry[V]{seq: c.order.push(key)}
	c.entries[key] = e
	// MaxEntries >= 1, so the key just pushed is never the one evicted.
	c.evict()
	return e
}

func (c *TTL[V]) evict() {
	n := 0
	for len(c.entries) > c.cfg.MaxEntries {
		key, ok := c.order.pop(c.live)
		if !ok {
			break
		}
		delete(c.entries, key)
		n++
	}
	c.order.compact(c.live, len(c.entries))
	if n > 0 {
		c.cfg.Observer.Evicted(c.cfg.Name, n)
	}
}

func (c *TTL[V]) live(s slot) bool {
	e, ok := c.entries[s.key]
	return ok && e.seq == s.seq
}

func (c *TTL[V]) fresh(e *entry[V]) bool {
	return e.hasData && c.cfg.Now().Before(e.expiresAt)
}

// Invalidate drops key. A fetch already running for key still completes and
// stores its result.
func (c *TTL[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *TTL[V]) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]*entry[V])
	c.order.reset()
	c.mu.Unlock()
}

func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys lists cached keys in eviction order, oldest first.
func (c *TTL[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.keys(c.live)
}
