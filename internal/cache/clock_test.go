package cache

import (
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{counts: map[string]int{}}
}

func (o *countingObserver) add(event string, n int) {
	o.mu.Lock()
	o.counts[event] += n
	o.mu.Unlock()
}

func (o *countingObserver) get(event string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counts[event]
}

func (o *countingObserver) Hit(string)              { o.add("hit", 1) }
func (o *countingObserver) Miss(string)             { o.add("miss", 1) }
func (o *countingObserver) Coalesced(string)        { o.add("coalesced", 1) }
func (o *countingObserver) FetchError(string)       { o.add("fetch_error", 1) }
func (o *countingObserver) Evicted(_ string, n int) { o.add("evicted", n) }
