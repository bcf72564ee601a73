package catalog

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a debounced call that a newer call for the same
// key replaced before the quiet period ran out.
var ErrSuperseded = errors.New("superseded by newer input")

// Debouncer lets only the last call in a burst through. Each key (one per
// terminal or operator) debounces independently.
type Debouncer struct {
	wait time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait, gens: make(map[string]uint64)}
}

// Wait blocks for the quiet period and returns nil only if no newer Wait for
// key started meanwhile.
func (d *Debouncer) Wait(ctx context.Context, key string) error {
	d.mu.Lock()
	d.gens[key]++
	gen := d.gens[key]
	d.mu.Unlock()

	if d.wait > 0 {
		t := time.NewTimer(d.wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gens[key] != gen {
		return ErrSuperseded
	}
	delete(d.gens, key)
	return nil
}

// Suggest is Search behind the debouncer: a burst of keystrokes from one
// terminal turns into one catalog query for the final term.
func (u *Usecase) Suggest(ctx context.Context, d *Debouncer, terminal, term string) ([]Product, error) {
	if err := d.Wait(ctx, terminal); err != nil {
		return nil, err
	}
	return u.Search(ctx, Filters{SearchTerm: term}, Pagination{Take: fuzzyTake})
}
