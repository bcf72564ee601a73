package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncer_OnlyLastCallInBurstPasses(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = d.Wait(ctx, "till-1")
		}(i)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	passed := 0
	for _, err := range errs {
		if err == nil {
			passed++
			continue
		}
		require.ErrorIs(t, err, ErrSuperseded)
	}
	require.Equal(t, 1, passed)
	require.NoError(t, errs[2])
}

func TestDebouncer_KeysAreIndependent(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	var errA, errB error
	wg.Add(2)
	go func() { defer wg.Done(); errA = d.Wait(ctx, "till-1") }()
	go func() { defer wg.Done(); errB = d.Wait(ctx, "till-2") }()
	wg.Wait()

	require.NoError(t, errA)
	require.NoError(t, errB)
}

func TestDebouncer_ContextCancel(t *testing.T) {
	d := NewDebouncer(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, d.Wait(ctx, "till-1"), context.Canceled)
}

func TestSuggest_QueriesOnlyFinalTerm(t *testing.T) {
	store := &fakeStore{products: seedProducts()}
	uc := newTestUsecase(store)
	d := NewDebouncer(30 * time.Millisecond)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, term := range []string{"m", "mi", "milk"} {
		wg.Add(1)
		go func(term string) {
			defer wg.Done()
			_, _ = uc.Suggest(ctx, d, "till-1", term)
		}(term)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	require.Equal(t, []Filters{{SearchTerm: "milk"}}, store.calls)
}
