// Package scanner turns raw barcode scanner input into cart additions.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
)

const DefaultThrottle = 100 * time.Millisecond

var (
	ErrThrottled   = errors.New("scan rejected: too soon after the previous scan")
	ErrEmptyScan   = errors.New("empty scan")
	ErrUnknownCode = errors.New("no product for scanned code")
)

// Gate accepts at most one event per throttle window.
type Gate struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	now     func() time.Time
}

func NewGate(throttle time.Duration, now func() time.Time) *Gate {
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{
		limiter: rate.NewLimiter(rate.Every(throttle), 1),
		now:     now,
	}
}

func (g *Gate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.limiter.AllowN(g.now(), 1)
}

type Event struct {
	Data string
}

type Lookuper interface {
	Lookup(ctx context.Context, code string) (*catalog.Product, bool)
}

type Adder interface {
	AddItem(ctx context.Context, p catalog.Product, qty decimal.Decimal) (cart.Cart, error)
}

// Listener adds one unit of the scanned product to the cart per accepted
// event.
type Listener struct {
	gate    *Gate
	catalog Lookuper
	cart    Adder
	log     *zap.Logger
}

func NewListener(gate *Gate, catalog Lookuper, cart Adder, log *zap.Logger) *Listener {
	return &Listener{gate: gate, catalog: catalog, cart: cart, log: logger.OrNop(log)}
}

func (l *Listener) Handle(ctx context.Context, ev Event) (cart.Cart, error) {
	code := strings.TrimSpace(ev.Data)
	if code == "" {
		return cart.Cart{}, ErrEmptyScan
	}
	if !l.gate.Allow() {
		return cart.Cart{}, ErrThrottled
	}

	p, ok := l.catalog.Lookup(ctx, code)
	if !ok {
		return cart.Cart{}, fmt.Errorf("%w: %s", ErrUnknownCode, code)
	}
	return l.cart.AddItem(ctx, *p, decimal.NewFromInt(1))
}

// Run handles events until ctx is done or events is closed. Rejected scans
// are logged and skipped.
func (l *Listener) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if _, err := l.Handle(ctx, ev); err != nil {
				l.log.Info("scan rejected", zap.String("data", ev.Data), zap.Error(err))
			}
		}
	}
}

// ReadEvents sends every line read from r as an Event and closes events when
// r is exhausted. Serial and line mode USB readers end each scan with CR LF.
func ReadEvents(ctx context.Context, r io.Reader, events chan<- Event) error {
	defer close(events)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case events <- Event{Data: sc.Text()}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return sc.Err()
}
