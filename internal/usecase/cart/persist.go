package cart

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Save persists the current cart. An empty cart removes the saved copy.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		return invalid("save", ErrRestorePending)
	}
	if err := e.saveLocked(ctx); err != nil {
		e.log.Warn("save cart", zap.Error(err))
		return err
	}
	return nil
}

// SaveOnExit is the best-effort save run before the process stops. A pending
// restore is left in storage as it is.
func (e *Engine) SaveOnExit(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		return
	}
	if err := e.saveLocked(ctx); err != nil {
		e.log.Warn("save cart on exit", zap.Error(err))
		return
	}
	e.log.Info("cart saved on exit", zap.Int("lines", len(e.lines)))
}

// Saved returns the pending restore or, when there is none, the stored copy.
func (e *Engine) Saved(ctx context.Context) (*Snapshot, error) {
	e.mu.Lock()
	pending := e.pending
	e.mu.Unlock()
	if pending != nil {
		s := *pending
		return &s, nil
	}
	return e.history.Load(ctx)
}

// Restore replaces the cart with the saved one. Saved quantities and prices
// are taken as they are.
func (e *Engine) Restore(ctx context.Context) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.pending
	if s == nil {
		loaded, err := e.history.Load(ctx)
		if err != nil {
			if errors.Is(err, ErrNoSnapshot) {
				return e.viewLocked(), err
			}
			return e.viewLocked(), fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		s = loaded
	}

	e.lines = append([]Line(nil), s.CartItems...)
	e.discount = s.TotalDiscountAmount
	if s.PaymentMode != "" {
		e.mode = s.PaymentMode
	}
	if s.CreditMode != "" {
		e.creditMode = s.CreditMode
	}
	e.customerID = s.SelectedCustomer
	e.tender = Tender{
		ReceivedAmount:       s.ReceivedAmount,
		IsPartialPayment:     s.IsPartialPayment,
		PartialPaymentAmount: s.PartialPaymentAmount,
	}
	e.pending = nil

	e.log.Info("cart restored", zap.Int("lines", len(e.lines)))
	return e.viewLocked(), nil
}

// Discard drops the pending restore and the stored copy. The active cart is
// not touched.
func (e *Engine) Discard(ctx context.Context) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = nil
	e.clearHistory(ctx)
	return e.viewLocked(), nil
}

func (e *Engine) saveLocked(ctx context.Context) error {
	if len(e.lines) == 0 {
		if err := e.history.Clear(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return nil
	}
	if err := e.history.Save(ctx, e.snapshotLocked()); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (e *Engine) clearHistory(ctx context.Context) {
	if err := e.history.Clear(ctx); err != nil {
		e.log.Warn("clear saved cart", zap.Error(err))
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		CartItems:            append([]Line(nil), e.lines...),
		TotalDiscountAmount:  e.discount,
		PaymentMode:          e.mode,
		CreditMode:           e.creditMode,
		SelectedCustomer:     e.customerID,
		ReceivedAmount:       e.tender.ReceivedAmount,
		IsPartialPayment:     e.tender.IsPartialPayment,
		PartialPaymentAmount: e.tender.PartialPaymentAmount,
		Timestamp:            e.now().UTC(),
	}
}
