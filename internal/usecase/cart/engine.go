// Package cart holds the active cart of a terminal: its lines, cart level
// discount, payment mode and tender, plus saving and restoring it.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/pricing"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/stock"
)

var hundred = decimal.NewFromInt(100)

type Options struct {
	History History
	// AutoSave persists the cart after every successful mutation.
	AutoSave bool
	Now      func() time.Time
	NewID    func() string
	Log      *zap.Logger
}

// Engine serializes every cart operation behind one mutex.
type Engine struct {
	history  History
	autoSave bool
	now      func() time.Time
	newID    func() string
	log      *zap.Logger

	mu         sync.Mutex
	lines      []Line
	discount   decimal.Decimal
	mode       pricing.Mode
	creditMode pricing.CreditMode
	customerID *string
	tender     Tender
	pending    *Snapshot
}

func New(opts Options) *Engine {
	e := &Engine{
		history:    opts.History,
		autoSave:   opts.AutoSave,
		now:        opts.Now,
		newID:      opts.NewID,
		log:        logger.OrNop(opts.Log),
		mode:       pricing.ModeCash,
		creditMode: pricing.CreditDiscounted,
	}
	if e.history == nil {
		e.history = nopHistory{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

// Init looks for a saved cart. A non-empty one becomes a pending restore and
// blocks mutations until Restore or Discard.
func (e *Engine) Init(ctx context.Context) bool {
	s, err := e.history.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			e.log.Warn("load saved cart", zap.Error(err))
		}
		return false
	}
	if len(s.CartItems) == 0 {
		return false
	}

	e.mu.Lock()
	e.pending = s
	e.mu.Unlock()

	e.log.Info("saved cart found",
		zap.Int("lines", len(s.CartItems)),
		zap.Time("saved_at", s.Timestamp),
	)
	return true
}

func (e *Engine) Cart() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Engine) AddItem(ctx context.Context, p catalog.Product, qty decimal.Decimal) (Cart, error) {
	return e.mutate(ctx, "add item", func() error {
		if !qty.IsPositive() {
			return ErrInvalidQuantity
		}

		i := e.findProduct(p.ID)
		inCart := decimal.Zero
		if i >= 0 {
			inCart = e.lines[i].Quantity
		}
		if err := stock.Check(p.StockLevel, qty, inCart); err != nil {
			return err
		}

		if i >= 0 {
			l := &e.lines[i]
			l.Product = p
			l.Quantity = l.Quantity.Add(qty)
			l.Total = l.Quantity.Mul(l.Price)
			return nil
		}

		l := Line{
			LineID:        e.newID(),
			Product:       p,
			Quantity:      qty,
			OriginalPrice: p.Price,
		}
		e.reprice(&l)
		e.lines = append(e.lines, l)
		return nil
	})
}

// AddCustomItem adds an ad-hoc line. Custom lines keep their price under
// every payment mode and are not stock checked.
func (e *Engine) AddCustomItem(ctx context.Context, customProductID, name string, price, qty decimal.Decimal) (Cart, error) {
	return e.mutate(ctx, "add custom item", func() error {
		switch {
		case name == "":
			return ErrInvalidName
		case price.IsNegative():
			return ErrInvalidPrice
		case !qty.IsPositive():
			return ErrInvalidQuantity
		}

		if customProductID != "" {
			if i := e.findCustom(customProductID); i >= 0 {
				l := &e.lines[i]
				l.Quantity = l.Quantity.Add(qty)
				l.Total = l.Quantity.Mul(l.Price)
				return nil
			}
		}

		id := customProductID
		if id == "" {
			id = e.newID()
		}
		e.lines = append(e.lines, Line{
			LineID: e.newID(),
			Product: catalog.Product{
				ID:    id,
				Name:  name,
				Price: price,
			},
			Quantity:        qty,
			OriginalPrice:   price,
			Price:           price,
			Total:           qty.Mul(price),
			Discount:        LineDiscount{Type: DiscountAmount, Value: decimal.Zero},
			CustomProductID: &id,
		})
		return nil
	})
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line.
func (e *Engine) UpdateQuantity(ctx context.Context, lineID string, qty decimal.Decimal) (Cart, error) {
	return e.mutate(ctx, "update quantity", func() error {
		i := e.findLine(lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		if !qty.IsPositive() {
			e.removeAt(i)
			return nil
		}

		l := &e.lines[i]
		if !l.IsCustom() && qty.GreaterThan(l.Quantity) {
			if err := stock.Check(l.Product.StockLevel, qty.Sub(l.Quantity), l.Quantity); err != nil {
				return err
			}
		}
		l.Quantity = qty
		l.Total = qty.Mul(l.Price)
		return nil
	})
}

func (e *Engine) RemoveItem(ctx context.Context, lineID string) (Cart, error) {
	return e.mutate(ctx, "remove item", func() error {
		i := e.findLine(lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		e.removeAt(i)
		return nil
	})
}

// Clear empties the cart, puts the payment fields back to their defaults and
// removes the saved copy.
func (e *Engine) Clear(ctx context.Context) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		return e.viewLocked(), invalid("clear", ErrRestorePending)
	}
	e.resetLocked()
	e.clearHistory(ctx)
	return e.viewLocked(), nil
}

// ApplyBulkDiscount sets the cart level discount as a percentage of the
// current subtotal or as an absolute amount. The result is clamped to
// [0, subtotal].
func (e *Engine) ApplyBulkDiscount(ctx context.Context, typ DiscountType, value decimal.Decimal) (Cart, error) {
	return e.mutate(ctx, "apply discount", func() error {
		if value.IsNegative() {
			return fmt.Errorf("%w: negative value", ErrInvalidDiscount)
		}
		subtotal := e.subtotalLocked()

		var amount decimal.Decimal
		switch typ {
		case DiscountPercentage:
			amount = subtotal.Mul(value).Div(hundred)
		case DiscountAmount:
			amount = value
		default:
			return fmt.Errorf("%w: type %q", ErrInvalidDiscount, typ)
		}
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
		e.discount = amount
		return nil
	})
}

// SetPaymentMode re-resolves the price of every catalog line. Quantities and
// original prices are kept.
func (e *Engine) SetPaymentMode(ctx context.Context, mode pricing.Mode) (Cart, error) {
	return e.mutate(ctx, "set payment mode", func() error {
		if _, err := pricing.ParseMode(string(mode)); err != nil {
			return err
		}
		return e.setPricingLocked(mode, "")
	})
}

func (e *Engine) SetCreditMode(ctx context.Context, cm pricing.CreditMode) (Cart, error) {
	return e.mutate(ctx, "set credit mode", func() error {
		if cm == "" {
			return fmt.Errorf("%w: empty credit mode", pricing.ErrUnknownMode)
		}
		return e.setPricingLocked("", cm)
	})
}

// SetPricing changes the payment mode and the credit mode in one step. An
// empty value keeps the current one. Both are validated before either is
// applied.
func (e *Engine) SetPricing(ctx context.Context, mode pricing.Mode, cm pricing.CreditMode) (Cart, error) {
	return e.mutate(ctx, "set pricing", func() error {
		return e.setPricingLocked(mode, cm)
	})
}

func (e *Engine) setPricingLocked(mode pricing.Mode, cm pricing.CreditMode) error {
	if mode == "" {
		mode = e.mode
	} else if _, err := pricing.ParseMode(string(mode)); err != nil {
		return err
	}
	if cm == "" {
		cm = e.creditMode
	} else if cm != pricing.CreditDiscounted && cm != pricing.CreditRegular {
		return fmt.Errorf("%w: credit mode %q", pricing.ErrUnknownMode, cm)
	}
	e.mode, e.creditMode = mode, cm
	e.repriceAll()
	return nil
}

// SetCustomer selects the customer. An empty id clears it.
func (e *Engine) SetCustomer(ctx context.Context, customerID string) (Cart, error) {
	return e.mutate(ctx, "set customer", func() error {
		if customerID == "" {
			e.customerID = nil
			return nil
		}
		id := customerID
		e.customerID = &id
		return nil
	})
}

func (e *Engine) SetTender(ctx context.Context, t Tender) (Cart, error) {
	return e.mutate(ctx, "set tender", func() error {
		if t.ReceivedAmount.IsNegative() || t.PartialPaymentAmount.IsNegative() {
			return fmt.Errorf("%w: negative amount", ErrInvalidTender)
		}
		e.tender = t
		return nil
	})
}

// Complete runs fn against the current cart while holding the engine. When fn
// succeeds the cart is cleared and the saved copy removed; otherwise both are
// left untouched.
func (e *Engine) Complete(ctx context.Context, fn func(ctx context.Context, c Cart) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending != nil {
		return invalid("complete", ErrRestorePending)
	}
	if err := fn(ctx, e.viewLocked()); err != nil {
		return err
	}
	e.resetLocked()
	e.clearHistory(ctx)
	return nil
}

// mutate applies fn under the lock. A rejected change leaves the cart as it
// was and comes back as a ValidationError.
func (e *Engine) mutate(ctx context.Context, op string, fn func() error) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending != nil {
		return e.viewLocked(), invalid(op, ErrRestorePending)
	}

	lines := append([]Line(nil), e.lines...)
	discount, mode, creditMode := e.discount, e.mode, e.creditMode
	customerID, tender := e.customerID, e.tender

	if err := fn(); err != nil {
		e.lines = lines
		e.discount, e.mode, e.creditMode = discount, mode, creditMode
		e.customerID, e.tender = customerID, tender
		return e.viewLocked(), invalid(op, err)
	}

	e.clampDiscountLocked()
	if e.autoSave {
		if err := e.saveLocked(ctx); err != nil {
			e.log.Warn("auto-save cart", zap.String("op", op), zap.Error(err))
		}
	}
	return e.viewLocked(), nil
}

func (e *Engine) reprice(l *Line) {
	if l.IsCustom() {
		return
	}
	res := pricing.Resolve(l.Product, e.mode, e.creditMode)
	l.Price = res.Price
	l.SalePrice = res.SalePrice
	l.Total = l.Quantity.Mul(l.Price)
	l.Discount = LineDiscount{Type: DiscountAmount, Value: decimal.Zero}
	if res.SalePrice != nil && res.Price.LessThan(l.OriginalPrice) {
		l.Discount.Value = l.OriginalPrice.Sub(res.Price)
	}
}

func (e *Engine) repriceAll() {
	for i := range e.lines {
		e.reprice(&e.lines[i])
	}
}

func (e *Engine) findLine(lineID string) int {
	for i, l := range e.lines {
		if l.LineID == lineID {
			return i
		}
	}
	return -1
}

func (e *Engine) findProduct(productID string) int {
	for i, l := range e.lines {
		if !l.IsCustom() && l.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (e *Engine) findCustom(customProductID string) int {
	for i, l := range e.lines {
		if l.IsCustom() && *l.CustomProductID == customProductID {
			return i
		}
	}
	return -1
}

func (e *Engine) removeAt(i int) {
	e.lines = append(e.lines[:i:i], e.lines[i+1:]...)
}

func (e *Engine) subtotalLocked() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.lines {
		sum = sum.Add(l.Price.Mul(l.Quantity))
	}
	return sum
}

// clampDiscountLocked keeps a fixed discount from exceeding a subtotal that
// shrank after it was applied.
func (e *Engine) clampDiscountLocked() {
	if s := e.subtotalLocked(); e.discount.GreaterThan(s) {
		e.discount = s
	}
}

func (e *Engine) resetLocked() {
	e.lines = nil
	e.discount = decimal.Zero
	e.mode = pricing.ModeCash
	e.creditMode = pricing.CreditDiscounted
	e.customerID = nil
	e.tender = Tender{}
}

func (e *Engine) viewLocked() Cart {
	subtotal := e.subtotalLocked()
	total := subtotal.Sub(e.discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	lines := make([]Line, len(e.lines))
	copy(lines, e.lines)

	return Cart{
		Lines:          lines,
		DiscountAmount: e.discount,
		PaymentMode:    e.mode,
		CreditMode:     e.creditMode,
		CustomerID:     e.customerID,
		Tender:         e.tender,
		Subtotal:       subtotal,
		Total:          total,
		RestorePending: e.pending != nil,
	}
}
