// Package stock checks requested quantities against available-to-promise
// stock: the on-hand level minus what the active cart already holds.
package stock

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrOutOfStock        = errors.New("out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ShortageError reports how much could still be added.
type ShortageError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("%s: requested=%s available=%s", ErrInsufficientStock, e.Requested, e.Available)
}

func (e *ShortageError) Unwrap() error { return ErrInsufficientStock }

// Available returns level - inCart, never below zero.
func Available(level, inCart decimal.Decimal) decimal.Decimal {
	a := level.Sub(inCart)
	if a.IsNegative() {
		return decimal.Zero
	}
	return a
}

// Check returns nil when requested more units fit next to inCart.
func Check(level, requested, inCart decimal.Decimal) error {
	if !level.IsPositive() {
		return ErrOutOfStock
	}
	available := Available(level, inCart)
	if requested.GreaterThan(available) {
		return &ShortageError{Requested: requested, Available: available}
	}
	return nil
}
