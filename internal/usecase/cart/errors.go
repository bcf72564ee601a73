package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/stock"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidName     = errors.New("name is required")
	ErrInvalidDiscount = errors.New("invalid discount")
	ErrInvalidTender   = errors.New("invalid tender")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrRestorePending  = errors.New("a saved cart is waiting to be restored or discarded")
	ErrNoSnapshot      = errors.New("no saved cart")
	ErrPersistence     = errors.New("cart persistence failed")
)

// ValidationError is returned by a mutation that was rejected and left the
// cart unchanged.
type ValidationError struct {
	Op  string
	Err error
	// Available is set for stock rejections.
	Available *decimal.Decimal
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("cart %s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(op string, err error) error {
	ve := &ValidationError{Op: op, Err: err}
	var se *stock.ShortageError
	if errors.As(err, &se) {
		a := se.Available
		ve.Available = &a
	} else if errors.Is(err, stock.ErrOutOfStock) {
		z := decimal.Zero
		ve.Available = &z
	}
	return ve
}
