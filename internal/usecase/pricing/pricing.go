// Package pricing resolves the unit price a cart line is charged under the
// cart's payment mode.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
)

var ErrUnknownMode = errors.New("unknown payment mode")

type Mode string

const (
	ModeCash      Mode = "cash"
	ModeCard      Mode = "card"
	ModeCredit    Mode = "credit"
	ModeWholesale Mode = "wholesale"
)

// CreditMode only matters when Mode is ModeCredit.
type CreditMode string

const (
	CreditDiscounted CreditMode = "discounted"
	CreditRegular    CreditMode = "regular"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeCash, ModeCard, ModeCredit, ModeWholesale:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func ParseCreditMode(s string) (CreditMode, error) {
	switch m := CreditMode(s); m {
	case CreditDiscounted, CreditRegular:
		return m, nil
	case "":
		return CreditDiscounted, nil
	default:
		return "", fmt.Errorf("%w: credit mode %q", ErrUnknownMode, s)
	}
}

type Result struct {
	// Price is the effective unit price.
	Price decimal.Decimal
	// SalePrice is set when a price other than the regular one was applied.
	SalePrice *decimal.Decimal
}

// Resolve picks the effective unit price of p. Unknown modes fall back to the
// regular price.
func Resolve(p catalog.Product, mode Mode, credit CreditMode) Result {
	switch mode {
	case ModeWholesale:
		if v, ok := positive(p.WholesalePrice); ok {
			return sale(p, v)
		}
		if v, ok := positive(p.DiscountedPrice); ok {
			return sale(p, v)
		}
	case ModeCredit:
		if credit == CreditRegular {
			break
		}
		if v, ok := positive(p.DiscountedPrice); ok {
			return sale(p, v)
		}
	case ModeCash, ModeCard:
		if v, ok := positive(p.DiscountedPrice); ok {
			return sale(p, v)
		}
	}
	return Result{Price: p.Price}
}

func sale(p catalog.Product, v decimal.Decimal) Result {
	if v.Equal(p.Price) {
		return Result{Price: p.Price}
	}
	return Result{Price: v, SalePrice: &v}
}

func positive(v *decimal.Decimal) (decimal.Decimal, bool) {
	if v == nil || !v.IsPositive() {
		return decimal.Zero, false
	}
	return *v, true
}
