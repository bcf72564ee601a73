package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              string           `json:"id"`
	Barcode         *string          `json:"barcode,omitempty"`
	SKU             *string          `json:"sku,omitempty"`
	Name            string           `json:"name"`
	CategoryID      *string          `json:"categoryId,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	WholesalePrice  *decimal.Decimal `json:"wholesale,omitempty"`
	CostPrice       *decimal.Decimal `json:"costPrice,omitempty"`
	StockLevel      decimal.Decimal  `json:"stockLevel"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// Codes returns the scan codes a product answers to.
func (p Product) Codes() []string {
	out := make([]string, 0, 2)
	if p.Barcode != nil && *p.Barcode != "" {
		out = append(out, *p.Barcode)
	}
	if p.SKU != nil && *p.SKU != "" {
		out = append(out, *p.SKU)
	}
	return out
}

// MatchesCode reports an exact, case-insensitive barcode or SKU match.
func (p Product) MatchesCode(code string) bool {
	for _, c := range p.Codes() {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}

// Filters narrows a catalog query. Zero fields do not filter.
type Filters struct {
	// SearchTerm matches name, SKU or barcode as a substring.
	SearchTerm string `json:"searchTerm,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	// Code matches barcode or SKU exactly.
	Code      string `json:"code,omitempty"`
	ProductID string `json:"productId,omitempty"`
}

type Pagination struct {
	Skip int `json:"skip,omitempty"`
	Take int `json:"take,omitempty"`
}

type CustomProductInput struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CustomProduct is an ad-hoc, non-catalog item rung up at the counter.
type CustomProduct struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}
