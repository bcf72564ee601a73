package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/pricing"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountAmount     DiscountType = "amount"
)

type LineDiscount struct {
	Type  DiscountType    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// Line is one cart row. Total is always Quantity * Price.
type Line struct {
	LineID  string          `json:"lineId"`
	Product catalog.Product `json:"product"`

	Quantity decimal.Decimal `json:"quantity"`
	// OriginalPrice is the catalog price when the line was first added.
	OriginalPrice decimal.Decimal  `json:"originalPrice"`
	Price         decimal.Decimal  `json:"price"`
	SalePrice     *decimal.Decimal `json:"salePrice,omitempty"`
	Total         decimal.Decimal  `json:"total"`
	// Discount is per unit and informational only.
	Discount LineDiscount `json:"discount"`

	CustomProductID *string `json:"customProductId,omitempty"`
}

func (l Line) IsCustom() bool { return l.CustomProductID != nil }

type Tender struct {
	ReceivedAmount       decimal.Decimal `json:"receivedAmount"`
	IsPartialPayment     bool            `json:"isPartialPayment"`
	PartialPaymentAmount decimal.Decimal `json:"partialPaymentAmount"`
}

// Cart is a point-in-time view of the engine state.
type Cart struct {
	Lines          []Line             `json:"items"`
	DiscountAmount decimal.Decimal    `json:"discountAmount"`
	PaymentMode    pricing.Mode       `json:"paymentMode"`
	CreditMode     pricing.CreditMode `json:"creditMode"`
	CustomerID     *string            `json:"customerId,omitempty"`
	Tender         Tender             `json:"tender"`

	Subtotal       decimal.Decimal `json:"subtotal"`
	Total          decimal.Decimal `json:"total"`
	RestorePending bool            `json:"restorePending"`
}

func (c Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Snapshot is the persisted shape of a cart.
type Snapshot struct {
	CartItems            []Line             `json:"cartItems"`
	TotalDiscountAmount  decimal.Decimal    `json:"totalDiscountAmount"`
	PaymentMode          pricing.Mode       `json:"paymentMode"`
	CreditMode           pricing.CreditMode `json:"creditMode"`
	SelectedCustomer     *string            `json:"selectedCustomer"`
	ReceivedAmount       decimal.Decimal    `json:"receivedAmount"`
	IsPartialPayment     bool               `json:"isPartialPayment"`
	PartialPaymentAmount decimal.Decimal    `json:"partialPaymentAmount"`
	Timestamp            time.Time          `json:"timestamp"`
}
