package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/pricing"
)

type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPartial PaymentStatus = "partial"
	StatusUnpaid  PaymentStatus = "unpaid"
)

type Options struct {
	// Tender overrides the tender held by the cart.
	Tender *cart.Tender `json:"tender,omitempty"`
	Print  bool         `json:"print"`
}

type InvoiceItemInput struct {
	ProductID       *string          `json:"productId,omitempty"`
	CustomProductID *string          `json:"customProductId,omitempty"`
	Name            string           `json:"name"`
	Quantity        decimal.Decimal  `json:"quantity"`
	OriginalPrice   decimal.Decimal  `json:"originalPrice"`
	Price           decimal.Decimal  `json:"price"`
	SalePrice       *decimal.Decimal `json:"salePrice,omitempty"`
	Total           decimal.Decimal  `json:"total"`
}

type InvoiceInput struct {
	CustomerID     *string         `json:"customerId,omitempty"`
	PaymentMode    pricing.Mode    `json:"paymentMode"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	ChangeAmount   decimal.Decimal `json:"changeAmount"`
	Outstanding    decimal.Decimal `json:"outstandingAmount"`
	PaymentStatus  PaymentStatus   `json:"paymentStatus"`

	Items []InvoiceItemInput `json:"items"`
}

type Invoice struct {
	ID        string    `json:"id"`
	Number    string    `json:"invoiceNumber"`
	CreatedAt time.Time `json:"createdAt"`
	InvoiceInput
}

type PaymentInput struct {
	InvoiceID  string          `json:"invoiceId"`
	CustomerID *string         `json:"customerId,omitempty"`
	Mode       pricing.Mode    `json:"paymentMode"`
	Amount     decimal.Decimal `json:"amount"`
}

type Payment struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	PaymentInput
}

type PrintConfig struct {
	PrinterName string `json:"printerName,omitempty"`
	Copies      int    `json:"copies"`
	PaperWidth  int    `json:"paperWidth"`
	OpenDrawer  bool   `json:"openDrawer"`
}

// Receipt is what gets sent to the printer.
type Receipt struct {
	Invoice Invoice         `json:"invoice"`
	Lines   []cart.Line     `json:"lines"`
	Change  decimal.Decimal `json:"change"`
}

type Result struct {
	Invoice     Invoice         `json:"invoice"`
	Payment     *Payment        `json:"payment,omitempty"`
	Change      decimal.Decimal `json:"change"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      PaymentStatus   `json:"paymentStatus"`
	Printed     bool            `json:"printed"`
	PrintError  string          `json:"printError,omitempty"`
}
