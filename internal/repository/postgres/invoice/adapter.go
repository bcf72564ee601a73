package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	checkoutuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/checkout"
)

type InvoiceStoreAdapter struct {
	repo *InvoiceRepo
}

func NewInvoiceStoreAdapter(repo *InvoiceRepo) *InvoiceStoreAdapter {
	return &InvoiceStoreAdapter{repo: repo}
}

// CreateInvoice writes the invoice and all of its items in one transaction.
func (a *InvoiceStoreAdapter) CreateInvoice(ctx context.Context, in checkoutuc.InvoiceInput) (*checkoutuc.Invoice, error) {
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := insertInvoice(ctx, tx, InvoiceRow{
		CustomerID:        in.CustomerID,
		PaymentMode:       string(in.PaymentMode),
		Subtotal:          in.Subtotal.String(),
		DiscountAmount:    in.DiscountAmount.String(),
		Total:             in.Total.String(),
		ReceivedAmount:    in.ReceivedAmount.String(),
		ChangeAmount:      in.ChangeAmount.String(),
		OutstandingAmount: in.Outstanding.String(),
		PaymentStatus:     string(in.PaymentStatus),
	})
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}

	for i, it := range in.Items {
		if err := insertInvoiceItem(ctx, tx, created.ID, InvoiceItemRow{
			ProductID:       it.ProductID,
			CustomProductID: it.CustomProductID,
			Name:            it.Name,
			Quantity:        it.Quantity.String(),
			OriginalPrice:   it.OriginalPrice.String(),
			Price:           it.Price.String(),
			SalePrice:       optionalString(it.SalePrice),
			Total:           it.Total.String(),
		}); err != nil {
			return nil, fmt.Errorf("insert invoice item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &checkoutuc.Invoice{
		ID:           created.ID,
		Number:       created.Number,
		CreatedAt:    created.CreatedAt,
		InvoiceInput: in,
	}, nil
}

func (a *InvoiceStoreAdapter) CreatePayment(ctx context.Context, in checkoutuc.PaymentInput) (*checkoutuc.Payment, error) {
	created, err := a.repo.CreatePayment(ctx, PaymentRow{
		InvoiceID:   in.InvoiceID,
		CustomerID:  in.CustomerID,
		PaymentMode: string(in.Mode),
		Amount:      in.Amount.String(),
	})
	if err != nil {
		return nil, err
	}
	return &checkoutuc.Payment{
		ID:           created.ID,
		CreatedAt:    created.CreatedAt,
		PaymentInput: in,
	}, nil
}

func optionalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

// Compile-time check: ensures adapter matches usecase interface
var _ checkoutuc.Store = (*InvoiceStoreAdapter)(nil)
