package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Amounts travel as numeric text, as produced by decimal.Decimal.String.
type InvoiceRow struct {
	CustomerID        *string
	PaymentMode       string
	Subtotal          string
	DiscountAmount    string
	Total             string
	ReceivedAmount    string
	ChangeAmount      string
	OutstandingAmount string
	PaymentStatus     string
}

type InvoiceItemRow struct {
	ProductID       *string
	CustomProductID *string
	Name            string
	Quantity        string
	OriginalPrice   string
	Price           string
	SalePrice       *string
	Total           string
}

type CreatedInvoice struct {
	ID        string
	Number    string
	CreatedAt time.Time
}

type PaymentRow struct {
	InvoiceID   string
	CustomerID  *string
	PaymentMode string
	Amount      string
}

type CreatedPayment struct {
	ID        string
	CreatedAt time.Time
}

type InvoiceRepo struct {
	db *pgxpool.Pool
}

func NewInvoiceRepo(db *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

func (r *InvoiceRepo) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.db.BeginTx(ctx, pgx.TxOptions{})
}

func insertInvoice(ctx context.Context, tx pgx.Tx, in InvoiceRow) (*CreatedInvoice, error) {
	const q = `
INSERT INTO invoices (
  customer_id, payment_mode, subtotal, discount_amount, total,
  received_amount, change_amount, outstanding_amount, payment_status
)
VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9)
RETURNING id::text, invoice_number, created_at;
`
	var out CreatedInvoice
	if err := tx.QueryRow(ctx, q,
		in.CustomerID,
		in.PaymentMode,
		in.Subtotal,
		in.DiscountAmount,
		in.Total,
		in.ReceivedAmount,
		in.ChangeAmount,
		in.OutstandingAmount,
		in.PaymentStatus,
	).Scan(&out.ID, &out.Number, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func insertInvoiceItem(ctx context.Context, tx pgx.Tx, invoiceID string, it InvoiceItemRow) error {
	const q = `
INSERT INTO invoice_items (
  invoice_id, product_id, custom_product_id, name,
  quantity, original_price, price, sale_price, total
)
VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9::numeric);
`
	_, err := tx.Exec(ctx, q,
		invoiceID,
		it.ProductID,
		it.CustomProductID,
		it.Name,
		it.Quantity,
		it.OriginalPrice,
		it.Price,
		it.SalePrice,
		it.Total,
	)
	return err
}

func (r *InvoiceRepo) CreatePayment(ctx context.Context, in PaymentRow) (*CreatedPayment, error) {
	const q = `
INSERT INTO payments (invoice_id, customer_id, payment_mode, amount)
VALUES ($1::uuid, $2, $3, $4::numeric)
RETURNING id::text, created_at;
`
	var out CreatedPayment
	if err := r.db.QueryRow(ctx, q, in.InvoiceID, in.CustomerID, in.PaymentMode, in.Amount).
		Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *InvoiceRepo) CountItems(ctx context.Context, invoiceID string) (int, error) {
	const q = `SELECT count(*) FROM invoice_items WHERE invoice_id = $1::uuid`
	var n int
	err := r.db.QueryRow(ctx, q, invoiceID).Scan(&n)
	return n, err
}
