// Package checkout turns the active cart into an invoice and payment.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/pricing"
)

var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("received amount is less than the total")
	ErrCustomerRequired    = errors.New("credit sales require a customer")
	ErrInvalidPartial      = errors.New("partial payment must be greater than zero and less than the total")
)

type Store interface {
	CreateInvoice(ctx context.Context, in InvoiceInput) (*Invoice, error)
	CreatePayment(ctx context.Context, in PaymentInput) (*Payment, error)
}

type Printer interface {
	Print(ctx context.Context, r Receipt, cfg PrintConfig) error
}

type Recorder interface {
	Checkout(mode, result string)
}

type nopRecorder struct{}

func (nopRecorder) Checkout(string, string) {}

type Processor struct {
	engine   *cart.Engine
	store    Store
	printer  Printer
	printCfg PrintConfig
	metrics  Recorder
	log      *zap.Logger
}

func New(engine *cart.Engine, store Store, printer Printer, printCfg PrintConfig, metrics Recorder, log *zap.Logger) *Processor {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	if printCfg.Copies <= 0 {
		printCfg.Copies = 1
	}
	return &Processor{
		engine:   engine,
		store:    store,
		printer:  printer,
		printCfg: printCfg,
		metrics:  metrics,
		log:      logger.OrNop(log),
	}
}

// Checkout settles the active cart. The cart and its saved copy are cleared
// only after the invoice and payment are written. A failed receipt print is
// reported in the result and does not fail the sale.
func (p *Processor) Checkout(ctx context.Context, opts Options) (*Result, error) {
	var res *Result
	var mode pricing.Mode

	err := p.engine.Complete(ctx, func(ctx context.Context, c cart.Cart) error {
		mode = c.PaymentMode
		tender := c.Tender
		if opts.Tender != nil {
			tender = *opts.Tender
		}

		settle, err := settlement(c, tender)
		if err != nil {
			return &cart.ValidationError{Op: "checkout", Err: err}
		}

		inv, err := p.store.CreateInvoice(ctx, invoiceInput(c, settle))
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		r := &Result{
			Invoice:     *inv,
			Change:      settle.change,
			Outstanding: settle.outstanding,
			Status:      settle.status,
		}

		if settle.payment.IsPositive() {
			pay, err := p.store.CreatePayment(ctx, PaymentInput{
				InvoiceID:  inv.ID,
				CustomerID: c.CustomerID,
				Mode:       c.PaymentMode,
				Amount:     settle.payment,
			})
			if err != nil {
				return fmt.Errorf("create payment for invoice %s: %w", inv.ID, err)
			}
			r.Payment = pay
		}

		if opts.Print {
			p.print(ctx, r, c)
		}

		res = r
		return nil
	})

	if err != nil {
		result := "error"
		var ve *cart.ValidationError
		if errors.As(err, &ve) {
			result = "rejected"
		}
		p.metrics.Checkout(string(mode), result)
		return nil, err
	}

	p.metrics.Checkout(string(mode), "ok")
	p.log.Info("checkout completed",
		zap.String("invoice_id", res.Invoice.ID),
		zap.String("mode", string(mode)),
		zap.String("total", res.Invoice.Total.String()),
		zap.String("status", string(res.Status)),
	)
	return res, nil
}

func (p *Processor) print(ctx context.Context, r *Result, c cart.Cart) {
	if p.printer == nil {
		return
	}
	cfg := p.printCfg
	cfg.OpenDrawer = r.Invoice.ReceivedAmount.IsPositive()

	err := p.printer.Print(ctx, Receipt{Invoice: r.Invoice, Lines: c.Lines, Change: r.Change}, cfg)
	if err != nil {
		p.log.Warn("print receipt", zap.String("invoice_id", r.Invoice.ID), zap.Error(err))
		r.PrintError = err.Error()
		return
	}
	r.Printed = true
}

type settled struct {
	received    decimal.Decimal
	change      decimal.Decimal
	outstanding decimal.Decimal
	status      PaymentStatus
	// payment is the amount applied to the invoice.
	payment decimal.Decimal
}

func settlement(c cart.Cart, t cart.Tender) (settled, error) {
	if c.IsEmpty() {
		return settled{}, ErrEmptyCart
	}
	total := c.Total

	switch c.PaymentMode {
	case pricing.ModeCash, pricing.ModeWholesale:
		if t.ReceivedAmount.LessThan(total) {
			return settled{}, fmt.Errorf("%w: received=%s total=%s", ErrInsufficientPayment, t.ReceivedAmount, total)
		}
		return settled{
			received: t.ReceivedAmount,
			change:   t.ReceivedAmount.Sub(total),
			status:   StatusPaid,
			payment:  total,
		}, nil

	case pricing.ModeCredit:
		if c.CustomerID == nil || *c.CustomerID == "" {
			return settled{}, ErrCustomerRequired
		}
		if t.IsPartialPayment {
			part := t.PartialPaymentAmount
			if !part.IsPositive() || !part.LessThan(total) {
				return settled{}, fmt.Errorf("%w: partial=%s total=%s", ErrInvalidPartial, part, total)
			}
			return settled{
				received:    part,
				outstanding: total.Sub(part),
				status:      StatusPartial,
				payment:     part,
			}, nil
		}
		return settled{outstanding: total, status: StatusUnpaid}, nil

	case pricing.ModeCard:
		return settled{received: total, status: StatusPaid, payment: total}, nil

	default:
		return settled{}, fmt.Errorf("%w: %q", pricing.ErrUnknownMode, c.PaymentMode)
	}
}

func invoiceInput(c cart.Cart, s settled) InvoiceInput {
	items := make([]InvoiceItemInput, 0, len(c.Lines))
	for _, l := range c.Lines {
		it := InvoiceItemInput{
			Name:          l.Product.Name,
			Quantity:      l.Quantity,
			OriginalPrice: l.OriginalPrice,
			Price:         l.Price,
			SalePrice:     l.SalePrice,
			Total:         l.Total,
		}
		if l.IsCustom() {
			it.CustomProductID = l.CustomProductID
		} else {
			id := l.Product.ID
			it.ProductID = &id
		}
		items = append(items, it)
	}

	return InvoiceInput{
		CustomerID:     c.CustomerID,
		PaymentMode:    c.PaymentMode,
		Subtotal:       c.Subtotal,
		DiscountAmount: c.DiscountAmount,
		Total:          c.Total,
		ReceivedAmount: s.received,
		ChangeAmount:   s.change,
		Outstanding:    s.outstanding,
		PaymentStatus:  s.status,
		Items:          items,
	}
}
