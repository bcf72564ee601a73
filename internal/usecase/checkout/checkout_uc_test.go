package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/pricing"
)

type fakeStore struct {
	invoices   []InvoiceInput
	payments   []PaymentInput
	invoiceErr error
	paymentErr error
}

func (s *fakeStore) CreateInvoice(_ context.Context, in InvoiceInput) (*Invoice, error) {
	if s.invoiceErr != nil {
		return nil, s.invoiceErr
	}
	s.invoices = append(s.invoices, in)
	return &Invoice{ID: "inv-1", Number: "INV-000001", CreatedAt: time.Now(), InvoiceInput: in}, nil
}

func (s *fakeStore) CreatePayment(_ context.Context, in PaymentInput) (*Payment, error) {
	if s.paymentErr != nil {
		return nil, s.paymentErr
	}
	s.payments = append(s.payments, in)
	return &Payment{ID: "pay-1", CreatedAt: time.Now(), PaymentInput: in}, nil
}

type fakePrinter struct {
	calls int
	cfg   PrintConfig
	err   error
}

func (p *fakePrinter) Print(_ context.Context, _ Receipt, cfg PrintConfig) error {
	p.calls++
	p.cfg = cfg
	return p.err
}

type recorder struct{ got []string }

func (r *recorder) Checkout(mode, result string) { r.got = append(r.got, mode+":"+result) }

type memHistory struct{ snap *cart.Snapshot }

func (h *memHistory) Save(_ context.Context, s cart.Snapshot) error {
	h.snap = &s
	return nil
}

func (h *memHistory) Load(context.Context) (*cart.Snapshot, error) {
	if h.snap == nil {
		return nil, cart.ErrNoSnapshot
	}
	return h.snap, nil
}

func (h *memHistory) Clear(context.Context) error {
	h.snap = nil
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	engine  *cart.Engine
	store   *fakeStore
	printer *fakePrinter
	rec     *recorder
	history *memHistory
	proc    *Processor
}

// newFixture starts with one line worth 90 under cash pricing.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   &fakeStore{},
		printer: &fakePrinter{},
		rec:     &recorder{},
		history: &memHistory{},
	}
	f.engine = cart.New(cart.Options{History: f.history, AutoSave: true})
	f.proc = New(f.engine, f.store, f.printer, PrintConfig{PrinterName: "front", PaperWidth: 80}, f.rec, nil)

	discounted := dec("45")
	_, err := f.engine.AddItem(context.Background(), catalog.Product{
		ID:              "p1",
		Name:            "Cooking Oil 2L",
		Price:           dec("50"),
		DiscountedPrice: &discounted,
		StockLevel:      dec("20"),
	}, dec("2"))
	require.NoError(t, err)
	return f
}

func TestCheckout_CashWithChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.proc.Checkout(ctx, Options{
		Tender: &cart.Tender{ReceivedAmount: dec("100")},
		Print:  true,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, res.Status)
	require.True(t, res.Change.Equal(dec("10")))
	require.True(t, res.Payment.Amount.Equal(dec("90")))
	require.True(t, res.Printed)
	require.Equal(t, 1, f.printer.cfg.Copies)
	require.True(t, f.printer.cfg.OpenDrawer)

	require.Len(t, f.store.invoices, 1)
	inv := f.store.invoices[0]
	require.True(t, inv.Subtotal.Equal(dec("90")))
	require.True(t, inv.Items[0].OriginalPrice.Equal(dec("50")))
	require.True(t, inv.Items[0].Price.Equal(dec("45")))
	require.Equal(t, "p1", *inv.Items[0].ProductID)

	require.True(t, f.engine.Cart().IsEmpty())
	require.Nil(t, f.history.snap)
	require.Equal(t, []string{"cash:ok"}, f.rec.got)
}

func TestCheckout_CashInsufficientKeepsCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.proc.Checkout(context.Background(), Options{Tender: &cart.Tender{ReceivedAmount: dec("89.99")}})
	require.ErrorIs(t, err, ErrInsufficientPayment)
	var ve *cart.ValidationError
	require.ErrorAs(t, err, &ve)

	require.Len(t, f.engine.Cart().Lines, 1)
	require.NotNil(t, f.history.snap)
	require.Empty(t, f.store.invoices)
	require.Equal(t, []string{"cash:rejected"}, f.rec.got)
}

func TestCheckout_UsesCartTender(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.engine.SetTender(ctx, cart.Tender{ReceivedAmount: dec("90")})
	require.NoError(t, err)

	res, err := f.proc.Checkout(ctx, Options{})
	require.NoError(t, err)
	require.True(t, res.Change.IsZero())
	require.Zero(t, f.printer.calls)
}

func TestCheckout_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("customer required", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.SetPaymentMode(ctx, pricing.ModeCredit)
		require.NoError(t, err)

		_, err = f.proc.Checkout(ctx, Options{})
		require.ErrorIs(t, err, ErrCustomerRequired)
		require.Len(t, f.engine.Cart().Lines, 1)
	})

	t.Run("unpaid", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.SetPaymentMode(ctx, pricing.ModeCredit)
		require.NoError(t, err)
		_, err = f.engine.SetCustomer(ctx, "cust-1")
		require.NoError(t, err)

		res, err := f.proc.Checkout(ctx, Options{Tender: &cart.Tender{ReceivedAmount: dec("500")}})
		require.NoError(t, err)
		require.Equal(t, StatusUnpaid, res.Status)
		require.True(t, res.Outstanding.Equal(dec("90")))
		require.Nil(t, res.Payment, "no payment row when nothing was received")
		require.True(t, f.store.invoices[0].ReceivedAmount.IsZero())
		require.Equal(t, "cust-1", *f.store.invoices[0].CustomerID)
	})

	t.Run("partial", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.engine.SetPaymentMode(ctx, pricing.ModeCredit)
		require.NoError(t, err)
		_, err = f.engine.SetCustomer(ctx, "cust-1")
		require.NoError(t, err)

		res, err := f.proc.Checkout(ctx, Options{Tender: &cart.Tender{IsPartialPayment: true, PartialPaymentAmount: dec("30")}})
		require.NoError(t, err)
		require.Equal(t, StatusPartial, res.Status)
		require.True(t, res.Outstanding.Equal(dec("60")))
		require.True(t, res.Payment.Amount.Equal(dec("30")))
		require.Equal(t, "cust-1", *f.store.payments[0].CustomerID)
	})

	t.Run("partial out of range", func(t *testing.T) {
		for _, amt := range []string{"0", "90", "120"} {
			f := newFixture(t)
			_, err := f.engine.SetPaymentMode(ctx, pricing.ModeCredit)
			require.NoError(t, err)
			_, err = f.engine.SetCustomer(ctx, "cust-1")
			require.NoError(t, err)

			_, err = f.proc.Checkout(ctx, Options{Tender: &cart.Tender{IsPartialPayment: true, PartialPaymentAmount: dec(amt)}})
			require.ErrorIs(t, err, ErrInvalidPartial, "partial=%s", amt)
		}
	})
}

func TestCheckout_CardIsExact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.engine.SetPaymentMode(ctx, pricing.ModeCard)
	require.NoError(t, err)

	res, err := f.proc.Checkout(ctx, Options{Tender: &cart.Tender{ReceivedAmount: dec("1000")}})
	require.NoError(t, err)
	require.True(t, res.Change.IsZero())
	require.True(t, f.store.invoices[0].ReceivedAmount.Equal(dec("90")))
	require.Equal(t, pricing.ModeCard, f.store.payments[0].Mode)
}

func TestCheckout_WriteFailureKeepsCart(t *testing.T) {
	ctx := context.Background()

	for name, setup := range map[string]func(*fakeStore){
		"invoice": func(s *fakeStore) { s.invoiceErr = errors.New("conn reset") },
		"payment": func(s *fakeStore) { s.paymentErr = errors.New("conn reset") },
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			setup(f.store)

			_, err := f.proc.Checkout(ctx, Options{Tender: &cart.Tender{ReceivedAmount: dec("100")}, Print: true})
			require.Error(t, err)
			require.Len(t, f.engine.Cart().Lines, 1)
			require.NotNil(t, f.history.snap)
			require.Zero(t, f.printer.calls)
			require.Equal(t, []string{"cash:error"}, f.rec.got)
		})
	}
}

func TestCheckout_PrintFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.printer.err = errors.New("paper out")

	res, err := f.proc.Checkout(context.Background(), Options{Tender: &cart.Tender{ReceivedAmount: dec("90")}, Print: true})
	require.NoError(t, err)
	require.False(t, res.Printed)
	require.Equal(t, "paper out", res.PrintError)
	require.True(t, f.engine.Cart().IsEmpty())
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Clear(context.Background())
	require.NoError(t, err)

	_, err = f.proc.Checkout(context.Background(), Options{})
	require.ErrorIs(t, err, ErrEmptyCart)
}
