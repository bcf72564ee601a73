package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
)

func d(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func product(discounted, wholesale *decimal.Decimal) catalog.Product {
	return catalog.Product{
		ID:              "p1",
		Name:            "Rice 5kg",
		Price:           decimal.NewFromInt(100),
		DiscountedPrice: discounted,
		WholesalePrice:  wholesale,
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		product  catalog.Product
		mode     Mode
		credit   CreditMode
		want     int64
		wantSale bool
	}{
		{"wholesale price wins", product(d(90), d(80)), ModeWholesale, "", 80, true},
		{"wholesale falls back to discounted", product(d(90), nil), ModeWholesale, "", 90, true},
		{"wholesale zero ignored", product(d(90), d(0)), ModeWholesale, "", 90, true},
		{"wholesale falls back to regular", product(nil, nil), ModeWholesale, "", 100, false},
		{"credit discounted", product(d(90), d(80)), ModeCredit, CreditDiscounted, 90, true},
		{"credit discounted without promo", product(nil, d(80)), ModeCredit, CreditDiscounted, 100, false},
		{"credit regular ignores discounts", product(d(90), d(80)), ModeCredit, CreditRegular, 100, false},
		{"cash discounted", product(d(90), d(80)), ModeCash, "", 90, true},
		{"card discounted", product(d(90), nil), ModeCard, "", 90, true},
		{"cash negative discount ignored", product(d(-5), nil), ModeCash, "", 100, false},
		{"cash regular", product(nil, d(80)), ModeCash, "", 100, false},
		{"unknown mode is regular", product(d(90), d(80)), Mode("barter"), "", 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.product, tt.mode, tt.credit)
			require.True(t, got.Price.Equal(decimal.NewFromInt(tt.want)), "price %s", got.Price)
			if tt.wantSale {
				require.NotNil(t, got.SalePrice)
				require.True(t, got.SalePrice.Equal(got.Price))
			} else {
				require.Nil(t, got.SalePrice)
			}
		})
	}
}

func TestResolve_DiscountEqualToPriceIsNotASale(t *testing.T) {
	got := Resolve(product(d(100), nil), ModeCash, "")
	require.Nil(t, got.SalePrice)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("wholesale")
	require.NoError(t, err)
	require.Equal(t, ModeWholesale, m)

	_, err = ParseMode("bitcoin")
	require.ErrorIs(t, err, ErrUnknownMode)

	c, err := ParseCreditMode("")
	require.NoError(t, err)
	require.Equal(t, CreditDiscounted, c)

	_, err = ParseCreditMode("sometimes")
	require.ErrorIs(t, err, ErrUnknownMode)
}
