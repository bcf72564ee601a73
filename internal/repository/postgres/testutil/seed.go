package testutil

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

type ProductSeed struct {
	Barcode         *string
	SKU             *string
	Name            string
	Price           string
	DiscountedPrice *string
	WholesalePrice  *string
	StockLevel      string
}

func MustInsertProduct(t *testing.T, db *pgxpool.Pool, p ProductSeed) string {
	t.Helper()

	if p.StockLevel == "" {
		p.StockLevel = "0"
	}

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO products (barcode, sku, name, price, discounted_price, wholesale_price, stock_level)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric)
		RETURNING id::text
	`, p.Barcode, p.SKU, p.Name, p.Price, p.DiscountedPrice, p.WholesalePrice, p.StockLevel).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func Ptr(s string) *string { return &s }
