package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	testutil "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/repository/postgres/testutil"
	cataloguc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
)

func TestCatalog_FindProducts(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()

	testutil.TruncateAll(t, db)
	ctx := context.Background()

	riceID := testutil.MustInsertProduct(t, db, testutil.ProductSeed{
		Barcode:         testutil.Ptr("8991000000011"),
		SKU:             testutil.Ptr("RICE-5"),
		Name:            "Rice 5kg",
		Price:           "100.00",
		DiscountedPrice: testutil.Ptr("90.00"),
		WholesalePrice:  testutil.Ptr("80.00"),
		StockLevel:      "12.5",
	})
	testutil.MustInsertProduct(t, db, testutil.ProductSeed{
		SKU:        testutil.Ptr("BREAD-W"),
		Name:       "White Bread",
		Price:      "15.00",
		StockLevel: "4",
	})

	store := NewCatalogStoreAdapter(NewCatalogRepo(db))

	all, err := store.FindProducts(ctx, cataloguc.Filters{}, cataloguc.Pagination{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Rice 5kg", all[0].Name, "ordered by name")

	byTerm, err := store.FindProducts(ctx, cataloguc.Filters{SearchTerm: "bread"}, cataloguc.Pagination{})
	require.NoError(t, err)
	require.Len(t, byTerm, 1)
	require.Nil(t, byTerm[0].DiscountedPrice)

	byCode, err := store.FindProducts(ctx, cataloguc.Filters{Code: "rice-5"}, cataloguc.Pagination{})
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	require.Equal(t, riceID, byCode[0].ID)
	require.True(t, byCode[0].WholesalePrice.Equal(decimal.NewFromInt(80)))
	require.True(t, byCode[0].StockLevel.Equal(decimal.RequireFromString("12.5")))

	byPartialCode, err := store.FindProducts(ctx, cataloguc.Filters{Code: "8991"}, cataloguc.Pagination{})
	require.NoError(t, err)
	require.Empty(t, byPartialCode, "code filter is exact")

	byID, err := store.FindProducts(ctx, cataloguc.Filters{ProductID: riceID}, cataloguc.Pagination{})
	require.NoError(t, err)
	require.Len(t, byID, 1)

	page, err := store.FindProducts(ctx, cataloguc.Filters{}, cataloguc.Pagination{Skip: 1, Take: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "White Bread", page[0].Name)
}

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"rice":   "%rice%",
		"50%":    "%50\\%%",
		"A_1":    "%A\\_1%",
		`C:\tmp`: `%C:\\tmp%`,
		"":       "%%",
	}
	for in, want := range cases {
		require.Equal(t, want, containsPattern(in), in)
	}
}

func TestCatalog_FindProducts_WildcardsAreLiteral(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()

	testutil.TruncateAll(t, db)
	ctx := context.Background()

	testutil.MustInsertProduct(t, db, testutil.ProductSeed{Name: "Cashew 50% extra", Price: "30.00"})
	testutil.MustInsertProduct(t, db, testutil.ProductSeed{Name: "Cashew 500g", Price: "25.00"})
	testutil.MustInsertProduct(t, db, testutil.ProductSeed{SKU: testutil.Ptr("TEA_GRN"), Name: "Green tea", Price: "8.00"})
	testutil.MustInsertProduct(t, db, testutil.ProductSeed{SKU: testutil.Ptr("TEAXGRN"), Name: "Gunpowder tea", Price: "9.00"})

	store := NewCatalogStoreAdapter(NewCatalogRepo(db))

	pct, err := store.FindProducts(ctx, cataloguc.Filters{SearchTerm: "50%"}, cataloguc.Pagination{})
	require.NoError(t, err)
	require.Len(t, pct, 1)
	require.Equal(t, "Cashew 50% extra", pct[0].Name)

	under, err := store.FindProducts(ctx, cataloguc.Filters{SearchTerm: "tea_"}, cataloguc.Pagination{})
	require.NoError(t, err)
	require.Len(t, under, 1)
	require.Equal(t, "Green tea", under[0].Name)
}

func TestCatalog_CreateCustomProduct(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()

	testutil.TruncateAll(t, db)

	store := NewCatalogStoreAdapter(NewCatalogRepo(db))
	cp, err := store.CreateCustomProduct(context.Background(), cataloguc.CustomProductInput{
		Name:  "Gift wrap",
		Price: decimal.RequireFromString("2.50"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, cp.ID)
	require.True(t, cp.Price.Equal(decimal.RequireFromString("2.5")))
}
