package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	cataloguc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
)

type CatalogStoreAdapter struct {
	repo *CatalogRepo
}

func NewCatalogStoreAdapter(repo *CatalogRepo) *CatalogStoreAdapter {
	return &CatalogStoreAdapter{repo: repo}
}

func (a *CatalogStoreAdapter) FindProducts(ctx context.Context, f cataloguc.Filters, p cataloguc.Pagination) ([]cataloguc.Product, error) {
	take := p.Take
	if take <= 0 {
		take = cataloguc.DefaultTake
	}
	if take > cataloguc.MaxTake {
		take = cataloguc.MaxTake
	}
	skip := p.Skip
	if skip < 0 {
		skip = 0
	}

	rows, err := a.repo.FindProducts(ctx, ProductQuery{
		SearchTerm: f.SearchTerm,
		CategoryID: f.CategoryID,
		Code:       f.Code,
		ProductID:  f.ProductID,
		Limit:      take,
		Offset:     skip,
	})
	if err != nil {
		return nil, err
	}

	out := make([]cataloguc.Product, 0, len(rows))
	for i := range rows {
		prod, err := mapProductRowToUC(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *prod)
	}
	return out, nil
}

func (a *CatalogStoreAdapter) CreateCustomProduct(ctx context.Context, in cataloguc.CustomProductInput) (*cataloguc.CustomProduct, error) {
	row, err := a.repo.CreateCustomProduct(ctx, in.Name, in.Price.String())
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return nil, fmt.Errorf("custom product %s price: %w", row.ID, err)
	}
	return &cataloguc.CustomProduct{
		ID:        row.ID,
		Name:      row.Name,
		Price:     price,
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapProductRowToUC(r *ProductRow) (*cataloguc.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s price: %w", r.ID, err)
	}
	stock, err := decimal.NewFromString(r.StockLevel)
	if err != nil {
		return nil, fmt.Errorf("product %s stock: %w", r.ID, err)
	}
	discounted, err := optionalDecimal(r.DiscountedPrice)
	if err != nil {
		return nil, fmt.Errorf("product %s discounted price: %w", r.ID, err)
	}
	wholesale, err := optionalDecimal(r.WholesalePrice)
	if err != nil {
		return nil, fmt.Errorf("product %s wholesale price: %w", r.ID, err)
	}
	cost, err := optionalDecimal(r.CostPrice)
	if err != nil {
		return nil, fmt.Errorf("product %s cost price: %w", r.ID, err)
	}

	return &cataloguc.Product{
		ID:              r.ID,
		Barcode:         r.Barcode,
		SKU:             r.SKU,
		Name:            r.Name,
		CategoryID:      r.CategoryID,
		Price:           price,
		DiscountedPrice: discounted,
		WholesalePrice:  wholesale,
		CostPrice:       cost,
		StockLevel:      stock,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func optionalDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Compile-time check: ensures adapter matches usecase interface
var _ cataloguc.Store = (*CatalogStoreAdapter)(nil)
