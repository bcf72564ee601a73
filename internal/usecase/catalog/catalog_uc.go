package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/cache"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("product not found")
)

const (
	DefaultTake = 50
	MaxTake     = 200
	fuzzyTake   = 20
)

type Store interface {
	FindProducts(ctx context.Context, f Filters, p Pagination) ([]Product, error)
	CreateCustomProduct(ctx context.Context, in CustomProductInput) (*CustomProduct, error)
}

type Usecase struct {
	store   Store
	queries *cache.TTL[[]Product]
	scans   *cache.Index[Product]
	log     *zap.Logger
}

func New(store Store, queries *cache.TTL[[]Product], scans *cache.Index[Product], log *zap.Logger) *Usecase {
	return &Usecase{
		store:   store,
		queries: queries,
		scans:   scans,
		log:     logger.OrNop(log),
	}
}

// Search runs a cached catalog query. Every product a backend query returns
// is written into the scan index under its barcode and SKU.
func (u *Usecase) Search(ctx context.Context, f Filters, p Pagination) ([]Product, error) {
	f = normalizeFilters(f)
	p = normalizePagination(p)

	key, err := cache.Key("products", f, p)
	if err != nil {
		return nil, err
	}

	return u.queries.Get(ctx, key, func(ctx context.Context) ([]Product, error) {
		rows, err := u.store.FindProducts(ctx, f, p)
		if err != nil {
			return nil, err
		}
		u.scans.PutAll(rows, Product.Codes)
		return rows, nil
	})
}

// GetByID resolves one catalog product through the query cache.
func (u *Usecase) GetByID(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidInput
	}
	rows, err := u.Search(ctx, Filters{ProductID: id}, Pagination{Take: 1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Lookup resolves a scanned code: scan index first, then an exact code query,
// then a fuzzy search. Fetch failures are logged and count as a miss.
func (u *Usecase) Lookup(ctx context.Context, code string) (*Product, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, false
	}

	if p, ok := u.scans.Lookup(code); ok {
		return &p, true
	}

	rows, err := u.Search(ctx, Filters{Code: code}, Pagination{})
	if err != nil {
		u.log.Warn("code lookup failed", zap.String("code", code), zap.Error(err))
	}
	if p, ok := exactMatch(rows, code); ok {
		return p, true
	}

	rows, err = u.Search(ctx, Filters{SearchTerm: code}, Pagination{Take: fuzzyTake})
	if err != nil {
		u.log.Warn("fuzzy lookup failed", zap.String("code", code), zap.Error(err))
		return nil, false
	}
	if p, ok := exactMatch(rows, code); ok {
		return p, true
	}
	if len(rows) > 0 {
		p := rows[0]
		return &p, true
	}

	u.log.Debug("scan code not found", zap.String("code", code))
	return nil, false
}

func (u *Usecase) CreateCustom(ctx context.Context, in CustomProductInput) (*CustomProduct, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.Price.IsNegative() {
		return nil, ErrInvalidInput
	}
	return u.store.CreateCustomProduct(ctx, in)
}

func exactMatch(rows []Product, code string) (*Product, bool) {
	for i := range rows {
		if rows[i].MatchesCode(code) {
			p := rows[i]
			return &p, true
		}
	}
	return nil, false
}

func normalizeFilters(f Filters) Filters {
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.Code = strings.TrimSpace(f.Code)
	f.ProductID = strings.TrimSpace(f.ProductID)
	return f
}

func normalizePagination(p Pagination) Pagination {
	if p.Take <= 0 {
		p.Take = DefaultTake
	}
	if p.Take > MaxTake {
		p.Take = MaxTake
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}
