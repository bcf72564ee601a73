package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRow carries numeric columns as text; the adapter parses them.
type ProductRow struct {
	ID              string
	Barcode         *string
	SKU             *string
	Name            string
	CategoryID      *string
	Price           string
	DiscountedPrice *string
	WholesalePrice  *string
	CostPrice       *string
	StockLevel      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProductQuery struct {
	SearchTerm string
	CategoryID string
	Code       string
	ProductID  string
	Limit      int
	Offset     int
}

type CustomProductRow struct {
	ID        string
	Name      string
	Price     string
	CreatedAt time.Time
}

type CatalogRepo struct {
	db *pgxpool.Pool
}

func NewCatalogRepo(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) FindProducts(ctx context.Context, in ProductQuery) ([]ProductRow, error) {
	const q = `
SELECT
  id::text, barcode, sku, name, category_id::text,
  price::text, discounted_price::text, wholesale_price::text, cost_price::text,
  stock_level::text,
  created_at, updated_at
FROM products
WHERE
  ($1::text = '' OR name ILIKE $7 ESCAPE '\' OR sku ILIKE $7 ESCAPE '\' OR barcode ILIKE $7 ESCAPE '\')
  AND ($2::text = '' OR category_id = NULLIF($2, '')::uuid)
  AND ($3::text = '' OR lower(barcode) = lower($3) OR lower(sku) = lower($3))
  AND ($4::text = '' OR id = NULLIF($4, '')::uuid)
ORDER BY name ASC, id ASC
LIMIT $5 OFFSET $6;
`
	rows, err := r.db.Query(ctx, q,
		in.SearchTerm, in.CategoryID, in.Code, in.ProductID, in.Limit, in.Offset,
		containsPattern(in.SearchTerm),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ProductRow, 0, in.Limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches term literally anywhere in a column under
// ILIKE ... ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (r *CatalogRepo) CreateCustomProduct(ctx context.Context, name string, price string) (*CustomProductRow, error) {
	const q = `
INSERT INTO custom_products (name, price)
VALUES ($1, $2::numeric)
RETURNING id::text, name, price::text, created_at;
`
	var out CustomProductRow
	if err := r.db.QueryRow(ctx, q, name, price).Scan(
		&out.ID,
		&out.Name,
		&out.Price,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func scanProduct(row pgx.Row) (ProductRow, error) {
	var p ProductRow
	err := row.Scan(
		&p.ID,
		&p.Barcode,
		&p.SKU,
		&p.Name,
		&p.CategoryID,
		&p.Price,
		&p.DiscountedPrice,
		&p.WholesalePrice,
		&p.CostPrice,
		&p.StockLevel,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
