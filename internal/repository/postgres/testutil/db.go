package testutil

import (
	"context"
	_ "embed"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// MustOpenDB connects to DATABASE_URL and applies the schema. Tests are
// skipped when DATABASE_URL is unset.
func MustOpenDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse DATABASE_URL: %v", err)
	}

	// keep tests stable
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("ping db: %v", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		t.Fatalf("apply schema: %v", err)
	}

	return pool
}

func TruncateAll(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Order matters because of FKs.
	_, err := db.Exec(ctx, `
TRUNCATE
  payments,
  invoice_items,
  invoices,
  custom_products,
  products
RESTART IDENTITY CASCADE;
`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}
