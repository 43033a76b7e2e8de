package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the catalog in Postgres behind the same
// interface as MemoryStore. InsertOrGet leans on the barcode unique
// constraint, so concurrent scans of a new barcode create one row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the products table when it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			sku TEXT NOT NULL,
			barcode TEXT NOT NULL UNIQUE,
			category_id INT NOT NULL DEFAULT 0,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			par_level INT,
			last_count INT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	if _, err := s.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("catalog: migrate: %w", err)
	}
	return nil
}

const productColumns = `id, name, sku, barcode, category_id, price::text, par_level, last_count, created_at`

func (s *PostgresStore) InsertOrGet(ctx context.Context, p Product) (Product, bool, error) {
	const q = `
		INSERT INTO products (name, sku, barcode, category_id, price, par_level, last_count)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
		ON CONFLICT (barcode) DO NOTHING
		RETURNING id, created_at`

	err := s.pool.QueryRow(ctx, q,
		p.Name, p.SKU, p.Barcode, p.CategoryID, p.Price, p.ParLevel, p.LastCount,
	).Scan(&p.ID, &p.CreatedAt)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Product{}, false, fmt.Errorf("catalog: insert product: %w", err)
	}

	// Conflict: another writer owns this barcode. Return the winner.
	existing, err := s.GetByBarcode(ctx, p.Barcode)
	if err != nil {
		return Product{}, false, fmt.Errorf("catalog: load existing product: %w", err)
	}
	return existing, false, nil
}

func (s *PostgresStore) GetByBarcode(ctx context.Context, barcode string) (Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products WHERE barcode = $1`, productColumns)

	var p Product
	err := s.pool.QueryRow(ctx, q, barcode).Scan(
		&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.CategoryID,
		&p.Price, &p.ParLevel, &p.LastCount, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("catalog: get product by barcode: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	q := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at, id`, productColumns)

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("catalog: list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.CategoryID,
			&p.Price, &p.ParLevel, &p.LastCount, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("catalog: scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate products: %w", err)
	}
	return products, nil
}
