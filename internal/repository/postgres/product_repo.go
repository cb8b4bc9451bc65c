// internal/repository/postgres/product_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sokohub-service/internal/domain/product"
	xerrors "sokohub-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `
	id, vendor_id, title, description, category, region,
	active, created_at, updated_at
`

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.VendorID, &p.Title, &p.Description, &p.Category, &p.Region,
		&p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return &p, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (
			id, vendor_id, title, description, category, region, active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.ID, p.VendorID, p.Title, p.Description, p.Category, p.Region, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRow(ctx, query, id))
}

// Update replaces the mutable display fields and bumps updated_at.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET title = $1, description = $2, category = $3, region = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.db.Exec(ctx, query, p.Title, p.Description, p.Category, p.Region, time.Now(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// SetActive flips the active flag. Deactivation is how listings leave search.
func (r *ProductRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	query := `UPDATE products SET active = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(ctx, query, active, at, id)
	if err != nil {
		return fmt.Errorf("failed to set product active flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Select returns products matching the filters. Empty region/category act as
// wildcards; matching is exact.
func (r *ProductRepository) Select(ctx context.Context, f product.Filters) ([]*product.Product, error) {
	conditions := []string{}
	args := []interface{}{}
	argIdx := 1

	if f.Region != "" {
		conditions = append(conditions, fmt.Sprintf("region = $%d", argIdx))
		args = append(args, f.Region)
		argIdx++
	}
	if f.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIdx))
		args = append(args, f.Category)
		argIdx++
	}
	if f.VendorID != "" {
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", argIdx))
		args = append(args, f.VendorID)
		argIdx++
	}
	if f.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}
