package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/repository"
	"customer-offers/internal/resilience/circuitbreaker"
)

type ProductRepo struct {
	db *circuitbreaker.DB
}

func NewProductRepo(db *circuitbreaker.DB) repository.ProductRepository {
	return &ProductRepo{db: db}
}

func (repo *ProductRepo) Get(ctx context.Context, id int64) (*entity.Product, error) {
	defer observe("product_get", time.Now())

	const query = `SELECT ` + productColumns + `
FROM products
WHERE id = $1
LIMIT 1`
	var p entity.Product
	err := repo.db.QueryRowScan(ctx, query, []any{id},
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &p, nil
}

func (repo *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	defer observe("product_list_active", time.Now())

	const query = `SELECT ` + productColumns + `
FROM products
WHERE active = TRUE
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]*entity.Product, 0, 32)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (repo *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	defer observe("product_create", time.Now())

	const query = `
INSERT INTO products (name, category, price, active)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := repo.db.QueryRowScan(ctx, query,
		[]any{p.Name, p.Category, p.Price, p.Active}, &p.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
