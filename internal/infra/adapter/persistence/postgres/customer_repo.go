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

type CustomerRepo struct {
	db *circuitbreaker.DB
}

func NewCustomerRepo(db *circuitbreaker.DB) repository.CustomerRepository {
	return &CustomerRepo{db: db}
}

func (repo *CustomerRepo) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	defer observe("customer_get", time.Now())

	const query = `SELECT ` + customerColumns + `
FROM customers
WHERE id = $1
LIMIT 1`
	var c entity.Customer
	err := repo.db.QueryRowScan(ctx, query, []any{id},
		&c.ID, &c.Name, &c.Email, &c.Credit, &c.Segment, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &c, nil
}

func (repo *CustomerRepo) ListActive(ctx context.Context) ([]entity.Customer, error) {
	defer observe("customer_list_active", time.Now())

	const query = `SELECT ` + customerColumns + `
FROM customers
WHERE active = TRUE
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	customers := make([]entity.Customer, 0, 64)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (repo *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	defer observe("customer_create", time.Now())

	const query = `
INSERT INTO customers (name, email, credit, segment, active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	if err := repo.db.QueryRowScan(ctx, query,
		[]any{c.Name, c.Email, c.Credit, c.Segment, c.Active}, &c.ID); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
