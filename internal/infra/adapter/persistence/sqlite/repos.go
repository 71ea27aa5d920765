package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/repository"
)

type CustomerRepo struct{ db *sql.DB }

func NewCustomerRepo(db *sql.DB) repository.CustomerRepository {
	return &CustomerRepo{db: db}
}

func (repo *CustomerRepo) Get(ctx context.Context, id int64) (*entity.Customer, error) {
	var c entity.Customer
	err := repo.db.QueryRowContext(ctx,
		`SELECT id, name, email, credit, segment, active FROM customers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Credit, &c.Segment, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &c, nil
}

func (repo *CustomerRepo) ListActive(ctx context.Context) ([]entity.Customer, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, name, email, credit, segment, active FROM customers WHERE active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	customers := make([]entity.Customer, 0, 64)
	for rows.Next() {
		var c entity.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Credit, &c.Segment, &c.Active); err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (repo *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO customers (name, email, credit, segment, active) VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Email, c.Credit.String(), c.Segment, c.Active)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	c.ID = id
	return nil
}

type ProductRepo struct{ db *sql.DB }

func NewProductRepo(db *sql.DB) repository.ProductRepository {
	return &ProductRepo{db: db}
}

func (repo *ProductRepo) Get(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := repo.db.QueryRowContext(ctx,
		`SELECT id, name, category, price, active FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &p, nil
}

func (repo *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, name, category, price, active FROM products WHERE active = 1 ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]*entity.Product, 0, 32)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Active); err != nil {
			return nil, fmt.Errorf("ListActive: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (repo *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO products (name, category, price, active) VALUES (?, ?, ?, ?)`,
		p.Name, p.Category, p.Price.String(), p.Active)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	p.ID = id
	return nil
}

type OfferRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewOfferRepo(db *sql.DB) repository.OfferRepository {
	return &OfferRepo{db: db, now: time.Now}
}

func (repo *OfferRepo) Create(ctx context.Context, offer *entity.Offer) error {
	created := repo.now().UTC().Truncate(time.Millisecond)
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO offers (customer_id, product_id, created_at) VALUES (?, ?, ?)`,
		offer.Customer.ID, offer.Product.ID, created.UnixMilli())
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	offer.ID = id
	offer.CreatedAt = created
	return nil
}

func (repo *OfferRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Offer, error) {
	rows, err := repo.db.QueryContext(ctx, `
SELECT o.id, o.created_at,
       c.id, c.name, c.email, c.credit, c.segment, c.active,
       p.id, p.name, p.category, p.price, p.active
FROM offers o
JOIN customers c ON c.id = o.customer_id
JOIN products  p ON p.id = o.product_id
WHERE o.product_id = ?
ORDER BY o.id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("ListByProduct: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offers := make([]*entity.Offer, 0, 16)
	for rows.Next() {
		var o entity.Offer
		var createdMillis int64
		if err := rows.Scan(
			&o.ID, &createdMillis,
			&o.Customer.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Credit, &o.Customer.Segment, &o.Customer.Active,
			&o.Product.ID, &o.Product.Name, &o.Product.Category, &o.Product.Price, &o.Product.Active,
		); err != nil {
			return nil, fmt.Errorf("ListByProduct: %w", err)
		}
		o.CreatedAt = time.UnixMilli(createdMillis).UTC()
		offers = append(offers, &o)
	}
	return offers, rows.Err()
}
