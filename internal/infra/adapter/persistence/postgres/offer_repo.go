package postgres

import (
	"context"
	"fmt"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/repository"
	"customer-offers/internal/resilience/circuitbreaker"
)

type OfferRepo struct {
	db *circuitbreaker.DB
}

func NewOfferRepo(db *circuitbreaker.DB) repository.OfferRepository {
	return &OfferRepo{db: db}
}

// Create inserts the offer and fills in its ID and CreatedAt.
func (repo *OfferRepo) Create(ctx context.Context, offer *entity.Offer) error {
	defer observe("offer_create", time.Now())

	const query = `
INSERT INTO offers (customer_id, product_id)
VALUES ($1, $2)
RETURNING id, created_at`
	if err := repo.db.QueryRowScan(ctx, query,
		[]any{offer.Customer.ID, offer.Product.ID}, &offer.ID, &offer.CreatedAt); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// ListByProduct returns the stored offers for a product, oldest first, with
// the current customer and product rows joined in.
func (repo *OfferRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Offer, error) {
	defer observe("offer_list_by_product", time.Now())

	const query = `
SELECT o.id, o.created_at,
       c.id, c.name, c.email, c.credit, c.segment, c.active,
       p.id, p.name, p.category, p.price, p.active
FROM offers o
JOIN customers c ON c.id = o.customer_id
JOIN products  p ON p.id = o.product_id
WHERE o.product_id = $1
ORDER BY o.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("ListByProduct: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offers := make([]*entity.Offer, 0, 16)
	for rows.Next() {
		var o entity.Offer
		if err := rows.Scan(
			&o.ID, &o.CreatedAt,
			&o.Customer.ID, &o.Customer.Name, &o.Customer.Email, &o.Customer.Credit, &o.Customer.Segment, &o.Customer.Active,
			&o.Product.ID, &o.Product.Name, &o.Product.Category, &o.Product.Price, &o.Product.Active,
		); err != nil {
			return nil, fmt.Errorf("ListByProduct: %w", err)
		}
		offers = append(offers, &o)
	}
	return offers, rows.Err()
}
