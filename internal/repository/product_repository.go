package repository

import (
	"context"

	"customer-offers/internal/domain/entity"
)

type ProductRepository interface {
	// Get returns (nil, nil) when the product does not exist.
	Get(ctx context.Context, id int64) (*entity.Product, error)
	// ListActive returns active products ordered by ID.
	ListActive(ctx context.Context) ([]*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
}
