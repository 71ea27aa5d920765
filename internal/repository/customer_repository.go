package repository

import (
	"context"

	"customer-offers/internal/domain/entity"
)

type CustomerRepository interface {
	// Get returns (nil, nil) when the customer does not exist.
	Get(ctx context.Context, id int64) (*entity.Customer, error)
	// ListActive returns active customers ordered by ID.
	ListActive(ctx context.Context) ([]entity.Customer, error)
	Create(ctx context.Context, customer *entity.Customer) error
}
