package repository

import (
	"context"

	"customer-offers/internal/domain/entity"
)

type OfferRepository interface {
	// Create inserts the offer and fills its ID and CreatedAt.
	Create(ctx context.Context, offer *entity.Offer) error
	// ListByProduct returns the offers stored for a product, oldest first.
	// Customer and Product are populated from their tables.
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Offer, error)
}
