package repository

import (
	"context"

	"customer-offers/internal/domain/entity"
)

// RecordStore is the durable lookup and write surface the offer workflow
// depends on.
//
// Implementations must return a *LookupError wrapping entity.ErrNotFound from
// FindProduct when the product does not exist, and a *PersistError from
// PersistOffer when the offer could not be stored.
type RecordStore interface {
	// FindProduct resolves a product by ID.
	FindProduct(ctx context.Context, id int64) (*entity.Product, error)

	// PersistOffer durably stores the offer.
	// On success, the offer's ID and CreatedAt are filled in place.
	PersistOffer(ctx context.Context, offer *entity.Offer) error
}
