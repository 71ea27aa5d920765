// Package recordstore adapts the product and offer repositories to the
// repository.RecordStore used by the analysis service. It is backend
// agnostic and serves both the Postgres and SQLite repositories.
package recordstore

import (
	"context"
	"fmt"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/repository"
)

type Store struct {
	products repository.ProductRepository
	offers   repository.OfferRepository
}

func New(products repository.ProductRepository, offers repository.OfferRepository) *Store {
	return &Store{products: products, offers: offers}
}

// FindProduct returns the product, or a *repository.LookupError wrapping
// entity.ErrNotFound when it does not exist or is inactive, or wrapping the
// driver error when the lookup itself failed.
func (s *Store) FindProduct(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, &repository.LookupError{Kind: "product", ID: id, Err: err}
	}
	if product == nil || !product.Active {
		return nil, &repository.LookupError{Kind: "product", ID: id, Err: entity.ErrNotFound}
	}
	return product, nil
}

// PersistOffer stores offer, filling in its ID and CreatedAt. Every failure
// is a *repository.PersistError.
func (s *Store) PersistOffer(ctx context.Context, offer *entity.Offer) error {
	if offer == nil {
		return &repository.PersistError{Kind: "offer", Err: fmt.Errorf("%w: nil offer", entity.ErrInvalidInput)}
	}
	if offer.Customer.ID <= 0 || offer.Product.ID <= 0 {
		return &repository.PersistError{Kind: "offer", Err: fmt.Errorf("%w: offer must reference a stored customer and product", entity.ErrInvalidInput)}
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return &repository.PersistError{Kind: "offer", Err: err}
	}
	return nil
}
