package offer

import (
	"context"
	"net/http"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/usecase/analysis"
)

// Preparer runs the full offer workflow for one product.
type Preparer interface {
	PrepareOfferForProduct(ctx context.Context, productID int64) (*analysis.PrepareResult, error)
}

// Finder runs the strategy fallback chain without persisting anything.
type Finder interface {
	FindInterestingCustomers(ctx context.Context, product *entity.Product) ([]entity.Customer, error)
}

// ProductGetter returns (nil, nil) for an unknown product.
type ProductGetter interface {
	Get(ctx context.Context, id int64) (*entity.Product, error)
}

// OfferLister lists the offers stored for a product.
type OfferLister interface {
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Offer, error)
}

// Deps groups what the offer endpoints need. *analysis.Service satisfies
// both Preparer and Finder.
type Deps struct {
	Preparer Preparer
	Finder   Finder
	Products ProductGetter
	Offers   OfferLister
}

// Register mounts the offer endpoints on mux.
func Register(mux *http.ServeMux, d Deps) {
	mux.Handle("POST /products/{id}/offers", PrepareHandler{Svc: d.Preparer})
	mux.Handle("GET /products/{id}/offers", ListHandler{Offers: d.Offers, Products: d.Products})
	mux.Handle("GET /products/{id}/interesting-customers", InterestingHandler{Finder: d.Finder, Products: d.Products})
}
