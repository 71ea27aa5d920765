package analysis

import (
	"context"

	"customer-offers/internal/domain/entity"
)

// Strategy decides which customers are interested in a product.
//
// Analyze returns the interested customers in the order offers should be
// prepared, or an error when it cannot produce a list. Any error is treated
// as an analysis failure; strategies should return an *AnalysisError so the
// failure handler can tell the kinds apart.
type Strategy interface {
	// Name identifies the strategy in logs, metrics and failure signals.
	Name() string
	Analyze(ctx context.Context, product *entity.Product) ([]entity.Customer, error)
}

// FailureHandler receives every error returned by a strategy, exactly as the
// strategy returned it. It has no way to influence the fallback.
type FailureHandler interface {
	Handle(ctx context.Context, err error)
}

// Announcer announces a persisted offer.
// The offer passed in is the same pointer that was handed to the store.
type Announcer interface {
	Send(ctx context.Context, offer *entity.Offer) error
}

// FailureHandlerFunc adapts an ordinary function to FailureHandler.
type FailureHandlerFunc func(ctx context.Context, err error)

func (f FailureHandlerFunc) Handle(ctx context.Context, err error) {
	f(ctx, err)
}
