// Package campaign runs offer preparation for every active product.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/observability/metrics"
	"customer-offers/internal/observability/slo"
	"customer-offers/internal/repository"
	"customer-offers/internal/usecase/analysis"

	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 4

// Preparer prepares the offers for a single product.
// *analysis.Service satisfies it.
type Preparer interface {
	PrepareOfferForProduct(ctx context.Context, productID int64) (*analysis.PrepareResult, error)
}

// ProductLister lists the products a campaign covers.
type ProductLister interface {
	ListActive(ctx context.Context) ([]*entity.Product, error)
}

// Stats summarises one campaign run.
type Stats struct {
	Products int
	Offers   int64
	// Empty counts products for which no strategy found any customer.
	Empty    int64
	Failed   int64
	Duration time.Duration
}

// Service runs campaigns.
type Service struct {
	products    ProductLister
	preparer    Preparer
	parallelism int
}

// NewService creates a campaign Service that prepares at most parallelism
// products at once. Each product's own lookup, persist and send sequence
// stays sequential.
func NewService(products ProductLister, preparer Preparer, parallelism int) *Service {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	return &Service{products: products, preparer: preparer, parallelism: parallelism}
}

// Run prepares offers for every active product.
//
// A product that fails is logged and counted in Stats.Failed; it never stops
// the other products. Run itself only fails when the products cannot be
// listed or ctx is canceled, in which case the partial Stats are returned.
func (s *Service) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	stats.Products = len(products)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelism)

	for _, product := range products {
		p := product
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			result, err := s.preparer.PrepareOfferForProduct(egCtx, p.ID)
			if result != nil {
				atomic.AddInt64(&stats.Offers, int64(len(result.Offers)))
			}
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				atomic.AddInt64(&stats.Failed, 1)
				metrics.RecordCampaignProductError(classify(err))
				slog.Warn("offer preparation failed, continuing campaign",
					slog.Int64("product_id", p.ID),
					slog.String("product", p.Name),
					slog.String("error_type", classify(err)),
					slog.Any("error", err))
				return nil
			}
			if len(result.Offers) == 0 {
				atomic.AddInt64(&stats.Empty, 1)
			}
			return nil
		})
	}

	waitErr := eg.Wait()
	stats.Duration = time.Since(start)
	metrics.RecordCampaignRun(stats.Duration)

	if waitErr != nil {
		slog.Error("campaign aborted",
			slog.Int("products", stats.Products),
			slog.Int64("offers", atomic.LoadInt64(&stats.Offers)),
			slog.Duration("duration", stats.Duration),
			slog.Any("error", waitErr))
		return stats, fmt.Errorf("campaign aborted: %w", waitErr)
	}

	met := slo.ObserveCampaign(stats.Products, int(stats.Failed), stats.Duration, time.Now())
	slog.Info("campaign completed",
		slog.Int("products", stats.Products),
		slog.Int64("offers", stats.Offers),
		slog.Int64("empty", stats.Empty),
		slog.Int64("failed", stats.Failed),
		slog.Bool("slo_met", met),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// classify maps a product failure to the error_type metric label.
func classify(err error) string {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return "not_found"
	case errors.Is(err, repository.ErrPersistFailed):
		return "persist"
	default:
		return "other"
	}
}
