package analysis

import (
	"context"
	"log/slog"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/observability/logging"
	"customer-offers/internal/observability/metrics"
	"customer-offers/internal/observability/tracing"
	"customer-offers/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Service runs the offer workflow for a product.
//
// A Service is safe for concurrent use as long as its collaborators are;
// it holds no mutable state of its own.
type Service struct {
	strategies []Strategy
	store      repository.RecordStore
	announcer  Announcer
	handler    FailureHandler
}

// NewService creates a Service.
//
// Parameters:
//   - strategies: Analysis strategies, tried in the given order. The slice is
//     copied, so later changes by the caller do not affect the Service.
//   - store: Product lookup and offer persistence
//   - announcer: Announces each offer after it has been persisted
//   - handler: Receives every strategy failure (nil discards them)
//
// Example:
//
//	svc := analysis.NewService(
//	    []analysis.Strategy{rules, credit},
//	    store, notifyService, failure.NewLoggingHandler(logger),
//	)
//	result, err := svc.PrepareOfferForProduct(ctx, productID)
func NewService(strategies []Strategy, store repository.RecordStore, announcer Announcer, handler FailureHandler) *Service {
	if handler == nil {
		handler = FailureHandlerFunc(func(context.Context, error) {})
	}
	ordered := make([]Strategy, len(strategies))
	copy(ordered, strategies)
	return &Service{
		strategies: ordered,
		store:      store,
		announcer:  announcer,
		handler:    handler,
	}
}

// Strategies returns the names of the configured strategies in order.
func (s *Service) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for _, st := range s.strategies {
		names = append(names, st.Name())
	}
	return names
}

// PrepareResult summarizes one PrepareOfferForProduct call.
type PrepareResult struct {
	ProductID int64
	// Strategy is the name of the strategy that produced the customers,
	// or empty when every strategy failed.
	Strategy string
	// Offers holds the offers that were both persisted and announced, in
	// the order the strategy returned their customers.
	Offers []*entity.Offer
}

// FindInterestingCustomers asks each strategy in turn for the customers
// interested in product and returns the first successful answer unchanged.
//
// A failing strategy's error is passed to the FailureHandler as is, and the
// next strategy is tried with the same product. When every strategy fails the
// result is an empty list and a nil error. The only error returned is the
// context's error when ctx is done before a strategy is attempted.
func (s *Service) FindInterestingCustomers(ctx context.Context, product *entity.Product) ([]entity.Customer, error) {
	customers, _, err := s.findInterestingCustomers(ctx, product)
	return customers, err
}

func (s *Service) findInterestingCustomers(ctx context.Context, product *entity.Product) ([]entity.Customer, string, error) {
	logger := logging.FromContext(ctx)

	for _, strategy := range s.strategies {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		customers, err := s.attempt(ctx, strategy, product)
		if err == nil {
			logger.Debug("analysis strategy succeeded",
				slog.String("strategy", strategy.Name()),
				slog.Int64("product_id", product.ID),
				slog.Int("customers", len(customers)))
			return customers, strategy.Name(), nil
		}

		logger.Warn("analysis strategy failed, trying next",
			slog.String("strategy", strategy.Name()),
			slog.Int64("product_id", product.ID),
			slog.Any("error", err))
		s.handler.Handle(ctx, err)
	}

	metrics.RecordFallbackExhausted()
	logger.Warn("no analysis strategy produced customers",
		slog.Int64("product_id", product.ID),
		slog.Int("strategies", len(s.strategies)))
	return []entity.Customer{}, "", nil
}

// attempt runs a single strategy inside its own span.
func (s *Service) attempt(ctx context.Context, strategy Strategy, product *entity.Product) ([]entity.Customer, error) {
	ctx, span := tracing.StartSpan(ctx, "analysis.strategy",
		attribute.String("strategy", strategy.Name()),
		attribute.Int64("product.id", product.ID),
	)
	defer span.End()

	start := time.Now()
	customers, err := strategy.Analyze(ctx, product)
	metrics.RecordStrategyAttempt(strategy.Name(), err == nil, time.Since(start))

	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("customers", len(customers)))
	return customers, nil
}

// PrepareOfferForProduct loads the product, finds interested customers and,
// for each of them in order, persists an offer and then announces it.
//
// An offer is announced only after PersistOffer returned nil for it. Errors
// from the store or the announcer stop the loop and are returned unchanged,
// together with the offers completed so far. A lookup failure returns a nil
// result. Strategy failures never reach the caller; they go to the
// FailureHandler.
func (s *Service) PrepareOfferForProduct(ctx context.Context, productID int64) (*PrepareResult, error) {
	ctx, span := tracing.StartSpan(ctx, "analysis.PrepareOfferForProduct",
		attribute.Int64("product.id", productID),
	)
	defer span.End()

	logger := logging.FromContext(ctx)

	product, err := s.store.FindProduct(ctx, productID)
	if err == nil && product == nil {
		err = &repository.LookupError{Kind: "product", ID: productID, Err: entity.ErrNotFound}
	}
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	customers, strategy, err := s.findInterestingCustomers(ctx, product)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	result := &PrepareResult{
		ProductID: product.ID,
		Strategy:  strategy,
		Offers:    make([]*entity.Offer, 0, len(customers)),
	}
	span.SetAttributes(attribute.String("strategy", strategy))

	for _, customer := range customers {
		offer := entity.NewOffer(customer, *product)

		if err := s.store.PersistOffer(ctx, offer); err != nil {
			metrics.RecordOfferPersisted(false)
			logger.Error("failed to persist offer",
				slog.Int64("product_id", product.ID),
				slog.Int64("customer_id", customer.ID),
				slog.Any("error", err))
			tracing.RecordError(span, err)
			return result, err
		}
		metrics.RecordOfferPersisted(true)

		if err := s.announcer.Send(ctx, offer); err != nil {
			metrics.RecordOfferAnnounced(false)
			logger.Error("failed to announce offer",
				slog.Int64("offer_id", offer.ID),
				slog.Int64("product_id", product.ID),
				slog.Int64("customer_id", customer.ID),
				slog.Any("error", err))
			tracing.RecordError(span, err)
			return result, err
		}
		metrics.RecordOfferAnnounced(true)

		result.Offers = append(result.Offers, offer)
	}

	span.SetAttributes(attribute.Int("offers", len(result.Offers)))
	logger.Info("offers prepared",
		slog.Int64("product_id", product.ID),
		slog.String("strategy", strategy),
		slog.Int("offers", len(result.Offers)))

	return result, nil
}
