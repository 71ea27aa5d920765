package strategy

import (
	"context"
	"fmt"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/usecase/analysis"

	"github.com/shopspring/decimal"
)

// CreditStrategy selects active customers whose credit covers the product
// price plus a safety margin.
type CreditStrategy struct {
	customers CustomerSource
	factor    decimal.Decimal
}

// NewCreditStrategy creates a CreditStrategy. margin is a fraction of the
// price, so 0.2 requires credit >= price * 1.2. Negative margins are treated as zero.
func NewCreditStrategy(customers CustomerSource, margin decimal.Decimal) *CreditStrategy {
	if margin.IsNegative() {
		margin = decimal.Zero
	}
	return &CreditStrategy{
		customers: customers,
		factor:    decimal.NewFromInt(1).Add(margin),
	}
}

func (s *CreditStrategy) Name() string { return NameCredit }

func (s *CreditStrategy) Analyze(ctx context.Context, product *entity.Product) ([]entity.Customer, error) {
	if !product.Price.IsPositive() {
		return nil, analysis.NewCannotInterpret(NameCredit, product.ID, ErrNoPrice)
	}

	all, err := s.customers.ListActive(ctx)
	if err != nil {
		return nil, analysis.NewAnalysisFailed(NameCredit, product.ID, fmt.Errorf("list customers: %w", err))
	}

	threshold := product.Price.Mul(s.factor)
	selected := make([]entity.Customer, 0, len(all))
	for _, c := range all {
		if c.Credit.GreaterThanOrEqual(threshold) {
			selected = append(selected, c)
		}
	}
	return selected, nil
}
