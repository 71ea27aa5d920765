package strategy

import (
	"context"

	"customer-offers/internal/domain/entity"

	"github.com/shopspring/decimal"
)

type stubCustomers struct {
	customers []entity.Customer
	err       error
	calls     int
}

func (s *stubCustomers) ListActive(ctx context.Context) ([]entity.Customer, error) {
	s.calls++
	return s.customers, s.err
}

func customer(id int64, name string, credit int64, segment string) entity.Customer {
	c := entity.NewCustomer(id, name, decimal.NewFromInt(credit))
	c.Segment = segment
	return c
}

func product(id int64, category string, price int64) *entity.Product {
	return &entity.Product{
		ID:       id,
		Name:     "Product " + category,
		Category: category,
		Price:    decimal.NewFromInt(price),
		Active:   true,
	}
}

func ids(customers []entity.Customer) []int64 {
	out := make([]int64, 0, len(customers))
	for _, c := range customers {
		out = append(out, c.ID)
	}
	return out
}
