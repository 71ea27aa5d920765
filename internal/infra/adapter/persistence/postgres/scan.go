// Package postgres implements the repositories on PostgreSQL through
// database/sql with the pgx driver. Every query runs inside the shared
// database circuit breaker.
package postgres

import (
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/observability/metrics"
)

// observe records a query duration; call as defer observe("op", time.Now()).
func observe(operation string, start time.Time) {
	metrics.RecordDBQuery(operation, time.Since(start))
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

const customerColumns = `id, name, email, credit, segment, active`

func scanCustomer(s scanner) (entity.Customer, error) {
	var c entity.Customer
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Credit, &c.Segment, &c.Active)
	return c, err
}

const productColumns = `id, name, category, price, active`

func scanProduct(s scanner) (*entity.Product, error) {
	var p entity.Product
	if err := s.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Active); err != nil {
		return nil, err
	}
	return &p, nil
}
