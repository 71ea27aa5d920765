package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is the item an offer is prepared for.
// The offer workflow only uses ID as a lookup key; analysis strategies may
// read Category and Price to decide which customers are interested.
type Product struct {
	ID       int64
	Name     string
	Category string
	Price    decimal.Decimal
	Active   bool
}

// Equal reports whether p and other carry the same attribute values.
func (p Product) Equal(other Product) bool {
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Category == other.Category &&
		p.Price.Equal(other.Price) &&
		p.Active == other.Active
}

// Validate checks the fields required before a product can be stored.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if p.Price.IsNegative() {
		return &ValidationError{Field: "price", Message: "must be zero or greater"}
	}
	return nil
}
