// Package entity defines the core domain entities and validation logic for the application.
// It contains the business objects the offer workflow reads and writes (Customer,
// Product, Offer), along with their validation rules and domain-specific errors.
package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Customer represents a customer that analysis strategies may select for an offer.
// A Customer is treated as an immutable value once constructed; use Equal to
// compare two customers by attribute value.
type Customer struct {
	ID      int64
	Name    string
	Email   string
	Credit  decimal.Decimal
	Segment string
	Active  bool
}

// NewCustomer builds a Customer with the given identity, display name and credit.
// Email and Segment are left empty; Active defaults to true.
func NewCustomer(id int64, name string, credit decimal.Decimal) Customer {
	return Customer{
		ID:     id,
		Name:   name,
		Credit: credit,
		Active: true,
	}
}

// Equal reports whether c and other carry the same attribute values.
// Credit is compared numerically, so 2 and 2.00 are equal.
func (c Customer) Equal(other Customer) bool {
	return c.ID == other.ID &&
		c.Name == other.Name &&
		c.Email == other.Email &&
		c.Credit.Equal(other.Credit) &&
		c.Segment == other.Segment &&
		c.Active == other.Active
}

// Validate checks the fields required before a customer can be stored.
func (c Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "is required"}
	}
	if c.Credit.IsNegative() {
		return &ValidationError{Field: "credit", Message: "must be zero or greater"}
	}
	return nil
}
