// Package catalog provides the endpoints that register customers and
// products for the offer workflow.
package catalog

import (
	"github.com/shopspring/decimal"

	"customer-offers/internal/domain/entity"
)

// CreateCustomerRequest accepts credit as a JSON number or a decimal string.
type CreateCustomerRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Credit  decimal.Decimal `json:"credit"`
	Segment string          `json:"segment"`
}

type CustomerDTO struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Credit  string `json:"credit"`
	Segment string `json:"segment,omitempty"`
	Active  bool   `json:"active"`
}

type CreateProductRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	// Active defaults to true when omitted.
	Active *bool `json:"active"`
}

type ProductDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Price    string `json:"price"`
	Active   bool   `json:"active"`
}

func toCustomerDTO(c *entity.Customer) CustomerDTO {
	return CustomerDTO{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Credit:  c.Credit.StringFixed(2),
		Segment: c.Segment,
		Active:  c.Active,
	}
}

func toProductDTO(p *entity.Product) ProductDTO {
	return ProductDTO{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.StringFixed(2),
		Active:   p.Active,
	}
}
