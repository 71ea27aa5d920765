// Package offer provides the HTTP endpoints of the offer workflow: preparing
// offers for a product, previewing the interested customers and listing the
// offers already stored.
package offer

import (
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/usecase/analysis"
)

// CustomerDTO is the JSON form of a customer. Credit is a decimal string.
type CustomerDTO struct {
	ID      int64  `json:"id" example:"7"`
	Name    string `json:"name" example:"Alice"`
	Email   string `json:"email,omitempty" example:"alice@example.com"`
	Credit  string `json:"credit" example:"1250.00"`
	Segment string `json:"segment,omitempty" example:"premium"`
}

// DTO is the JSON form of a stored offer.
type DTO struct {
	ID         int64     `json:"id" example:"1"`
	CustomerID int64     `json:"customer_id" example:"7"`
	Customer   string    `json:"customer_name" example:"Alice"`
	ProductID  int64     `json:"product_id" example:"3"`
	Product    string    `json:"product_name" example:"Kayak"`
	Price      string    `json:"price" example:"499.00"`
	CreatedAt  time.Time `json:"created_at" example:"2026-03-01T06:00:00Z"`
}

// PrepareResponse is returned by POST /products/{id}/offers.
type PrepareResponse struct {
	ProductID int64  `json:"product_id"`
	Strategy  string `json:"strategy,omitempty"`
	Offers    []DTO  `json:"offers"`
}

// InterestingResponse is returned by GET /products/{id}/interesting-customers.
type InterestingResponse struct {
	ProductID int64         `json:"product_id"`
	Customers []CustomerDTO `json:"customers"`
}

func toCustomerDTO(c entity.Customer) CustomerDTO {
	return CustomerDTO{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Credit:  c.Credit.StringFixed(2),
		Segment: c.Segment,
	}
}

func toDTO(o *entity.Offer) DTO {
	return DTO{
		ID:         o.ID,
		CustomerID: o.Customer.ID,
		Customer:   o.Customer.Name,
		ProductID:  o.Product.ID,
		Product:    o.Product.Name,
		Price:      o.Product.Price.StringFixed(2),
		CreatedAt:  o.CreatedAt,
	}
}

func toPrepareResponse(res *analysis.PrepareResult) PrepareResponse {
	out := PrepareResponse{
		ProductID: res.ProductID,
		Strategy:  res.Strategy,
		Offers:    make([]DTO, 0, len(res.Offers)),
	}
	for _, o := range res.Offers {
		out.Offers = append(out.Offers, toDTO(o))
	}
	return out
}
