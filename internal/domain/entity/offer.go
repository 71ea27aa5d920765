package entity

import "time"

// Offer binds one customer to one product. It is the unit that is persisted
// and then announced.
//
// ID and CreatedAt are assigned by the store on persist and are not part of
// the offer's value; two offers for the same customer and product are Equal.
type Offer struct {
	ID        int64
	Customer  Customer
	Product   Product
	CreatedAt time.Time
}

// NewOffer creates an unsaved offer for the given customer and product.
func NewOffer(customer Customer, product Product) *Offer {
	return &Offer{
		Customer: customer,
		Product:  product,
	}
}

// Equal reports whether o and other reference the same customer and product.
func (o *Offer) Equal(other *Offer) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.Customer.Equal(other.Customer) && o.Product.Equal(other.Product)
}
