package catalog

import (
	"net/http"

	"customer-offers/internal/repository"
)

// Register mounts the catalog endpoints on mux.
func Register(mux *http.ServeMux, customers repository.CustomerRepository, products repository.ProductRepository) {
	mux.Handle("POST /customers", CreateCustomerHandler{Repo: customers})
	mux.Handle("GET /customers/{id}", GetCustomerHandler{Repo: customers})
	mux.Handle("POST /products", CreateProductHandler{Repo: products})
	mux.Handle("GET /products/{id}", GetProductHandler{Repo: products})
}
