package offer

import (
	"net/http"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/handler/http/pathutil"
	"customer-offers/internal/handler/http/respond"
	"customer-offers/internal/repository"
)

type InterestingHandler struct {
	Finder   Finder
	Products ProductGetter
}

// ServeHTTP previews which customers the strategy chain selects for a
// product. Nothing is persisted or announced.
func (h InterestingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	product, err := lookupProduct(r, h.Products, id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	customers, err := h.Finder.FindInterestingCustomers(r.Context(), product)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	out := InterestingResponse{ProductID: product.ID, Customers: make([]CustomerDTO, 0, len(customers))}
	for _, c := range customers {
		out.Customers = append(out.Customers, toCustomerDTO(c))
	}
	respond.JSON(w, http.StatusOK, out)
}

// lookupProduct treats missing and inactive products alike.
func lookupProduct(r *http.Request, products ProductGetter, id int64) (*entity.Product, error) {
	product, err := products.Get(r.Context(), id)
	if err != nil {
		return nil, &repository.LookupError{Kind: "product", ID: id, Err: err}
	}
	if product == nil || !product.Active {
		return nil, &repository.LookupError{Kind: "product", ID: id, Err: entity.ErrNotFound}
	}
	return product, nil
}
