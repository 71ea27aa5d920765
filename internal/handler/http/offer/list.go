package offer

import (
	"net/http"

	"customer-offers/internal/handler/http/pathutil"
	"customer-offers/internal/handler/http/respond"
)

type ListHandler struct {
	Offers   OfferLister
	Products ProductGetter
}

// ServeHTTP lists the offers stored for a product, oldest first.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	// Offers outlive deactivation, so only a missing product is a 404 here.
	product, err := h.Products.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}
	if product == nil {
		respond.Error(w, http.StatusNotFound, errProductNotFound)
		return
	}

	offers, err := h.Offers.ListByProduct(r.Context(), id)
	if err != nil {
		respond.SafeError(w, statusFor(err), err)
		return
	}

	out := make([]DTO, 0, len(offers))
	for _, o := range offers {
		out = append(out, toDTO(o))
	}
	respond.JSON(w, http.StatusOK, out)
}
