package offer

import (
	"log/slog"
	"net/http"

	"customer-offers/internal/handler/http/pathutil"
	"customer-offers/internal/handler/http/respond"
	"customer-offers/internal/observability/logging"
)

type PrepareHandler struct{ Svc Preparer }

// ServeHTTP prepares, persists and announces offers for a product. It
// answers 201 with the offers, 404 for an unknown or inactive product and
// 504 once the request deadline has passed.
func (h PrepareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Svc.PrepareOfferForProduct(r.Context(), id)
	if err != nil {
		if res != nil {
			// Offers already sent stay sent; the caller only sees the error.
			logging.FromContext(r.Context()).Warn("offer preparation stopped early",
				slog.Int64("product_id", id),
				slog.Int("offers_completed", len(res.Offers)),
				slog.Any("error", err))
		}
		respond.SafeError(w, statusFor(err), err)
		return
	}

	respond.JSON(w, http.StatusCreated, toPrepareResponse(res))
}
