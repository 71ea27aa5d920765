package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/handler/http/pathutil"
	"customer-offers/internal/handler/http/respond"
	"customer-offers/internal/repository"
)

type CreateCustomerHandler struct{ Repo repository.CustomerRepository }

func (h CreateCustomerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	c := entity.NewCustomer(0, strings.TrimSpace(req.Name), req.Credit)
	c.Email = strings.TrimSpace(req.Email)
	c.Segment = strings.TrimSpace(req.Segment)
	if err := c.Validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Repo.Create(r.Context(), &c); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toCustomerDTO(&c))
}

type GetCustomerHandler struct{ Repo repository.CustomerRepository }

func (h GetCustomerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	c, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if c == nil {
		respond.Error(w, http.StatusNotFound, errors.New("customer not found"))
		return
	}
	respond.JSON(w, http.StatusOK, toCustomerDTO(c))
}

// decodeJSON rejects unknown fields and trailing data. Errors carry
// "invalid" so SafeError passes them through.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errors.New("request body too large")
		}
		return errors.New("invalid JSON body")
	}
	if dec.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}
