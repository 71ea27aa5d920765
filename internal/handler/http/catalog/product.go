package catalog

import (
	"errors"
	"net/http"
	"strings"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/handler/http/pathutil"
	"customer-offers/internal/handler/http/respond"
	"customer-offers/internal/repository"
)

type CreateProductHandler struct{ Repo repository.ProductRepository }

func (h CreateProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	p := entity.Product{
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		Active:   req.Active == nil || *req.Active,
	}
	if err := p.Validate(); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.Repo.Create(r.Context(), &p); err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toProductDTO(&p))
}

type GetProductHandler struct{ Repo repository.ProductRepository }

func (h GetProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	p, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if p == nil {
		respond.Error(w, http.StatusNotFound, errors.New("product not found"))
		return
	}
	respond.JSON(w, http.StatusOK, toProductDTO(p))
}
