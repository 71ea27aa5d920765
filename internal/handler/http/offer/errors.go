package offer

import (
	"context"
	"errors"
	"net/http"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/handler/http/pathutil"
)

// statusFor maps workflow errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pathutil.ErrInvalidID), errors.Is(err, entity.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var errProductNotFound = errors.New("product not found")
