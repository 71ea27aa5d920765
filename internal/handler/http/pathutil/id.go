package pathutil

import (
	"errors"
	"net/http"
	"strconv"
)

// ErrInvalidID is returned for a path ID that is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 ID.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PathID parses the {name} wildcard of the matched ServeMux pattern.
//
// Example:
//
//	// mux.Handle("GET /products/{id}/offers", h)
//	productID, err := pathutil.PathID(r, "id")
func PathID(r *http.Request, name string) (int64, error) {
	return ParseID(r.PathValue(name))
}
