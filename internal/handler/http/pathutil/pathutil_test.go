package pathutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "0", "-3", "abc", "1.5", "99999999999999999999"} {
		_, err := ParseID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var gotErr error
	mux.HandleFunc("GET /products/{id}/offers", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathID(r, "id")
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/17/offers", nil))
	assert.NoError(t, gotErr)
	assert.Equal(t, int64(17), got)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/x/offers", nil))
	assert.ErrorIs(t, gotErr, ErrInvalidID)
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/products/42/offers":                "/products/{id}/offers",
		"/products/42/offers/":               "/products/{id}/offers",
		"/products/42/interesting-customers": "/products/{id}/interesting-customers",
		"/products/42?verbose=1":             "/products/{id}",
		"/customers/9":                       "/customers/{id}",
		"/health":                            "/health",
		"/":                                  "/",
		"/products/abc":                      "/products/abc",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}

func TestRouteLabel(t *testing.T) {
	mux := http.NewServeMux()
	var label string
	mux.HandleFunc("POST /products/{id}/offers", func(w http.ResponseWriter, r *http.Request) {
		label = RouteLabel(r)
	})
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/products/5/offers", nil))
	assert.Equal(t, "/products/{id}/offers", label)

	assert.Equal(t, "/products/{id}", RouteLabel(httptest.NewRequest(http.MethodGet, "/products/5", nil)))
	assert.Equal(t, "/health", RouteLabel(httptest.NewRequest(http.MethodGet, "/health", nil)))
	assert.Equal(t, "unmatched", RouteLabel(httptest.NewRequest(http.MethodGet, "/wp-admin/setup.php", nil)))
}
