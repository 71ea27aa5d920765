package http

import (
	"context"
	"net/http"
	"time"
)

// Timeout puts a deadline of d on the request context. Handlers observe it
// through ctx and map context.DeadlineExceeded to 504 themselves, so the
// handler goroutine is the only writer of the response.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
