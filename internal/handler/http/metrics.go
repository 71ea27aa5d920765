package http

import (
	"net/http"
	"strconv"
	"time"

	"customer-offers/internal/handler/http/pathutil"
	"customer-offers/internal/handler/http/responsewriter"
	"customer-offers/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware records the http_* metrics. It must wrap the ServeMux
// directly so that the matched route pattern is visible after the call.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.ActiveConnections.Inc()
		defer metrics.ActiveConnections.Dec()

		wrapped := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(wrapped, r)

		metrics.RecordHTTPRequest(
			r.Method,
			pathutil.RouteLabel(r),
			strconv.Itoa(wrapped.StatusCode()),
			time.Since(start),
			int(r.ContentLength),
			wrapped.BytesWritten(),
		)
	})
}

// MetricsHandler serves the Prometheus default registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
