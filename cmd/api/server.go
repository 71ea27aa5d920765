package main

import (
	"log/slog"
	"net/http"

	"customer-offers/internal/app"
	hhttp "customer-offers/internal/handler/http"
	"customer-offers/internal/handler/http/catalog"
	"customer-offers/internal/handler/http/offer"
	"customer-offers/internal/handler/http/requestid"
	"customer-offers/internal/observability/tracing"
	"customer-offers/internal/usecase/analysis"
)

// newHandler builds the routes and the middleware chain. Probes and
// /metrics bypass rate limiting and the request timeout.
func newHandler(cfg apiConfig, logger *slog.Logger, store *app.Store, svc *analysis.Service) http.Handler {
	api := http.NewServeMux()
	offer.Register(api, offer.Deps{
		Preparer: svc,
		Finder:   svc,
		Products: store.Products,
		Offers:   store.Offers,
	})
	catalog.Register(api, store.Customers, store.Products)

	apiChain := []hhttp.Middleware{hhttp.InputLimits(cfg.MaxBodyBytes)}
	if cfg.RateLimitEnabled {
		limiter := hhttp.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		apiChain = append(apiChain, limiter.Limit)
	}
	apiChain = append(apiChain, hhttp.Timeout(cfg.RequestTimeout))

	root := http.NewServeMux()
	root.Handle("GET /health", &hhttp.HealthHandler{DB: store.DB, Version: cfg.Version})
	root.Handle("GET /ready", &hhttp.ReadyHandler{DB: store.DB})
	root.Handle("GET /live", hhttp.LiveHandler{})
	root.Handle("GET /metrics", hhttp.MetricsHandler())
	// MetricsMiddleware wraps the inner mux directly so it sees the matched pattern.
	root.Handle("/", hhttp.Chain(hhttp.MetricsMiddleware(api), apiChain...))

	return hhttp.Chain(root,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
	)
}
