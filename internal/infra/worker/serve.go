package worker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const drainTimeout = 5 * time.Second

// NewMetricsServer exposes the default Prometheus registry on addr.
func NewMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}

// Serve runs srv until ctx is done and then drains it. A clean shutdown
// returns nil; a listener failure is returned as is.
func Serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	logger = logger.With(slog.String("addr", srv.Addr))
	failed := make(chan error, 1)
	go func() {
		logger.Info("listener starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		logger.Error("listener failed", slog.Any("error", err))
		return err
	case <-ctx.Done():
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		logger.Error("listener shutdown incomplete", slog.Any("error", err))
		return err
	}
	logger.Info("listener stopped")
	return nil
}
