package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"customer-offers/internal/usecase/notify"
)

// ChannelHealthSource reports per-channel circuit breaker state.
// *notify.Service satisfies it.
type ChannelHealthSource interface {
	GetChannelHealth() []notify.ChannelHealthStatus
}

// HealthServer serves the worker's probes:
//   - GET /health: liveness, always 200
//   - GET /health/ready: 200 once SetReady(true) was called, 503 before
//   - GET /health/channels: 200 unless an enabled channel has its breaker open
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	isReady  *atomic.Bool
	channels ChannelHealthSource
	server   *http.Server
}

type healthResponse struct {
	Status string `json:"status"`
}

type channelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// NewHealthServer creates a health server listening on addr. channels may
// be nil, in which case /health/channels answers 503.
func NewHealthServer(addr string, logger *slog.Logger, channels ChannelHealthSource) *HealthServer {
	return &HealthServer{
		addr:     addr,
		logger:   logger,
		isReady:  &atomic.Bool{},
		channels: channels,
	}
}

// Handler returns the probe routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	mux.HandleFunc("GET /health/channels", h.handleChannels)
	return mux
}

// Start serves the probes until ctx is canceled.
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       time.Minute,
	}
	return Serve(ctx, h.server, h.logger.With(slog.String("server", "health")))
}

// SetReady flips the readiness probe.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	if h.isReady.Load() {
		h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
}

func (h *HealthServer) handleChannels(w http.ResponseWriter, _ *http.Request) {
	if h.channels == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "notification service not initialized",
		})
		return
	}

	statuses := h.channels.GetChannelHealth()
	healthy := true
	for _, s := range statuses {
		if s.Enabled && s.CircuitBreakerOpen {
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, channelHealthResponse{Healthy: healthy, Channels: statuses})
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
