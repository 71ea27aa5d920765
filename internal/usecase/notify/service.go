package notify

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/handler/http/requestid"

	"github.com/google/uuid"
)

const (
	defaultTripAfter   = 5
	defaultPauseFor    = 5 * time.Minute
	defaultSlotWait    = 5 * time.Second
	defaultSendTimeout = 30 * time.Second
)

// ChannelHealthStatus reports whether a channel is paused after failures.
type ChannelHealthStatus struct {
	Name               string     `json:"name"`
	Enabled            bool       `json:"enabled"`
	CircuitBreakerOpen bool       `json:"circuit_breaker_open"`
	DisabledUntil      *time.Time `json:"disabled_until,omitempty"`
}

// gate pauses a channel once it fails threshold times in a row.
type gate struct {
	mu       sync.Mutex
	failures int
	until    time.Time
}

// pausedUntil returns the end of the current pause, or the zero time.
func (g *gate) pausedUntil(now time.Time) time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	if now.Before(g.until) {
		return g.until
	}
	return time.Time{}
}

// observe records a send result and reports whether it started a pause.
func (g *gate) observe(err error, now time.Time, threshold int, pause time.Duration) (tripped bool, failures int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		g.failures = 0
		return false, 0
	}
	g.failures++
	if g.failures >= threshold {
		g.until = now.Add(pause)
		return true, g.failures
	}
	return false, g.failures
}

// Service fans an offer announcement out to every enabled channel.
//
// Send only schedules the deliveries. A failing channel is logged, counted
// and eventually paused, but never surfaces as an error to the caller, so a
// webhook outage cannot abort offer preparation.
type Service struct {
	channels []Channel
	gates    map[string]*gate
	slots    chan struct{}
	wg       sync.WaitGroup

	// mu orders wg.Add in Send against closed in Shutdown.
	mu      sync.Mutex
	closed  bool
	stop    context.Context
	stopNow context.CancelFunc

	threshold   int
	openFor     time.Duration
	poolTimeout time.Duration
	sendTimeout time.Duration
}

// NewService allows at most maxConcurrent deliveries in flight.
func NewService(channels []Channel, maxConcurrent int) *Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	stop, stopNow := context.WithCancel(context.Background())
	s := &Service{
		channels:    channels,
		gates:       make(map[string]*gate, len(channels)),
		slots:       make(chan struct{}, maxConcurrent),
		stop:        stop,
		stopNow:     stopNow,
		threshold:   defaultTripAfter,
		openFor:     defaultPauseFor,
		poolTimeout: defaultSlotWait,
		sendTimeout: defaultSendTimeout,
	}
	enabled := 0
	for _, ch := range channels {
		s.gates[ch.Name()] = &gate{}
		if ch.IsEnabled() {
			enabled++
		}
	}
	channelsEnabled.Set(float64(enabled))
	return s
}

// Send schedules offer on every enabled channel. Only a nil offer is an
// error; after Shutdown the announcement is dropped and counted.
func (s *Service) Send(ctx context.Context, offer *entity.Offer) error {
	if offer == nil {
		return ErrInvalidOffer
	}

	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	log := slog.With(slog.String("request_id", reqID), slog.Int64("offer_id", offer.ID))

	s.mu.Lock()
	stopped := s.closed
	scheduled := 0
	for _, ch := range s.channels {
		if !ch.IsEnabled() {
			continue
		}
		if stopped {
			recordOutcome(ch.Name(), outcomeShutdown)
			continue
		}
		scheduled++
		s.wg.Add(1)
		go s.deliver(log.With(slog.String("channel", ch.Name())), reqID, ch, offer)
	}
	s.mu.Unlock()

	switch {
	case stopped:
		log.Warn("notification service stopped, offer not announced")
	case scheduled == 0:
		log.Debug("no announcement channels enabled")
	default:
		log.Info("announcing offer",
			slog.Int64("customer_id", offer.Customer.ID),
			slog.Int64("product_id", offer.Product.ID),
			slog.Int("channels", scheduled))
	}
	return nil
}

func (s *Service) deliver(log *slog.Logger, reqID string, ch Channel, offer *entity.Offer) {
	defer s.wg.Done()
	announcementsInFlight.Inc()
	defer announcementsInFlight.Dec()
	defer func() {
		if r := recover(); r != nil {
			log.Error("announcement channel panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	wait := time.NewTimer(s.poolTimeout)
	select {
	case s.slots <- struct{}{}:
		wait.Stop()
		defer func() { <-s.slots }()
	case <-wait.C:
		log.Warn("announcement dropped, no free delivery slot")
		recordOutcome(ch.Name(), outcomePoolFull)
		return
	}

	g := s.gates[ch.Name()]
	if until := g.pausedUntil(time.Now()); !until.IsZero() {
		log.Warn("announcement dropped, channel paused", slog.Time("paused_until", until))
		recordOutcome(ch.Name(), outcomeChannelOpen)
		return
	}

	ctx, cancel := context.WithTimeout(s.stop, s.sendTimeout)
	defer cancel()
	ctx = requestid.WithRequestID(ctx, reqID)

	start := time.Now()
	err := ch.Send(ctx, offer)
	took := time.Since(start)
	recordDelivery(ch.Name(), err, took)

	if tripped, failures := g.observe(err, time.Now(), s.threshold, s.openFor); tripped {
		channelTripsTotal.WithLabelValues(ch.Name()).Inc()
		log.Error("channel paused after consecutive failures",
			slog.Int("consecutive_failures", failures),
			slog.Duration("pause", s.openFor))
	}
	if err != nil {
		log.Warn("announcement failed", slog.Duration("took", took), slog.Any("error", err))
		return
	}
	log.Info("announcement sent", slog.Duration("took", took))
}

// GetChannelHealth lists every configured channel in order.
func (s *Service) GetChannelHealth() []ChannelHealthStatus {
	now := time.Now()
	out := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		st := ChannelHealthStatus{Name: ch.Name(), Enabled: ch.IsEnabled()}
		if until := s.gates[ch.Name()].pausedUntil(now); !until.IsZero() {
			st.CircuitBreakerOpen = true
			st.DisabledUntil = &until
		}
		out = append(out, st)
	}
	return out
}

// Shutdown cancels in-flight deliveries and waits for them to return, or
// for ctx to expire.
func (s *Service) Shutdown(ctx context.Context) error {
	slog.Info("notification service shutting down")
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.stopNow()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		slog.Info("notification service stopped")
		return nil
	case <-ctx.Done():
		slog.Warn("notification service shutdown timed out", slog.Any("error", ctx.Err()))
		return ctx.Err()
	}
}
