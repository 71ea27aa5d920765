// Package circuitbreaker guards calls to flaky dependencies with
// github.com/sony/gobreaker and reports breaker state to Prometheus.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	// stateGauge is 0 closed, 1 half-open, 2 open.
	stateGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejections_total",
			Help: "Calls refused because the breaker was open or saturated in half-open",
		},
		[]string{"name"},
	)
)

// Settings describes when a breaker trips and how it recovers.
type Settings struct {
	Name string
	// HalfOpenProbes is how many calls may pass while half-open.
	HalfOpenProbes uint32
	// Window resets the closed-state counters; zero keeps them forever.
	Window time.Duration
	// Cooldown is the time spent open before probing again.
	Cooldown time.Duration
	// TripRatio is the failure share that opens the breaker once
	// MinSamples calls have been seen in the current window.
	TripRatio  float64
	MinSamples uint32
	// Neutral reports errors that are returned to the caller but do not
	// count against the dependency. Context cancellation is always neutral.
	Neutral func(error) bool
}

// For returns the settings used for remote APIs: trip at 60% failures
// over at least five calls, stay open for a minute.
func For(name string) Settings {
	return Settings{
		Name:           name,
		HalfOpenProbes: 3,
		Window:         30 * time.Second,
		Cooldown:       time.Minute,
		TripRatio:      0.6,
		MinSamples:     5,
	}
}

// Breaker is a named gobreaker instance.
type Breaker struct {
	cb   *gobreaker.CircuitBreaker
	name string
}

// New builds a Breaker and publishes its initial closed state.
func New(s Settings) *Breaker {
	neutral := s.Neutral
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenProbes,
		Interval:    s.Window,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= s.MinSamples &&
				float64(c.TotalFailures)/float64(c.Requests) >= s.TripRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			return neutral != nil && neutral(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			stateGauge.WithLabelValues(name).Set(float64(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	stateGauge.WithLabelValues(s.Name).Set(float64(gobreaker.StateClosed))
	return &Breaker{cb: cb, name: s.Name}
}

// Do runs fn through b. A refused call returns gobreaker.ErrOpenState or
// gobreaker.ErrTooManyRequests without invoking fn.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) { return fn() })
	if err != nil && Rejected(err) {
		rejections.WithLabelValues(b.name).Inc()
	}
	v, _ := out.(T)
	return v, err
}

// Rejected reports whether err came from the breaker rather than the call.
func Rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// Open reports whether calls are currently being refused outright.
func (b *Breaker) Open() bool { return b.cb.State() == gobreaker.StateOpen }
