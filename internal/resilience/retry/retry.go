// Package retry re-runs calls to flaky remote dependencies with capped
// exponential backoff. Only errors that IsRetryable (or a Policy's own
// predicate) accepts are retried.
package retry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"customer-offers/internal/observability/logging"
)

// ErrExhausted is matched by the error Do returns once every attempt failed
// with a retryable error. The last attempt's error is wrapped as well.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy controls how often and how patiently Do retries.
type Policy struct {
	// Attempts counts the first call too. Values below 1 mean 1.
	Attempts int
	// BaseDelay is the wait after the first failure; it doubles per attempt.
	BaseDelay time.Duration
	// MaxDelay caps every wait, including server supplied Retry-After hints.
	MaxDelay time.Duration
	// Jitter adds up to this fraction of the delay at random (0 to 1).
	Jitter float64
	// Retryable overrides IsRetryable when set.
	Retryable func(error) bool
}

// StartupPolicy waits for a dependency that may still be starting, such as
// the database in a compose stack. Every error except context cancellation
// is retried.
func StartupPolicy() Policy {
	return Policy{
		Attempts:  6,
		BaseDelay: time.Second,
		MaxDelay:  10 * time.Second,
		Jitter:    0.1,
		Retryable: func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		},
	}
}

// LLMPolicy is used for language model calls made by analysis strategies.
// Calls are billed, so it gives up after three attempts.
func LLMPolicy() Policy {
	return Policy{
		Attempts:  3,
		BaseDelay: 2 * time.Second,
		MaxDelay:  10 * time.Second,
		Jitter:    0.1,
	}
}

// Do calls fn until it succeeds, fails with an error that is not retryable,
// the attempts run out, or ctx is done. op names the call in logs.
//
// Example:
//
//	reply, err := retry.Do(ctx, retry.LLMPolicy(), "claude", func(ctx context.Context) (string, error) {
//		return completer.Complete(ctx, prompt)
//	})
func Do[T any](ctx context.Context, p Policy, op string, fn func(context.Context) (T, error)) (T, error) {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	attempts := max(p.Attempts, 1)
	logger := logging.FromContext(ctx)

	var zero T
	for attempt := 1; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				logger.Info("call succeeded after retry",
					slog.String("op", op),
					slog.Int("attempt", attempt))
			}
			return v, nil
		}
		if !retryable(err) {
			return zero, err
		}
		if attempt >= attempts {
			return zero, fmt.Errorf("%s: %w after %d attempts: %w", op, ErrExhausted, attempts, err)
		}

		wait := p.delay(attempt, err)
		logger.Warn("call failed, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%s: retry aborted: %w", op, ctx.Err())
		}
	}
}

// delay returns the wait after the given failed attempt (1-based). A
// StatusError's RetryAfter replaces the computed backoff.
func (p Policy) delay(attempt int, err error) time.Duration {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
		return p.clamp(statusErr.RetryAfter)
	}

	d := time.Duration(float64(p.BaseDelay) * math.Pow(2, float64(attempt-1)))
	d = p.clamp(d)
	if p.Jitter > 0 {
		d += time.Duration(rand.Float64() * min(p.Jitter, 1) * float64(d)) // #nosec G404
	}
	return d
}

func (p Policy) clamp(d time.Duration) time.Duration {
	if p.MaxDelay > 0 && (d > p.MaxDelay || d < 0) {
		return p.MaxDelay
	}
	return d
}

// IsRetryable reports whether err looks transient: network timeouts,
// refused or reset connections, truncated responses, and StatusErrors with
// 408, 429 or 5xx. Context cancellation is never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

// StatusError is a remote call that failed with an HTTP status. Err, when
// set, is the client library's own error.
type StatusError struct {
	Code       int
	RetryAfter time.Duration
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("status %d %s", e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	switch {
	case e.Code >= 500 && e.Code < 600:
		return true
	case e.Code == http.StatusTooManyRequests, e.Code == http.StatusRequestTimeout:
		return true
	}
	return false
}

// FromResponse builds a StatusError from resp, reading its Retry-After
// header. resp may be nil.
func FromResponse(code int, resp *http.Response, err error) *StatusError {
	se := &StatusError{Code: code, Err: err}
	if resp != nil {
		se.RetryAfter = ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return se
}

// ParseRetryAfter understands both delay-seconds and HTTP-date values.
// It returns 0 for empty, malformed or past values.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
