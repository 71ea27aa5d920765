package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/handler/http/requestid"
	"customer-offers/internal/observability/logging"
	"customer-offers/internal/resilience/retry"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RateLimitError is a 429 from the webhook service.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
}

// ClientError is a 4xx other than 429. It is never retried.
type ClientError struct {
	StatusCode int
	Message    string
}

func (e *ClientError) Error() string { return e.Message }

// ServerError is a 5xx.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

const (
	defaultRetryAfter = 5 * time.Second
	maxErrorBody      = 64 << 10
)

// webhookPolicy retries rate limits after the advertised back-off and
// anything else except client errors once, five seconds later.
func webhookPolicy() retry.Policy {
	return retry.Policy{
		Attempts:  2,
		BaseDelay: 5 * time.Second,
		MaxDelay:  time.Minute,
		Retryable: func(err error) bool {
			var clientErr *ClientError
			return !errors.As(err, &clientErr) &&
				!errors.Is(err, context.Canceled) &&
				!errors.Is(err, context.DeadlineExceeded)
		},
	}
}

// webhook posts JSON to one incoming-webhook URL. Discord and Slack differ
// only in payload shape and in where a 429 puts its back-off.
type webhook struct {
	service    string
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
	policy     retry.Policy
	retryAfter func(resp *http.Response, body []byte) time.Duration
}

func newWebhook(service, url string, timeout time.Duration, perSecond float64, burst int) *webhook {
	return &webhook{
		service:    service,
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		policy:     webhookPolicy(),
		retryAfter: retryAfterHeader,
	}
}

// post sends payload once. Non-2xx answers come back as a *retry.StatusError
// wrapping the matching RateLimitError, ClientError or ServerError.
func (w *webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", w.service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post to %s: %w", w.service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	se := &retry.StatusError{Code: code}
	switch {
	case code == http.StatusTooManyRequests:
		se.RetryAfter = w.retryAfter(resp, msg)
		se.Err = &RateLimitError{Message: w.service + " rate limit exceeded", RetryAfter: se.RetryAfter}
	case code >= 400 && code < 500:
		se.Err = &ClientError{StatusCode: code, Message: fmt.Sprintf("%s API client error: %s", w.service, msg)}
	case code >= 500:
		se.Err = &ServerError{StatusCode: code, Message: fmt.Sprintf("%s API server error: %s", w.service, msg)}
	default:
		se.Err = fmt.Errorf("%s: unexpected answer: %s", w.service, msg)
	}
	return se
}

// deliver waits for the rate limiter and posts payload under w.policy.
func (w *webhook) deliver(ctx context.Context, offer *entity.Offer, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", w.service, err)
	}

	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = requestid.WithRequestID(ctx, reqID)
	}
	log := logging.FromContext(ctx).With(
		slog.String("request_id", reqID),
		slog.String("service", w.service),
		slog.Int64("offer_id", offer.ID))
	ctx = logging.WithLogger(ctx, log)

	if err := w.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s rate limiter: %w", w.service, err)
	}

	_, err = retry.Do(ctx, w.policy, w.service+" webhook", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, w.post(ctx, body)
	})
	if err != nil {
		log.Error("offer announcement failed", slog.Any("error", err))
		return err
	}
	log.Info("offer announcement delivered")
	return nil
}

// retryAfterHeader reads Retry-After, defaulting to five seconds.
func retryAfterHeader(resp *http.Response, _ []byte) time.Duration {
	if d := retry.ParseRetryAfter(resp.Header.Get("Retry-After"), time.Now()); d > 0 {
		return d
	}
	return defaultRetryAfter
}

// truncate shortens text to maxLength bytes including suffix.
func truncate(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:max(maxLength-len(suffix), 0)] + suffix
}
