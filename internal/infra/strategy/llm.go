package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/observability/logging"
	"customer-offers/internal/resilience/circuitbreaker"
	"customer-offers/internal/resilience/retry"
	"customer-offers/internal/usecase/analysis"
)

const (
	defaultMaxCandidates = 50
	defaultLLMTimeout    = 60 * time.Second
)

// Completer sends a single prompt to a language model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LLMConfig tunes an LLMStrategy.
type LLMConfig struct {
	// MaxCandidates caps how many active customers are listed in the prompt.
	MaxCandidates int
	// Timeout bounds a whole Analyze call, retries included.
	Timeout time.Duration
	Retry   retry.Policy
	Breaker circuitbreaker.Settings
}

// DefaultLLMConfig returns the configuration used for the named provider.
func DefaultLLMConfig(name string) LLMConfig {
	return LLMConfig{
		MaxCandidates: defaultMaxCandidates,
		Timeout:       defaultLLMTimeout,
		Retry:         retry.LLMPolicy(),
		Breaker:       circuitbreaker.For(name + "-api"),
	}
}

// LLMStrategy asks a language model which of the active customers are
// likely to be interested in the product. The reply must contain a JSON
// array of customer IDs; customers are returned in the order the model
// listed them, unknown IDs are ignored.
type LLMStrategy struct {
	name      string
	completer Completer
	customers CustomerSource
	breaker   *circuitbreaker.Breaker
	config    LLMConfig
}

// NewLLMStrategy creates an LLMStrategy reporting itself under name.
func NewLLMStrategy(name string, completer Completer, customers CustomerSource, config LLMConfig) *LLMStrategy {
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = defaultMaxCandidates
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultLLMTimeout
	}
	return &LLMStrategy{
		name:      name,
		completer: completer,
		customers: customers,
		breaker:   circuitbreaker.New(config.Breaker),
		config:    config,
	}
}

func (s *LLMStrategy) Name() string { return s.name }

func (s *LLMStrategy) Analyze(ctx context.Context, product *entity.Product) ([]entity.Customer, error) {
	if strings.TrimSpace(product.Name) == "" && strings.TrimSpace(product.Category) == "" {
		return nil, analysis.NewCannotInterpret(s.name, product.ID, errors.New("product has neither name nor category"))
	}

	candidates, err := s.customers.ListActive(ctx)
	if err != nil {
		return nil, analysis.NewAnalysisFailed(s.name, product.ID, fmt.Errorf("list customers: %w", err))
	}
	if len(candidates) > s.config.MaxCandidates {
		candidates = candidates[:s.config.MaxCandidates]
	}
	if len(candidates) == 0 {
		return []entity.Customer{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	prompt := buildPrompt(product, candidates)

	reply, err := retry.Do(ctx, s.config.Retry, s.name, func(ctx context.Context) (string, error) {
		out, err := circuitbreaker.Do(s.breaker, func() (string, error) {
			return s.completer.Complete(ctx, prompt)
		})
		if circuitbreaker.Rejected(err) {
			logging.FromContext(ctx).Warn("llm circuit breaker open, request rejected",
				slog.String("strategy", s.name),
				slog.String("state", s.breaker.State().String()))
		}
		return out, err
	})
	if err != nil {
		return nil, analysis.NewAnalysisFailed(s.name, product.ID, err)
	}

	ids, err := parseCustomerIDs(reply)
	if err != nil {
		return nil, analysis.NewAnalysisFailed(s.name, product.ID, err)
	}
	return pickCustomers(candidates, ids), nil
}

func buildPrompt(product *entity.Product, candidates []entity.Customer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You select customers for a product offer.\n")
	fmt.Fprintf(&b, "Product: %s (category: %s, price: %s)\n\n", product.Name, product.Category, product.Price.String())
	b.WriteString("Candidates (id | name | segment | credit):\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "%d | %s | %s | %s\n", c.ID, c.Name, c.Segment, c.Credit.String())
	}
	b.WriteString("\nReply with only a JSON array of the ids of customers likely to be interested, ")
	b.WriteString("most likely first. Reply [] if none are.")
	return b.String()
}

// parseCustomerIDs decodes the first JSON array of integers in a reply.
// Text after the array is ignored.
func parseCustomerIDs(reply string) ([]int64, error) {
	start := strings.Index(reply, "[")
	if start < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnparseableReply, truncate(reply, 80))
	}
	var ids []int64
	if err := json.NewDecoder(strings.NewReader(reply[start:])).Decode(&ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseableReply, err)
	}
	return ids, nil
}

func pickCustomers(candidates []entity.Customer, ids []int64) []entity.Customer {
	byID := make(map[int64]entity.Customer, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	seen := make(map[int64]bool, len(ids))
	selected := make([]entity.Customer, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		selected = append(selected, c)
	}
	return selected
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
