package strategy

import (
	"fmt"
	"log/slog"
	"strings"

	"customer-offers/internal/usecase/analysis"
	"customer-offers/pkg/config"

	"github.com/shopspring/decimal"
)

// Config selects and tunes the analysis strategies.
type Config struct {
	// Names lists strategies in fallback order.
	Names           []string
	RulesFile       string
	CreditMargin    decimal.Decimal
	AnthropicAPIKey string
	ClaudeModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
}

// LoadConfig reads strategy settings from the environment.
//
// Environment variables:
//   - ANALYSIS_STRATEGIES: comma-separated fallback order (default: "rules,credit")
//   - RULES_FILE: YAML rules file for the rules strategy (default: built-in rules)
//   - CREDIT_MARGIN: extra fraction of the price a customer's credit must cover (default: 0)
//   - ANTHROPIC_API_KEY, CLAUDE_MODEL: Claude strategy
//   - OPENAI_API_KEY, OPENAI_MODEL: OpenAI strategy
func LoadConfig() Config {
	return Config{
		Names:           config.GetEnvStringList("ANALYSIS_STRATEGIES", []string{NameRules, NameCredit}),
		RulesFile:       config.GetEnvString("RULES_FILE", ""),
		CreditMargin:    config.GetEnvDecimal("CREDIT_MARGIN", decimal.Zero),
		AnthropicAPIKey: config.GetEnvString("ANTHROPIC_API_KEY", ""),
		ClaudeModel:     config.GetEnvString("CLAUDE_MODEL", DefaultClaudeModel),
		OpenAIAPIKey:    config.GetEnvString("OPENAI_API_KEY", ""),
		OpenAIModel:     config.GetEnvString("OPENAI_MODEL", DefaultOpenAIModel),
	}
}

// Build creates the configured strategies in order.
//
// LLM strategies whose API key is missing are skipped with a warning so that
// a deployment without keys still runs the local strategies. Unknown names,
// duplicates and an unreadable rules file are configuration errors. Without a
// rules file the rules strategy uses DefaultRuleSet.
//
// Example:
//
//	strategies, err := strategy.Build(strategy.LoadConfig(), customerRepo)
//	if err != nil {
//	    return err
//	}
//	svc := analysis.NewService(strategies, store, notifier, handler)
func Build(cfg Config, customers CustomerSource) ([]analysis.Strategy, error) {
	strategies := make([]analysis.Strategy, 0, len(cfg.Names))
	seen := make(map[string]bool, len(cfg.Names))

	for _, raw := range cfg.Names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if seen[name] {
			return nil, fmt.Errorf("analysis strategy %q listed twice", name)
		}
		seen[name] = true

		switch name {
		case NameCredit:
			strategies = append(strategies, NewCreditStrategy(customers, cfg.CreditMargin))

		case NameRules:
			rules := DefaultRuleSet()
			if cfg.RulesFile != "" {
				var err error
				if rules, err = LoadRuleSet(cfg.RulesFile); err != nil {
					return nil, fmt.Errorf("rules strategy: %w", err)
				}
			}
			strategies = append(strategies, NewRuleStrategy(customers, rules))

		case NameClaude:
			if cfg.AnthropicAPIKey == "" {
				slog.Warn("ANTHROPIC_API_KEY not set, skipping claude strategy")
				continue
			}
			completer := NewClaudeCompleter(cfg.AnthropicAPIKey, cfg.ClaudeModel)
			strategies = append(strategies, NewLLMStrategy(NameClaude, completer, customers, DefaultLLMConfig(NameClaude)))

		case NameOpenAI:
			if cfg.OpenAIAPIKey == "" {
				slog.Warn("OPENAI_API_KEY not set, skipping openai strategy")
				continue
			}
			completer := NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			strategies = append(strategies, NewLLMStrategy(NameOpenAI, completer, customers, DefaultLLMConfig(NameOpenAI)))

		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
		}
	}

	return strategies, nil
}
