package strategy

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"customer-offers/internal/domain/entity"
	"customer-offers/internal/usecase/analysis"

	"github.com/diegoholiveira/jsonlogic/v3"
	"gopkg.in/yaml.v3"
)

// RuleSet maps product categories to JSONLogic predicates.
//
// A rules file looks like:
//
//	categories:
//	  outdoor:
//	    and:
//	      - ">=": [{var: customer.credit}, {var: product.price}]
//	      - "==": [{var: customer.segment}, "adventure"]
//	default:
//	  ">=": [{var: customer.credit}, 1000]
//
// Predicates see {"customer": {...}, "product": {...}} with credit and price
// as numbers. Category lookup is case-insensitive.
type RuleSet struct {
	categories map[string][]byte
	fallback   []byte
}

type ruleFile struct {
	Categories map[string]interface{} `yaml:"categories"`
	Default    interface{}            `yaml:"default"`
}

//go:embed default_rules.yaml
var defaultRules []byte

// DefaultRuleSet returns the built-in rules: premium and electronics products
// need credit headroom over the price, everything else needs credit covering it.
func DefaultRuleSet() *RuleSet {
	rs, err := ParseRuleSet(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("built-in rules: %v", err))
	}
	return rs
}

// LoadRuleSet reads and parses a YAML rules file.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRuleSet(data)
}

// ParseRuleSet parses YAML rules and validates every predicate.
func ParseRuleSet(data []byte) (*RuleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	rs := &RuleSet{categories: make(map[string][]byte, len(file.Categories))}
	for category, rule := range file.Categories {
		compiled, err := compileRule(rule)
		if err != nil {
			return nil, fmt.Errorf("rule for category %q: %w", category, err)
		}
		rs.categories[normalizeCategory(category)] = compiled
	}

	if file.Default != nil {
		compiled, err := compileRule(file.Default)
		if err != nil {
			return nil, fmt.Errorf("default rule: %w", err)
		}
		rs.fallback = compiled
	}

	if len(rs.categories) == 0 && rs.fallback == nil {
		return nil, fmt.Errorf("parse rules: no rules defined")
	}
	return rs, nil
}

func compileRule(rule interface{}) ([]byte, error) {
	raw, err := json.Marshal(rule)
	if err != nil {
		return nil, err
	}
	if !jsonlogic.IsValid(bytes.NewReader(raw)) {
		return nil, fmt.Errorf("invalid jsonlogic: %s", raw)
	}
	return raw, nil
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// Lookup returns the predicate for a category, falling back to the default rule.
func (rs *RuleSet) Lookup(category string) ([]byte, bool) {
	if rule, ok := rs.categories[normalizeCategory(category)]; ok {
		return rule, true
	}
	if rs.fallback != nil {
		return rs.fallback, true
	}
	return nil, false
}

// RuleStrategy selects the customers for which the product category's
// predicate evaluates to true.
type RuleStrategy struct {
	customers CustomerSource
	rules     *RuleSet
}

func NewRuleStrategy(customers CustomerSource, rules *RuleSet) *RuleStrategy {
	return &RuleStrategy{customers: customers, rules: rules}
}

func (s *RuleStrategy) Name() string { return NameRules }

func (s *RuleStrategy) Analyze(ctx context.Context, product *entity.Product) ([]entity.Customer, error) {
	rule, ok := s.rules.Lookup(product.Category)
	if !ok {
		return nil, analysis.NewCannotInterpret(NameRules, product.ID,
			fmt.Errorf("%w: %q", ErrNoRule, product.Category))
	}

	all, err := s.customers.ListActive(ctx)
	if err != nil {
		return nil, analysis.NewAnalysisFailed(NameRules, product.ID, fmt.Errorf("list customers: %w", err))
	}

	selected := make([]entity.Customer, 0, len(all))
	for _, c := range all {
		match, err := evaluate(rule, c, product)
		if err != nil {
			return nil, analysis.NewAnalysisFailed(NameRules, product.ID,
				fmt.Errorf("customer %d: %w", c.ID, err))
		}
		if match {
			selected = append(selected, c)
		}
	}
	return selected, nil
}

// ruleData is the document predicates are evaluated against.
type ruleData struct {
	Customer ruleCustomer `json:"customer"`
	Product  ruleProduct  `json:"product"`
}

type ruleCustomer struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Credit  float64 `json:"credit"`
	Segment string  `json:"segment"`
}

type ruleProduct struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

func evaluate(rule []byte, c entity.Customer, p *entity.Product) (bool, error) {
	data, err := json.Marshal(ruleData{
		Customer: ruleCustomer{
			ID:      c.ID,
			Name:    c.Name,
			Email:   c.Email,
			Credit:  c.Credit.InexactFloat64(),
			Segment: c.Segment,
		},
		Product: ruleProduct{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price.InexactFloat64(),
		},
	})
	if err != nil {
		return false, err
	}

	var out bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(rule), bytes.NewReader(data), &out); err != nil {
		return false, err
	}

	var result interface{}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		return false, fmt.Errorf("decode rule result: %w", err)
	}
	match, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %v", ErrNonBooleanRule, result)
	}
	return match, nil
}
