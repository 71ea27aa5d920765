// Package strategy provides the concrete analysis strategies used to pick
// customers for a product offer: a credit threshold, JSONLogic rules per
// product category, and LLM-ranked selection through Claude or OpenAI.
package strategy

import (
	"context"
	"errors"

	"customer-offers/internal/domain/entity"
)

// Strategy names accepted by Build and the ANALYSIS_STRATEGIES setting.
const (
	NameCredit = "credit"
	NameRules  = "rules"
	NameClaude = "claude"
	NameOpenAI = "openai"
)

// Sentinel errors carried inside analysis failures.
var (
	// ErrNoPrice indicates the product has no positive price to compare against.
	ErrNoPrice = errors.New("product has no positive price")

	// ErrNoRule indicates no rule matches the product category.
	ErrNoRule = errors.New("no rule for product category")

	// ErrNonBooleanRule indicates a rule evaluated to something other than true or false.
	ErrNonBooleanRule = errors.New("rule did not evaluate to a boolean")

	// ErrUnparseableReply indicates an LLM reply did not contain a list of customer IDs.
	ErrUnparseableReply = errors.New("could not parse customer ids from model reply")

	// ErrUnknownStrategy indicates a configured strategy name is not registered.
	ErrUnknownStrategy = errors.New("unknown analysis strategy")
)

// CustomerSource lists the customers a strategy may select from.
type CustomerSource interface {
	ListActive(ctx context.Context) ([]entity.Customer, error)
}
