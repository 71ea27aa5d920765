package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Result is the outcome of loading one configuration value.
// Value is always usable: when the environment value fails to parse or
// validate, Value holds the default and FallbackApplied is set.
type Result[T any] struct {
	Value           T
	Warnings        []string
	FallbackApplied bool
}

// load reads envKey, parses it and validates it. An unset or blank
// variable returns the default without a warning.
func load[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) Result[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return Result[T]{Value: defaultValue}
	}

	value, err := parse(raw)
	if err == nil && validator != nil {
		err = validator(value)
	}
	if err != nil {
		return Result[T]{
			Value: defaultValue,
			Warnings: []string{fmt.Sprintf(
				"Invalid %s='%s': %v, falling back to default '%v'",
				envKey, raw, err, defaultValue,
			)},
			FallbackApplied: true,
		}
	}
	return Result[T]{Value: value}
}

// LoadEnvString returns envKey, or defaultValue when unset. No validation.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string and falls back to defaultValue when
// validator rejects it. A nil validator accepts anything.
//
// Example:
//
//	result := LoadEnvWithFallback("CRON_SCHEDULE", "0 6 * * *", ValidateCronSchedule)
//	schedule := result.Value
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) Result[string] {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a Go duration string such as "30s" or "1h30m".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) Result[time.Duration] {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) Result[int] {
	return load(envKey, defaultValue, strconv.Atoi, validator)
}

// LoadEnvDecimal loads an exact decimal such as "0.15" or "250.00".
// Money and ratio settings go through here so they never touch float64.
func LoadEnvDecimal(envKey string, defaultValue decimal.Decimal, validator func(decimal.Decimal) error) Result[decimal.Decimal] {
	return load(envKey, defaultValue, decimal.NewFromString, validator)
}

// LoadEnvBool loads a boolean accepted by strconv.ParseBool.
func LoadEnvBool(envKey string, defaultValue bool) Result[bool] {
	return load(envKey, defaultValue, strconv.ParseBool, nil)
}
