// Package config reads single environment variables for the binaries.
// A value that does not parse is logged and replaced by the default.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// get returns def for an unset or blank key and for a value parse rejects.
func get[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		slog.Warn("invalid value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.String("default", fmt.Sprint(def)),
			slog.Any("error", err))
		return def
	}
	return v
}

func GetEnvString(key, def string) string {
	return get(key, def, func(s string) (string, error) { return s, nil })
}

func GetEnvInt(key string, def int) int { return get(key, def, strconv.Atoi) }

func GetEnvBool(key string, def bool) bool { return get(key, def, strconv.ParseBool) }

// GetEnvDuration accepts time.ParseDuration syntax such as "30s" or "1h30m".
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return get(key, def, time.ParseDuration)
}

// GetEnvFloat is for ratios and rates; money goes through GetEnvDecimal.
func GetEnvFloat(key string, def float64) float64 {
	return get(key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func GetEnvDecimal(key string, def decimal.Decimal) decimal.Decimal {
	return get(key, def, decimal.NewFromString)
}

// GetEnvStringList splits a comma-separated value, trimming entries and
// dropping blanks. A list with no entries left yields def.
//
//	ANALYSIS_STRATEGIES="claude, rules ,credit" -> [claude rules credit]
func GetEnvStringList(key string, def []string) []string {
	return get(key, def, func(s string) ([]string, error) {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		if len(out) == 0 {
			return nil, errors.New("no entries")
		}
		return out, nil
	})
}
