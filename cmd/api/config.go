package main

import (
	"time"

	"customer-offers/pkg/config"
)

// apiConfig holds the HTTP server settings.
//
// Environment variables:
//   - API_PORT (default 8080)
//   - REQUEST_TIMEOUT: deadline per request (default 30s)
//   - MAX_BODY_BYTES (default 1MiB)
//   - RATE_LIMIT_ENABLED (default true)
//   - RATE_LIMIT_RPS: requests per second per client IP (default 10)
//   - RATE_LIMIT_BURST (default 20)
//   - NOTIFY_MAX_CONCURRENT (default 10)
//   - VERSION (default "dev")
type apiConfig struct {
	Port             int
	RequestTimeout   time.Duration
	MaxBodyBytes     int64
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
	NotifyConcurrent int
	Version          string
}

func loadAPIConfig() apiConfig {
	return apiConfig{
		Port:             config.GetEnvInt("API_PORT", 8080),
		RequestTimeout:   config.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxBodyBytes:     int64(config.GetEnvInt("MAX_BODY_BYTES", 1<<20)),
		RateLimitEnabled: config.GetEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:     config.GetEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:   config.GetEnvInt("RATE_LIMIT_BURST", 20),
		NotifyConcurrent: config.GetEnvInt("NOTIFY_MAX_CONCURRENT", 10),
		Version:          config.GetEnvString("VERSION", "dev"),
	}
}
