package config

import "time"

// RateLimitConfig controls the Redis-backed request limiter. The limiter is
// skipped entirely when disabled or when no Redis client is available.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
	Prefix   string
}

// LoadRateLimitConfig resolves the limiter settings from the environment.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:  envBool("RATE_LIMIT_ENABLED", false),
		Requests: envInt("RATE_LIMIT_REQUESTS", 120),
		Window:   envDur("RATE_LIMIT_WINDOW", time.Minute),
		Prefix:   envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Requests < 1 {
		cfg.Requests = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	// The limiter keys windows by whole seconds.
	if cfg.Window < time.Second {
		cfg.Window = time.Second
	}
	return cfg
}
