package config

import (
	"os"
	"strconv"
	"time"
)

// RateLimitConfig tunes the Redis token bucket in front of /v1.  The
// defaults absorb a lobby board polling every couple of seconds while
// keeping one client from hammering join or reserve: a burst of 30
// requests, refilling one token per second.
type RateLimitConfig struct {
	Enabled        bool          // master switch; the limiter is skipped entirely when false
	Capacity       int           // bucket size, i.e. the largest tolerated burst
	RefillTokens   int           // tokens added back per refill interval
	RefillInterval time.Duration // how often tokens are added
	TTL            time.Duration // idle bucket lifetime in Redis
	KeyStrategy    string        // ip, user, route, or combinations like ip_user_route
	Prefix         string        // Redis key namespace
	Debug          bool          // log every allow/deny decision
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables and clamps them
// to workable values.  The TTL floor of five refill intervals keeps a
// bucket from disappearing between refills of a slow drip.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 30),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}

// Small env readers shared across this package; Load in config.go uses
// them for durations and optional strings as well.

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
