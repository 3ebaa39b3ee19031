package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig sets the limit for a specific endpoint. A Path ending
// in "/" matches by prefix. A negative Limit means unlimited.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds the limiter settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// LoadConfig reads limiter settings from environment variables, falling
// back to sensible defaults.
func LoadConfig() *Config {
	enabled := envBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns per-endpoint limits. Generation is the
// most expensive operation because it may fetch remote pages; writes get
// moderate limits; reads fall through to the default.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/runs/generate", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		{Path: "/athletes", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/athletes/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/athletes/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/crews", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/crews/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/crews/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/crews/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20}, // joins

		{Path: "/runs/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/runs/", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/runs/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
