package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-optimizer/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := config.EnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	defaultLimit := config.EnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000)
	defaultWindow := config.EnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	cleanupInterval := config.EnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)
	idleTimeout := config.EnvDuration("RATE_LIMIT_IDLE_TIMEOUT", time.Hour)

	whitelist := parseIPList(config.EnvString("RATE_LIMIT_WHITELIST", ""))
	blacklist := parseIPList(config.EnvString("RATE_LIMIT_BLACKLIST", ""))

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: cleanupInterval,
		IdleTimeout:     idleTimeout,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: Model generation (strictest limits)
		{Path: "/api/optimize-resume-stream", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},
		{Path: "/api/optimize-resume", Method: "POST", Limit: 10, Window: time.Hour, Burst: 3},

		// Tier 2: Document parsing and paid search proxies (moderate limits)
		{Path: "/api/parser", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/api/scholar/", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/scopus/", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 3: Everything else - handled by default limit
		// Tier 4: Health check (unlimited) - handled by special case in matcher
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}

