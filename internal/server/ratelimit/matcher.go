package ratelimit

import (
	"strings"
)

// healthPath is never rate limited.
const healthPath = "/health"

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// An exact match wins; otherwise the longest configured prefix ending in "/"
// applies (e.g., "/api/scholar/" matches "/api/scholar/profiles").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == healthPath && (method == "GET" || method == "HEAD") {
		return &EndpointConfig{Path: healthPath, Method: method}
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	var best *EndpointConfig
	for i := range configs {
		config := &configs[i]
		if config.Method != method || !strings.HasSuffix(config.Path, "/") {
			continue
		}
		if strings.HasPrefix(path, config.Path) && (best == nil || len(config.Path) > len(best.Path)) {
			best = config
		}
	}

	return best
}
