package ratelimit

import "strings"

// MatchEndpoint finds the most specific endpoint configuration for a
// request. Exact path matches win over prefix matches; among prefix
// matches the longest pattern wins. Health checks are never limited.
func MatchEndpoint(method, path string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" {
		return &EndpointConfig{Path: "/health", Method: method, Limit: -1}
	}

	var best *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if ec.Method != method {
			continue
		}
		if ec.Path == path {
			return ec
		}
		if strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			if best == nil || len(ec.Path) > len(best.Path) {
				best = ec
			}
		}
	}
	return best
}
