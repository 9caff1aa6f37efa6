package ratelimit

import "strings"

// unlimitedEndpoints are never rate limited
var unlimitedEndpoints = map[string]bool{
	"GET /health":  true,
	"GET /metrics": true,
}

// MatchEndpoint finds the configuration for a request. An exact path wins over a
// prefix entry (a Path ending in "/"); nil means the default limit applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if unlimitedEndpoints[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
