package http

import (
	"net/url"
	"strings"
)

// originGate holds the normalized allow-list consulted before a websocket
// upgrade and by the CORS layer on the REST routes. A "*" entry admits every
// origin, including absent ones.
type originGate struct {
	allowAll bool
	allowed  map[string]struct{}
}

func newOriginGate(origins []string) *originGate {
	g := &originGate{allowed: make(map[string]struct{})}
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			g.allowAll = true
			continue
		}
		if normalized, ok := normalizeOrigin(trimmed); ok {
			g.allowed[normalized] = struct{}{}
		}
	}
	return g
}

func (g *originGate) allow(origin string) bool {
	if g.allowAll {
		return true
	}
	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	_, ok = g.allowed[normalized]
	return ok
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}
