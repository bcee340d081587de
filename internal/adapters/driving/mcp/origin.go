package mcp

import (
	"net/http"
	"strings"
	"sync"

	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// OriginChecker enforces an Origin-header allowlist on the HTTP
// transport. Requests without an Origin header (curl, server-to-server
// clients) are always allowed; the check exists to stop cross-site
// browser traffic from reaching the tools.
type OriginChecker struct {
	mu      sync.RWMutex
	trusted map[string]struct{}
}

// NewOriginChecker creates a checker trusting the given origins.
func NewOriginChecker(origins []string) *OriginChecker {
	c := &OriginChecker{}
	c.SetTrusted(origins)
	return c
}

// SetTrusted replaces the allowlist. Safe for concurrent use with
// in-flight requests; config hot-reloads call this.
func (c *OriginChecker) SetTrusted(origins []string) {
	trusted := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		trusted[normalizeOrigin(o)] = struct{}{}
	}

	c.mu.Lock()
	c.trusted = trusted
	c.mu.Unlock()
}

// Allowed reports whether the given Origin header value passes.
func (c *OriginChecker) Allowed(origin string) bool {
	if origin == "" {
		return true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.trusted[normalizeOrigin(origin)]
	return ok
}

// Middleware rejects requests from untrusted origins with 403.
func (c *OriginChecker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if !c.Allowed(origin) {
			logger.Warn("http: rejected request from untrusted origin %q", origin)
			http.Error(w, "origin not trusted", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func normalizeOrigin(o string) string {
	return strings.TrimRight(strings.TrimSpace(o), "/")
}
