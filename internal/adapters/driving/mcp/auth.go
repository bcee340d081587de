package mcp

import (
	"context"
	"net/http"
	"os"
	"strings"
)

// APIKeyHeader carries the caller's own search-provider key. The
// serving process never holds a key of its own for HTTP clients;
// each request brings one.
const APIKeyHeader = "Tavily-API-Key"

// APIKeyEnv is the fallback key source for the stdio transport, where
// there are no per-request headers.
const APIKeyEnv = "TAVILY_API_KEY"

type apiKeyContextKey struct{}

// WithAPIKey stores a provider API key in the context.
func WithAPIKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, apiKeyContextKey{}, key)
}

// APIKeyFromContext returns the provider API key stored in the context,
// or "" when none is present.
func APIKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(apiKeyContextKey{}).(string)
	return key
}

// ExtractAPIKey is HTTP middleware that copies the Tavily-API-Key
// header into the request context, where tool handlers pick it up.
// A missing header is not rejected here; the search service reports
// authentication-required when the key is actually needed.
func ExtractAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" {
			r = r.WithContext(WithAPIKey(r.Context(), key))
		}
		next.ServeHTTP(w, r)
	})
}

// resolveAPIKey picks the per-request key when present, falling back to
// the process environment for stdio sessions.
func resolveAPIKey(ctx context.Context) string {
	if key := APIKeyFromContext(ctx); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(APIKeyEnv))
}
