package driven

import (
	"context"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
)

// SearchProvider performs web searches against an external API.
// Implementations receive the API key per call because the serving
// process forwards each client's own key rather than holding one.
type SearchProvider interface {
	// Search executes one query and returns the provider's response.
	// Failures wrap domain.ErrProvider; rejected keys additionally wrap
	// domain.ErrAuthInvalid and usage limits domain.ErrRateLimited.
	Search(ctx context.Context, apiKey string, query domain.SearchQuery) (*domain.SearchResponse, error)
}
