package driving

import (
	"context"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
)

// SearchService provides web search to the protocol transport.
type SearchService interface {
	// Search validates the query, forwards it to the provider, and
	// returns at most query.MaxResults results.
	Search(ctx context.Context, apiKey string, query domain.SearchQuery) (*domain.SearchResponse, error)
}

// RegistrarService establishes trust bindings between local keypairs
// and remote servers.
type RegistrarService interface {
	// Register runs the registration handshake for (serverURL, kid) and
	// persists the resulting record, overwriting any prior record for
	// the same pair.
	Register(ctx context.Context, serverURL, kid, label string) (*domain.RegistrationRecord, error)
}
