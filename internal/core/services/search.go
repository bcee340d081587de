package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService forwards validated queries to the external search
// provider. It holds no mutable state, so concurrent invocations are
// independent.
type SearchService struct {
	provider driven.SearchProvider
}

// NewSearchService creates a new search service.
func NewSearchService(provider driven.SearchProvider) *SearchService {
	return &SearchService{provider: provider}
}

// Search validates the query, applies defaults, delegates to the
// provider, and truncates the result list to MaxResults. Constraint
// violations are rejected before any provider call is made.
func (s *SearchService) Search(ctx context.Context, apiKey string, query domain.SearchQuery) (*domain.SearchResponse, error) {
	query = query.WithDefaults()
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no provider API key supplied", domain.ErrAuthRequired)
	}
	if s.provider == nil {
		return nil, fmt.Errorf("%w: no provider configured", domain.ErrProvider)
	}

	logger.Debug("search: topic=%s depth=%s max_results=%d query=%q",
		query.Topic, query.SearchDepth, query.MaxResults, query.Query)

	resp, err := s.provider.Search(ctx, apiKey, query)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query.Query, err)
	}

	if len(resp.Results) > query.MaxResults {
		resp.Results = resp.Results[:query.MaxResults]
	}
	return resp, nil
}
