package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
)

// --- Mock implementations ---

// mockProvider implements driven.SearchProvider for testing.
type mockProvider struct {
	resp      *domain.SearchResponse
	searchErr error
	calls     int
	lastKey   string
	lastQuery domain.SearchQuery
}

func (m *mockProvider) Search(_ context.Context, apiKey string, query domain.SearchQuery) (*domain.SearchResponse, error) {
	m.calls++
	m.lastKey = apiKey
	m.lastQuery = query
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.resp, nil
}

func fiveResults() *domain.SearchResponse {
	return &domain.SearchResponse{
		Answer: "an answer",
		Results: []domain.SearchResult{
			{Title: "r1", URL: "https://a.com/1", Content: "c1"},
			{Title: "r2", URL: "https://a.com/2", Content: "c2"},
			{Title: "r3", URL: "https://a.com/3", Content: "c3"},
			{Title: "r4", URL: "https://a.com/4", Content: "c4"},
			{Title: "r5", URL: "https://a.com/5", Content: "c5"},
		},
	}
}

func TestSearchService_TruncatesToMaxResults(t *testing.T) {
	provider := &mockProvider{resp: fiveResults()}
	svc := NewSearchService(provider)

	resp, err := svc.Search(context.Background(), "tvly-key", domain.SearchQuery{
		Query:      "What is the GDP of Madagascar?",
		MaxResults: 3,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.NotEmpty(t, r.URL)
		assert.NotEmpty(t, r.Content)
	}
}

func TestSearchService_AppliesDefaults(t *testing.T) {
	provider := &mockProvider{resp: fiveResults()}
	svc := NewSearchService(provider)

	_, err := svc.Search(context.Background(), "tvly-key", domain.SearchQuery{Query: "golang"})

	require.NoError(t, err)
	assert.Equal(t, domain.TopicGeneral, provider.lastQuery.Topic)
	assert.Equal(t, domain.DefaultMaxResults, provider.lastQuery.MaxResults)
	assert.Equal(t, domain.DepthBasic, provider.lastQuery.SearchDepth)
	assert.Equal(t, "tvly-key", provider.lastKey)
}

func TestSearchService_NewsGetsDefaultDays(t *testing.T) {
	provider := &mockProvider{resp: fiveResults()}
	svc := NewSearchService(provider)

	_, err := svc.Search(context.Background(), "tvly-key", domain.SearchQuery{
		Query: "headlines",
		Topic: domain.TopicNews,
	})

	require.NoError(t, err)
	require.NotNil(t, provider.lastQuery.Days)
	assert.Equal(t, domain.DefaultNewsDays, *provider.lastQuery.Days)
}

func TestSearchService_RejectsInvalidInputBeforeProviderCall(t *testing.T) {
	tests := []struct {
		name  string
		query domain.SearchQuery
	}{
		{"empty query", domain.SearchQuery{Query: ""}},
		{"negative max results", domain.SearchQuery{Query: "q", MaxResults: -2}},
		{"max results too large", domain.SearchQuery{Query: "q", MaxResults: 50}},
		{"bad depth", domain.SearchQuery{Query: "q", SearchDepth: "exhaustive"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{resp: fiveResults()}
			svc := NewSearchService(provider)

			_, err := svc.Search(context.Background(), "tvly-key", tt.query)

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Zero(t, provider.calls, "provider must not be called on invalid input")
		})
	}
}

func TestSearchService_MissingAPIKey(t *testing.T) {
	provider := &mockProvider{resp: fiveResults()}
	svc := NewSearchService(provider)

	_, err := svc.Search(context.Background(), "", domain.SearchQuery{Query: "q"})

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Zero(t, provider.calls)
}

func TestSearchService_ProviderErrorSurfaced(t *testing.T) {
	provider := &mockProvider{searchErr: domain.ErrProvider}
	svc := NewSearchService(provider)

	_, err := svc.Search(context.Background(), "tvly-key", domain.SearchQuery{Query: "q"})

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestSearchService_NilProvider(t *testing.T) {
	svc := NewSearchService(nil)

	_, err := svc.Search(context.Background(), "tvly-key", domain.SearchQuery{Query: "q"})

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestSearchService_FewerResultsThanLimit(t *testing.T) {
	provider := &mockProvider{resp: &domain.SearchResponse{
		Results: []domain.SearchResult{{Title: "only", URL: "https://a.com", Content: "c"}},
	}}
	svc := NewSearchService(provider)

	resp, err := svc.Search(context.Background(), "tvly-key", domain.SearchQuery{Query: "q", MaxResults: 10})

	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestSearchService_WrapsProviderErrorWithQuery(t *testing.T) {
	provider := &mockProvider{searchErr: errors.New("connection reset")}
	svc := NewSearchService(provider)

	_, err := svc.Search(context.Background(), "tvly-key", domain.SearchQuery{Query: "rare query"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rare query")
}
