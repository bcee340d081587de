package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
)

// SearchInput is the input schema for both search tools. It mirrors the
// provider's parameters; domain lists tolerate the loose encodings MCP
// clients send (array, JSON string, comma-separated string).
type SearchInput struct {
	Query          string            `json:"query" jsonschema:"the search query"`
	MaxResults     *int              `json:"max_results,omitempty" jsonschema:"maximum number of results to return (default 5, must be below 20)"`
	SearchDepth    string            `json:"search_depth,omitempty" jsonschema:"depth of search - 'basic' or 'advanced'"`
	IncludeDomains domain.DomainList `json:"include_domains,omitempty" jsonschema:"domains to specifically include in the search results (e.g. ['example.com','test.org'] or 'example.com')"`
	ExcludeDomains domain.DomainList `json:"exclude_domains,omitempty" jsonschema:"domains to specifically exclude from the search results"`
	Days           *int              `json:"days,omitempty" jsonschema:"number of days back to search (news only, default 7, max 365)"`
}

// SearchOutput is the output schema for both search tools.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
	Answer  string               `json:"answer,omitempty"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "general_search",
		Description: "Performs a general web search and returns URLs with their content",
	}, s.handleGeneralSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "news_search",
		Description: "Performs a news search bounded to recent days and returns URLs with their content",
	}, s.handleNewsSearch)
}

// handleGeneralSearch handles the general_search tool invocation.
// General searches never carry a recency bound, even if the client
// sends one.
func (s *Server) handleGeneralSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return s.runSearch(ctx, input, domain.TopicGeneral)
}

// handleNewsSearch handles the news_search tool invocation.
func (s *Server) handleNewsSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return s.runSearch(ctx, input, domain.TopicNews)
}

func (s *Server) runSearch(ctx context.Context, input SearchInput, topic domain.Topic) (*mcp.CallToolResult, SearchOutput, error) {
	query := domain.SearchQuery{
		Query:          input.Query,
		Topic:          topic,
		SearchDepth:    domain.SearchDepth(input.SearchDepth),
		IncludeDomains: input.IncludeDomains,
		ExcludeDomains: input.ExcludeDomains,
	}
	// An explicit max_results of zero is a client mistake, not a request
	// for the default; only an absent field gets the default applied.
	if input.MaxResults != nil {
		if *input.MaxResults <= 0 {
			return nil, SearchOutput{}, fmt.Errorf("%w: max_results must be positive, got %d",
				domain.ErrInvalidInput, *input.MaxResults)
		}
		query.MaxResults = *input.MaxResults
	}
	if topic == domain.TopicNews {
		query.Days = input.Days
	}

	resp, err := s.ports.Search.Search(ctx, resolveAPIKey(ctx), query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(resp.Results)),
		Count:   len(resp.Results),
		Answer:  resp.Answer,
	}
	for i := range resp.Results {
		output.Results[i] = SearchResultOutput{
			Title:   resp.Results[i].Title,
			URL:     resp.Results[i].URL,
			Content: resp.Results[i].Content,
			Score:   resp.Results[i].Score,
		}
	}

	result := &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: domain.FormatResults(resp.Results)},
		},
	}
	return result, output, nil
}
