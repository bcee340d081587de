// Package tavily implements the SearchProvider driven port against the
// Tavily search API. The API key is passed per call because the serving
// process forwards each MCP client's own key.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.SearchProvider = (*Client)(nil)

const (
	defaultBaseURL = "https://api.tavily.com"
	defaultTimeout = 30 * time.Second

	// maxBodyBytes bounds how much of a provider response is read.
	maxBodyBytes = 10 << 20
)

// Client calls the Tavily search API.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *RateLimiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Useful for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpc = h
	}
}

// WithRateLimit sets the outbound rate limit.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(c *Client) {
		c.limiter = NewRateLimiter(cfg)
	}
}

// NewClient creates a Tavily client with default base URL, timeout,
// and rate limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		limiter: NewRateLimiter(DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchRequest is the Tavily wire format for a search call.
type searchRequest struct {
	Query             string   `json:"query"`
	Topic             string   `json:"topic"`
	SearchDepth       string   `json:"search_depth"`
	MaxResults        int      `json:"max_results"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
	Days              *int     `json:"days,omitempty"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeRawContent bool     `json:"include_raw_content"`
}

// searchResponse is the Tavily wire format for search results.
type searchResponse struct {
	Answer  string `json:"answer"`
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date"`
	} `json:"results"`
}

// Search executes one query against the Tavily API.
func (c *Client) Search(ctx context.Context, apiKey string, query domain.SearchQuery) (*domain.SearchResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for rate limit: %v", domain.ErrProvider, err)
	}

	body, err := json.Marshal(searchRequest{
		Query:             query.Query,
		Topic:             string(query.Topic),
		SearchDepth:       string(query.SearchDepth),
		MaxResults:        query.MaxResults,
		IncludeDomains:    query.IncludeDomains,
		ExcludeDomains:    query.ExcludeDomains,
		Days:              query.Days,
		IncludeAnswer:     true,
		IncludeRawContent: false,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding search request: %v", domain.ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: building search request: %v", domain.ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling search API: %v", domain.ErrProvider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading search response: %v", domain.ErrProvider, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %w: search API returned %s", domain.ErrProvider, domain.ErrAuthInvalid, resp.Status)

	case resp.StatusCode == http.StatusTooManyRequests:
		c.limiter.RecordRateLimitError(parseRetryAfter(resp.Header.Get("Retry-After")))
		return nil, fmt.Errorf("%w: %w: search API returned %s", domain.ErrProvider, domain.ErrRateLimited, resp.Status)

	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: search API returned %s", domain.ErrProvider, resp.Status)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding search response: %v", domain.ErrProvider, err)
	}

	out := &domain.SearchResponse{
		Answer:  parsed.Answer,
		Results: make([]domain.SearchResult, len(parsed.Results)),
	}
	for i, r := range parsed.Results {
		out.Results[i] = domain.SearchResult{
			Title:         r.Title,
			URL:           r.URL,
			Content:       r.Content,
			Score:         r.Score,
			PublishedDate: r.PublishedDate,
		}
	}

	logger.Debug("tavily: %d results for %q", len(out.Results), query.Query)
	return out, nil
}

// parseRetryAfter reads a Retry-After header in seconds form.
// Returns 0 when absent or unparseable; the limiter applies its default.
func parseRetryAfter(v string) int {
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
