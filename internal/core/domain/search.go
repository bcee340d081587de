package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SearchDepth controls how thoroughly the provider searches.
type SearchDepth string

const (
	// DepthBasic is the fast, inexpensive search mode.
	DepthBasic SearchDepth = "basic"
	// DepthAdvanced is the slower, more thorough search mode.
	DepthAdvanced SearchDepth = "advanced"
)

// Topic selects the provider's search vertical.
type Topic string

const (
	// TopicGeneral is an unrestricted web search.
	TopicGeneral Topic = "general"
	// TopicNews restricts results to recent news coverage.
	TopicNews Topic = "news"
)

// Search parameter bounds. MaxResults mirrors the provider's accepted
// range (exclusive upper bound); Days bounds news recency.
const (
	DefaultMaxResults = 5
	MaxResultsLimit   = 20
	DefaultNewsDays   = 7
	MaxDays           = 365
)

// SearchQuery configures one search against the external provider.
type SearchQuery struct {
	// Query is the search text. Must not be empty.
	Query string

	// Topic selects the search vertical. Defaults to TopicGeneral.
	Topic Topic

	// MaxResults bounds the result list length. Defaults to
	// DefaultMaxResults; must stay below MaxResultsLimit.
	MaxResults int

	// SearchDepth is the provider search mode. Defaults to DepthBasic.
	SearchDepth SearchDepth

	// IncludeDomains restricts results to the listed domains.
	IncludeDomains DomainList

	// ExcludeDomains removes the listed domains from results.
	ExcludeDomains DomainList

	// Days bounds result recency for news searches. Nil means the
	// provider default; news queries get DefaultNewsDays when unset.
	Days *int
}

// SearchResult is a single hit returned by the provider.
type SearchResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	Content       string  `json:"content"`
	Score         float64 `json:"score,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
}

// SearchResponse is the provider's answer to one SearchQuery.
type SearchResponse struct {
	// Answer is the provider's synthesized answer, when available.
	Answer string `json:"answer,omitempty"`

	// Results is the bounded hit list.
	Results []SearchResult `json:"results"`
}

// WithDefaults returns a copy of the query with unset fields filled in.
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.Topic == "" {
		q.Topic = TopicGeneral
	}
	if q.MaxResults == 0 {
		q.MaxResults = DefaultMaxResults
	}
	if q.SearchDepth == "" {
		q.SearchDepth = DepthBasic
	}
	if q.Topic == TopicNews && q.Days == nil {
		days := DefaultNewsDays
		q.Days = &days
	}
	return q
}

// Validate checks the query constraints. It does not apply defaults;
// callers normalise with WithDefaults first.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Query) == "" {
		return fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}
	if q.Topic != TopicGeneral && q.Topic != TopicNews {
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidInput, q.Topic)
	}
	if q.MaxResults <= 0 || q.MaxResults >= MaxResultsLimit {
		return fmt.Errorf("%w: max_results must be between 1 and %d, got %d",
			ErrInvalidInput, MaxResultsLimit-1, q.MaxResults)
	}
	if q.SearchDepth != DepthBasic && q.SearchDepth != DepthAdvanced {
		return fmt.Errorf("%w: search_depth must be %q or %q, got %q",
			ErrInvalidInput, DepthBasic, DepthAdvanced, q.SearchDepth)
	}
	if q.Days != nil && (*q.Days <= 0 || *q.Days > MaxDays) {
		return fmt.Errorf("%w: days must be between 1 and %d, got %d",
			ErrInvalidInput, MaxDays, *q.Days)
	}
	return nil
}

// DomainList is a list of domain names that tolerates the loose encodings
// MCP clients send: a JSON array, a JSON-encoded array inside a string,
// a comma-separated string, or a single bare domain.
type DomainList []string

// UnmarshalJSON accepts either a JSON array of strings or a string in
// any of the forms ParseDomainList understands.
func (d *DomainList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*d = trimDomains(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = ParseDomainList(s)
		return nil
	}

	if string(data) == "null" {
		*d = nil
		return nil
	}
	return fmt.Errorf("domain list must be an array of strings or a string, got %s", data)
}

// ParseDomainList parses a domain list from a free-form string.
// Accepts a JSON array ("[\"a.com\",\"b.org\"]"), a quoted single value,
// a comma-separated list ("a.com, b.org"), or one bare domain.
// Blank entries are dropped; a blank input yields nil.
func ParseDomainList(s string) DomainList {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// JSON first: array or single quoted value.
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err == nil {
		return trimDomains(list)
	}
	var single string
	if err := json.Unmarshal([]byte(s), &single); err == nil {
		if single = strings.TrimSpace(single); single != "" {
			return DomainList{single}
		}
		return nil
	}

	if strings.Contains(s, ",") {
		return trimDomains(strings.Split(s, ","))
	}
	return DomainList{s}
}

func trimDomains(in []string) DomainList {
	var out DomainList
	for _, d := range in {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// FormatResults renders results as the numbered text block the original
// web-search tool emits. Hits missing a URL or content are skipped.
func FormatResults(results []SearchResult) string {
	var b strings.Builder
	n := 1
	for _, r := range results {
		if r.URL == "" || r.Content == "" {
			continue
		}
		fmt.Fprintf(&b, "----------------- Result: %d -----------------\n", n)
		fmt.Fprintf(&b, "Search URL: %s\nSearch Content: %s\n\n", r.URL, r.Content)
		n++
	}
	return b.String()
}
