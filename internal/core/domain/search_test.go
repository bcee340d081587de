package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery_WithDefaults(t *testing.T) {
	q := SearchQuery{Query: "golang"}.WithDefaults()

	assert.Equal(t, TopicGeneral, q.Topic)
	assert.Equal(t, DefaultMaxResults, q.MaxResults)
	assert.Equal(t, DepthBasic, q.SearchDepth)
	assert.Nil(t, q.Days, "general queries get no implicit recency bound")
}

func TestSearchQuery_WithDefaults_NewsDays(t *testing.T) {
	q := SearchQuery{Query: "elections", Topic: TopicNews}.WithDefaults()

	require.NotNil(t, q.Days)
	assert.Equal(t, DefaultNewsDays, *q.Days)
}

func TestSearchQuery_WithDefaults_KeepsExplicitValues(t *testing.T) {
	days := 30
	q := SearchQuery{
		Query:       "elections",
		Topic:       TopicNews,
		MaxResults:  12,
		SearchDepth: DepthAdvanced,
		Days:        &days,
	}.WithDefaults()

	assert.Equal(t, 12, q.MaxResults)
	assert.Equal(t, DepthAdvanced, q.SearchDepth)
	assert.Equal(t, 30, *q.Days)
}

func TestSearchQuery_Validate(t *testing.T) {
	days := 7
	badDays := 400
	zeroDays := 0

	tests := []struct {
		name    string
		query   SearchQuery
		wantErr bool
	}{
		{
			name:  "valid basic query",
			query: SearchQuery{Query: "What is the GDP of Madagascar?", Topic: TopicGeneral, MaxResults: 3, SearchDepth: DepthBasic},
		},
		{
			name:  "valid news query with days",
			query: SearchQuery{Query: "headlines", Topic: TopicNews, MaxResults: 5, SearchDepth: DepthAdvanced, Days: &days},
		},
		{
			name:    "empty query",
			query:   SearchQuery{Query: "  ", Topic: TopicGeneral, MaxResults: 5, SearchDepth: DepthBasic},
			wantErr: true,
		},
		{
			name:    "zero max results",
			query:   SearchQuery{Query: "q", Topic: TopicGeneral, MaxResults: 0, SearchDepth: DepthBasic},
			wantErr: true,
		},
		{
			name:    "negative max results",
			query:   SearchQuery{Query: "q", Topic: TopicGeneral, MaxResults: -1, SearchDepth: DepthBasic},
			wantErr: true,
		},
		{
			name:    "max results at limit",
			query:   SearchQuery{Query: "q", Topic: TopicGeneral, MaxResults: MaxResultsLimit, SearchDepth: DepthBasic},
			wantErr: true,
		},
		{
			name:    "unknown search depth",
			query:   SearchQuery{Query: "q", Topic: TopicGeneral, MaxResults: 5, SearchDepth: "deep"},
			wantErr: true,
		},
		{
			name:    "unknown topic",
			query:   SearchQuery{Query: "q", Topic: "sports", MaxResults: 5, SearchDepth: DepthBasic},
			wantErr: true,
		},
		{
			name:    "days out of range",
			query:   SearchQuery{Query: "q", Topic: TopicNews, MaxResults: 5, SearchDepth: DepthBasic, Days: &badDays},
			wantErr: true,
		},
		{
			name:    "zero days",
			query:   SearchQuery{Query: "q", Topic: TopicNews, MaxResults: 5, SearchDepth: DepthBasic, Days: &zeroDays},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDomainList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  DomainList
	}{
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"single domain", "example.com", DomainList{"example.com"}},
		{"comma separated", "example.com, test.org", DomainList{"example.com", "test.org"}},
		{"comma with blanks", "example.com,, ,test.org", DomainList{"example.com", "test.org"}},
		{"json array", `["example.com", "test.org"]`, DomainList{"example.com", "test.org"}},
		{"json single value", `"example.com"`, DomainList{"example.com"}},
		{"json empty array", `[]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDomainList(tt.input))
		})
	}
}

func TestDomainList_UnmarshalJSON(t *testing.T) {
	type payload struct {
		Domains DomainList `json:"domains"`
	}

	tests := []struct {
		name string
		body string
		want DomainList
	}{
		{"array", `{"domains": ["a.com", "b.org"]}`, DomainList{"a.com", "b.org"}},
		{"array with blanks", `{"domains": ["a.com", " "]}`, DomainList{"a.com"}},
		{"comma string", `{"domains": "a.com,b.org"}`, DomainList{"a.com", "b.org"}},
		{"embedded json array", `{"domains": "[\"a.com\"]"}`, DomainList{"a.com"}},
		{"single string", `{"domains": "a.com"}`, DomainList{"a.com"}},
		{"null", `{"domains": null}`, nil},
		{"absent", `{}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			assert.Equal(t, tt.want, p.Domains)
		})
	}
}

func TestDomainList_UnmarshalJSON_RejectsNumbers(t *testing.T) {
	var d DomainList
	err := json.Unmarshal([]byte(`42`), &d)
	assert.Error(t, err)
}

func TestFormatResults(t *testing.T) {
	results := []SearchResult{
		{Title: "First", URL: "https://a.com", Content: "alpha"},
		{Title: "No content", URL: "https://skip.com"},
		{Title: "Second", URL: "https://b.org", Content: "beta"},
	}

	got := FormatResults(results)

	assert.Contains(t, got, "----------------- Result: 1 -----------------")
	assert.Contains(t, got, "Search URL: https://a.com\nSearch Content: alpha")
	assert.Contains(t, got, "----------------- Result: 2 -----------------")
	assert.Contains(t, got, "Search URL: https://b.org\nSearch Content: beta")
	assert.NotContains(t, got, "skip.com", "results without content are dropped")
	assert.NotContains(t, got, "Result: 3")
}

func TestFormatResults_Empty(t *testing.T) {
	assert.Empty(t, FormatResults(nil))
}
