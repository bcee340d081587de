package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateKid(t *testing.T) {
	tests := []struct {
		name    string
		kid     string
		wantErr bool
	}{
		{"simple", "demo-kid-1", false},
		{"dots and underscores", "client_a.prod", false},
		{"single char", "k", false},
		{"empty", "", true},
		{"leading dot", ".hidden", true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"space", "a b", true},
		{"too long", strings.Repeat("a", 200), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKid(tt.kid)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateServerURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"http with port", "http://0.0.0.0:8001", false},
		{"https", "https://tavily-search-mcp.onrender.com", false},
		{"trailing slash", "http://localhost:8001/", false},
		{"relative", "localhost:8001", true},
		{"no host", "http://", true},
		{"wrong scheme", "ftp://example.com", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServerURL(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeriveOrigin(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"keeps port", "http://localhost:8001", "http://localhost:8001/mcp"},
		{"strips path", "https://tavily-search-mcp.onrender.com/api/v1", "https://tavily-search-mcp.onrender.com/mcp"},
		{"strips query", "http://0.0.0.0:8001/?x=1", "http://0.0.0.0:8001/mcp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveOrigin(tt.url)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveOrigin_InvalidURL(t *testing.T) {
	_, err := DeriveOrigin("not a url")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordKey(t *testing.T) {
	assert.Equal(t, "http://localhost:8001|demo-kid-1", RecordKey("http://localhost:8001", "demo-kid-1"))
	assert.Equal(t,
		RecordKey("http://localhost:8001", "demo-kid-1"),
		RecordKey("http://localhost:8001/", "demo-kid-1"),
		"trailing slash does not fork the record key")
	assert.NotEqual(t,
		RecordKey("http://localhost:8001", "demo-kid-1"),
		RecordKey("https://tavily-search-mcp.onrender.com", "demo-kid-1"),
		"same kid against different servers is two records")
}
