// Package mcp is the Model Context Protocol driving adapter. It exposes
// the web-search tools over stdio or streamable HTTP and guards the
// HTTP transport with trusted-origin and API-key middleware.
package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driving"
)

// Version is the MCP server version.
const Version = "0.1.0"

// MCPPath is where the streamable HTTP transport is mounted.
const MCPPath = "/mcp"

// Ports holds the driving-port implementations the server exposes.
type Ports struct {
	Search driving.SearchService
}

// Validate checks that required ports are present.
func (p *Ports) Validate() error {
	if p == nil || p.Search == nil {
		return fmt.Errorf("search service is required")
	}
	return nil
}

// Server is the MCP server for web search.
type Server struct {
	ports   *Ports
	server  *mcp.Server
	origins *OriginChecker
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "web-search",
		Version: Version,
	}

	s := &Server{
		ports:   ports,
		server:  mcp.NewServer(impl, nil),
		origins: NewOriginChecker(nil),
	}

	s.registerTools()

	return s, nil
}

// SetTrustedOrigins replaces the Origin-header allowlist for the HTTP
// transport. Safe to call while serving; config reloads use this.
func (s *Server) SetTrustedOrigins(origins []string) {
	s.origins.SetTrusted(origins)
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for the MCP endpoint,
// wrapped in the origin check and API-key extraction middleware.
// The transport is stateless: every POST is independent.
func (s *Server) Handler() http.Handler {
	h := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{Stateless: true})

	return s.origins.Middleware(ExtractAPIKey(h))
}

// RunHTTP starts the MCP server over HTTP on the specified address,
// mounting the MCP endpoint at /mcp and, when registerHandler is
// non-nil, the registration endpoint at /register.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string, registerHandler http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle(MCPPath, s.Handler())
	if registerHandler != nil {
		mux.Handle("POST /register", registerHandler)
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
