package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/tavily"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driving/mcp"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driving/registry"
	"github.com/custodia-labs/websearch-mcp/internal/core/services"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

var (
	servePort  int
	serveStdio bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP web-search server",
	Long: `Start the Model Context Protocol server exposing the web-search tools.

By default the server listens for streamable HTTP on the configured
host and port (default 0.0.0.0:8001), mounting the MCP endpoint at
/mcp and the client registration endpoint at /register. Tool calls
authenticate to the search provider with the Tavily-API-Key request
header.

Use --stdio to communicate over stdio instead, for MCP hosts that
spawn the server as a subprocess. In stdio mode the provider key comes
from the TAVILY_API_KEY environment variable.

Examples:
  # HTTP mode (default)
  websearch-mcp serve

  # HTTP on an explicit port (overrides PORT env and config)
  websearch-mcp serve --port 9000

  # Stdio mode (for Claude Desktop and similar hosts)
  TAVILY_API_KEY=tvly-... websearch-mcp serve --stdio`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides PORT env and config file)")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "serve over stdio instead of HTTP")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgPath, err := configPath()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := file.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	provider := tavily.NewClient(tavily.WithRateLimit(tavily.RateLimitConfig{
		RequestsPerSecond: cfg.Search.RequestsPerSecond,
		BurstSize:         cfg.Search.Burst,
	}))
	searchService := services.NewSearchService(provider)

	server, err := mcp.NewServer(&mcp.Ports{Search: searchService})
	if err != nil {
		return err
	}
	server.SetTrustedOrigins(cfg.Server.TrustedOrigins)

	if serveStdio {
		logger.Info("serving MCP over stdio")
		return server.Run(cmd.Context())
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening registration store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	registerHandler, err := registry.NewHandler(store.ClientStore())
	if err != nil {
		return err
	}

	// Pick up trusted-origin changes without a restart. Watch blocks in
	// its event loop, so it runs beside the HTTP server.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		if err := file.Watch(cfgPath, stop, func(c *file.Config) {
			server.SetTrustedOrigins(c.Server.TrustedOrigins)
		}); err != nil {
			logger.Warn("config watch unavailable: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.ListenPort(servePort))
	fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s%s\n", addr, mcp.MCPPath)
	return server.RunHTTP(cmd.Context(), addr, registerHandler)
}
