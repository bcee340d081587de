// Package cli wires the cobra command tree for the websearch-mcp
// binary: serving the MCP search tools and registering this client
// with remote registration endpoints.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "websearch-mcp",
	Short: "Web search tools over the Model Context Protocol",
	Long: `websearch-mcp exposes Tavily web search as MCP tools and manages
key-based client registration with remote MCP servers.

Run 'websearch-mcp serve' to start the tool server, or
'websearch-mcp register' to register this client with a server.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default ~/.websearch-mcp/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// configPath resolves the config file location, preferring the
// --config flag over the default path.
func configPath() (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	return file.DefaultPath()
}
