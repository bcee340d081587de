// Package file provides the TOML-backed configuration for the
// websearch-mcp binary, stored in ~/.websearch-mcp/config.toml by
// default. The serving process can watch the file and reload the
// trusted-origins allowlist without a restart.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// Defaults mirror the original deployment: HTTP on 0.0.0.0:8001 with
// the production and localhost MCP endpoints trusted.
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 8001
)

// DefaultTrustedOrigins is the allowlist applied when the config file
// names none.
var DefaultTrustedOrigins = []string{
	"https://tavily-search-mcp.onrender.com/mcp",
	"http://localhost:8001/mcp",
}

// Config is the application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Search  SearchConfig  `toml:"search"`
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	// Host is the listen address.
	Host string `toml:"host"`
	// Port is the listen port. The PORT environment variable overrides it.
	Port int `toml:"port"`
	// TrustedOrigins is the Origin-header allowlist for HTTP requests.
	// Requests without an Origin header are always allowed.
	TrustedOrigins []string `toml:"trusted_origins"`
}

// SearchConfig configures the outbound search provider.
type SearchConfig struct {
	// RequestsPerSecond caps outbound provider calls.
	RequestsPerSecond float64 `toml:"requests_per_second"`
	// Burst is the token-bucket burst size.
	Burst int `toml:"burst"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	// DataDir holds the registration database. Empty means the default
	// under the user's home directory.
	DataDir string `toml:"data_dir"`
	// KeysDir holds the per-kid private key PEM files.
	KeysDir string `toml:"keys_dir"`
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".websearch-mcp", "config.toml"), nil
}

// Load reads the configuration from path. A missing file yields the
// defaults; a present but invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// No config file yet - run on defaults.
	default:
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.TrustedOrigins) == 0 {
		c.Server.TrustedOrigins = append([]string(nil), DefaultTrustedOrigins...)
	}
}

// ListenPort resolves the effective port: an explicit flag value wins,
// then the PORT environment variable, then the config file.
func (c *Config) ListenPort(flagPort int) int {
	if flagPort > 0 {
		return flagPort
	}
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil && p > 0 {
			return p
		}
		logger.Warn("config: ignoring unparseable PORT=%q", env)
	}
	return c.Server.Port
}

// Watch re-reads the config file whenever it changes and invokes fn
// with the fresh configuration. It blocks until the watcher fails or
// stop is closed. Reload errors are logged, not fatal; the previous
// configuration stays in effect.
func Watch(path string, stop <-chan struct{}, fn func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors replace the file on save, which
	// drops a watch held on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case <-stop:
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				logger.Warn("config: reload failed, keeping previous: %v", err)
				continue
			}
			logger.Info("config: reloaded %s", path)
			fn(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config: watcher error: %v", err)
		}
	}
}
