package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
}

func TestServeCmd_Flags(t *testing.T) {
	portFlag := serveCmd.Flags().Lookup("port")
	assert.NotNil(t, portFlag)
	assert.Equal(t, "p", portFlag.Shorthand)
	assert.Equal(t, "0", portFlag.DefValue)

	stdioFlag := serveCmd.Flags().Lookup("stdio")
	assert.NotNil(t, stdioFlag)
	assert.Equal(t, "false", stdioFlag.DefValue)
}

// freePort asks the kernel for an unused TCP port.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close() //nolint:errcheck
	return l.Addr().(*net.TCPAddr).Port
}

func TestRunServe_HTTPListensAndShutsDown(t *testing.T) {
	dir := t.TempDir()
	port := freePort(t)

	cfgPath := filepath.Join(dir, "config.toml")
	cfgBody := fmt.Sprintf(`[server]
host = "127.0.0.1"
port = %d

[storage]
data_dir = %q
keys_dir = %q
`, port, filepath.Join(dir, "data"), filepath.Join(dir, "keys"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o600))

	originalConfig := configFlag
	configFlag = cfgPath
	t.Cleanup(func() { configFlag = originalConfig })
	t.Setenv("PORT", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	cmd.SetOut(io.Discard)

	done := make(chan error, 1)
	go func() { done <- runServe(cmd, nil) }()

	// The server must come up and accept connections; a hang before
	// ListenAndServe leaves the port closed.
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	deadline := time.Now().Add(5 * time.Second)
	var conn net.Conn
	var dialErr error
	for time.Now().Before(deadline) {
		conn, dialErr = net.DialTimeout("tcp", addr, 100*time.Millisecond)
		if dialErr == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	require.NoError(t, dialErr, "server never started listening on %s", addr)
	_ = conn.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "graceful shutdown returns nil")
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down after context cancel")
	}
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["serve"])
	assert.True(t, names["register"])
	assert.True(t, names["registrations"])
	assert.True(t, names["version"])
}
