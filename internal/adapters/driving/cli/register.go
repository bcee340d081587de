package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/keys"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/registration"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/websearch-mcp/internal/core/services"
)

var (
	registerServerURL string
	registerKid       string
	registerLabel     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register this client with an MCP server",
	Long: `Registers this client's public key with a server's registration
endpoint and records the resulting trust binding locally.

The keypair named by --kid is loaded from the local key store, or
generated and persisted on first use. Only the public key ever leaves
this machine. Re-running with the same server and kid overwrites the
local record with the server's latest acknowledgment.`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerServerURL, "server-url", "", "base URL of the server to register with (required)")
	registerCmd.Flags().StringVar(&registerKid, "kid", "", "key identifier naming the local keypair (required)")
	registerCmd.Flags().StringVar(&registerLabel, "label", "", "optional descriptive label for this registration")
	_ = registerCmd.MarkFlagRequired("server-url") //nolint:errcheck
	_ = registerCmd.MarkFlagRequired("kid")        //nolint:errcheck
	rootCmd.AddCommand(registerCmd)
}

// newRegistrarService builds the registrar with its file-backed
// dependencies. Overridable in tests.
var newRegistrarService = func() (driving.RegistrarService, func(), error) {
	cfgPath, err := configPath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := file.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	keyStore, err := keys.NewStore(cfg.Storage.KeysDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening key store: %w", err)
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening record store: %w", err)
	}

	svc := services.NewRegistrarService(keyStore, registration.NewClient(), store.RecordStore())
	cleanup := func() { _ = store.Close() }
	return svc, cleanup, nil
}

func runRegister(cmd *cobra.Command, _ []string) error {
	svc, cleanup, err := newRegistrarService()
	if err != nil {
		return err
	}
	defer cleanup()

	rec, err := svc.Register(cmd.Context(), registerServerURL, registerKid, registerLabel)
	if err != nil {
		return fmt.Errorf("%s: %w", errorCategory(err), err)
	}

	cmd.Printf("Registered with %s\n", rec.ServerURL)
	cmd.Printf("  Kid:         %s\n", rec.Kid)
	cmd.Printf("  Client ID:   %s\n", rec.ClientID)
	if rec.Label != "" {
		cmd.Printf("  Label:       %s\n", rec.Label)
	}
	if rec.Origin != "" {
		cmd.Printf("  Origin:      %s\n", rec.Origin)
	}
	cmd.Printf("  Fingerprint: %s\n", rec.PublicKeyFingerprint)
	cmd.Printf("  Issued at:   %s\n", rec.IssuedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

// errorCategory maps a registration failure to the category label shown
// to the operator, so scripted callers can tell a bad flag from a dead
// network from a local disk fault.
func errorCategory(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid input"
	case errors.Is(err, domain.ErrKeyGeneration):
		return "key generation failed"
	case errors.Is(err, domain.ErrNetwork):
		return "network error"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed server response"
	case errors.Is(err, domain.ErrStorage):
		return "storage error"
	case errors.Is(err, domain.ErrProvider):
		return "provider error"
	default:
		return "registration failed"
	}
}
