package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/config/file"
	"github.com/custodia-labs/websearch-mcp/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
)

var registrationsJSON bool

var registrationsCmd = &cobra.Command{
	Use:   "registrations",
	Short: "List stored registrations",
	Long:  `Lists the trust bindings this client holds, one per (server, kid) pair.`,
	RunE:  runRegistrationsList,
}

func init() {
	registrationsCmd.Flags().BoolVar(&registrationsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(registrationsCmd)
}

// newRecordStore opens the record store. Overridable in tests.
var newRecordStore = func() (driven.RecordStore, func(), error) {
	cfgPath, err := configPath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg, err := file.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening record store: %w", err)
	}
	return store.RecordStore(), func() { _ = store.Close() }, nil
}

func runRegistrationsList(cmd *cobra.Command, _ []string) error {
	records, cleanup, err := newRecordStore()
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := records.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing registrations: %w", err)
	}

	if registrationsJSON {
		return outputRegistrationsJSON(cmd, list)
	}
	return outputRegistrationsTable(cmd, list)
}

func outputRegistrationsJSON(cmd *cobra.Command, list []domain.RegistrationRecord) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registrations: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRegistrationsTable(cmd *cobra.Command, list []domain.RegistrationRecord) error {
	if len(list) == 0 {
		cmd.Println("No registrations found.")
		return nil
	}

	cmd.Println("Registrations:")
	cmd.Println()
	for i := range list {
		cmd.Printf("  [%d] %s (kid: %s)\n", i+1, list[i].ServerURL, list[i].Kid)
		cmd.Printf("      Client ID: %s\n", list[i].ClientID)
		if list[i].Label != "" {
			cmd.Printf("      Label: %s\n", list[i].Label)
		}
		cmd.Printf("      Updated: %s\n", list[i].UpdatedAt.Format("2006-01-02 15:04:05 MST"))
		cmd.Println()
	}
	return nil
}
