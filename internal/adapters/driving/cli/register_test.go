package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driving"
)

// stubRegistrar implements driving.RegistrarService for CLI tests.
type stubRegistrar struct {
	rec *domain.RegistrationRecord
	err error

	gotServerURL string
	gotKid       string
	gotLabel     string
}

func (s *stubRegistrar) Register(_ context.Context, serverURL, kid, label string) (*domain.RegistrationRecord, error) {
	s.gotServerURL = serverURL
	s.gotKid = kid
	s.gotLabel = label
	if s.err != nil {
		return nil, s.err
	}
	return s.rec, nil
}

func withStubRegistrar(t *testing.T, stub *stubRegistrar) {
	t.Helper()
	original := newRegistrarService
	newRegistrarService = func() (driving.RegistrarService, func(), error) {
		return stub, func() {}, nil
	}
	t.Cleanup(func() { newRegistrarService = original })
}

func execRegister(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs(append([]string{"register"}, args...))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		registerServerURL = ""
		registerKid = ""
		registerLabel = ""
		// Reset Changed so required-flag checks behave in later tests.
		registerCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRegisterCmd_Use(t *testing.T) {
	assert.Equal(t, "register", registerCmd.Use)
}

func TestRegisterCmd_Flags(t *testing.T) {
	assert.NotNil(t, registerCmd.Flags().Lookup("server-url"))
	assert.NotNil(t, registerCmd.Flags().Lookup("kid"))
	assert.NotNil(t, registerCmd.Flags().Lookup("label"))
}

func TestRegisterCmd_Success(t *testing.T) {
	stub := &stubRegistrar{rec: &domain.RegistrationRecord{
		ID:                   "rec-1",
		ServerURL:            "http://localhost:8001",
		Kid:                  "laptop-1",
		ClientID:             "client-42",
		Label:                "dev laptop",
		Origin:               "http://localhost:8001/mcp",
		PublicKeyFingerprint: "abc123",
		IssuedAt:             time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}}
	withStubRegistrar(t, stub)

	out, _, err := execRegister(t,
		"--server-url", "http://localhost:8001",
		"--kid", "laptop-1",
		"--label", "dev laptop",
	)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8001", stub.gotServerURL)
	assert.Equal(t, "laptop-1", stub.gotKid)
	assert.Equal(t, "dev laptop", stub.gotLabel)
	assert.Contains(t, out, "Registered with http://localhost:8001")
	assert.Contains(t, out, "client-42")
	assert.Contains(t, out, "abc123")
}

func TestRegisterCmd_RequiresFlags(t *testing.T) {
	withStubRegistrar(t, &stubRegistrar{})

	_, _, err := execRegister(t)

	assert.Error(t, err)
}

func TestRegisterCmd_ErrorCategories(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid input", domain.ErrInvalidInput, "invalid input"},
		{"key generation", domain.ErrKeyGeneration, "key generation failed"},
		{"network", domain.ErrNetwork, "network error"},
		{"malformed response", domain.ErrMalformedResponse, "malformed server response"},
		{"storage", domain.ErrStorage, "storage error"},
		{"provider", domain.ErrProvider, "provider error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withStubRegistrar(t, &stubRegistrar{err: fmt.Errorf("%w: boom", tt.err)})

			_, errOut, err := execRegister(t,
				"--server-url", "http://localhost:8001",
				"--kid", "laptop-1",
			)

			require.Error(t, err)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestErrorCategory_Unknown(t *testing.T) {
	assert.Equal(t, "registration failed", errorCategory(fmt.Errorf("boom")))
}
