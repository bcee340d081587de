package driven

import (
	"context"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
)

// KeyStore persists asymmetric keypairs keyed by kid.
// The private key never leaves the store's backing medium except through
// the returned Keypair value.
type KeyStore interface {
	// LoadOrCreate returns the keypair for kid, generating and persisting
	// a new one if none exists. Loading an existing key whose algorithm
	// differs from the store's is an operator error (domain.ErrInvalidInput),
	// never a silent re-key. Generation failures wrap domain.ErrKeyGeneration.
	LoadOrCreate(ctx context.Context, kid string) (*domain.Keypair, error)

	// Delete removes the keypair for kid. Missing keys are not an error.
	Delete(ctx context.Context, kid string) error
}
