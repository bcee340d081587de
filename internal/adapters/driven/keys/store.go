// Package keys provides a file-based implementation of the KeyStore
// driven port. Each kid maps to one PEM file holding an RSA private key;
// the public key and fingerprint are derived on load.
package keys

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.KeyStore = (*Store)(nil)

// keySize is the RSA modulus size for newly generated keypairs.
const keySize = 2048

// Store persists RSA keypairs as PEM files, one per kid, under a single
// directory with owner-only permissions.
type Store struct {
	dir string
}

// NewStore creates a file-based key store rooted at dir.
// If dir is empty, defaults to ~/.websearch-mcp/keys.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".websearch-mcp", "keys")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating keys directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory keys are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// LoadOrCreate returns the keypair for kid, generating one if none
// exists. An existing PEM file whose key is not RSA means the kid was
// previously bound to a different algorithm; that is an operator error,
// not a reason to silently re-key.
func (s *Store) LoadOrCreate(_ context.Context, kid string) (*domain.Keypair, error) {
	if err := domain.ValidateKid(kid); err != nil {
		return nil, err
	}

	path := s.keyPath(kid)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		key, err := parsePrivateKeyPEM(data)
		if err != nil {
			return nil, fmt.Errorf("loading key for kid %q: %w", kid, err)
		}
		logger.Debug("keys: loaded existing keypair for kid %s", kid)
		return buildKeypair(kid, key)

	case os.IsNotExist(err):
		key, err := rsa.GenerateKey(rand.Reader, keySize)
		if err != nil {
			return nil, fmt.Errorf("%w: generating RSA-%d key: %v", domain.ErrKeyGeneration, keySize, err)
		}
		if err := s.writeKey(path, key); err != nil {
			return nil, fmt.Errorf("%w: persisting key for kid %q: %v", domain.ErrKeyGeneration, kid, err)
		}
		logger.Info("keys: generated new RSA-%d keypair for kid %s", keySize, kid)
		return buildKeypair(kid, key)

	default:
		return nil, fmt.Errorf("%w: reading key for kid %q: %v", domain.ErrKeyGeneration, kid, err)
	}
}

// Delete removes the keypair for kid. Missing keys are not an error.
func (s *Store) Delete(_ context.Context, kid string) error {
	if err := domain.ValidateKid(kid); err != nil {
		return err
	}
	if err := os.Remove(s.keyPath(kid)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting key for kid %q: %w", kid, err)
	}
	return nil
}

func (s *Store) keyPath(kid string) string {
	return filepath.Join(s.dir, kid+".pem")
}

// writeKey persists the private key PEM via a temp file and rename so a
// crash never leaves a truncated key on disk.
func (s *Store) writeKey(path string, key *rsa.PrivateKey) error {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return err
	}
	data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	tmp, err := os.CreateTemp(s.dir, ".key-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// parsePrivateKeyPEM decodes a PEM block and requires an RSA key.
func parsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: not a PEM file", domain.ErrInvalidInput)
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		// Older keys may be PKCS#1.
		if key, err1 := x509.ParsePKCS1PrivateKey(block.Bytes); err1 == nil {
			return key, nil
		}
		return nil, fmt.Errorf("%w: parsing private key: %v", domain.ErrInvalidInput, err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: stored key is %T, expected RSA; delete the key file to re-key",
			domain.ErrInvalidInput, parsed)
	}
	return key, nil
}

// buildKeypair derives the public PEM and fingerprint from the private key.
func buildKeypair(kid string, key *rsa.PrivateKey) (*domain.Keypair, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding public key: %v", domain.ErrKeyGeneration, err)
	}

	sum := sha256.Sum256(der)
	return &domain.Keypair{
		Kid:          kid,
		PrivateKey:   key,
		PublicKeyPEM: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
		Fingerprint:  hex.EncodeToString(sum[:]),
	}, nil
}
