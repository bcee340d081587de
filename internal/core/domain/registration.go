package domain

import (
	"crypto/rsa"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// RegistrationPath is the well-known path the registrar POSTs to,
// relative to the server base URL.
const RegistrationPath = "/register"

// kidPattern restricts key identifiers to a conservative character set
// that is safe to embed in file names and storage keys.
var kidPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// Keypair is an asymmetric keypair named by a kid. The private key is
// owned exclusively by the registrar process and never leaves local
// storage; only PublicKeyPEM is ever sent over the wire.
type Keypair struct {
	// Kid is the caller-chosen key identifier.
	Kid string

	// PrivateKey is the RSA private key.
	PrivateKey *rsa.PrivateKey

	// PublicKeyPEM is the PKIX-encoded public key in PEM form.
	PublicKeyPEM string

	// Fingerprint is the hex SHA-256 of the PKIX DER public key.
	Fingerprint string
}

// RegistrationRequest is the payload submitted to a server's
// registration endpoint. Built fresh per attempt; never persisted.
type RegistrationRequest struct {
	ServerURL    string `json:"-"`
	Kid          string `json:"kid"`
	PublicKeyPEM string `json:"public_key"`
	Label        string `json:"label,omitempty"`
	Origin       string `json:"origin,omitempty"`
}

// RegistrationAck is the server's acknowledgment of a registration.
// A valid ack echoes the kid and carries a client identity or token.
type RegistrationAck struct {
	ClientID string    `json:"client_id"`
	Kid      string    `json:"kid"`
	Token    string    `json:"token,omitempty"`
	IssuedAt time.Time `json:"issued_at,omitempty"`
}

// RegistrationRecord is the locally persisted outcome of a successful
// client-to-server trust binding, keyed by (ServerURL, Kid). At most one
// active record exists per pair; a later registration overwrites it.
type RegistrationRecord struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`
	// ServerURL is the base URL of the server the client registered with.
	ServerURL string `json:"server_url"`
	// Kid names the keypair used for this binding.
	Kid string `json:"kid"`
	// ClientID is the identity the server assigned.
	ClientID string `json:"client_id"`
	// Token is the credential the server issued, if any.
	Token string `json:"token,omitempty"`
	// Label is optional operator-supplied descriptive metadata.
	Label string `json:"label,omitempty"`
	// Origin is the MCP endpoint URL derived from ServerURL.
	Origin string `json:"origin,omitempty"`
	// PublicKeyFingerprint identifies the key material the server holds.
	PublicKeyFingerprint string `json:"public_key_fingerprint,omitempty"`
	// IssuedAt is when the server issued the binding.
	IssuedAt time.Time `json:"issued_at"`
	// UpdatedAt is when the record was last written locally.
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisteredClient is a client public key as stored by the server side
// of the registration handshake. One row per kid; re-registration keeps
// the ClientID stable and rotates the token.
type RegisteredClient struct {
	ClientID     string    `json:"client_id"`
	Kid          string    `json:"kid"`
	PublicKeyPEM string    `json:"public_key"`
	Label        string    `json:"label,omitempty"`
	Origin       string    `json:"origin,omitempty"`
	Token        string    `json:"token"`
	IssuedAt     time.Time `json:"issued_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidateKid checks that a key identifier is non-empty and safe to use
// as a storage key.
func ValidateKid(kid string) error {
	if !kidPattern.MatchString(kid) {
		return fmt.Errorf("%w: kid must match %s", ErrInvalidInput, kidPattern)
	}
	return nil
}

// ValidateServerURL checks that a server URL is a well-formed absolute
// http or https URL.
func ValidateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: server URL: %v", ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: server URL must be absolute http(s), got %q", ErrInvalidInput, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: server URL %q has no host", ErrInvalidInput, raw)
	}
	return nil
}

// DeriveOrigin derives the MCP endpoint origin from a server base URL:
// scheme://host[:port]/mcp, discarding any path, query, or fragment.
// Pure function; no side effects.
func DeriveOrigin(serverURL string) (string, error) {
	if err := ValidateServerURL(serverURL); err != nil {
		return "", err
	}
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("%w: server URL: %v", ErrInvalidInput, err)
	}
	return u.Scheme + "://" + u.Host + "/mcp", nil
}

// RecordKey builds the storage key for a (serverURL, kid) pair.
// The server URL is normalised by trimming a trailing slash so
// "http://host:8001" and "http://host:8001/" map to the same record.
func RecordKey(serverURL, kid string) string {
	return strings.TrimRight(serverURL, "/") + "|" + kid
}
