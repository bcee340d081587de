package driven

import (
	"context"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
)

// RegistrationClient submits registration requests to a remote server.
type RegistrationClient interface {
	// Register POSTs the request to the server's registration endpoint.
	// Unreachable endpoints, timeouts, and non-2xx statuses wrap
	// domain.ErrNetwork; a 2xx body that cannot be decoded into a valid
	// acknowledgment wraps domain.ErrMalformedResponse.
	Register(ctx context.Context, req domain.RegistrationRequest) (*domain.RegistrationAck, error)
}

// RecordStore persists registration records keyed by (serverURL, kid).
// Save must overwrite atomically: a crash mid-write leaves either the
// prior record or the new one, never a torn mix.
type RecordStore interface {
	// Save stores the record, overwriting any prior record for the
	// same (ServerURL, Kid) pair.
	Save(ctx context.Context, rec domain.RegistrationRecord) error

	// Get retrieves the record for a (serverURL, kid) pair.
	// Returns domain.ErrNotFound if none exists.
	Get(ctx context.Context, serverURL, kid string) (*domain.RegistrationRecord, error)

	// List returns all stored records.
	List(ctx context.Context) ([]domain.RegistrationRecord, error)
}

// ClientStore persists clients registered with this server, one per kid.
type ClientStore interface {
	// Upsert stores the client and returns the row as stored.
	// Re-registering an existing kid keeps its ClientID and IssuedAt
	// stable and overwrites the rest; the returned row carries this
	// call's token, not a concurrent writer's.
	Upsert(ctx context.Context, c domain.RegisteredClient) (*domain.RegisteredClient, error)

	// GetByKid retrieves a client by kid.
	// Returns domain.ErrNotFound if none exists.
	GetByKid(ctx context.Context, kid string) (*domain.RegisteredClient, error)
}
