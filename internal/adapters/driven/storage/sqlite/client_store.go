package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
)

// clientStore implements driven.ClientStore.
type clientStore struct {
	store *Store
}

var _ driven.ClientStore = (*clientStore)(nil)

// Upsert stores the client and returns the row as written.
// Re-registering an existing kid keeps its client_id and issued_at;
// everything else is overwritten. RETURNING reads the row from this
// statement's own write, so concurrent registrations for one kid each
// see their own token.
func (s *clientStore) Upsert(ctx context.Context, c domain.RegisteredClient) (*domain.RegisteredClient, error) {
	now := time.Now().UTC()
	if c.IssuedAt.IsZero() {
		c.IssuedAt = now
	}
	c.UpdatedAt = now

	row := s.store.db.QueryRowContext(ctx, `
		INSERT INTO registered_clients
			(kid, client_id, public_key, label, origin, token, issued_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kid) DO UPDATE SET
			public_key = excluded.public_key,
			label = excluded.label,
			origin = excluded.origin,
			token = excluded.token,
			updated_at = excluded.updated_at
		RETURNING kid, client_id, public_key, label, origin, token, issued_at, updated_at
	`, c.Kid, c.ClientID, c.PublicKeyPEM, c.Label, c.Origin, c.Token, c.IssuedAt, c.UpdatedAt)

	var stored domain.RegisteredClient
	err := row.Scan(&stored.Kid, &stored.ClientID, &stored.PublicKeyPEM, &stored.Label,
		&stored.Origin, &stored.Token, &stored.IssuedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("saving registered client: %w", err)
	}
	return &stored, nil
}

// GetByKid retrieves a client by kid.
func (s *clientStore) GetByKid(ctx context.Context, kid string) (*domain.RegisteredClient, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT kid, client_id, public_key, label, origin, token, issued_at, updated_at
		FROM registered_clients
		WHERE kid = ?
	`, kid)

	var c domain.RegisteredClient
	err := row.Scan(&c.Kid, &c.ClientID, &c.PublicKeyPEM, &c.Label, &c.Origin,
		&c.Token, &c.IssuedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting registered client: %w", err)
	}
	return &c, nil
}
