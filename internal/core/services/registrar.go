package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driving"
	"github.com/custodia-labs/websearch-mcp/internal/logger"
)

// Ensure RegistrarService implements the interface.
var _ driving.RegistrarService = (*RegistrarService)(nil)

// RegistrarService establishes (or refreshes) a trust binding between a
// local keypair and a remote server. It runs as a one-shot operator
// command: one blocking network round trip per invocation.
type RegistrarService struct {
	keys    driven.KeyStore
	client  driven.RegistrationClient
	records driven.RecordStore
	now     func() time.Time
}

// NewRegistrarService creates a new registrar service.
func NewRegistrarService(keys driven.KeyStore, client driven.RegistrationClient, records driven.RecordStore) *RegistrarService {
	return &RegistrarService{
		keys:    keys,
		client:  client,
		records: records,
		now:     time.Now,
	}
}

// Register runs the registration handshake:
//
//  1. Validate serverURL and kid.
//  2. Load or generate the keypair for kid (idempotent lookup-or-create).
//  3. Submit the public key to <serverURL>/register.
//  4. Persist the acknowledgment as a RegistrationRecord keyed by
//     (serverURL, kid), overwriting any prior record for the pair.
//
// Failures before step 4 persist nothing; a failure in step 4 surfaces
// as domain.ErrStorage because the server now holds a public key the
// local store has no record of.
func (s *RegistrarService) Register(ctx context.Context, serverURL, kid, label string) (*domain.RegistrationRecord, error) {
	if err := domain.ValidateServerURL(serverURL); err != nil {
		return nil, err
	}
	if err := domain.ValidateKid(kid); err != nil {
		return nil, err
	}

	kp, err := s.keys.LoadOrCreate(ctx, kid)
	if err != nil {
		return nil, fmt.Errorf("preparing keypair for kid %q: %w", kid, err)
	}
	logger.Debug("register: kid=%s fingerprint=%s", kid, kp.Fingerprint)

	origin, err := domain.DeriveOrigin(serverURL)
	if err != nil {
		return nil, err
	}

	ack, err := s.client.Register(ctx, domain.RegistrationRequest{
		ServerURL:    serverURL,
		Kid:          kid,
		PublicKeyPEM: kp.PublicKeyPEM,
		Label:        label,
		Origin:       origin,
	})
	if err != nil {
		return nil, fmt.Errorf("registering kid %q with %s: %w", kid, serverURL, err)
	}

	issuedAt := ack.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now().UTC()
	}

	rec := domain.RegistrationRecord{
		ID:                   uuid.NewString(),
		ServerURL:            serverURL,
		Kid:                  kid,
		ClientID:             ack.ClientID,
		Token:                ack.Token,
		Label:                label,
		Origin:               origin,
		PublicKeyFingerprint: kp.Fingerprint,
		IssuedAt:             issuedAt,
		UpdatedAt:            s.now().UTC(),
	}

	if err := s.records.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: persisting record for kid %q (server %s holds the public key): %v",
			domain.ErrStorage, kid, serverURL, err)
	}

	logger.Info("register: kid=%s client_id=%s server=%s", kid, rec.ClientID, serverURL)
	return &rec, nil
}
