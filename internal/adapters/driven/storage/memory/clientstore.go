package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
)

// Ensure ClientStore implements the interface.
var _ driven.ClientStore = (*ClientStore)(nil)

// ClientStore is an in-memory implementation of driven.ClientStore.
type ClientStore struct {
	mu      sync.RWMutex
	clients map[string]domain.RegisteredClient
}

// NewClientStore creates an empty in-memory client store.
func NewClientStore() *ClientStore {
	return &ClientStore{
		clients: make(map[string]domain.RegisteredClient),
	}
}

// Upsert stores the client and returns the merged row. Re-registering
// an existing kid keeps its ClientID and IssuedAt, overwriting
// everything else.
func (s *ClientStore) Upsert(_ context.Context, c domain.RegisteredClient) (*domain.RegisteredClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.clients[c.Kid]; ok {
		c.ClientID = prev.ClientID
		c.IssuedAt = prev.IssuedAt
	}
	s.clients[c.Kid] = c
	return &c, nil
}

// GetByKid retrieves a client by kid.
func (s *ClientStore) GetByKid(_ context.Context, kid string) (*domain.RegisteredClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[kid]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}
