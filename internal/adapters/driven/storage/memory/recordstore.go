// Package memory provides in-memory implementations of the storage
// driven ports. Used in tests and as a fallback when no data directory
// is available.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
)

// Ensure RecordStore implements the interface.
var _ driven.RecordStore = (*RecordStore)(nil)

// RecordStore is an in-memory implementation of driven.RecordStore.
// Writes replace the whole record under lock, so readers never observe
// a partial overwrite.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.RegistrationRecord
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.RegistrationRecord),
	}
}

// Save stores the record, overwriting any prior record for the same
// (ServerURL, Kid) pair.
func (s *RecordStore) Save(_ context.Context, rec domain.RegistrationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[domain.RecordKey(rec.ServerURL, rec.Kid)] = rec
	return nil
}

// Get retrieves the record for a (serverURL, kid) pair.
func (s *RecordStore) Get(_ context.Context, serverURL, kid string) (*domain.RegistrationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[domain.RecordKey(serverURL, kid)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// List returns all stored records.
func (s *RecordStore) List(_ context.Context) ([]domain.RegistrationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RegistrationRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}
