package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/websearch-mcp/internal/core/domain"
	"github.com/custodia-labs/websearch-mcp/internal/core/ports/driven"
)

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// normalizeServerURL trims the trailing slash so "http://host/" and
// "http://host" address the same row.
func normalizeServerURL(serverURL string) string {
	return strings.TrimRight(serverURL, "/")
}

// Save stores or overwrites the record for (ServerURL, Kid).
// The upsert is a single statement, so a crash mid-write leaves either
// the prior row or the new one.
func (s *recordStore) Save(ctx context.Context, rec domain.RegistrationRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO registration_records
			(server_url, kid, id, client_id, token, label, origin, public_key_fingerprint, issued_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(server_url, kid) DO UPDATE SET
			id = excluded.id,
			client_id = excluded.client_id,
			token = excluded.token,
			label = excluded.label,
			origin = excluded.origin,
			public_key_fingerprint = excluded.public_key_fingerprint,
			issued_at = excluded.issued_at,
			updated_at = excluded.updated_at
	`, normalizeServerURL(rec.ServerURL), rec.Kid, rec.ID, rec.ClientID, rec.Token,
		rec.Label, rec.Origin, rec.PublicKeyFingerprint, rec.IssuedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving registration record: %w", err)
	}
	return nil
}

// Get retrieves the record for a (serverURL, kid) pair.
func (s *recordStore) Get(ctx context.Context, serverURL, kid string) (*domain.RegistrationRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT server_url, kid, id, client_id, token, label, origin, public_key_fingerprint, issued_at, updated_at
		FROM registration_records
		WHERE server_url = ? AND kid = ?
	`, normalizeServerURL(serverURL), kid)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting registration record: %w", err)
	}
	return rec, nil
}

// List returns all stored records ordered by server URL then kid.
func (s *recordStore) List(ctx context.Context) ([]domain.RegistrationRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT server_url, kid, id, client_id, token, label, origin, public_key_fingerprint, issued_at, updated_at
		FROM registration_records
		ORDER BY server_url, kid
	`)
	if err != nil {
		return nil, fmt.Errorf("listing registration records: %w", err)
	}
	defer rows.Close()

	var records []domain.RegistrationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning registration record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating registration records: %w", err)
	}
	return records, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*domain.RegistrationRecord, error) {
	var rec domain.RegistrationRecord
	err := s.Scan(&rec.ServerURL, &rec.Kid, &rec.ID, &rec.ClientID, &rec.Token,
		&rec.Label, &rec.Origin, &rec.PublicKeyFingerprint, &rec.IssuedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
