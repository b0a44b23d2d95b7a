// Package postgres provides the production RecordStore backing on top of a
// pgx connection pool.
//
// Expected schema:
//
//	CREATE TABLE credentials (
//	    kind                   TEXT NOT NULL,
//	    identifier             TEXT NOT NULL,
//	    last_name              TEXT NOT NULL DEFAULT '',
//	    status                 TEXT NOT NULL DEFAULT 'Active',
//	    display_name           TEXT NOT NULL DEFAULT '',
//	    last_authenticated_at  TIMESTAMPTZ,
//	    PRIMARY KEY (kind, identifier)
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/caredesk/medauth"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL implementation of medauth.RecordStore.
type Store struct {
	db *pgxpool.Pool
}

// New creates a Store using the given pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// FindByIdentifier fetches at most one credential record for kind+identifier.
// Misses map to medauth.ErrNotFound; any other failure is returned wrapped
// so the engine fails closed.
func (s *Store) FindByIdentifier(ctx context.Context, kind medauth.IdentifierKind, identifier string) (medauth.CredentialRecord, error) {
	const query = `
        SELECT identifier, last_name, status, display_name
        FROM credentials
        WHERE kind = $1 AND identifier = $2
        LIMIT 1
    `

	record := medauth.CredentialRecord{Kind: kind}
	err := s.db.QueryRow(ctx, query, string(kind), identifier).Scan(
		&record.Identifier,
		&record.LastName,
		&record.Status,
		&record.DisplayName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return medauth.CredentialRecord{}, medauth.ErrNotFound
		}
		return medauth.CredentialRecord{}, fmt.Errorf("query credentials: %w", err)
	}

	return record, nil
}

// MarkAuthenticated stamps last_authenticated_at. The engine treats this as
// best-effort; errors are reported for logging only.
func (s *Store) MarkAuthenticated(ctx context.Context, kind medauth.IdentifierKind, identifier string) error {
	const query = `
        UPDATE credentials
        SET last_authenticated_at = NOW()
        WHERE kind = $1 AND identifier = $2
    `

	tag, err := s.db.Exec(ctx, query, string(kind), identifier)
	if err != nil {
		return fmt.Errorf("update last_authenticated_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return medauth.ErrNotFound
	}
	return nil
}
