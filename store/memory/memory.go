// Package memory provides an in-process RecordStore, used by tests and the
// demo server. Not for production: records live only as long as the process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/caredesk/medauth"
)

// Store is a map-backed medauth.RecordStore.
type Store struct {
	mu                sync.RWMutex
	records           map[string]medauth.CredentialRecord
	lastAuthenticated map[string]time.Time
}

// NewStore creates a Store seeded with the given records.
func NewStore(records ...medauth.CredentialRecord) *Store {
	s := &Store{
		records:           make(map[string]medauth.CredentialRecord, len(records)),
		lastAuthenticated: make(map[string]time.Time),
	}
	for _, r := range records {
		s.records[key(r.Kind, r.Identifier)] = r
	}
	return s
}

// Put inserts or replaces a record.
func (s *Store) Put(record medauth.CredentialRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key(record.Kind, record.Identifier)] = record
}

// FindByIdentifier returns the single record for kind+identifier, or
// medauth.ErrNotFound.
func (s *Store) FindByIdentifier(_ context.Context, kind medauth.IdentifierKind, identifier string) (medauth.CredentialRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key(kind, identifier)]
	if !ok {
		return medauth.CredentialRecord{}, medauth.ErrNotFound
	}
	return record, nil
}

// MarkAuthenticated stamps the record's last successful verification.
func (s *Store) MarkAuthenticated(_ context.Context, kind medauth.IdentifierKind, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key(kind, identifier)]; !ok {
		return medauth.ErrNotFound
	}
	s.lastAuthenticated[key(kind, identifier)] = time.Now()
	return nil
}

// LastAuthenticated reports the stamp written by MarkAuthenticated.
func (s *Store) LastAuthenticated(kind medauth.IdentifierKind, identifier string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.lastAuthenticated[key(kind, identifier)]
	return t, ok
}

func key(kind medauth.IdentifierKind, identifier string) string {
	return string(kind) + "|" + identifier
}
