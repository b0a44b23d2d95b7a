package window

import (
	"context"
	"sync"
	"time"
)

type attemptWindow struct {
	count       int
	windowStart time.Time
	lastAttempt time.Time
}

// MemoryStore is the in-process Store backing. All state lives in one
// mutex-guarded map; fine at prototype scale, a scalability limit beyond it.
type MemoryStore struct {
	mu      sync.Mutex
	cfg     Config
	now     func() time.Time
	windows map[string]*attemptWindow
}

// NewMemoryStore creates a MemoryStore using the wall clock.
func NewMemoryStore(cfg Config) *MemoryStore {
	return NewMemoryStoreWithClock(cfg, time.Now)
}

// NewMemoryStoreWithClock creates a MemoryStore with an injected clock so
// window expiry can be tested without sleeping.
func NewMemoryStoreWithClock(cfg Config, now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		cfg:     cfg,
		now:     now,
		windows: make(map[string]*attemptWindow),
	}
}

// CheckAndConsume reports whether an attempt for identifier may proceed.
// A missing or stale window allows; an open window at or over MaxAttempts
// denies with the window's remaining life.
func (s *MemoryStore) CheckAndConsume(_ context.Context, identifier string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.purgeLocked(now)

	w, ok := s.windows[identifier]
	if !ok {
		return Decision{Allowed: true}, nil
	}

	elapsed := now.Sub(w.windowStart)
	if elapsed > s.cfg.TTL {
		// Stale window: allowed, and the next failed outcome restarts it.
		return Decision{Allowed: true}, nil
	}

	if w.count >= s.cfg.MaxAttempts {
		return Decision{Allowed: false, RetryAfter: s.cfg.TTL - elapsed}, nil
	}

	return Decision{Allowed: true}, nil
}

// RecordOutcome folds a verification result into the identifier's window.
// Success deletes the window, clearing any lockout. Failure increments the
// open window, or starts a fresh one when none exists or the old one is stale.
func (s *MemoryStore) RecordOutcome(_ context.Context, identifier string, success bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if success {
		delete(s.windows, identifier)
		return nil
	}

	now := s.now()
	w, ok := s.windows[identifier]
	if !ok || now.Sub(w.windowStart) > s.cfg.TTL {
		s.windows[identifier] = &attemptWindow{count: 1, windowStart: now, lastAttempt: now}
		return nil
	}

	w.count++
	w.lastAttempt = now
	return nil
}

// purgeLocked drops windows idle past the TTL. Windows still within their
// TTL are never removed.
func (s *MemoryStore) purgeLocked(now time.Time) {
	for id, w := range s.windows {
		if now.Sub(w.lastAttempt) > s.cfg.TTL {
			delete(s.windows, id)
		}
	}
}

func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
