// Package memory provides an in-memory state store for tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
)

var _ driven.StateStore = (*Store)(nil)

// Store keeps processing records in two maps guarded by one mutex.
type Store struct {
	mu            sync.RWMutex
	byFingerprint map[string]*domain.ProcessingRecord
	byHash        map[domain.ContentHash]*domain.ProcessingRecord
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byFingerprint: make(map[string]*domain.ProcessingRecord),
		byHash:        make(map[domain.ContentHash]*domain.ProcessingRecord),
	}
}

// GetByFingerprint returns the record for a fingerprint key.
func (s *Store) GetByFingerprint(_ context.Context, key string) (*domain.ProcessingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byFingerprint[key]
	if !ok {
		return nil, fmt.Errorf("fingerprint %q: %w", key, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// GetByContentHash returns the record for a content hash.
func (s *Store) GetByContentHash(_ context.Context, hash domain.ContentHash) (*domain.ProcessingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("content hash %q: %w", hash, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// Record stores a record under both its keys. The hash index keeps the first
// record for a hash so later sightings resolve to the original float ID.
func (s *Store) Record(_ context.Context, rec *domain.ProcessingRecord) error {
	if rec == nil || rec.FingerprintKey == "" {
		return fmt.Errorf("record: %w: missing fingerprint key", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.byFingerprint[rec.FingerprintKey] = &cp
	if _, exists := s.byHash[rec.ContentHash]; !exists {
		s.byHash[rec.ContentHash] = &cp
	}
	return nil
}

// Len returns the number of fingerprint entries. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byFingerprint)
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
