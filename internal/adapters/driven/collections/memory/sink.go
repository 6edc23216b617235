// Package memory provides an in-memory collection sink for tests and for
// running the daemon without a Chroma server.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
)

var _ driven.CollectionStore = (*Sink)(nil)

// Sink keeps routed entries grouped by collection name.
type Sink struct {
	mu     sync.RWMutex
	byColl map[string][]*domain.ManifestEntry
	byID   map[string]bool
}

// New creates an empty sink.
func New() *Sink {
	return &Sink{
		byColl: make(map[string][]*domain.ManifestEntry),
		byID:   make(map[string]bool),
	}
}

// Store writes one entry. Re-storing an entry ID is a no-op, matching the
// idempotency the port requires.
func (s *Sink) Store(_ context.Context, entry *domain.ManifestEntry) error {
	if entry == nil || entry.Collection == "" {
		return fmt.Errorf("store entry: %w: missing collection", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byID[entry.ID] {
		return nil
	}
	s.byID[entry.ID] = true
	cp := *entry
	s.byColl[entry.Collection] = append(s.byColl[entry.Collection], &cp)
	return nil
}

// StoreBatch writes a full manifest.
func (s *Sink) StoreBatch(ctx context.Context, entries []*domain.ManifestEntry) error {
	for _, e := range entries {
		if err := s.Store(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Collection returns the entries stored under a collection name.
func (s *Sink) Collection(name string) []*domain.ManifestEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ManifestEntry, len(s.byColl[name]))
	copy(out, s.byColl[name])
	return out
}

// Collections returns the names of all non-empty collections.
func (s *Sink) Collections() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for name := range s.byColl {
		names = append(names, name)
	}
	return names
}

// Close is a no-op.
func (s *Sink) Close() error { return nil }
