// Package driven defines the interfaces the core depends on. Adapters
// implement them; the core never imports an adapter.
package driven

import (
	"context"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

// StateStore persists processing records for deduplication. Lookups return
// domain.ErrNotFound when no record matches; any other error means the store
// is unhealthy and processing must halt.
type StateStore interface {
	// GetByFingerprint returns the record for a fingerprint key.
	GetByFingerprint(ctx context.Context, key string) (*domain.ProcessingRecord, error)

	// GetByContentHash returns the record for a content hash.
	GetByContentHash(ctx context.Context, hash domain.ContentHash) (*domain.ProcessingRecord, error)

	// Record persists a processing record, keyed by both its fingerprint
	// key and its content hash.
	Record(ctx context.Context, rec *domain.ProcessingRecord) error

	// Close releases store resources.
	Close() error
}
