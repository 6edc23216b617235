package driven

import (
	"context"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

// CollectionStore receives routed chunks. Implementations are expected to be
// idempotent on entry ID so a retried manifest never double-writes.
type CollectionStore interface {
	// Store writes one manifest entry to its collection.
	Store(ctx context.Context, entry *domain.ManifestEntry) error

	// StoreBatch writes a full manifest. Implementations may fan out per
	// collection; the call fails on the first entry that cannot be stored.
	StoreBatch(ctx context.Context, entries []*domain.ManifestEntry) error

	// Close releases sink resources.
	Close() error
}
