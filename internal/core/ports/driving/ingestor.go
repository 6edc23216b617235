// Package driving defines the interfaces through which the outside world
// drives the core.
package driving

import (
	"context"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

// ProcessResult reports what happened to one file.
type ProcessResult struct {
	// FloatID is set when the file was processed or matched by content.
	FloatID domain.FloatID

	// Skipped is true when the dedup gate stopped the file.
	Skipped bool

	// SkipReason explains a skip ("duplicate fingerprint" or
	// "duplicate content hash").
	SkipReason string

	// Decision is the routing verdict. Nil when Skipped.
	Decision *domain.RoutingDecision

	// Entries is the manifest written for the file. Nil when Skipped.
	Entries []*domain.ManifestEntry
}

// RunStatus is a snapshot of a running ingestion service.
type RunStatus struct {
	RunID      string
	Watching   string
	Processed  int
	Skipped    int
	Failed     int
	InFlight   int
	LastError  string
	LastOutput string
}

// Ingestor is the core pipeline: dedup, detect, classify, chunk, route.
type Ingestor interface {
	// Classify runs detection and classification on an item without
	// touching the state store.
	Classify(ctx context.Context, item *domain.ContentItem) (*domain.RoutingDecision, *domain.SignalProfile, error)

	// PlanChunks produces the per-domain chunk plans for an item under a
	// routing decision.
	PlanChunks(item *domain.ContentItem, decision *domain.RoutingDecision) ([]domain.ChunkPlan, error)

	// ProcessFile runs the full pipeline for one file path.
	ProcessFile(ctx context.Context, path string) (*ProcessResult, error)

	// Run watches the dropzone and processes files until ctx is cancelled.
	Run(ctx context.Context) error

	// Status returns a snapshot of the service.
	Status() RunStatus
}
