package driven

import (
	"context"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

// FileSource emits file events from a watched location. Watch blocks until
// ctx is cancelled and closes the returned channel on exit.
type FileSource interface {
	// Watch starts emitting events for files appearing under the source.
	// Implementations also emit one event per file already present.
	Watch(ctx context.Context) (<-chan domain.FileEvent, error)

	// Close stops the source.
	Close() error
}
