// Package dedup decides whether a file enters the pipeline or is skipped
// as already-processed content.
package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// Skip reasons reported in process results.
const (
	ReasonDuplicateFingerprint = "duplicate fingerprint"
	ReasonDuplicateContentHash = "duplicate content hash"
)

// Verdict is the gate's decision for one item.
type Verdict struct {
	// Skip is true when the item must not be routed again.
	Skip bool

	// Reason explains a skip.
	Reason string

	// Existing is the matched record on a skip.
	Existing *domain.ProcessingRecord

	// FloatID is the identity for the item: the existing record's ID on a
	// content-hash skip, a freshly minted ID otherwise.
	FloatID domain.FloatID

	// ContentHash is the computed hash of the item's text.
	ContentHash domain.ContentHash
}

// Gate runs the two-stage dedup check. CheckFingerprint works from file
// metadata alone, before the content is ever read; CheckContent hashes the
// extracted text. Store failures stop processing rather than risking a
// double-route.
type Gate struct {
	store driven.StateStore
	now   func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the time source. Useful for testing date-stamped IDs.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a gate over a state store.
func NewGate(store driven.StateStore, opts ...Option) *Gate {
	g := &Gate{store: store, now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// CheckFingerprint runs stage one. A hit means this exact file sighting was
// already handled; the item's text may be empty because the content is never
// read or hashed here.
func (g *Gate) CheckFingerprint(ctx context.Context, item *domain.ContentItem) (*Verdict, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}

	key := item.Fingerprint().Key()
	rec, err := g.store.GetByFingerprint(ctx, key)
	if err == nil {
		logger.Debug("dedup: fingerprint hit for %s", item.SourcePath)
		return &Verdict{
			Skip:     true,
			Reason:   ReasonDuplicateFingerprint,
			Existing: rec,
			FloatID:  rec.FloatID,
		}, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("dedup fingerprint lookup: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return &Verdict{}, nil
}

// CheckContent runs stage two on the extracted text. A hit means the same
// bytes arrived under a new name or timestamp; fresh content gets its float
// ID minted here.
func (g *Gate) CheckContent(ctx context.Context, item *domain.ContentItem) (*Verdict, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}

	hash := domain.HashContent(item.Text)
	rec, err := g.store.GetByContentHash(ctx, hash)
	if err == nil {
		logger.Debug("dedup: content hash hit for %s (%s)", item.SourcePath, hash)
		return &Verdict{
			Skip:        true,
			Reason:      ReasonDuplicateContentHash,
			Existing:    rec,
			FloatID:     rec.FloatID,
			ContentHash: hash,
		}, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("dedup content lookup: %w: %w", domain.ErrStoreUnavailable, err)
	}

	return &Verdict{
		FloatID:     domain.NewFloatID(g.now(), hash),
		ContentHash: hash,
	}, nil
}

// RememberSkip records a content-hash duplicate under its new fingerprint so
// the cheaper stage catches the file next time.
func (g *Gate) RememberSkip(ctx context.Context, item *domain.ContentItem, v *Verdict) error {
	rec := &domain.ProcessingRecord{
		FingerprintKey: item.Fingerprint().Key(),
		ContentHash:    v.ContentHash,
		FloatID:        v.FloatID,
		SourcePath:     item.SourcePath,
		ProcessedAt:    g.now(),
		Status:         domain.StatusSkippedDuplicate,
	}
	if err := g.store.Record(ctx, rec); err != nil {
		return fmt.Errorf("dedup remember skip: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
