package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/float-ritual-stack/floatd/internal/adapters/driven/statestore/memory"
	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGateFreshContent(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	gate := NewGate(memory.New(), WithClock(fixedClock(day)))

	item := &domain.ContentItem{
		SourcePath: "/drop/notes.md",
		Text:       "fresh content",
		Size:       13,
		ModTime:    day,
	}

	v, err := gate.CheckFingerprint(ctx, item)
	require.NoError(t, err)
	assert.False(t, v.Skip)

	v, err = gate.CheckContent(ctx, item)
	require.NoError(t, err)
	assert.False(t, v.Skip)
	assert.Equal(t, domain.HashContent("fresh content"), v.ContentHash)
	assert.Equal(t, domain.NewFloatID(day, v.ContentHash), v.FloatID)
}

func TestGateFingerprintHitNeedsNoContent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	gate := NewGate(store, WithClock(fixedClock(day)))

	recorded := &domain.ContentItem{
		SourcePath: "/drop/notes.md",
		Text:       "content",
		Size:       7,
		ModTime:    day,
	}
	require.NoError(t, store.Record(ctx, &domain.ProcessingRecord{
		FingerprintKey: recorded.Fingerprint().Key(),
		ContentHash:    domain.HashContent(recorded.Text),
		FloatID:        "float_20250601_abcdefabcdef",
		SourcePath:     recorded.SourcePath,
		ProcessedAt:    day,
		Status:         domain.StatusCompleted,
	}))

	// Stage one sees only what a stat call provides: no text.
	sighting := &domain.ContentItem{
		SourcePath: "/drop/notes.md",
		Size:       7,
		ModTime:    day,
	}

	v, err := gate.CheckFingerprint(ctx, sighting)
	require.NoError(t, err)
	assert.True(t, v.Skip)
	assert.Equal(t, ReasonDuplicateFingerprint, v.Reason)
	assert.Equal(t, domain.FloatID("float_20250601_abcdefabcdef"), v.FloatID)
}

func TestGateContentHashHit(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	day := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	gate := NewGate(store, WithClock(fixedClock(day)))

	// Same bytes, previously seen under a different name.
	original := &domain.ContentItem{
		SourcePath: "/drop/original.md",
		Text:       "shared bytes",
		Size:       12,
		ModTime:    day,
	}
	origID := domain.NewFloatID(day, domain.HashContent(original.Text))
	require.NoError(t, store.Record(ctx, &domain.ProcessingRecord{
		FingerprintKey: original.Fingerprint().Key(),
		ContentHash:    domain.HashContent(original.Text),
		FloatID:        origID,
		SourcePath:     original.SourcePath,
		ProcessedAt:    day,
		Status:         domain.StatusCompleted,
	}))

	renamed := &domain.ContentItem{
		SourcePath: "/drop/renamed.md",
		Text:       "shared bytes",
		Size:       12,
		ModTime:    day.Add(time.Hour),
	}

	v, err := gate.CheckFingerprint(ctx, renamed)
	require.NoError(t, err)
	assert.False(t, v.Skip, "a new fingerprint passes stage one")

	v, err = gate.CheckContent(ctx, renamed)
	require.NoError(t, err)
	assert.True(t, v.Skip)
	assert.Equal(t, ReasonDuplicateContentHash, v.Reason)
	assert.Equal(t, origID, v.FloatID, "content duplicates keep the original float ID")

	// RememberSkip makes the next sighting a fingerprint hit.
	require.NoError(t, gate.RememberSkip(ctx, renamed, v))

	v2, err := gate.CheckFingerprint(ctx, renamed)
	require.NoError(t, err)
	assert.True(t, v2.Skip)
	assert.Equal(t, ReasonDuplicateFingerprint, v2.Reason)
	assert.Equal(t, origID, v2.FloatID)
}

func TestGateInvalidItem(t *testing.T) {
	gate := NewGate(memory.New())

	_, err := gate.CheckFingerprint(context.Background(), &domain.ContentItem{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = gate.CheckContent(context.Background(), &domain.ContentItem{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
