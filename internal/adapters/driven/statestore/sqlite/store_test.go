package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.GetByFingerprint(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rec := &domain.ProcessingRecord{
		FingerprintKey: "a.md_10_1",
		ContentHash:    domain.HashContent("hello"),
		FloatID:        "float_20250601_aaaaaaaaaaaa",
		SourcePath:     "/drop/a.md",
		ProcessedAt:    time.Now().UTC(),
		Status:         domain.StatusCompleted,
	}
	require.NoError(t, s.Record(ctx, rec))

	got, err := s.GetByFingerprint(ctx, rec.FingerprintKey)
	require.NoError(t, err)
	assert.Equal(t, rec.FloatID, got.FloatID)
	assert.Equal(t, domain.StatusCompleted, got.Status)

	got, err = s.GetByContentHash(ctx, rec.ContentHash)
	require.NoError(t, err)
	assert.Equal(t, rec.FingerprintKey, got.FingerprintKey)
}

func TestSQLiteHashResolvesToEarliestRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	hash := domain.HashContent("shared")
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, &domain.ProcessingRecord{
		FingerprintKey: "orig.md_5_1",
		ContentHash:    hash,
		FloatID:        "float_20250601_original0000",
		SourcePath:     "/drop/orig.md",
		ProcessedAt:    base,
		Status:         domain.StatusCompleted,
	}))
	require.NoError(t, s.Record(ctx, &domain.ProcessingRecord{
		FingerprintKey: "copy.md_5_2",
		ContentHash:    hash,
		FloatID:        "float_20250602_later0000000",
		SourcePath:     "/drop/copy.md",
		ProcessedAt:    base.Add(24 * time.Hour),
		Status:         domain.StatusSkippedDuplicate,
	}))

	got, err := s.GetByContentHash(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, domain.FloatID("float_20250601_original0000"), got.FloatID)
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s1, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := New(path)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}
