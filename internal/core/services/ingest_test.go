package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	collmem "github.com/float-ritual-stack/floatd/internal/adapters/driven/collections/memory"
	statemem "github.com/float-ritual-stack/floatd/internal/adapters/driven/statestore/memory"
	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/dedup"
	"github.com/float-ritual-stack/floatd/internal/disgen"
	"github.com/float-ritual-stack/floatd/internal/extractors"
)

type fixture struct {
	svc   *IngestService
	store *statemem.Store
	sink  *collmem.Sink
	dir   string
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store := statemem.New()
	sink := collmem.New()
	settings := domain.DefaultSettings()
	settings.Dropzone = t.TempDir()

	svc := NewIngestService(settings, store, sink, nil, extractors.NewRegistry(settings.MaxFileSize), opts...)
	return &fixture{svc: svc, store: store, sink: sink, dir: settings.Dropzone}
}

func (f *fixture) drop(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestProcessFileRoutesConceptContent(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "notes.md", "ctx:: morning\n\nThe key insight refers to a single definition.\n")

	result, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, domain.DomainConcept, result.Decision.Primary)
	assert.NotEmpty(t, result.Entries)

	stored := f.sink.Collection("float_tripartite_v2_concept")
	assert.NotEmpty(t, stored)
	assert.Equal(t, result.FloatID, stored[0].FloatID)
}

// countingExtractor counts Extract calls around the real registry.
type countingExtractor struct {
	inner *extractors.Registry
	calls int
}

func (c *countingExtractor) Supports(path string) bool { return c.inner.Supports(path) }

func (c *countingExtractor) Extract(ctx context.Context, path string) (string, error) {
	c.calls++
	return c.inner.Extract(ctx, path)
}

func TestProcessFileFingerprintSkipReadsNoContent(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Dropzone = t.TempDir()
	ext := &countingExtractor{inner: extractors.NewRegistry(settings.MaxFileSize)}
	svc := NewIngestService(settings, statemem.New(), collmem.New(), nil, ext)

	path := filepath.Join(settings.Dropzone, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("ctx:: read once\n"), 0o644))

	first, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, first.Skipped)

	second, err := svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.True(t, second.Skipped)
	assert.Equal(t, dedup.ReasonDuplicateFingerprint, second.SkipReason)

	// The fingerprint hit decided from the stat alone.
	assert.Equal(t, 1, ext.calls)
}

func TestProcessFileIsIdempotent(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "notes.md", "ctx:: once only\n")

	first, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, first.Skipped)
	stored := len(f.sink.Collection("float_tripartite_v2_concept"))

	second, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, dedup.ReasonDuplicateFingerprint, second.SkipReason)
	assert.Equal(t, first.FloatID, second.FloatID)

	// Nothing new was routed.
	assert.Equal(t, stored, len(f.sink.Collection("float_tripartite_v2_concept")))
}

func TestProcessFileContentDuplicateKeepsOriginalID(t *testing.T) {
	f := newFixture(t)
	content := "highlight:: the same bytes twice\n"
	first := f.drop(t, "original.md", content)
	second := f.drop(t, "renamed.md", content)

	r1, err := f.svc.ProcessFile(context.Background(), first)
	require.NoError(t, err)
	require.False(t, r1.Skipped)

	r2, err := f.svc.ProcessFile(context.Background(), second)
	require.NoError(t, err)
	assert.True(t, r2.Skipped)
	assert.Equal(t, dedup.ReasonDuplicateContentHash, r2.SkipReason)
	assert.Equal(t, r1.FloatID, r2.FloatID)

	// The duplicate's fingerprint was remembered: next time it is the
	// cheaper skip.
	r3, err := f.svc.ProcessFile(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, dedup.ReasonDuplicateFingerprint, r3.SkipReason)
}

func TestProcessFileDispatchDualRouting(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "dispatch.md", `ctx:: work log

float.dispatch({"target": "bay", "note": "ship it"})

Some trailing prose to close the file.
`)

	result, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, result.Skipped)

	bay := f.sink.Collection("float_dispatch_bay")
	require.Len(t, bay, 1)
	assert.Contains(t, bay[0].ChunkText, "float.dispatch(")

	// The same chunk also lives in the primary domain collection.
	primary := f.sink.Collection(domain.DefaultSettings().Collections.ForDomain(result.Decision.Primary))
	assert.NotEmpty(t, primary)
}

func TestProcessFileAmbiguousGoesToGeneral(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "plain.txt", "Nothing here matches anything at all.\n")

	result, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, result.Skipped)
	assert.True(t, result.Decision.Ambiguous)

	assert.NotEmpty(t, f.sink.Collection("float_general"))
	assert.Empty(t, f.sink.Collection("float_tripartite_v2_concept"))
}

func TestProcessFileUnsupportedExtension(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "image.png", "\x89PNG")

	_, err := f.svc.ProcessFile(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	status := f.svc.Status()
	assert.Equal(t, 1, status.Failed)
}

func TestProcessFileWritesSidecarNote(t *testing.T) {
	f := newFixture(t, WithNotes(disgen.New()))
	path := f.drop(t, "notes.md", "ctx:: note me\n")

	result, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path + disgen.Suffix)
	require.NoError(t, err)
	assert.Contains(t, string(data), string(result.FloatID))
}

func TestClassifyAndPlanChunksRoundTrip(t *testing.T) {
	f := newFixture(t)

	text := strings.Repeat("ctx:: dense signal line\n", 3) +
		strings.Repeat("Plain filler prose sentence goes here. ", 60)
	item := &domain.ContentItem{SourcePath: "/drop/x.md", Text: text}

	decision, profile, err := f.svc.Classify(context.Background(), item)
	require.NoError(t, err)
	require.NotNil(t, profile)

	plans, err := f.svc.PlanChunks(item, decision)
	require.NoError(t, err)
	require.NotEmpty(t, plans)

	for _, plan := range plans {
		assert.Equal(t, text, plan.Reconstruct())
	}
}

func TestProcessFileAllDomainOverride(t *testing.T) {
	f := newFixture(t)

	// Dense marker soup: density well past 0.05 with more than 10 matches.
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString("ctx:: dense\n")
	}
	path := f.drop(t, "dense.md", b.String())

	result, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	require.False(t, result.Skipped)
	assert.True(t, result.Decision.AllDomains)

	// Every domain collection received the content.
	cols := domain.DefaultSettings().Collections
	for _, d := range domain.AllDomains() {
		assert.NotEmpty(t, f.sink.Collection(cols.ForDomain(d)), "domain %s", d)
	}
}

func TestStatusCounters(t *testing.T) {
	f := newFixture(t)
	path := f.drop(t, "a.md", "ctx:: one\n")

	_, err := f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	_, err = f.svc.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	status := f.svc.Status()
	assert.Equal(t, 1, status.Processed)
	assert.Equal(t, 1, status.Skipped)
	assert.Equal(t, 0, status.InFlight)
	assert.NotEmpty(t, status.RunID)

	// Clock injection keeps float IDs date-stable.
	day := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	f2 := newFixture(t, WithClock(func() time.Time { return day }))
	p2 := f2.drop(t, "b.md", "ctx:: two\n")
	r2, err := f2.svc.ProcessFile(context.Background(), p2)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(r2.FloatID), "float_20250602_"))
}
