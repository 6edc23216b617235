package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

func testSizes() domain.ChunkSizes {
	return domain.DefaultSettings().Chunks
}

func TestPlanEmptyText(t *testing.T) {
	c := New(testSizes())

	plan, err := c.Plan("", domain.DomainConcept, nil)
	require.NoError(t, err)
	assert.Empty(t, plan.Chunks)
}

func TestPlanInvalidDomain(t *testing.T) {
	c := New(testSizes())

	_, err := c.Plan("text", domain.Domain("vibes"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPlanShortTextIsOneChunk(t *testing.T) {
	c := New(testSizes())
	text := "a short note that fits in one chunk"

	plan, err := c.Plan(text, domain.DomainConcept, nil)
	require.NoError(t, err)
	require.Len(t, plan.Chunks, 1)
	assert.Equal(t, text, plan.Chunks[0].Text)
	assert.Equal(t, 0, plan.Chunks[0].Start)
}

func TestPlanReconstructionIsExact(t *testing.T) {
	c := New(testSizes())

	para := strings.Repeat("Sentences fill the paragraph with prose. ", 10)
	text := para + "\n\n" + para + "\n\n\n" + para + "\n" + para

	for _, d := range domain.AllDomains() {
		plan, err := c.Plan(text, d, nil)
		require.NoError(t, err)
		assert.Equal(t, text, plan.Reconstruct(), "domain %s", d)
		assert.Greater(t, len(plan.Chunks), 1)

		// Offsets are contiguous.
		next := 0
		for i, ch := range plan.Chunks {
			assert.Equal(t, next, ch.Start)
			assert.Equal(t, i, ch.Index)
			assert.Equal(t, len(ch.Text), ch.CharLength)
			next += len(ch.Text)
		}
	}
}

func TestPlanRespectsDomainSizing(t *testing.T) {
	c := New(testSizes())
	text := strings.Repeat("A sentence of filler prose for sizing. ", 200)

	concept, err := c.Plan(text, domain.DomainConcept, nil)
	require.NoError(t, err)
	framework, err := c.Plan(text, domain.DomainFramework, nil)
	require.NoError(t, err)

	for _, ch := range concept.Chunks {
		assert.LessOrEqual(t, ch.CharLength, 1200)
	}
	for _, ch := range framework.Chunks {
		assert.LessOrEqual(t, ch.CharLength, 1800)
	}

	// Larger targets mean fewer chunks over the same text.
	assert.Less(t, len(framework.Chunks), len(concept.Chunks))
}

func TestPlanKeepsAtomicBlockWhole(t *testing.T) {
	c := New(testSizes())

	payload := strings.Repeat("x", 1500)
	block := `float.dispatch({"payload": "` + payload + `"})`
	text := "intro paragraph.\n\n" + block + "\n\nclosing paragraph."

	matches := []domain.PatternMatch{{
		Type:   domain.PatternDispatch,
		Family: domain.FamilyDispatch,
		Start:  strings.Index(text, "float.dispatch"),
		End:    strings.Index(text, "float.dispatch") + len(block),
		Atomic: true,
	}}

	plan, err := c.Plan(text, domain.DomainConcept, matches)
	require.NoError(t, err)
	assert.Equal(t, text, plan.Reconstruct())

	// The whole block lands in exactly one chunk.
	var holder *domain.Chunk
	for i := range plan.Chunks {
		if strings.Contains(plan.Chunks[i].Text, block) {
			holder = &plan.Chunks[i]
			break
		}
	}
	require.NotNil(t, holder, "dispatch block must not be split")
	assert.True(t, holder.Oversized, "a block past the domain max is flagged, not split")
}

func TestPlanFlagsTruncatedMarker(t *testing.T) {
	c := New(testSizes())

	intro := strings.Repeat("Prose before the marker fills space. ", 40)
	block := `float.dispatch({"target": "bay"`
	text := intro + "\n\n" + block

	matches := []domain.PatternMatch{{
		Type:      domain.PatternDispatch,
		Family:    domain.FamilyDispatch,
		Start:     strings.Index(text, "float.dispatch"),
		End:       len(text),
		Atomic:    true,
		Truncated: true,
	}}

	plan, err := c.Plan(text, domain.DomainConcept, matches)
	require.NoError(t, err)
	assert.Equal(t, text, plan.Reconstruct())

	require.Greater(t, len(plan.Chunks), 1)
	last := plan.Chunks[len(plan.Chunks)-1]
	assert.True(t, last.Truncated, "the chunk holding the unterminated block carries the flag")
	assert.False(t, plan.Chunks[0].Truncated)
}

func TestPlanSentenceFallback(t *testing.T) {
	c := New(testSizes())

	// One giant paragraph with no blank lines: only sentence breaks exist.
	text := strings.Repeat("No blank lines anywhere in this text. ", 100)

	plan, err := c.Plan(text, domain.DomainConcept, nil)
	require.NoError(t, err)
	assert.Equal(t, text, plan.Reconstruct())
	assert.Greater(t, len(plan.Chunks), 1)
	for _, ch := range plan.Chunks {
		assert.LessOrEqual(t, ch.CharLength, 1200)
	}
}
