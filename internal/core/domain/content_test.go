package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentItemValidate(t *testing.T) {
	t.Run("valid item", func(t *testing.T) {
		item := &ContentItem{SourcePath: "/drop/notes.md", Text: "hello"}
		require.NoError(t, item.Validate())
	})

	t.Run("nil item", func(t *testing.T) {
		var item *ContentItem
		err := item.Validate()
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty source path", func(t *testing.T) {
		item := &ContentItem{Text: "hello"}
		err := item.Validate()
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestFingerprintKey(t *testing.T) {
	mod := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	item := &ContentItem{
		SourcePath: "/drop/notes.md",
		Size:       2048,
		ModTime:    mod,
	}

	fp := item.Fingerprint()
	assert.Equal(t, "notes.md", fp.Name)

	want := "notes.md_2048_" + "1748781000000000000"
	assert.Equal(t, want, fp.Key())

	// Touching the mtime changes the key even when the bytes are identical.
	fp2 := fp
	fp2.ModTime = mod.Add(time.Second)
	assert.NotEqual(t, fp.Key(), fp2.Key())
}

func TestHashContent(t *testing.T) {
	h1 := HashContent("the same bytes")
	h2 := HashContent("the same bytes")
	h3 := HashContent("different bytes")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, string(h1), 12)
}

func TestNewFloatID(t *testing.T) {
	day := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	hash := HashContent("content")

	id := NewFloatID(day, hash)
	assert.Equal(t, FloatID("float_20250601_"+string(hash)), id)

	// Same content on a different day mints a different ID.
	id2 := NewFloatID(day.AddDate(0, 0, 1), hash)
	assert.NotEqual(t, id, id2)
}
