package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"time"
)

// ContentItem is one ingestion attempt: a file that appeared in the dropzone
// together with its extracted text. Items are created per file event and
// discarded after processing; nothing persists them.
type ContentItem struct {
	// SourcePath is the absolute path of the originating file.
	SourcePath string

	// Text is the extracted UTF-8 content.
	Text string

	// Size is the file size in bytes at detection time.
	Size int64

	// ModTime is the file modification time at detection time.
	ModTime time.Time
}

// Validate rejects items that cannot enter the pipeline.
func (c *ContentItem) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil content item", ErrInvalidInput)
	}
	if c.SourcePath == "" {
		return fmt.Errorf("%w: empty source path", ErrInvalidInput)
	}
	return nil
}

// Fingerprint returns the cheap pre-check identity for this item.
func (c *ContentItem) Fingerprint() ContentFingerprint {
	return ContentFingerprint{
		Name:    filepath.Base(c.SourcePath),
		Size:    c.Size,
		ModTime: c.ModTime,
	}
}

// ContentFingerprint is a non-cryptographic file identity (name, size,
// modification time) used to short-circuit dedup checks before the content
// is read or hashed.
type ContentFingerprint struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Key returns the state-store key for this fingerprint.
func (f ContentFingerprint) Key() string {
	return fmt.Sprintf("%s_%d_%d", f.Name, f.Size, f.ModTime.UnixNano())
}

// contentHashLen is the number of hex characters kept from the SHA-256 digest.
const contentHashLen = 12

// ContentHash is the content identity: the first 12 hex characters of the
// SHA-256 digest of the raw text. Identical bytes always yield an identical
// hash regardless of filename or timestamps.
type ContentHash string

// HashContent computes the ContentHash of text.
func HashContent(text string) ContentHash {
	sum := sha256.Sum256([]byte(text))
	return ContentHash(hex.EncodeToString(sum[:])[:contentHashLen])
}

// FloatID identifies one piece of ingested content. The ID embeds the
// ingestion date, so identical content seen on different calendar days mints
// distinct IDs over the same ContentHash; the state store still deduplicates
// by hash, so only the first ID is ever recorded.
type FloatID string

// NewFloatID mints a float ID for content ingested on day.
func NewFloatID(day time.Time, hash ContentHash) FloatID {
	return FloatID(fmt.Sprintf("float_%s_%s", day.Format("20060102"), hash))
}

// FileEvent is a "file appeared" notification from a file-event source.
type FileEvent struct {
	// Path is the absolute path of the file.
	Path string

	// DetectedAt is when the source noticed the file.
	DetectedAt time.Time
}
