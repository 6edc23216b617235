package domain

import "time"

// RecordStatus is the terminal state of a processing attempt.
type RecordStatus string

// Record statuses.
const (
	// StatusCompleted marks a file that made it through the full pipeline.
	StatusCompleted RecordStatus = "completed"

	// StatusSkippedDuplicate marks a file skipped by the dedup gate.
	// Written only for the content-hash case, so the new fingerprint is
	// remembered without re-routing the content.
	StatusSkippedDuplicate RecordStatus = "skipped_duplicate"
)

// ProcessingRecord is the durable memory of one handled file. Records are
// created after a successful run, consulted on every later sighting of the
// same fingerprint or content hash, and never deleted automatically.
type ProcessingRecord struct {
	// FingerprintKey is the name_size_modtime key of the file.
	FingerprintKey string `json:"fingerprint_key"`

	// ContentHash is the content identity.
	ContentHash ContentHash `json:"content_hash"`

	// FloatID is the identity minted when the content was first processed.
	FloatID FloatID `json:"float_id"`

	// SourcePath is the file the record was created from.
	SourcePath string `json:"source_path"`

	// ProcessedAt is when processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// Status is the terminal state.
	Status RecordStatus `json:"status"`
}
