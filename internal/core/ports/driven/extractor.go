package driven

import "context"

// Extractor converts one file into plain UTF-8 text. Extractors are selected
// by extension; Supports lets the registry pick without trial extraction.
type Extractor interface {
	// Supports reports whether the extractor handles the file extension
	// (lowercase, with leading dot).
	Supports(ext string) bool

	// Extract reads the file at path and returns its text content.
	Extract(ctx context.Context, path string) (string, error)
}
