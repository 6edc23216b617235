// Package extractors converts dropzone files into plain UTF-8 text.
// Extractors are selected by file extension; anything without a registered
// extractor is rejected before the pipeline spends work on it.
package extractors

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// Registry routes files to extractors by extension and enforces the size
// ceiling.
type Registry struct {
	extractors []driven.Extractor
	maxSize    int64
}

// NewRegistry creates a registry with the default extractor set.
func NewRegistry(maxSize int64) *Registry {
	return &Registry{
		extractors: []driven.Extractor{
			&Markdown{},
			&JSON{},
			&Plaintext{},
		},
		maxSize: maxSize,
	}
}

// Supports reports whether any extractor handles the path's extension.
func (r *Registry) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range r.extractors {
		if e.Supports(ext) {
			return true
		}
	}
	return false
}

// Extract reads the file and returns its text. Oversized files and unknown
// extensions are rejected; invalid UTF-8 is repaired rather than dropped.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	if r.maxSize > 0 && info.Size() > r.maxSize {
		return "", fmt.Errorf("extract %s: %w: %d bytes exceeds limit %d",
			path, domain.ErrInvalidInput, info.Size(), r.maxSize)
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range r.extractors {
		if !e.Supports(ext) {
			continue
		}
		text, err := e.Extract(ctx, path)
		if err != nil {
			return "", err
		}
		repaired := strings.ToValidUTF8(text, "�")
		if repaired != text {
			logger.Warn("extract %s: repaired invalid UTF-8", path)
		}
		return repaired, nil
	}
	return "", fmt.Errorf("extract %s: %w: extension %q", path, domain.ErrUnsupportedType, ext)
}

var (
	_ driven.Extractor = (*Plaintext)(nil)
	_ driven.Extractor = (*Markdown)(nil)
	_ driven.Extractor = (*JSON)(nil)
)

// Plaintext reads the file verbatim.
type Plaintext struct{}

// Supports reports whether ext is a plain-text extension.
func (p *Plaintext) Supports(ext string) bool {
	switch ext {
	case ".txt", ".text", ".log", ".csv":
		return true
	}
	return false
}

// Extract reads the file.
func (p *Plaintext) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// Markdown reads markdown verbatim. Markers live in the raw text, so no
// rendering or stripping happens here.
type Markdown struct{}

// Supports reports whether ext is a markdown extension.
func (m *Markdown) Supports(ext string) bool {
	switch ext {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Extract reads the file.
func (m *Markdown) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// JSON reads a JSON file and re-indents it so line markers inside string
// fields stay detectable and chunk boundaries fall on structure.
type JSON struct{}

// Supports reports whether ext is a JSON extension.
func (j *JSON) Supports(ext string) bool {
	return ext == ".json"
}

// Extract reads and pretty-prints the file. Invalid JSON falls back to the
// raw bytes; the pipeline still wants the content.
func (j *JSON) Extract(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Debug("json extract %s: not valid JSON, keeping raw text", path)
		return string(data), nil
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(data), nil
	}
	return string(pretty), nil
}
