// Package file provides the default state store: one JSON document on disk,
// replaced atomically on every write.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

var _ driven.StateStore = (*Store)(nil)

// document is the on-disk shape. Two indexes over the same records: by
// fingerprint key and by content hash.
type document struct {
	Records map[string]*domain.ProcessingRecord `json:"records"`
	Hashes  map[string]*domain.ProcessingRecord `json:"hashes"`
}

// Store keeps the whole document in memory and rewrites the file on every
// Record call via a temp file and rename, so a crash never leaves a
// half-written state file.
type Store struct {
	mu   sync.RWMutex
	path string
	doc  document
}

// New opens (or creates) the state file at path. A corrupt file is treated
// as empty with a warning; losing dedup history is recoverable, refusing to
// start is not.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("state store: %w: empty path", domain.ErrInvalidInput)
	}
	s := &Store{path: path, doc: emptyDocument()}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run.
	case err != nil:
		return nil, fmt.Errorf("state store: read %s: %w", path, err)
	default:
		if jsonErr := json.Unmarshal(data, &s.doc); jsonErr != nil {
			logger.Warn("state file %s is corrupt, starting empty: %v", path, jsonErr)
			s.doc = emptyDocument()
		}
		if s.doc.Records == nil || s.doc.Hashes == nil {
			s.doc = emptyDocument()
		}
	}
	return s, nil
}

func emptyDocument() document {
	return document{
		Records: make(map[string]*domain.ProcessingRecord),
		Hashes:  make(map[string]*domain.ProcessingRecord),
	}
}

// GetByFingerprint returns the record for a fingerprint key.
func (s *Store) GetByFingerprint(_ context.Context, key string) (*domain.ProcessingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.doc.Records[key]
	if !ok {
		return nil, fmt.Errorf("fingerprint %q: %w", key, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// GetByContentHash returns the record for a content hash.
func (s *Store) GetByContentHash(_ context.Context, hash domain.ContentHash) (*domain.ProcessingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.doc.Hashes[string(hash)]
	if !ok {
		return nil, fmt.Errorf("content hash %q: %w", hash, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// Record adds a record under both indexes and persists the document. The
// hash index keeps the first record for a hash so duplicates resolve to the
// original float ID.
func (s *Store) Record(_ context.Context, rec *domain.ProcessingRecord) error {
	if rec == nil || rec.FingerprintKey == "" {
		return fmt.Errorf("record: %w: missing fingerprint key", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.doc.Records[rec.FingerprintKey] = &cp
	if _, exists := s.doc.Hashes[string(rec.ContentHash)]; !exists && rec.ContentHash != "" {
		s.doc.Hashes[string(rec.ContentHash)] = &cp
	}
	return s.flushLocked()
}

// flushLocked writes the document to a temp file in the same directory and
// renames it over the state file.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("state store: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state store: %w: %w", domain.ErrStoreUnavailable, err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("state store: %w: %w", domain.ErrStoreUnavailable, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("state store: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("state store: %w: %w", domain.ErrStoreUnavailable, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("state store: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Len returns the number of fingerprint entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Records)
}

// Close is a no-op; every Record already flushed.
func (s *Store) Close() error { return nil }
