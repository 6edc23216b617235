// Package sqlite provides the SQLite-backed state store, selected with
// state_backend = "sqlite". It trades the single-document simplicity of the
// file backend for cheap lookups over very large processing histories.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/float-ritual-stack/floatd/internal/adapters/driven/statestore/sqlite/migrations"
	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/core/ports/driven"
)

var _ driven.StateStore = (*Store)(nil)

// Store persists processing records in a single SQLite database opened in
// WAL mode.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the database at path and applies pending
// migrations.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite state store: %w: empty path", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite state store: creating directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite state store: opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite state store: running migrations: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetByFingerprint returns the record for a fingerprint key.
func (s *Store) GetByFingerprint(ctx context.Context, key string) (*domain.ProcessingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT fingerprint_key, content_hash, float_id, source_path, processed_at, status
		FROM processing_records WHERE fingerprint_key = ?
	`, key)
	return scanRecord(row, fmt.Sprintf("fingerprint %q", key))
}

// GetByContentHash returns the earliest record for a content hash, so
// duplicates always resolve to the original float ID.
func (s *Store) GetByContentHash(ctx context.Context, hash domain.ContentHash) (*domain.ProcessingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT fingerprint_key, content_hash, float_id, source_path, processed_at, status
		FROM processing_records WHERE content_hash = ?
		ORDER BY processed_at ASC LIMIT 1
	`, string(hash))
	return scanRecord(row, fmt.Sprintf("content hash %q", hash))
}

// Record upserts a processing record under its fingerprint key.
func (s *Store) Record(ctx context.Context, rec *domain.ProcessingRecord) error {
	if rec == nil || rec.FingerprintKey == "" {
		return fmt.Errorf("record: %w: missing fingerprint key", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processing_records
			(fingerprint_key, content_hash, float_id, source_path, processed_at, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint_key) DO UPDATE SET
			content_hash = excluded.content_hash,
			float_id = excluded.float_id,
			source_path = excluded.source_path,
			processed_at = excluded.processed_at,
			status = excluded.status
	`, rec.FingerprintKey, string(rec.ContentHash), string(rec.FloatID),
		rec.SourcePath, rec.ProcessedAt.UTC(), string(rec.Status))
	if err != nil {
		return fmt.Errorf("saving record: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func scanRecord(row *sql.Row, what string) (*domain.ProcessingRecord, error) {
	var rec domain.ProcessingRecord
	var hash, floatID, status string
	err := row.Scan(&rec.FingerprintKey, &hash, &floatID, &rec.SourcePath, &rec.ProcessedAt, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	rec.ContentHash = domain.ContentHash(hash)
	rec.FloatID = domain.FloatID(floatID)
	rec.Status = domain.RecordStatus(status)
	return &rec, nil
}

// migrate runs all pending migrations, tracked in schema_migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}
