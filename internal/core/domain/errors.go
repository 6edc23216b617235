package domain

import "errors"

// Sentinel errors for the ingestion pipeline. Callers match with errors.Is;
// wrapping sites add context with fmt.Errorf("...: %w", err).
var (
	// ErrInvalidInput indicates malformed or missing input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a record or resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a record with the same key already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnsupportedType indicates a file type with no registered extractor.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrStoreUnavailable indicates the state store cannot be reached or
	// written. Processing halts on this error rather than risking duplicate
	// routing.
	ErrStoreUnavailable = errors.New("state store unavailable")
)
