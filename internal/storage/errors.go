package storage

import "errors"

// Sentinel errors returned by every backend. Driver-specific errors are
// mapped onto these so callers can use errors.Is regardless of backend.
var (
	// ErrNotFound means the requested run or record does not exist.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicateKey means a record with the same key is already stored.
	// Stores are append-only; existing rows are never overwritten.
	ErrDuplicateKey = errors.New("storage: duplicate key")

	// ErrInvalidInput means the record failed validation before being written.
	ErrInvalidInput = errors.New("storage: invalid input")
)
