package checkpoint

import "go.trai.ch/zerr"

var (
	// ErrNotFound is returned when no record exists for a run.
	ErrNotFound = zerr.New("checkpoint not found")

	// ErrNotInitialized is returned by a store used before Init.
	ErrNotInitialized = zerr.New("store is not initialized")

	// ErrUnsupportedStore is returned by NewStore for an unknown backend.
	ErrUnsupportedStore = zerr.New("unsupported store backend")

	// ErrMissingPath is returned when the SQLite backend has no database path.
	ErrMissingPath = zerr.New("sqlite path is required")

	// ErrInvalidRecord is returned for a record that fails validation.
	ErrInvalidRecord = zerr.New("invalid checkpoint record")
)
