package checkpoint

import (
	"context"

	"go.trai.ch/zerr"
)

// Store keeps the fittest record of every generation that produced one.
type Store interface {
	// Init prepares the backend. It must be called before any other method.
	Init(ctx context.Context) error
	// Save appends r to its run's history.
	Save(ctx context.Context, r Record) error
	// Latest returns the most recent record of a run, or ErrNotFound.
	Latest(ctx context.Context, runID string) (Record, error)
	// History returns every record of a run ordered by generation.
	History(ctx context.Context, runID string) ([]Record, error)
	// Close releases the backend.
	Close() error
}

// Store backends accepted by NewStore.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// NewStore returns an uninitialized store for the named backend.
// An empty kind selects the memory backend.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, zerr.With(zerr.Wrap(ErrUnsupportedStore, "new store"), "kind", kind)
	}
}

func notFound(runID string) error {
	return zerr.With(zerr.Wrap(ErrNotFound, "latest"), "run_id", runID)
}
