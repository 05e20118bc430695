package checkpoint

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/zerr"

	_ "modernc.org/sqlite" // register the "sqlite" driver
)

// SQLiteStore keeps records in a SQLite database file.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store for the database at path. Call Init before use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema if needed.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return ErrMissingPath
	}
	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create database directory"), "path", s.path)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open database"), "path", s.path)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return zerr.With(zerr.Wrap(err, "failed to open database"), "path", s.path)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return zerr.Wrap(err, "failed to create tables")
	}

	s.db = db
	return nil
}

// Save implements Store. Saving the same run and generation twice replaces
// the earlier record.
func (s *SQLiteStore) Save(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(r.Individual)
	if err != nil {
		return zerr.Wrap(err, "failed to marshal individual")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO checkpoints (run_id, generation, fitness, width, height, saved_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			fitness = excluded.fitness,
			width = excluded.width,
			height = excluded.height,
			saved_at = excluded.saved_at,
			payload = excluded.payload
	`, r.RunID, r.Generation, r.Fitness, r.Width, r.Height, r.SavedAt.UTC().Format(time.RFC3339Nano), payload)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to save checkpoint"), "run_id", r.RunID)
	}
	return nil
}

// Latest implements Store.
func (s *SQLiteStore) Latest(ctx context.Context, runID string) (Record, error) {
	db, err := s.getDB()
	if err != nil {
		return Record{}, err
	}

	row := db.QueryRowContext(ctx, `
		SELECT run_id, generation, fitness, width, height, saved_at, payload
		FROM checkpoints WHERE run_id = ?
		ORDER BY generation DESC LIMIT 1
	`, runID)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, notFound(runID)
	}
	return r, err
}

// History implements Store.
func (s *SQLiteStore) History(ctx context.Context, runID string) ([]Record, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, generation, fitness, width, height, saved_at, payload
		FROM checkpoints WHERE run_id = ?
		ORDER BY generation ASC
	`, runID)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to query history"), "run_id", runID)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read history")
	}
	return out, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}
	return s.db, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		r       Record
		savedAt string
		payload []byte
	)
	if err := sc.Scan(&r.RunID, &r.Generation, &r.Fitness, &r.Width, &r.Height, &savedAt, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, zerr.Wrap(err, "failed to scan checkpoint")
	}
	t, err := time.Parse(time.RFC3339Nano, savedAt)
	if err != nil {
		return Record{}, zerr.Wrap(err, "failed to parse saved_at")
	}
	r.SavedAt = t
	if err := json.Unmarshal(payload, &r.Individual); err != nil {
		return Record{}, zerr.With(zerr.Wrap(err, "failed to decode individual"), "run_id", r.RunID)
	}
	return r, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS checkpoints (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			fitness REAL NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			saved_at TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}
