package checkpoint

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/zerr"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string][]Record
}

// NewMemoryStore returns an empty, uninitialized MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init implements Store.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		s.initialized = true
		s.runs = make(map[string][]Record)
	}
	return nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return zerr.Wrap(ErrNotInitialized, "save")
	}
	r.Individual = r.Individual.Clone()
	s.runs[r.RunID] = append(s.runs[r.RunID], r)
	return nil
}

// Latest implements Store.
func (s *MemoryStore) Latest(_ context.Context, runID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Record{}, zerr.Wrap(ErrNotInitialized, "latest")
	}
	recs := s.runs[runID]
	if len(recs) == 0 {
		return Record{}, notFound(runID)
	}
	best := recs[0]
	for _, r := range recs[1:] {
		if r.Generation >= best.Generation {
			best = r
		}
	}
	best.Individual = best.Individual.Clone()
	return best, nil
}

// History implements Store.
func (s *MemoryStore) History(_ context.Context, runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, zerr.Wrap(ErrNotInitialized, "history")
	}
	out := slices.Clone(s.runs[runID])
	slices.SortStableFunc(out, func(a, b Record) int { return a.Generation - b.Generation })
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
