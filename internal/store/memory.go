// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is the default in-process JobStore. Records do not
// survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	jobs   map[string]JobRecord
	lastID string
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]JobRecord)}
}

func (s *MemoryStore) PutJob(_ context.Context, rec *JobRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("store: job record must have an ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[rec.ID] = *rec
	if s.lastID == "" || !rec.StartedAt.Before(s.jobs[s.lastID].StartedAt) {
		s.lastID = rec.ID
	}
	return nil
}

func (s *MemoryStore) GetJob(_ context.Context, id string) (*JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &rec, nil
}

func (s *MemoryStore) LastJob(_ context.Context) (*JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastID == "" {
		return nil, ErrNotFound
	}
	rec := s.jobs[s.lastID]
	return &rec, nil
}

func (s *MemoryStore) Close() error { return nil }
