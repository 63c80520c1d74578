// Package store provides result-cache implementations for the analysis
// service.
package store

import (
	"context"
	"sync"
	"time"

	"authscript/internal/analysis"
)

type memoryEntry struct {
	form      *analysis.PAForm
	expiresAt time.Time
}

// InMemoryStore caches PA forms in process memory. Default when redis is not
// configured; also used in tests. Expired entries are dropped lazily on read.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (*analysis.PAForm, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, nil
	}
	return entry.form, nil
}

func (s *InMemoryStore) Save(_ context.Context, key string, form *analysis.PAForm, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{form: form, expiresAt: s.now().Add(ttl)}
	return nil
}
