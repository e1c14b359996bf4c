package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/strips/pkg/domain"
)

// Store implements ports.PlanStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.PlanRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.PlanRecord),
	}
}

func clone(rec *domain.PlanRecord) *domain.PlanRecord {
	c := *rec
	c.Actions = slices.Clone(rec.Actions)
	return &c
}

// Save persists the record in memory.
func (s *Store) Save(_ context.Context, key string, rec *domain.PlanRecord) error {
	// Copy to ensure isolation, similar to serialization
	c := clone(rec)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = c
	return nil
}

// Load retrieves the record from memory.
func (s *Store) Load(_ context.Context, key string) (*domain.PlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[key]
	if !ok {
		return nil, domain.ErrPlanNotFound
	}
	// Copy on read so callers can't mutate the store through the pointer
	return clone(rec), nil
}

// Delete removes the record.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored keys.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
