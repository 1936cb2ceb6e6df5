package audit

import (
	"context"
	"sync"
)

// Store persists audit entries. It is append-only so the trail cannot be
// rewritten by application code.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByAggregate(ctx context.Context, aggregateID string) ([]Entry, error)
}

// InMemoryStore keeps the trail in process memory; sufficient for this scope
// and for tests, which swap sinks freely.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) ListByAggregate(_ context.Context, aggregateID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, e := range s.entries {
		if e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns the full trail in insertion order.
func (s *InMemoryStore) All(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}
