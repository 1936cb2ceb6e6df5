package user

import (
	"context"
	"sync"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// InMemoryStore backs tests and local development. The mutex makes it the
// uniqueness arbiter the same way the unique index is in Postgres.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[string]Snapshot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[string]Snapshot)}
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.UserID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.users[id.String()]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snap := range s.users {
		if snap.Email == email {
			return snap, nil
		}
	}
	return Snapshot{}, ErrNotFound
}

func (s *InMemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.users {
		if existing.Email == snap.Email && id != snap.ID {
			return ErrEmailConflict
		}
	}
	s.users[snap.ID] = snap
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id.String()]; !ok {
		return ErrNotFound
	}
	delete(s.users, id.String())
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

var _ Store = (*InMemoryStore)(nil)
