package consent

import (
	"context"
	"sync"
	"time"

	"github.com/luissimon96/sistema-exames-sub000/pkg/domain"
)

// InMemoryStore backs tests and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	consents map[string]Snapshot
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{consents: make(map[string]Snapshot)}
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ConsentID) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.consents[id.String()]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *InMemoryStore) FindByUser(_ context.Context, userID domain.UserID) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Snapshot
	for _, snap := range s.consents {
		if snap.UserID == userID.String() {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *InMemoryStore) FindByUserAndType(_ context.Context, userID domain.UserID, dataType DataType, purpose Purpose) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snap := range s.consents {
		if snap.UserID == userID.String() &&
			snap.DataType == string(dataType) &&
			snap.Purpose == string(purpose) {
			return snap, nil
		}
	}
	return Snapshot{}, ErrNotFound
}

func (s *InMemoryStore) FindExpired(_ context.Context, cutoff time.Time) ([]Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Snapshot
	for _, snap := range s.consents {
		if snap.ConsentDate.Before(cutoff) {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Save(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.consents {
		if existing.UserID == snap.UserID &&
			existing.DataType == snap.DataType &&
			existing.Purpose == snap.Purpose &&
			id != snap.ID {
			return ErrConsentConflict
		}
	}
	s.consents[snap.ID] = snap
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id domain.ConsentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.consents[id.String()]; !ok {
		return ErrNotFound
	}
	delete(s.consents, id.String())
	return nil
}

func (s *InMemoryStore) CountByUser(_ context.Context, userID domain.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, snap := range s.consents {
		if snap.UserID == userID.String() {
			n++
		}
	}
	return n, nil
}

var _ Store = (*InMemoryStore)(nil)
