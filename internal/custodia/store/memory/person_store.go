package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// PersonStore is an in-memory personnel directory for tests and dev.
type PersonStore struct {
	mu   sync.RWMutex
	byID map[string]types.Person
}

func NewPersonStore(seed ...types.Person) *PersonStore {
	s := &PersonStore{byID: make(map[string]types.Person, len(seed))}
	for _, p := range seed {
		s.byID[p.ID] = p
	}
	return s
}

func (s *PersonStore) GetByToken(_ context.Context, token string) (types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byID {
		if p.BadgeToken == token {
			return p, nil
		}
	}
	return types.Person{}, store.ErrNotFound
}

func (s *PersonStore) GetByID(_ context.Context, id string) (types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return types.Person{}, store.ErrNotFound
	}
	return p, nil
}

func (s *PersonStore) Create(_ context.Context, p types.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.BadgeToken == p.BadgeToken {
			return store.ErrDuplicateToken
		}
	}
	s.byID[p.ID] = p
	return nil
}

func (s *PersonStore) Update(_ context.Context, p types.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[p.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range s.byID {
		if id != p.ID && existing.BadgeToken == p.BadgeToken {
			return store.ErrDuplicateToken
		}
	}
	s.byID[p.ID] = p
	return nil
}

func (s *PersonStore) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	p.Active = active
	p.UpdatedAt = at
	s.byID[id] = p
	return nil
}

func (s *PersonStore) List(_ context.Context) ([]types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Person, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayName < out[j].DisplayName })
	return out, nil
}
