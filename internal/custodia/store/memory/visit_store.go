package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// VisitStore is an in-memory presence log for tests and dev.
type VisitStore struct {
	mu    sync.RWMutex
	byID  map[string]types.Visit
	order []string
}

func NewVisitStore() *VisitStore {
	return &VisitStore{byID: make(map[string]types.Visit)}
}

func (s *VisitStore) Create(_ context.Context, v types.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[v.ID] = v
	s.order = append(s.order, v.ID)
	return nil
}

func (s *VisitStore) Depart(_ context.Context, id string, at time.Time) (types.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.byID[id]
	if !ok {
		return types.Visit{}, store.ErrNotFound
	}
	if v.Status != types.VisitOnPremises {
		return types.Visit{}, store.ErrVisitDeparted
	}
	left := at
	v.LeftAt = &left
	v.Status = types.VisitDeparted
	s.byID[id] = v
	return v, nil
}

func (s *VisitStore) GetByID(_ context.Context, id string) (types.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.byID[id]
	if !ok {
		return types.Visit{}, store.ErrNotFound
	}
	return v, nil
}

func (s *VisitStore) ListOnPremises(_ context.Context) ([]types.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Visit
	for _, id := range s.order {
		if v := s.byID[id]; v.Status == types.VisitOnPremises {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EnteredAt.Before(out[j].EnteredAt) })
	return out, nil
}

func (s *VisitStore) History(_ context.Context, limit int) ([]types.Visit, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.Visit
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.byID[s.order[i]])
	}
	return out, nil
}
