package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// AssetStore is an in-memory asset registry for tests and dev.
type AssetStore struct {
	mu   sync.RWMutex
	byID map[string]types.Asset
}

func NewAssetStore(seed ...types.Asset) *AssetStore {
	s := &AssetStore{byID: make(map[string]types.Asset, len(seed))}
	for _, a := range seed {
		s.byID[a.ID] = a
	}
	return s
}

func (s *AssetStore) GetByID(_ context.Context, id string) (types.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return types.Asset{}, store.ErrNotFound
	}
	return a, nil
}

func (s *AssetStore) Create(_ context.Context, a types.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Label == a.Label {
			return store.ErrDuplicateLabel
		}
	}
	s.byID[a.ID] = a
	return nil
}

func (s *AssetStore) Update(_ context.Context, a types.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[a.ID]
	if !ok {
		return store.ErrNotFound
	}
	for id, existing := range s.byID {
		if id != a.ID && existing.Label == a.Label {
			return store.ErrDuplicateLabel
		}
	}
	// Derived columns stay under the transaction store's authority.
	a.Status = cur.Status
	a.LastOdometer = cur.LastOdometer
	a.OnPremises = cur.OnPremises
	s.byID[a.ID] = a
	return nil
}

func (s *AssetStore) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return store.ErrNotFound
	}
	a.Active = active
	a.UpdatedAt = at
	s.byID[id] = a
	return nil
}

func (s *AssetStore) List(_ context.Context, class types.AssetClass) ([]types.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Asset, 0, len(s.byID))
	for _, a := range s.byID {
		if class != "" && a.Class != class {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// applyCustody updates the derived columns when the transaction store
// opens or closes a ledger entry. Called with the transaction store's
// lock held so ledger and projection move together.
func (s *AssetStore) applyCustody(id string, status types.AssetStatus, lastOdometer *int64, onPremises *bool, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return
	}
	a.Status = status
	if lastOdometer != nil {
		a.LastOdometer = *lastOdometer
	}
	if onPremises != nil {
		a.OnPremises = *onPremises
	}
	a.UpdatedAt = at
	s.byID[id] = a
}
