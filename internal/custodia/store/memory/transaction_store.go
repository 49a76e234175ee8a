package memory

import (
	"context"
	"sort"
	"sync"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

const defaultHistoryLimit = 100

// TransactionStore is the in-memory custody ledger. A single mutex
// serializes Open and Close so the check-and-set semantics match the
// sqlite implementation: at most one open transaction per asset, with the
// asset's derived columns updated in the same critical section.
type TransactionStore struct {
	mu     sync.RWMutex
	byID   map[string]types.CustodyTransaction
	order  []string // insertion order, for stable listings
	assets *AssetStore
}

func NewTransactionStore(assets *AssetStore) *TransactionStore {
	return &TransactionStore{
		byID:   make(map[string]types.CustodyTransaction),
		assets: assets,
	}
}

func (s *TransactionStore) Open(ctx context.Context, tx types.CustodyTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, err := s.assets.GetByID(ctx, tx.AssetID)
	if err != nil {
		return err
	}

	for _, existing := range s.byID {
		if existing.AssetID == tx.AssetID && existing.Status == types.TxOpen {
			return store.ErrAssetInCustody
		}
	}

	if tx.AssetClass == types.ClassVehicle && tx.OdometerStart != nil &&
		*tx.OdometerStart < asset.LastOdometer {
		return store.ErrOdometerRegression
	}

	tx.Status = types.TxOpen
	s.byID[tx.ID] = tx
	s.order = append(s.order, tx.ID)

	var onPremises *bool
	if asset.Class == types.ClassVehicle && asset.Subtype == types.VehicleCEO {
		off := false
		onPremises = &off
	}
	s.assets.applyCustody(tx.AssetID, types.StatusInCustody, nil, onPremises, tx.OpenedAt)
	return nil
}

func (s *TransactionStore) Close(ctx context.Context, req store.CloseRequest) (types.CustodyTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.byID[req.TxID]
	if !ok {
		return types.CustodyTransaction{}, store.ErrNotFound
	}
	if tx.Status != types.TxOpen {
		return types.CustodyTransaction{}, store.ErrTransactionNotOpen
	}

	asset, err := s.assets.GetByID(ctx, tx.AssetID)
	if err != nil {
		return types.CustodyTransaction{}, err
	}

	var lastOdometer *int64
	if tx.AssetClass == types.ClassVehicle {
		end := closingOdometer(tx, asset, req.OdometerEnd)
		tx.OdometerEnd = &end
		lastOdometer = &end
	}

	closedAt := req.ClosedAt
	tx.HolderInID = req.HolderInID
	tx.ReceivedByID = req.ReceivedByID
	tx.ClosedAt = &closedAt
	tx.ReturnReason = req.Reason
	tx.ReturnNote = req.Note
	tx.ForceClosed = req.ForceClosed
	tx.Status = types.TxClosed
	s.byID[req.TxID] = tx

	var onPremises *bool
	if asset.Class == types.ClassVehicle && asset.Subtype == types.VehicleCEO {
		on := true
		onPremises = &on
	}
	s.assets.applyCustody(tx.AssetID, types.StatusAvailable, lastOdometer, onPremises, closedAt)
	return tx, nil
}

// closingOdometer picks the ending reading: the caller's value when given,
// otherwise (force close) the best known reading so the asset's odometer
// never moves backwards.
func closingOdometer(tx types.CustodyTransaction, asset types.Asset, end *int64) int64 {
	if end != nil {
		return *end
	}
	v := asset.LastOdometer
	if tx.OdometerStart != nil && *tx.OdometerStart > v {
		v = *tx.OdometerStart
	}
	return v
}

func (s *TransactionStore) GetByID(_ context.Context, id string) (types.CustodyTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.byID[id]
	if !ok {
		return types.CustodyTransaction{}, store.ErrNotFound
	}
	return tx, nil
}

func (s *TransactionStore) OpenByAsset(_ context.Context, assetID string) (*types.CustodyTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, tx := range s.byID {
		if tx.AssetID == assetID && tx.Status == types.TxOpen {
			out := tx
			return &out, nil
		}
	}
	return nil, nil
}

func (s *TransactionStore) ListOpen(_ context.Context) ([]types.CustodyTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.CustodyTransaction
	for _, id := range s.order {
		if tx := s.byID[id]; tx.Status == types.TxOpen {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenedAt.Before(out[j].OpenedAt) })
	return out, nil
}

func (s *TransactionStore) History(_ context.Context, assetID string, limit int) ([]types.CustodyTransaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.CustodyTransaction
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		tx := s.byID[s.order[i]]
		if assetID != "" && tx.AssetID != assetID {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OpenedAt.After(out[j].OpenedAt) })
	return out, nil
}
