package service

import (
	"context"
	"fmt"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// Projector derives live asset state from the ledger. Status always comes
// from the open-transaction query, never from the cached column, so it
// cannot disagree with the ledger invariant; the cached column exists only
// to keep listing queries cheap and is written by the transaction store in
// the same transaction as the ledger row.
//
// Pure reads: safe to poll from dashboards without locking, stale by at
// most one polling interval.
type Projector struct {
	assets store.AssetStore
	txs    store.TransactionStore
}

func NewProjector(assets store.AssetStore, txs store.TransactionStore) *Projector {
	return &Projector{assets: assets, txs: txs}
}

// StatusOf reports whether the asset is available or in custody, with the
// open transaction when there is one.
func (p *Projector) StatusOf(ctx context.Context, assetID string) (types.AssetStatus, *types.CustodyTransaction, error) {
	if _, err := p.assets.GetByID(ctx, assetID); err != nil {
		return "", nil, err
	}
	open, err := p.txs.OpenByAsset(ctx, assetID)
	if err != nil {
		return "", nil, fmt.Errorf("status of %s: %w", assetID, err)
	}
	if open != nil {
		return types.StatusInCustody, open, nil
	}
	return types.StatusAvailable, nil, nil
}

// View returns one asset with its derived status and open transaction.
func (p *Projector) View(ctx context.Context, assetID string) (types.AssetView, error) {
	asset, err := p.assets.GetByID(ctx, assetID)
	if err != nil {
		return types.AssetView{}, err
	}
	open, err := p.txs.OpenByAsset(ctx, assetID)
	if err != nil {
		return types.AssetView{}, fmt.Errorf("view %s: %w", assetID, err)
	}
	return compose(asset, open), nil
}

// List returns assets of a class (or all, for class "") with derived
// statuses, for selection lists and the live dashboard.
func (p *Projector) List(ctx context.Context, class types.AssetClass) ([]types.AssetView, error) {
	assets, err := p.assets.List(ctx, class)
	if err != nil {
		return nil, err
	}
	open, err := p.txs.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open: %w", err)
	}

	byAsset := make(map[string]*types.CustodyTransaction, len(open))
	for i := range open {
		byAsset[open[i].AssetID] = &open[i]
	}

	out := make([]types.AssetView, 0, len(assets))
	for _, a := range assets {
		out = append(out, compose(a, byAsset[a.ID]))
	}
	return out, nil
}

func compose(asset types.Asset, open *types.CustodyTransaction) types.AssetView {
	if open != nil {
		asset.Status = types.StatusInCustody
	} else {
		asset.Status = types.StatusAvailable
	}
	return types.AssetView{Asset: asset, Open: open}
}
