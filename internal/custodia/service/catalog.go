package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// AssetCatalog is the administrative edit surface for keys and vehicles.
type AssetCatalog struct {
	assets store.AssetStore
	now    func() time.Time
}

type CatalogOption func(*AssetCatalog)

func WithCatalogClock(now func() time.Time) CatalogOption {
	return func(c *AssetCatalog) { c.now = now }
}

func NewAssetCatalog(assets store.AssetStore, opts ...CatalogOption) *AssetCatalog {
	c := &AssetCatalog{assets: assets, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AssetInput carries the editable fields of an asset. On Update an empty
// field keeps the current value; text fields cannot be cleared, only
// replaced.
type AssetInput struct {
	Label         string
	Class         string
	Subtype       string
	Description   string
	LinkedAssetID string // a key may reference the vehicle it opens
	LastOdometer  int64  // initial reading for vehicles
}

func (c *AssetCatalog) Create(ctx context.Context, in AssetInput) (types.Asset, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return types.Asset{}, ErrNameRequired
	}
	class, err := types.ParseAssetClass(in.Class)
	if err != nil {
		return types.Asset{}, fmt.Errorf("create asset: %w: %v", ErrInvalidArgument, err)
	}
	if !types.ValidSubtype(class, in.Subtype) {
		return types.Asset{}, fmt.Errorf("create asset: %w: subtype %q for class %q", ErrInvalidArgument, in.Subtype, class)
	}
	if in.LinkedAssetID != "" {
		linked, err := c.assets.GetByID(ctx, in.LinkedAssetID)
		if err != nil {
			return types.Asset{}, fmt.Errorf("create asset link: %w", err)
		}
		if linked.Class != types.ClassVehicle {
			return types.Asset{}, fmt.Errorf("create asset link: %w: %s is not a vehicle", ErrInvalidArgument, in.LinkedAssetID)
		}
	}

	now := c.now().UTC()
	a := types.Asset{
		ID:            uuid.NewString(),
		Label:         label,
		Class:         class,
		Subtype:       in.Subtype,
		Description:   strings.TrimSpace(in.Description),
		LinkedAssetID: in.LinkedAssetID,
		Status:        types.StatusAvailable,
		LastOdometer:  in.LastOdometer,
		OnPremises:    true,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := c.assets.Create(ctx, a); err != nil {
		return types.Asset{}, err
	}
	return a, nil
}

// Update rewrites descriptive fields; derived state stays with the
// ledger.
func (c *AssetCatalog) Update(ctx context.Context, id string, in AssetInput) (types.Asset, error) {
	a, err := c.assets.GetByID(ctx, id)
	if err != nil {
		return types.Asset{}, err
	}

	if label := strings.TrimSpace(in.Label); label != "" {
		a.Label = label
	}
	if in.Subtype != "" {
		if !types.ValidSubtype(a.Class, in.Subtype) {
			return types.Asset{}, fmt.Errorf("update asset: %w: subtype %q for class %q", ErrInvalidArgument, in.Subtype, a.Class)
		}
		a.Subtype = in.Subtype
	}
	if in.Description != "" {
		a.Description = strings.TrimSpace(in.Description)
	}
	if in.LinkedAssetID != "" {
		linked, err := c.assets.GetByID(ctx, in.LinkedAssetID)
		if err != nil {
			return types.Asset{}, fmt.Errorf("update asset link: %w", err)
		}
		if linked.Class != types.ClassVehicle {
			return types.Asset{}, fmt.Errorf("update asset link: %w: %s is not a vehicle", ErrInvalidArgument, in.LinkedAssetID)
		}
		a.LinkedAssetID = in.LinkedAssetID
	}
	a.UpdatedAt = c.now().UTC()

	if err := c.assets.Update(ctx, a); err != nil {
		return types.Asset{}, err
	}
	return a, nil
}

// Retire takes an asset out of service. An open transaction on it can
// still be closed normally or force closed.
func (c *AssetCatalog) Retire(ctx context.Context, id string) error {
	return c.assets.SetActive(ctx, id, false, c.now().UTC())
}

func (c *AssetCatalog) Restore(ctx context.Context, id string) error {
	return c.assets.SetActive(ctx, id, true, c.now().UTC())
}

func (c *AssetCatalog) Get(ctx context.Context, id string) (types.Asset, error) {
	return c.assets.GetByID(ctx, id)
}
