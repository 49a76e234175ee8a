package store

import (
	"context"
	"time"

	"custodia/internal/custodia/types"
)

// AssetStore holds the key and vehicle registry.
//
// The derived columns (status, last_odometer, on_premises for CEO
// vehicles) are written exclusively by TransactionStore inside the same
// transaction as the ledger mutation that changes them; AssetStore only
// reads them back.
type AssetStore interface {
	GetByID(ctx context.Context, id string) (types.Asset, error)

	// Create fails with ErrDuplicateLabel when the label is taken.
	Create(ctx context.Context, a types.Asset) error

	// Update rewrites descriptive fields (label, subtype, description,
	// linked asset). Derived columns are left untouched.
	Update(ctx context.Context, a types.Asset) error

	SetActive(ctx context.Context, id string, active bool, at time.Time) error

	// List returns assets ordered by label; class "" means all classes.
	List(ctx context.Context, class types.AssetClass) ([]types.Asset, error)
}
