package store

import (
	"context"
	"time"

	"custodia/internal/custodia/types"
)

// VisitStore holds presence records for visitors and staff vehicles.
// Unlike the custody ledger there is no uniqueness invariant; Depart is
// still conditional on the record being on premises so a double submit
// cannot rewrite the exit time.
type VisitStore interface {
	Create(ctx context.Context, v types.Visit) error

	// Depart closes an on-premises visit (ErrVisitDeparted when it has
	// already been closed, ErrNotFound when unknown).
	Depart(ctx context.Context, id string, at time.Time) (types.Visit, error)

	GetByID(ctx context.Context, id string) (types.Visit, error)

	// ListOnPremises returns open visits, oldest entry first.
	ListOnPremises(ctx context.Context) ([]types.Visit, error)

	// History returns visits newest first. limit <= 0 applies a default cap.
	History(ctx context.Context, limit int) ([]types.Visit, error)
}
