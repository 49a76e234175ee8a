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

// LedgerService runs the custody operations: checkout, check-in, and the
// administrative force close. Field validation and role gating happen
// here; the one-open-transaction-per-asset invariant is enforced by the
// transaction store's atomic check-and-set, so two officers racing on the
// same asset get exactly one success and one Conflict.
type LedgerService struct {
	people store.PersonStore
	assets store.AssetStore
	txs    store.TransactionStore
	now    func() time.Time
}

type LedgerOption func(*LedgerService)

// WithClock overrides the ledger's time source.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) { s.now = now }
}

func NewLedgerService(people store.PersonStore, assets store.AssetStore, txs store.TransactionStore, opts ...LedgerOption) *LedgerService {
	s := &LedgerService{
		people: people,
		assets: assets,
		txs:    txs,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckoutRequest carries the acting officer explicitly; there is no
// ambient session state.
type CheckoutRequest struct {
	AssetID   string
	HolderID  string
	OfficerID string

	// Class payload: Purpose for keys, Destination + OdometerStart for
	// vehicles.
	Purpose       string
	Destination   string
	OdometerStart *int64
}

func (s *LedgerService) Checkout(ctx context.Context, req CheckoutRequest) (types.CustodyTransaction, error) {
	holder, err := s.activePerson(ctx, req.HolderID)
	if err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("checkout holder: %w", err)
	}
	if _, err := s.officer(ctx, req.OfficerID); err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("checkout officer: %w", err)
	}

	asset, err := s.assets.GetByID(ctx, req.AssetID)
	if err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("checkout asset: %w", err)
	}
	if !asset.Active {
		return types.CustodyTransaction{}, ErrAssetRetired
	}

	rec := types.CustodyTransaction{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		AssetClass:  asset.Class,
		HolderOutID: holder.ID,
		IssuedByID:  req.OfficerID,
		OpenedAt:    s.now().UTC(),
		Status:      types.TxOpen,
	}

	switch asset.Class {
	case types.ClassKey:
		rec.Purpose = strings.TrimSpace(req.Purpose)
		if rec.Purpose == "" {
			return types.CustodyTransaction{}, ErrPurposeRequired
		}
	case types.ClassVehicle:
		rec.Destination = strings.TrimSpace(req.Destination)
		if rec.Destination == "" {
			return types.CustodyTransaction{}, ErrDestinationRequired
		}
		if req.OdometerStart == nil {
			return types.CustodyTransaction{}, ErrOdometerRequired
		}
		if *req.OdometerStart < asset.LastOdometer {
			return types.CustodyTransaction{}, store.ErrOdometerRegression
		}
		rec.OdometerStart = req.OdometerStart

		// The executive car only goes out to its principal.
		if asset.Subtype == types.VehicleCEO && holder.Role != types.RoleCEO {
			return types.CustodyTransaction{}, ErrForbidden
		}
	}

	// The store re-checks the open-transaction invariant and odometer
	// monotonicity inside its write transaction; the reads above may be
	// stale by the time we get there.
	if err := s.txs.Open(ctx, rec); err != nil {
		return types.CustodyTransaction{}, err
	}
	return rec, nil
}

type CheckinRequest struct {
	TransactionID string
	HolderID      string // the person physically returning the asset
	OfficerID     string

	OdometerEnd *int64
	Reason      types.ReturnReason // required when holder differs from holder-out
	Note        string
}

func (s *LedgerService) Checkin(ctx context.Context, req CheckinRequest) (types.CustodyTransaction, error) {
	tx, err := s.txs.GetByID(ctx, req.TransactionID)
	if err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("checkin transaction: %w", err)
	}
	if tx.Status != types.TxOpen {
		return types.CustodyTransaction{}, store.ErrTransactionNotOpen
	}

	holder, err := s.activePerson(ctx, req.HolderID)
	if err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("checkin holder: %w", err)
	}
	if _, err := s.officer(ctx, req.OfficerID); err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("checkin officer: %w", err)
	}

	// Holder-out is immutable while the transaction is open, so this
	// reconciliation check cannot be invalidated by a concurrent close;
	// a lost race surfaces as ErrTransactionNotOpen from Close below.
	if holder.ID != tx.HolderOutID {
		if req.Reason == "" {
			return types.CustodyTransaction{}, ErrReturnReasonRequired
		}
	}
	if req.Reason != "" {
		if _, err := types.ParseReturnReason(string(req.Reason)); err != nil {
			return types.CustodyTransaction{}, fmt.Errorf("checkin: %w: %v", ErrInvalidArgument, err)
		}
		if req.Reason == types.ReasonOther && strings.TrimSpace(req.Note) == "" {
			return types.CustodyTransaction{}, ErrReturnNoteRequired
		}
	}

	if tx.AssetClass == types.ClassVehicle {
		if req.OdometerEnd == nil {
			return types.CustodyTransaction{}, ErrOdometerRequired
		}
		if tx.OdometerStart != nil && *req.OdometerEnd < *tx.OdometerStart {
			return types.CustodyTransaction{}, store.ErrOdometerRegression
		}
	}

	return s.txs.Close(ctx, store.CloseRequest{
		TxID:         tx.ID,
		HolderInID:   holder.ID,
		ReceivedByID: req.OfficerID,
		ClosedAt:     s.now().UTC(),
		OdometerEnd:  req.OdometerEnd,
		Reason:       req.Reason,
		Note:         strings.TrimSpace(req.Note),
	})
}

// ForceClose is the administrative escape hatch for stuck transactions:
// it closes with the asset's last known odometer, bypasses holder
// reconciliation, and records who forced it and why. Every open
// transaction is closeable this way regardless of missing downstream
// data.
func (s *LedgerService) ForceClose(ctx context.Context, txID, adminID, note string) (types.CustodyTransaction, error) {
	admin, err := s.activePerson(ctx, adminID)
	if err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("force close admin: %w", err)
	}
	if !admin.Role.In(types.AdminRoles) {
		return types.CustodyTransaction{}, ErrForbidden
	}

	note = strings.TrimSpace(note)
	if note == "" {
		return types.CustodyTransaction{}, ErrNoteRequired
	}

	return s.txs.Close(ctx, store.CloseRequest{
		TxID:         txID,
		ReceivedByID: admin.ID,
		ClosedAt:     s.now().UTC(),
		Reason:       types.ReasonForceClosed,
		Note:         note,
		ForceClosed:  true,
	})
}

// History exposes the ledger's audit trail.
func (s *LedgerService) History(ctx context.Context, assetID string, limit int) ([]types.CustodyTransaction, error) {
	return s.txs.History(ctx, assetID, limit)
}

func (s *LedgerService) activePerson(ctx context.Context, id string) (types.Person, error) {
	p, err := s.people.GetByID(ctx, id)
	if err != nil {
		return types.Person{}, err
	}
	if !p.Active {
		return types.Person{}, store.ErrNotFound
	}
	return p, nil
}

func (s *LedgerService) officer(ctx context.Context, id string) (types.Person, error) {
	p, err := s.activePerson(ctx, id)
	if err != nil {
		return types.Person{}, err
	}
	if !p.Role.In(types.OfficerRoles) {
		return types.Person{}, ErrForbidden
	}
	return p, nil
}
