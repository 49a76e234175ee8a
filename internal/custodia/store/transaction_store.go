package store

import (
	"context"
	"time"

	"custodia/internal/custodia/types"
)

// CloseRequest carries the fields written when a transaction is closed.
// For vehicles a nil OdometerEnd (administrative force close) closes with
// the greater of the transaction's start reading and the asset's last
// recorded reading.
type CloseRequest struct {
	TxID         string
	HolderInID   string
	ReceivedByID string
	ClosedAt     time.Time
	OdometerEnd  *int64
	Reason       types.ReturnReason
	Note         string
	ForceClosed  bool
}

// TransactionStore is the custody ledger. Entries are created by Open and
// terminated by Close; they are never deleted.
//
// Open and Close are atomic check-and-sets: each runs as one storage
// transaction that verifies its precondition against current row state,
// applies the ledger mutation, and updates the asset's derived columns
// (status, last_odometer, on_premises for CEO vehicles). Two officers
// racing on the same asset see exactly one success; the loser gets
// ErrAssetInCustody or ErrTransactionNotOpen.
type TransactionStore interface {
	// Open appends an open transaction. Preconditions checked in-tx:
	// the asset exists (ErrNotFound), has no open transaction
	// (ErrAssetInCustody), and for vehicles the start reading is not
	// below the asset's last recorded one (ErrOdometerRegression).
	Open(ctx context.Context, tx types.CustodyTransaction) error

	// Close terminates an open transaction (ErrTransactionNotOpen when it
	// is already closed or unknown) and returns the closed row.
	Close(ctx context.Context, req CloseRequest) (types.CustodyTransaction, error)

	GetByID(ctx context.Context, id string) (types.CustodyTransaction, error)

	// OpenByAsset returns the asset's open transaction, or nil.
	OpenByAsset(ctx context.Context, assetID string) (*types.CustodyTransaction, error)

	// ListOpen returns all open transactions, oldest first.
	ListOpen(ctx context.Context) ([]types.CustodyTransaction, error)

	// History returns transactions for an asset, newest first; assetID ""
	// means all assets. limit <= 0 applies a default cap.
	History(ctx context.Context, assetID string, limit int) ([]types.CustodyTransaction, error)
}
