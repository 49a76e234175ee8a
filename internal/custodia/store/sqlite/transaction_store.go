package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "custodia/internal/db"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

const defaultHistoryLimit = 100

// TransactionStore is the sqlite custody ledger. Every mutation runs as
// one serialized transaction on the write worker: precondition checks,
// the ledger row, and the asset's derived columns commit together or not
// at all. A partial unique index on (asset_id) WHERE status='open' backs
// the one-open-per-asset invariant at the schema level.
type TransactionStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewTransactionStore(db *sql.DB, writer *dbpkg.Worker) *TransactionStore {
	return &TransactionStore{db: db, writer: writer}
}

const txCols = `tx_id, asset_id, asset_class, purpose, destination, odometer_start, odometer_end, holder_out_id, issued_by_id, opened_at_ms, holder_in_id, received_by_id, closed_at_ms, return_reason, return_note, force_closed, status`

func scanTx(row rowScanner) (types.CustodyTransaction, error) {
	var (
		tx                   types.CustodyTransaction
		class, status        string
		odoStart, odoEnd     sql.NullInt64
		holderIn, receivedBy sql.NullString
		closedMs             sql.NullInt64
		reason               sql.NullString
		forceClosed          int
		openedMs             int64
	)
	err := row.Scan(&tx.ID, &tx.AssetID, &class, &tx.Purpose, &tx.Destination,
		&odoStart, &odoEnd, &tx.HolderOutID, &tx.IssuedByID, &openedMs,
		&holderIn, &receivedBy, &closedMs, &reason, &tx.ReturnNote,
		&forceClosed, &status)
	if err != nil {
		return types.CustodyTransaction{}, err
	}
	tx.AssetClass = types.AssetClass(class)
	if odoStart.Valid {
		v := odoStart.Int64
		tx.OdometerStart = &v
	}
	if odoEnd.Valid {
		v := odoEnd.Int64
		tx.OdometerEnd = &v
	}
	tx.OpenedAt = time.UnixMilli(openedMs).UTC()
	tx.HolderInID = holderIn.String
	tx.ReceivedByID = receivedBy.String
	if closedMs.Valid {
		t := time.UnixMilli(closedMs.Int64).UTC()
		tx.ClosedAt = &t
	}
	tx.ReturnReason = types.ReturnReason(reason.String)
	tx.ForceClosed = forceClosed == 1
	tx.Status = types.TxStatus(status)
	return tx, nil
}

func (s *TransactionStore) Open(ctx context.Context, rec types.CustodyTransaction) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var (
			subtype      string
			lastOdometer int64
		)
		err := tx.QueryRowContext(ctx,
			`SELECT subtype, last_odometer FROM assets WHERE asset_id = ?;`,
			rec.AssetID,
		).Scan(&subtype, &lastOdometer)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("Open read asset: %w", err)
		}

		var open int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM custody_transactions WHERE asset_id = ? AND status = 'open';`,
			rec.AssetID,
		).Scan(&open); err != nil {
			return fmt.Errorf("Open invariant check: %w", err)
		}
		if open > 0 {
			return store.ErrAssetInCustody
		}

		if rec.AssetClass == types.ClassVehicle && rec.OdometerStart != nil &&
			*rec.OdometerStart < lastOdometer {
			return store.ErrOdometerRegression
		}

		var odoStart any
		if rec.OdometerStart != nil {
			odoStart = *rec.OdometerStart
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO custody_transactions(
  tx_id, asset_id, asset_class, purpose, destination, odometer_start,
  holder_out_id, issued_by_id, opened_at_ms, return_note, force_closed, status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, '', 0, 'open');`,
			rec.ID, rec.AssetID, string(rec.AssetClass), rec.Purpose,
			rec.Destination, odoStart, rec.HolderOutID, rec.IssuedByID,
			rec.OpenedAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("Open insert: %w", err)
		}

		nowMs := rec.OpenedAt.UTC().UnixMilli()
		if rec.AssetClass == types.ClassVehicle && subtype == types.VehicleCEO {
			// CEO vehicle leaving custody means leaving the premises.
			_, err = tx.ExecContext(ctx, `
UPDATE assets SET status = 'in_custody', on_premises = 0, updated_at_ms = ? WHERE asset_id = ?;`,
				nowMs, rec.AssetID)
		} else {
			_, err = tx.ExecContext(ctx, `
UPDATE assets SET status = 'in_custody', updated_at_ms = ? WHERE asset_id = ?;`,
				nowMs, rec.AssetID)
		}
		if err != nil {
			return fmt.Errorf("Open project asset status: %w", err)
		}
		return nil
	})
}

func (s *TransactionStore) Close(ctx context.Context, req store.CloseRequest) (types.CustodyTransaction, error) {
	var closed types.CustodyTransaction

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var (
			assetID, class string
			odoStart       sql.NullInt64
			status         string
		)
		err := tx.QueryRowContext(ctx, `
SELECT asset_id, asset_class, odometer_start, status
FROM custody_transactions WHERE tx_id = ?;`, req.TxID,
		).Scan(&assetID, &class, &odoStart, &status)
		if err == sql.ErrNoRows {
			return store.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("Close read tx: %w", err)
		}
		if status != string(types.TxOpen) {
			return store.ErrTransactionNotOpen
		}

		var (
			subtype      string
			lastOdometer int64
		)
		if err := tx.QueryRowContext(ctx,
			`SELECT subtype, last_odometer FROM assets WHERE asset_id = ?;`, assetID,
		).Scan(&subtype, &lastOdometer); err != nil {
			return fmt.Errorf("Close read asset: %w", err)
		}

		var odoEnd any
		var endReading int64
		if types.AssetClass(class) == types.ClassVehicle {
			// Force closes carry no reading; fall back to the best known
			// value so the odometer never moves backwards.
			endReading = lastOdometer
			if odoStart.Valid && odoStart.Int64 > endReading {
				endReading = odoStart.Int64
			}
			if req.OdometerEnd != nil {
				endReading = *req.OdometerEnd
			}
			odoEnd = endReading
		}

		closedMs := req.ClosedAt.UTC().UnixMilli()
		res, err := tx.ExecContext(ctx, `
UPDATE custody_transactions
SET holder_in_id = ?, received_by_id = ?, closed_at_ms = ?, odometer_end = ?,
    return_reason = ?, return_note = ?, force_closed = ?, status = 'closed'
WHERE tx_id = ? AND status = 'open';`,
			nullString(req.HolderInID), nullString(req.ReceivedByID), closedMs, odoEnd,
			nullString(string(req.Reason)), req.Note, boolInt(req.ForceClosed),
			req.TxID,
		)
		if err != nil {
			return fmt.Errorf("Close update tx: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return store.ErrTransactionNotOpen
		}

		if types.AssetClass(class) == types.ClassVehicle {
			if subtype == types.VehicleCEO {
				_, err = tx.ExecContext(ctx, `
UPDATE assets SET status = 'available', last_odometer = ?, on_premises = 1, updated_at_ms = ? WHERE asset_id = ?;`,
					endReading, closedMs, assetID)
			} else {
				_, err = tx.ExecContext(ctx, `
UPDATE assets SET status = 'available', last_odometer = ?, updated_at_ms = ? WHERE asset_id = ?;`,
					endReading, closedMs, assetID)
			}
		} else {
			_, err = tx.ExecContext(ctx, `
UPDATE assets SET status = 'available', updated_at_ms = ? WHERE asset_id = ?;`,
				closedMs, assetID)
		}
		if err != nil {
			return fmt.Errorf("Close project asset status: %w", err)
		}

		row := tx.QueryRowContext(ctx,
			`SELECT `+txCols+` FROM custody_transactions WHERE tx_id = ?;`, req.TxID)
		closed, err = scanTx(row)
		if err != nil {
			return fmt.Errorf("Close read back: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.CustodyTransaction{}, err
	}
	return closed, nil
}

func (s *TransactionStore) GetByID(ctx context.Context, id string) (types.CustodyTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+txCols+` FROM custody_transactions WHERE tx_id = ?;`, id)
	tx, err := scanTx(row)
	if err == sql.ErrNoRows {
		return types.CustodyTransaction{}, store.ErrNotFound
	}
	if err != nil {
		return types.CustodyTransaction{}, fmt.Errorf("GetByID tx: %w", err)
	}
	return tx, nil
}

func (s *TransactionStore) OpenByAsset(ctx context.Context, assetID string) (*types.CustodyTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+txCols+` FROM custody_transactions WHERE asset_id = ? AND status = 'open';`,
		assetID)
	tx, err := scanTx(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("OpenByAsset: %w", err)
	}
	return &tx, nil
}

func (s *TransactionStore) ListOpen(ctx context.Context) ([]types.CustodyTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+txCols+` FROM custody_transactions
WHERE status = 'open' ORDER BY opened_at_ms ASC;`)
	if err != nil {
		return nil, fmt.Errorf("ListOpen: %w", err)
	}
	defer rows.Close()
	return collectTxs(rows)
}

func (s *TransactionStore) History(ctx context.Context, assetID string, limit int) ([]types.CustodyTransaction, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	q := `SELECT ` + txCols + ` FROM custody_transactions`
	var args []any
	if assetID != "" {
		q += ` WHERE asset_id = ?`
		args = append(args, assetID)
	}
	q += ` ORDER BY opened_at_ms DESC LIMIT ?;`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("History: %w", err)
	}
	defer rows.Close()
	return collectTxs(rows)
}

func collectTxs(rows *sql.Rows) ([]types.CustodyTransaction, error) {
	var out []types.CustodyTransaction
	for rows.Next() {
		tx, err := scanTx(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tx: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
