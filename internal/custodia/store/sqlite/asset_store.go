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

type AssetStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAssetStore(db *sql.DB, writer *dbpkg.Worker) *AssetStore {
	return &AssetStore{db: db, writer: writer}
}

const assetCols = `asset_id, label, class, subtype, description, linked_asset_id, status, last_odometer, on_premises, active, created_at_ms, updated_at_ms`

func scanAsset(row rowScanner) (types.Asset, error) {
	var (
		a                    types.Asset
		class, status        string
		linked               sql.NullString
		onPremises, active   int
		createdMs, updatedMs int64
	)
	err := row.Scan(&a.ID, &a.Label, &class, &a.Subtype, &a.Description,
		&linked, &status, &a.LastOdometer, &onPremises, &active,
		&createdMs, &updatedMs)
	if err != nil {
		return types.Asset{}, err
	}
	a.Class = types.AssetClass(class)
	a.Status = types.AssetStatus(status)
	a.LinkedAssetID = linked.String
	a.OnPremises = onPremises == 1
	a.Active = active == 1
	a.CreatedAt = time.UnixMilli(createdMs).UTC()
	a.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return a, nil
}

func (s *AssetStore) GetByID(ctx context.Context, id string) (types.Asset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+assetCols+` FROM assets WHERE asset_id = ?;`, id)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return types.Asset{}, store.ErrNotFound
	}
	if err != nil {
		return types.Asset{}, fmt.Errorf("GetByID asset: %w", err)
	}
	return a, nil
}

func (s *AssetStore) Create(ctx context.Context, a types.Asset) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM assets WHERE label = ?;`, a.Label,
		).Scan(&n); err != nil {
			return fmt.Errorf("Create asset label check: %w", err)
		}
		if n > 0 {
			return store.ErrDuplicateLabel
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO assets(`+assetCols+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			a.ID, a.Label, string(a.Class), a.Subtype, a.Description,
			nullString(a.LinkedAssetID), string(a.Status), a.LastOdometer,
			boolInt(a.OnPremises), boolInt(a.Active),
			a.CreatedAt.UTC().UnixMilli(), a.UpdatedAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("Create asset insert: %w", err)
		}
		return nil
	})
}

// Update rewrites descriptive fields only. The derived columns (status,
// last_odometer, on_premises) belong to the transaction store.
func (s *AssetStore) Update(ctx context.Context, a types.Asset) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM assets WHERE label = ? AND asset_id <> ?;`,
			a.Label, a.ID,
		).Scan(&n); err != nil {
			return fmt.Errorf("Update asset label check: %w", err)
		}
		if n > 0 {
			return store.ErrDuplicateLabel
		}

		res, err := tx.ExecContext(ctx, `
UPDATE assets
SET label = ?, subtype = ?, description = ?, linked_asset_id = ?,
    updated_at_ms = ?
WHERE asset_id = ?;`,
			a.Label, a.Subtype, a.Description, nullString(a.LinkedAssetID),
			a.UpdatedAt.UTC().UnixMilli(), a.ID,
		)
		if err != nil {
			return fmt.Errorf("Update asset: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *AssetStore) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE assets SET active = ?, updated_at_ms = ? WHERE asset_id = ?;`,
			boolInt(active), at.UTC().UnixMilli(), id,
		)
		if err != nil {
			return fmt.Errorf("SetActive asset: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *AssetStore) List(ctx context.Context, class types.AssetClass) ([]types.Asset, error) {
	q := `SELECT ` + assetCols + ` FROM assets`
	var args []any
	if class != "" {
		q += ` WHERE class = ?`
		args = append(args, string(class))
	}
	q += ` ORDER BY label;`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("List assets: %w", err)
	}
	defer rows.Close()

	var out []types.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("List assets scan: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
