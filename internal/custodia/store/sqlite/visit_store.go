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

type VisitStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewVisitStore(db *sql.DB, writer *dbpkg.Worker) *VisitStore {
	return &VisitStore{db: db, writer: writer}
}

const visitCols = `visit_id, kind, person_id, visitor_name, host_id, vehicle_reg, purpose, entered_at_ms, left_at_ms, status`

func scanVisit(row rowScanner) (types.Visit, error) {
	var (
		v                types.Visit
		kind, status     string
		personID, hostID sql.NullString
		enteredMs        int64
		leftMs           sql.NullInt64
	)
	err := row.Scan(&v.ID, &kind, &personID, &v.VisitorName, &hostID,
		&v.VehicleReg, &v.Purpose, &enteredMs, &leftMs, &status)
	if err != nil {
		return types.Visit{}, err
	}
	v.Kind = types.VisitKind(kind)
	v.PersonID = personID.String
	v.HostID = hostID.String
	v.EnteredAt = time.UnixMilli(enteredMs).UTC()
	if leftMs.Valid {
		t := time.UnixMilli(leftMs.Int64).UTC()
		v.LeftAt = &t
	}
	v.Status = types.VisitStatus(status)
	return v, nil
}

func (s *VisitStore) Create(ctx context.Context, v types.Visit) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO visits(visit_id, kind, person_id, visitor_name, host_id, vehicle_reg, purpose, entered_at_ms, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'on_premises');`,
			v.ID, string(v.Kind), nullString(v.PersonID), v.VisitorName,
			nullString(v.HostID), v.VehicleReg, v.Purpose,
			v.EnteredAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("Create visit: %w", err)
		}
		return nil
	})
}

func (s *VisitStore) Depart(ctx context.Context, id string, at time.Time) (types.Visit, error) {
	var out types.Visit

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE visits SET left_at_ms = ?, status = 'departed'
WHERE visit_id = ? AND status = 'on_premises';`,
			at.UTC().UnixMilli(), id,
		)
		if err != nil {
			return fmt.Errorf("Depart update: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			var n int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM visits WHERE visit_id = ?;`, id,
			).Scan(&n); err != nil {
				return fmt.Errorf("Depart exists check: %w", err)
			}
			if n == 0 {
				return store.ErrNotFound
			}
			return store.ErrVisitDeparted
		}

		row := tx.QueryRowContext(ctx,
			`SELECT `+visitCols+` FROM visits WHERE visit_id = ?;`, id)
		out, err = scanVisit(row)
		if err != nil {
			return fmt.Errorf("Depart read back: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Visit{}, err
	}
	return out, nil
}

func (s *VisitStore) GetByID(ctx context.Context, id string) (types.Visit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+visitCols+` FROM visits WHERE visit_id = ?;`, id)
	v, err := scanVisit(row)
	if err == sql.ErrNoRows {
		return types.Visit{}, store.ErrNotFound
	}
	if err != nil {
		return types.Visit{}, fmt.Errorf("GetByID visit: %w", err)
	}
	return v, nil
}

func (s *VisitStore) ListOnPremises(ctx context.Context) ([]types.Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+visitCols+` FROM visits WHERE status = 'on_premises' ORDER BY entered_at_ms ASC;`)
	if err != nil {
		return nil, fmt.Errorf("ListOnPremises: %w", err)
	}
	defer rows.Close()
	return collectVisits(rows)
}

func (s *VisitStore) History(ctx context.Context, limit int) ([]types.Visit, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+visitCols+` FROM visits ORDER BY entered_at_ms DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("History visits: %w", err)
	}
	defer rows.Close()
	return collectVisits(rows)
}

func collectVisits(rows *sql.Rows) ([]types.Visit, error) {
	var out []types.Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
