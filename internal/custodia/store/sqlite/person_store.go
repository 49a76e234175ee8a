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

type PersonStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewPersonStore(db *sql.DB, writer *dbpkg.Worker) *PersonStore {
	return &PersonStore{db: db, writer: writer}
}

const personCols = `person_id, badge_token, pin, display_name, role, department, active, created_at_ms, updated_at_ms`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (types.Person, error) {
	var (
		p                    types.Person
		role                 string
		active               int
		createdMs, updatedMs int64
	)
	err := row.Scan(&p.ID, &p.BadgeToken, &p.PIN, &p.DisplayName, &role,
		&p.Department, &active, &createdMs, &updatedMs)
	if err != nil {
		return types.Person{}, err
	}
	p.Role = types.Role(role)
	p.Active = active == 1
	p.CreatedAt = time.UnixMilli(createdMs).UTC()
	p.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return p, nil
}

func (s *PersonStore) GetByToken(ctx context.Context, token string) (types.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+personCols+` FROM people WHERE badge_token = ?;`, token)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return types.Person{}, store.ErrNotFound
	}
	if err != nil {
		return types.Person{}, fmt.Errorf("GetByToken: %w", err)
	}
	return p, nil
}

func (s *PersonStore) GetByID(ctx context.Context, id string) (types.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+personCols+` FROM people WHERE person_id = ?;`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return types.Person{}, store.ErrNotFound
	}
	if err != nil {
		return types.Person{}, fmt.Errorf("GetByID person: %w", err)
	}
	return p, nil
}

func (s *PersonStore) Create(ctx context.Context, p types.Person) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// Uniqueness checked in-tx; the single writer makes this race-free.
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM people WHERE badge_token = ?;`, p.BadgeToken,
		).Scan(&n); err != nil {
			return fmt.Errorf("Create person token check: %w", err)
		}
		if n > 0 {
			return store.ErrDuplicateToken
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO people(`+personCols+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			p.ID, p.BadgeToken, p.PIN, p.DisplayName, string(p.Role),
			p.Department, boolInt(p.Active),
			p.CreatedAt.UTC().UnixMilli(), p.UpdatedAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("Create person insert: %w", err)
		}
		return nil
	})
}

func (s *PersonStore) Update(ctx context.Context, p types.Person) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM people WHERE badge_token = ? AND person_id <> ?;`,
			p.BadgeToken, p.ID,
		).Scan(&n); err != nil {
			return fmt.Errorf("Update person token check: %w", err)
		}
		if n > 0 {
			return store.ErrDuplicateToken
		}

		res, err := tx.ExecContext(ctx, `
UPDATE people
SET badge_token = ?, pin = ?, display_name = ?, role = ?, department = ?,
    updated_at_ms = ?
WHERE person_id = ?;`,
			p.BadgeToken, p.PIN, p.DisplayName, string(p.Role), p.Department,
			p.UpdatedAt.UTC().UnixMilli(), p.ID,
		)
		if err != nil {
			return fmt.Errorf("Update person: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *PersonStore) SetActive(ctx context.Context, id string, active bool, at time.Time) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
UPDATE people SET active = ?, updated_at_ms = ? WHERE person_id = ?;`,
			boolInt(active), at.UTC().UnixMilli(), id,
		)
		if err != nil {
			return fmt.Errorf("SetActive person: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (s *PersonStore) List(ctx context.Context) ([]types.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personCols+` FROM people ORDER BY display_name;`)
	if err != nil {
		return nil, fmt.Errorf("List people: %w", err)
	}
	defer rows.Close()

	var out []types.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("List people scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
