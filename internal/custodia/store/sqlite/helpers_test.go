package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"custodia/internal/custodia/store/sqlite"
	"custodia/internal/custodia/types"
	"custodia/internal/db"
)

var t0 = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

// openTestDB runs the production migrations against an in-memory database
// and hands back the single-connection handle plus its write worker.
func openTestDB(t *testing.T) (*sql.DB, *db.Worker) {
	t.Helper()

	conn, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	writer := db.NewWorker(conn)
	t.Cleanup(func() {
		writer.Close()
		conn.Close()
	})
	return conn, writer
}

type stores struct {
	people *sqlite.PersonStore
	assets *sqlite.AssetStore
	txs    *sqlite.TransactionStore
	visits *sqlite.VisitStore
}

func newStores(t *testing.T) *stores {
	t.Helper()
	conn, writer := openTestDB(t)
	return &stores{
		people: sqlite.NewPersonStore(conn, writer),
		assets: sqlite.NewAssetStore(conn, writer),
		txs:    sqlite.NewTransactionStore(conn, writer),
		visits: sqlite.NewVisitStore(conn, writer),
	}
}

func (s *stores) seedPerson(t *testing.T, id, token string, role types.Role) {
	t.Helper()
	err := s.people.Create(context.Background(), types.Person{
		ID: id, BadgeToken: token, PIN: "1234", DisplayName: "Person " + id,
		Role: role, Active: true, CreatedAt: t0, UpdatedAt: t0,
	})
	if err != nil {
		t.Fatalf("seed person %s: %v", id, err)
	}
}

func (s *stores) seedAsset(t *testing.T, a types.Asset) {
	t.Helper()
	if a.Status == "" {
		a.Status = types.StatusAvailable
	}
	a.OnPremises = true
	a.Active = true
	a.CreatedAt = t0
	a.UpdatedAt = t0
	if err := s.assets.Create(context.Background(), a); err != nil {
		t.Fatalf("seed asset %s: %v", a.ID, err)
	}
}

func odo(v int64) *int64 { return &v }
