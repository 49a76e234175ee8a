package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

func seedVisit(t *testing.T, s *stores, name string, at time.Time) types.Visit {
	t.Helper()
	v := types.Visit{
		ID: uuid.NewString(), Kind: types.VisitWalkIn, VisitorName: name,
		EnteredAt: at, Status: types.VisitOnPremises,
	}
	if err := s.visits.Create(context.Background(), v); err != nil {
		t.Fatalf("create visit: %v", err)
	}
	return v
}

func TestVisitStore_DepartFlow(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	v := seedVisit(t, s, "Jane Vendor", t0)

	left := t0.Add(2 * time.Hour)
	departed, err := s.visits.Depart(ctx, v.ID, left)
	if err != nil {
		t.Fatalf("depart: %v", err)
	}
	if departed.Status != types.VisitDeparted {
		t.Errorf("expected departed, got %q", departed.Status)
	}
	if departed.LeftAt == nil || !departed.LeftAt.Equal(left) {
		t.Errorf("expected left_at %v, got %v", left, departed.LeftAt)
	}

	if _, err := s.visits.Depart(ctx, v.ID, left.Add(time.Minute)); !errors.Is(err, store.ErrVisitDeparted) {
		t.Fatalf("expected ErrVisitDeparted on second depart, got %v", err)
	}
	if _, err := s.visits.Depart(ctx, "ghost", left); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVisitStore_ListOnPremisesAndHistory(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()

	a := seedVisit(t, s, "A", t0)
	seedVisit(t, s, "B", t0.Add(time.Minute))
	if _, err := s.visits.Depart(ctx, a.ID, t0.Add(time.Hour)); err != nil {
		t.Fatalf("depart: %v", err)
	}

	on, err := s.visits.ListOnPremises(ctx)
	if err != nil {
		t.Fatalf("list on premises: %v", err)
	}
	if len(on) != 1 || on[0].VisitorName != "B" {
		t.Fatalf("expected only B on premises, got %+v", on)
	}

	hist, err := s.visits.History(ctx, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("expected 2 records, got %d", len(hist))
	}
	if hist[0].VisitorName != "B" {
		t.Errorf("expected newest first, got %q", hist[0].VisitorName)
	}

	limited, err := s.visits.History(ctx, 1)
	if err != nil {
		t.Fatalf("history limit: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 record with limit, got %d", len(limited))
	}
}

func TestVisitStore_HostReference(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedPerson(t, "p_host", "60001", types.RoleStaff)

	v := types.Visit{
		ID: uuid.NewString(), Kind: types.VisitVisitorVehicle,
		VisitorName: "Jane Vendor", HostID: "p_host", VehicleReg: "KCD 456Y",
		EnteredAt: t0, Status: types.VisitOnPremises,
	}
	if err := s.visits.Create(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.visits.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HostID != "p_host" || got.VehicleReg != "KCD 456Y" {
		t.Errorf("unexpected visit: %+v", got)
	}
}
