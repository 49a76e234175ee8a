package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

func TestPersonStore_CreateGet(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedPerson(t, "p1", "10001", types.RoleSecurityControl)

	byToken, err := s.people.GetByToken(ctx, "10001")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if byToken.ID != "p1" || byToken.Role != types.RoleSecurityControl {
		t.Errorf("unexpected person: %+v", byToken)
	}
	if !byToken.CreatedAt.Equal(t0) {
		t.Errorf("expected created_at %v, got %v", t0, byToken.CreatedAt)
	}

	byID, err := s.people.GetByID(ctx, "p1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.BadgeToken != "10001" {
		t.Errorf("expected token 10001, got %q", byID.BadgeToken)
	}

	if _, err := s.people.GetByToken(ctx, "99999"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPersonStore_DuplicateToken(t *testing.T) {
	s := newStores(t)
	s.seedPerson(t, "p1", "10001", types.RoleStaff)

	err := s.people.Create(context.Background(), types.Person{
		ID: "p2", BadgeToken: "10001", DisplayName: "Clone", Role: types.RoleStaff,
		Active: true, CreatedAt: t0, UpdatedAt: t0,
	})
	if !errors.Is(err, store.ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}
}

func TestPersonStore_Update(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedPerson(t, "p1", "10001", types.RoleStaff)
	s.seedPerson(t, "p2", "10002", types.RoleStaff)

	p, _ := s.people.GetByID(ctx, "p1")
	p.DisplayName = "Renamed"
	p.Role = types.RoleSupervisor
	p.UpdatedAt = t0.Add(time.Hour)
	if err := s.people.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.people.GetByID(ctx, "p1")
	if got.DisplayName != "Renamed" || got.Role != types.RoleSupervisor {
		t.Errorf("update not applied: %+v", got)
	}

	// Taking p2's token is refused.
	p.BadgeToken = "10002"
	if err := s.people.Update(ctx, p); !errors.Is(err, store.ErrDuplicateToken) {
		t.Fatalf("expected ErrDuplicateToken, got %v", err)
	}

	p.ID = "ghost"
	p.BadgeToken = "10009"
	if err := s.people.Update(ctx, p); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPersonStore_SetActiveAndList(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedPerson(t, "p1", "10001", types.RoleStaff)
	s.seedPerson(t, "p2", "10002", types.RoleStaff)

	if err := s.people.SetActive(ctx, "p1", false, t0.Add(time.Hour)); err != nil {
		t.Fatalf("set active: %v", err)
	}
	p, _ := s.people.GetByID(ctx, "p1")
	if p.Active {
		t.Error("expected inactive")
	}
	// Deactivated people still resolve by token; the service layer decides
	// what inactive means.
	if _, err := s.people.GetByToken(ctx, "10001"); err != nil {
		t.Errorf("expected inactive person still readable by token, got %v", err)
	}

	if err := s.people.SetActive(ctx, "ghost", false, t0); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	people, err := s.people.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
}
