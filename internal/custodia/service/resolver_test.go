package service_test

import (
	"context"
	"errors"
	"testing"

	"custodia/internal/custodia/service"
	"custodia/internal/custodia/store"
	"custodia/internal/custodia/store/memory"
	"custodia/internal/custodia/types"
)

func newResolver() *service.IdentityResolver {
	people := memory.NewPersonStore(
		types.Person{ID: "p_officer", BadgeToken: "10001", PIN: "1234", DisplayName: "Officer", Role: types.RoleSecurityControl, Active: true},
		types.Person{ID: "p_driver", BadgeToken: "20001", PIN: "0000", DisplayName: "Driver", Role: types.RoleDriver, Active: true},
		types.Person{ID: "p_gone", BadgeToken: "40001", PIN: "0000", DisplayName: "Former", Role: types.RoleStaff, Active: false},
	)
	return service.NewIdentityResolver(people)
}

func TestResolve_NormalizesRawScans(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	// Leading zeros and surrounding control characters come off before
	// lookup, so all three input shapes hit the same person.
	for _, raw := range []string{"10001", "0010001", "\t00010001\r\n"} {
		p, err := r.Resolve(ctx, raw)
		if err != nil {
			t.Fatalf("resolve %q: %v", raw, err)
		}
		if p.ID != "p_officer" {
			t.Errorf("resolve %q: expected p_officer, got %q", raw, p.ID)
		}
	}
}

func TestResolve_EmptyAfterNormalization(t *testing.T) {
	r := newResolver()
	for _, raw := range []string{"", "   ", "0000"} {
		if _, err := r.Resolve(context.Background(), raw); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("resolve %q: expected ErrNotFound, got %v", raw, err)
		}
	}
}

func TestResolve_InactiveLooksUnknown(t *testing.T) {
	r := newResolver()
	if _, err := r.Resolve(context.Background(), "40001"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive person, got %v", err)
	}
}

func TestResolve_RoleGate(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	if _, err := r.Resolve(ctx, "20001", types.OfficerRoles...); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for driver in officer gate, got %v", err)
	}
	if _, err := r.Resolve(ctx, "20001", types.RoleDriver); err != nil {
		t.Fatalf("expected driver to pass driver gate, got %v", err)
	}
	// No role set means no restriction.
	if _, err := r.Resolve(ctx, "20001"); err != nil {
		t.Fatalf("expected unrestricted resolve to pass, got %v", err)
	}
}

func TestLogin_HappyPath(t *testing.T) {
	r := newResolver()
	p, err := r.Login(context.Background(), "10001", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if p.ID != "p_officer" {
		t.Errorf("expected p_officer, got %q", p.ID)
	}
}

func TestLogin_WrongPINLooksUnknown(t *testing.T) {
	r := newResolver()
	if _, err := r.Login(context.Background(), "10001", "4321"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong PIN, got %v", err)
	}
}

func TestLogin_MalformedPIN(t *testing.T) {
	r := newResolver()
	for _, pin := range []string{"", "123", "12345", "12a4"} {
		_, err := r.Login(context.Background(), "10001", pin)
		if !errors.Is(err, service.ErrInvalidPIN) {
			t.Errorf("pin %q: expected ErrInvalidPIN, got %v", pin, err)
		}
	}
}

func TestLogin_NonOfficerRefused(t *testing.T) {
	r := newResolver()
	if _, err := r.Login(context.Background(), "20001", "0000"); !errors.Is(err, service.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for driver login, got %v", err)
	}
}
