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

func TestAssetStore_CreateGetList(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedAsset(t, types.Asset{ID: "a_key1", Label: "K-WH-01", Class: types.ClassKey, Subtype: types.KeyWarehouse})
	s.seedAsset(t, types.Asset{ID: "a_van1", Label: "KAA 123X", Class: types.ClassVehicle, Subtype: types.VehicleCompany, LastOdometer: 48200})

	a, err := s.assets.GetByID(ctx, "a_van1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.LastOdometer != 48200 || a.Status != types.StatusAvailable {
		t.Errorf("unexpected asset: %+v", a)
	}

	keys, err := s.assets.List(ctx, types.ClassKey)
	if err != nil {
		t.Fatalf("list keys: %v", err)
	}
	if len(keys) != 1 || keys[0].ID != "a_key1" {
		t.Fatalf("expected only a_key1, got %+v", keys)
	}

	all, err := s.assets.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(all))
	}
}

func TestAssetStore_LinkedKey(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedAsset(t, types.Asset{ID: "a_van1", Label: "KAA 123X", Class: types.ClassVehicle, Subtype: types.VehicleCompany})
	s.seedAsset(t, types.Asset{ID: "a_key1", Label: "K-VH-01", Class: types.ClassKey, Subtype: types.KeyVehicle, LinkedAssetID: "a_van1"})

	a, err := s.assets.GetByID(ctx, "a_key1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if a.LinkedAssetID != "a_van1" {
		t.Errorf("expected link to a_van1, got %q", a.LinkedAssetID)
	}
}

func TestAssetStore_DuplicateLabel(t *testing.T) {
	s := newStores(t)
	s.seedAsset(t, types.Asset{ID: "a_key1", Label: "K-WH-01", Class: types.ClassKey, Subtype: types.KeyWarehouse})

	err := s.assets.Create(context.Background(), types.Asset{
		ID: uuid.NewString(), Label: "K-WH-01", Class: types.ClassKey, Subtype: types.KeyWarehouse,
		Status: types.StatusAvailable, Active: true, CreatedAt: t0, UpdatedAt: t0,
	})
	if !errors.Is(err, store.ErrDuplicateLabel) {
		t.Fatalf("expected ErrDuplicateLabel, got %v", err)
	}
}

func TestAssetStore_UpdateLeavesDerivedColumns(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedPerson(t, "p_driver", "20001", types.RoleDriver)
	s.seedPerson(t, "p_officer", "10001", types.RoleSecurityControl)
	s.seedAsset(t, types.Asset{ID: "a_van1", Label: "KAA 123X", Class: types.ClassVehicle, Subtype: types.VehicleCompany, LastOdometer: 48200})

	// Put the asset in custody so the derived columns are non-default.
	if err := s.txs.Open(ctx, types.CustodyTransaction{
		ID: uuid.NewString(), AssetID: "a_van1", AssetClass: types.ClassVehicle,
		Destination: "Depot", OdometerStart: odo(48200),
		HolderOutID: "p_driver", IssuedByID: "p_officer", OpenedAt: t0, Status: types.TxOpen,
	}); err != nil {
		t.Fatalf("open: %v", err)
	}

	a, _ := s.assets.GetByID(ctx, "a_van1")
	a.Description = "repainted"
	a.UpdatedAt = t0.Add(time.Hour)
	if err := s.assets.Update(ctx, a); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := s.assets.GetByID(ctx, "a_van1")
	if got.Description != "repainted" {
		t.Errorf("expected description updated, got %q", got.Description)
	}
	if got.Status != types.StatusInCustody || got.LastOdometer != 48200 {
		t.Errorf("expected derived columns untouched, got status=%q odometer=%d", got.Status, got.LastOdometer)
	}
}

func TestAssetStore_SetActive(t *testing.T) {
	s := newStores(t)
	ctx := context.Background()
	s.seedAsset(t, types.Asset{ID: "a_key1", Label: "K-WH-01", Class: types.ClassKey, Subtype: types.KeyWarehouse})

	if err := s.assets.SetActive(ctx, "a_key1", false, t0.Add(time.Hour)); err != nil {
		t.Fatalf("set active: %v", err)
	}
	a, _ := s.assets.GetByID(ctx, "a_key1")
	if a.Active {
		t.Error("expected inactive after retire")
	}

	if err := s.assets.SetActive(ctx, "ghost", false, t0); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
