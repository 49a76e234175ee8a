package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev inserts a minimal starter dataset so a fresh dev instance has an
// officer to log in with and a few assets to check out. Idempotent.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	people := []struct {
		id, token, pin, name, role, dept string
	}{
		{"p_officer_dev", "10001", "1234", "Dev Officer", "security_control", "security"},
		{"p_gate_dev", "10002", "1234", "Dev Gate Officer", "security_gate", "security"},
		{"p_driver_dev", "20001", "0000", "Dev Driver", "driver", "logistics"},
		{"p_ceo_dev", "30001", "0000", "Dev CEO", "ceo", "executive"},
		{"p_admin_dev", "90001", "9999", "Dev Admin", "admin", "it"},
	}
	for _, p := range people {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO people(person_id, badge_token, pin, display_name, role, department, active, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?);`,
			p.id, p.token, p.pin, p.name, p.role, p.dept, now, now); err != nil {
			return fmt.Errorf("seed person %s: %w", p.id, err)
		}
	}

	assets := []struct {
		id, label, class, subtype, desc string
		odometer                        int64
	}{
		{"a_key_wh1", "K-WH-01", "key", "warehouse", "Warehouse 1 main door", 0},
		{"a_key_off1", "K-OF-01", "key", "office", "Front office", 0},
		{"a_veh_van1", "KAA 123X", "vehicle", "company", "Delivery van", 48200},
		{"a_veh_ceo", "KBB 001C", "vehicle", "ceo", "Executive car", 12050},
	}
	for _, a := range assets {
		if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO assets(asset_id, label, class, subtype, description, status, last_odometer, on_premises, active, created_at_ms, updated_at_ms)
VALUES (?, ?, ?, ?, ?, 'available', ?, 1, 1, ?, ?);`,
			a.id, a.label, a.class, a.subtype, a.desc, a.odometer, now, now); err != nil {
			return fmt.Errorf("seed asset %s: %w", a.id, err)
		}
	}

	// Link the vehicle key to its vehicle once both exist.
	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO assets(asset_id, label, class, subtype, description, linked_asset_id, status, last_odometer, on_premises, active, created_at_ms, updated_at_ms)
VALUES ('a_key_van1', 'K-VH-01', 'key', 'vehicle', 'Delivery van key', 'a_veh_van1', 'available', 0, 1, 1, ?, ?);`,
		now, now); err != nil {
		return fmt.Errorf("seed asset a_key_van1: %w", err)
	}

	return nil
}
