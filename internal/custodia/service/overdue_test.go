package service_test

import (
	"context"
	"testing"
	"time"

	"custodia/internal/custodia/service"
)

func openAt(f *fixture, t *testing.T, assetID string, at time.Time) {
	t.Helper()
	ledger := service.NewLedgerService(f.people, f.assets, f.txs, service.WithClock(fixedClock(at)))
	req := service.CheckoutRequest{AssetID: assetID, HolderID: "p_driver", OfficerID: "p_officer"}
	switch assetID {
	case "a_van1":
		req.Destination = "Depot"
		req.OdometerStart = odo(48200)
	default:
		req.Purpose = "rounds"
	}
	if _, err := ledger.Checkout(context.Background(), req); err != nil {
		t.Fatalf("checkout %s: %v", assetID, err)
	}
}

func TestOverdueScan_PerClassThresholds(t *testing.T) {
	f := newFixture(t)
	now := t0.Add(30 * time.Hour)

	// Key out for 30h (threshold 24h), van out for 30h (threshold 72h).
	openAt(f, t, "a_key1", t0)
	openAt(f, t, "a_van1", t0)

	scanner := service.NewOverdueScanner(f.txs, service.Thresholds{
		Vehicle: 72 * time.Hour,
		Key:     24 * time.Hour,
	})
	alerts, err := scanner.Scan(context.Background(), now)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Transaction.AssetID != "a_key1" {
		t.Errorf("expected a_key1 overdue, got %q", alerts[0].Transaction.AssetID)
	}
	if alerts[0].Display != "1 day(s)" {
		t.Errorf("expected display '1 day(s)', got %q", alerts[0].Display)
	}
}

func TestOverdueScan_ExactThresholdNotOverdue(t *testing.T) {
	f := newFixture(t)
	openAt(f, t, "a_key1", t0)

	scanner := service.NewOverdueScanner(f.txs, service.Thresholds{Key: 24 * time.Hour})
	alerts, err := scanner.Scan(context.Background(), t0.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts exactly at threshold, got %d", len(alerts))
	}
}

func TestOverdueScan_ZeroThresholdDisablesClass(t *testing.T) {
	f := newFixture(t)
	openAt(f, t, "a_key1", t0)

	scanner := service.NewOverdueScanner(f.txs, service.Thresholds{Vehicle: 72 * time.Hour})
	alerts, err := scanner.Scan(context.Background(), t0.Add(1000*time.Hour))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts with key threshold disabled, got %d", len(alerts))
	}
}

func TestOverdueScan_ClosedTransactionsNeverAlert(t *testing.T) {
	f := newFixture(t)
	tx := f.checkoutKey(t)
	if _, err := f.ledger.Checkin(context.Background(), service.CheckinRequest{
		TransactionID: tx.ID, HolderID: "p_driver", OfficerID: "p_officer",
	}); err != nil {
		t.Fatalf("checkin: %v", err)
	}

	scanner := service.NewOverdueScanner(f.txs, service.Thresholds{Key: time.Hour})
	alerts, err := scanner.Scan(context.Background(), t0.Add(1000*time.Hour))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts for closed ledger, got %d", len(alerts))
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Hour, "5 hour(s)"},
		{23 * time.Hour, "23 hour(s)"},
		{24 * time.Hour, "1 day(s)"},
		{96*time.Hour + 30*time.Minute, "4 day(s)"},
	}
	for _, c := range cases {
		if got := service.FormatElapsed(c.d); got != c.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}
