package service

import (
	"context"
	"fmt"
	"time"

	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

// Thresholds holds one overdue threshold per asset class. A zero or
// negative threshold disables alerts for that class.
type Thresholds struct {
	Vehicle time.Duration
	Key     time.Duration
}

// Alert is one open transaction held past its class threshold.
type Alert struct {
	Transaction types.CustodyTransaction `json:"transaction"`
	Elapsed     time.Duration            `json:"elapsed_ns"`
	Display     string                   `json:"elapsed"`
}

// OverdueScanner finds open transactions held longer than their class
// threshold. A pure function of the open-transaction set and the clock:
// no mutation, no locking, tolerant of one polling interval of staleness.
type OverdueScanner struct {
	txs        store.TransactionStore
	thresholds Thresholds
}

func NewOverdueScanner(txs store.TransactionStore, thresholds Thresholds) *OverdueScanner {
	return &OverdueScanner{txs: txs, thresholds: thresholds}
}

// Scan returns overdue holds, oldest open first.
func (s *OverdueScanner) Scan(ctx context.Context, now time.Time) ([]Alert, error) {
	open, err := s.txs.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("overdue scan: %w", err)
	}

	var out []Alert
	for _, tx := range open {
		threshold := s.threshold(tx.AssetClass)
		if threshold <= 0 {
			continue
		}
		elapsed := now.Sub(tx.OpenedAt)
		if elapsed <= threshold {
			continue
		}
		out = append(out, Alert{
			Transaction: tx,
			Elapsed:     elapsed,
			Display:     FormatElapsed(elapsed),
		})
	}
	return out, nil
}

func (s *OverdueScanner) threshold(class types.AssetClass) time.Duration {
	switch class {
	case types.ClassVehicle:
		return s.thresholds.Vehicle
	case types.ClassKey:
		return s.thresholds.Key
	}
	return 0
}

// FormatElapsed renders a duration for display: whole days when at least
// 24h, whole hours otherwise.
func FormatElapsed(d time.Duration) string {
	if d >= 24*time.Hour {
		return fmt.Sprintf("%d day(s)", int(d.Hours())/24)
	}
	return fmt.Sprintf("%d hour(s)", int(d.Hours()))
}
