package types

import (
	"fmt"
	"time"
)

type TxStatus string

const (
	TxOpen   TxStatus = "open"
	TxClosed TxStatus = "closed"
)

// ReturnReason justifies a return by someone other than the holder who
// took the asset out. Required whenever holder-in != holder-out.
type ReturnReason string

const (
	ReasonDriverSwap  ReturnReason = "driver_swap"  // driver swapped mid-trip
	ReasonEmergency   ReturnReason = "emergency"    // emergency takeover
	ReasonBreakdown   ReturnReason = "breakdown"    // breakdown replacement
	ReasonShiftChange ReturnReason = "shift_change" // shift change
	ReasonOther       ReturnReason = "other"        // free-text note required

	// ReasonForceClosed is recorded on administrative force closes.
	// It is not a valid caller-supplied reason.
	ReasonForceClosed ReturnReason = "admin_force_close"
)

func ParseReturnReason(s string) (ReturnReason, error) {
	switch ReturnReason(s) {
	case ReasonDriverSwap, ReasonEmergency, ReasonBreakdown, ReasonShiftChange, ReasonOther:
		return ReturnReason(s), nil
	}
	return "", fmt.Errorf("unknown return reason %q", s)
}

// CustodyTransaction records one holder-out/holder-in cycle for a key or
// vehicle. Created only by checkout, terminated only by check-in or an
// administrative force close, never deleted.
//
// Invariant: at most one open transaction per asset at any instant.
type CustodyTransaction struct {
	ID         string     `json:"id"`
	AssetID    string     `json:"asset_id"`
	AssetClass AssetClass `json:"asset_class"`

	// Class payload: Purpose for keys, Destination + odometer for vehicles.
	Purpose       string `json:"purpose,omitempty"`
	Destination   string `json:"destination,omitempty"`
	OdometerStart *int64 `json:"odometer_start,omitempty"`
	OdometerEnd   *int64 `json:"odometer_end,omitempty"`

	HolderOutID string    `json:"holder_out_id"`
	IssuedByID  string    `json:"issued_by_id"`
	OpenedAt    time.Time `json:"opened_at"`

	HolderInID   string       `json:"holder_in_id,omitempty"`
	ReceivedByID string       `json:"received_by_id,omitempty"`
	ClosedAt     *time.Time   `json:"closed_at,omitempty"`
	ReturnReason ReturnReason `json:"return_reason,omitempty"`
	ReturnNote   string       `json:"return_note,omitempty"`
	ForceClosed  bool         `json:"force_closed,omitempty"`

	Status TxStatus `json:"status"`
}
