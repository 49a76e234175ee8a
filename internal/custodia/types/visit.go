package types

import (
	"fmt"
	"time"
)

type VisitKind string

const (
	VisitWalkIn         VisitKind = "visitor"         // walk-in visitor
	VisitVisitorVehicle VisitKind = "visitor_vehicle" // visitor arriving by vehicle
	VisitStaffVehicle   VisitKind = "staff_vehicle"   // staff personal vehicle on premises
)

func ParseVisitKind(s string) (VisitKind, error) {
	switch VisitKind(s) {
	case VisitWalkIn, VisitVisitorVehicle, VisitStaffVehicle:
		return VisitKind(s), nil
	}
	return "", fmt.Errorf("unknown visit kind %q", s)
}

type VisitStatus string

const (
	VisitOnPremises VisitStatus = "on_premises"
	VisitDeparted   VisitStatus = "departed"
)

// Visit is a presence record for a person or vehicle on the premises.
// Structurally parallel to CustodyTransaction but with no uniqueness
// invariant: the same visitor may hold several open records (e.g. a
// person and their vehicle).
type Visit struct {
	ID          string      `json:"id"`
	Kind        VisitKind   `json:"kind"`
	PersonID    string      `json:"person_id,omitempty"`    // registered staff, if known
	VisitorName string      `json:"visitor_name,omitempty"` // free text otherwise
	HostID      string      `json:"host_id,omitempty"`
	VehicleReg  string      `json:"vehicle_reg,omitempty"`
	Purpose     string      `json:"purpose,omitempty"`
	EnteredAt   time.Time   `json:"entered_at"`
	LeftAt      *time.Time  `json:"left_at,omitempty"`
	Status      VisitStatus `json:"status"`
}
