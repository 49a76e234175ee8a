package types

import (
	"fmt"
	"time"
)

type AssetClass string

const (
	ClassKey     AssetClass = "key"
	ClassVehicle AssetClass = "vehicle"
)

func ParseAssetClass(s string) (AssetClass, error) {
	switch AssetClass(s) {
	case ClassKey, ClassVehicle:
		return AssetClass(s), nil
	}
	return "", fmt.Errorf("unknown asset class %q", s)
}

// Subtypes per class. Vehicles: company | ceo | personal.
// Keys: vehicle | warehouse | office | other.
const (
	VehicleCompany  = "company"
	VehicleCEO      = "ceo"
	VehiclePersonal = "personal"

	KeyVehicle   = "vehicle"
	KeyWarehouse = "warehouse"
	KeyOffice    = "office"
	KeyOther     = "other"
)

func ValidSubtype(class AssetClass, subtype string) bool {
	switch class {
	case ClassVehicle:
		return subtype == VehicleCompany || subtype == VehicleCEO || subtype == VehiclePersonal
	case ClassKey:
		return subtype == KeyVehicle || subtype == KeyWarehouse || subtype == KeyOffice || subtype == KeyOther
	}
	return false
}

// AssetStatus is derived from the ledger: an asset is in custody exactly
// when one open transaction references it.
type AssetStatus string

const (
	StatusAvailable AssetStatus = "available"
	StatusInCustody AssetStatus = "in_custody"
)

// Asset is a key or vehicle under custody control.
//
// Status is a denormalized projection of the ledger and is written only by
// the transaction store, in the same transaction as the ledger mutation.
// LastOdometer (vehicles) is monotonically non-decreasing across completed
// transactions. OnPremises is maintained for CEO-subtype vehicles only.
type Asset struct {
	ID            string      `json:"id"`
	Label         string      `json:"label"` // key number or vehicle registration
	Class         AssetClass  `json:"class"`
	Subtype       string      `json:"subtype"`
	Description   string      `json:"description,omitempty"`
	LinkedAssetID string      `json:"linked_asset_id,omitempty"` // a key may reference a vehicle
	Status        AssetStatus `json:"status"`
	LastOdometer  int64       `json:"last_odometer,omitempty"`
	OnPremises    bool        `json:"on_premises"`
	Active        bool        `json:"active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// AssetView pairs an asset with its open transaction, if any, for
// selection lists and the live dashboard.
type AssetView struct {
	Asset Asset               `json:"asset"`
	Open  *CustodyTransaction `json:"open_transaction,omitempty"`
}
