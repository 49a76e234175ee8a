package service

import (
	"errors"

	"custodia/internal/custodia/store"
)

// Validation failures: the request itself is malformed or incomplete.
// Resolved locally, reported to the caller, nothing retried.
var (
	ErrPurposeRequired      = errors.New("purpose is required for a key checkout")
	ErrDestinationRequired  = errors.New("destination is required for a vehicle checkout")
	ErrOdometerRequired     = errors.New("odometer reading is required for a vehicle")
	ErrReturnReasonRequired = errors.New("return reason is required when the returning holder differs")
	ErrReturnNoteRequired   = errors.New("a note is required with return reason 'other'")
	ErrNoteRequired         = errors.New("a note is required to force close a transaction")
	ErrInvalidPIN           = errors.New("PIN must be exactly 4 digits")
	ErrNameRequired         = errors.New("display name is required")
	ErrTokenRequired        = errors.New("badge token is required")
	ErrVisitorRequired      = errors.New("a person or visitor name is required")
	ErrVehicleRegRequired   = errors.New("vehicle registration is required")
	ErrAssetRetired         = errors.New("asset is not in service")

	// ErrInvalidArgument wraps enum parse failures (role, class, subtype,
	// reason, visit kind) so they classify as validation errors.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrForbidden: the identity resolved but its role is not eligible for the
// requested operation.
var ErrForbidden = errors.New("role not permitted for this operation")

// IsValidation reports whether err is a locally-resolvable bad request, as
// opposed to a lost race (IsConflict) or an unknown identity.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrPurposeRequired, ErrDestinationRequired, ErrOdometerRequired,
		ErrReturnReasonRequired, ErrReturnNoteRequired, ErrNoteRequired,
		ErrInvalidPIN, ErrNameRequired, ErrTokenRequired, ErrVisitorRequired,
		ErrVehicleRegRequired, ErrAssetRetired, ErrInvalidArgument,
		store.ErrDuplicateToken, store.ErrDuplicateLabel,
		store.ErrOdometerRegression,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// IsConflict reports whether err means a state precondition failed
// atomically; the caller should re-read current state and may retry.
func IsConflict(err error) bool {
	return errors.Is(err, store.ErrAssetInCustody) ||
		errors.Is(err, store.ErrTransactionNotOpen) ||
		errors.Is(err, store.ErrVisitDeparted)
}
