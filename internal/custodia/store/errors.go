package store

import "errors"

// Sentinel errors for storage facts. Implementations return these
// (optionally wrapped) so services can translate them into user-facing
// failures without inspecting strings.
//
// ErrAssetInCustody and ErrTransactionNotOpen are the Conflict family:
// they mean a precondition over current row state failed atomically and
// the caller may retry after re-reading.
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateToken     = errors.New("badge token already registered")
	ErrDuplicateLabel     = errors.New("asset label already registered")
	ErrAssetInCustody     = errors.New("asset already has an open transaction")
	ErrTransactionNotOpen = errors.New("transaction is not open")
	ErrOdometerRegression = errors.New("odometer below last recorded reading")
	ErrVisitDeparted      = errors.New("visit already departed")
)
