package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrPilotNotFound      = errors.Register(ModuleName, 1, "pilot not found")
	ErrPilotExists        = errors.Register(ModuleName, 2, "pilot already exists")
	ErrInvalidAllocation  = errors.Register(ModuleName, 3, "invalid allocation")
	ErrLengthMismatch     = errors.Register(ModuleName, 4, "length mismatch")
	ErrZeroHoldings       = errors.Register(ModuleName, 5, "pilot has zero holdings")
	ErrAdapterNotFound    = errors.Register(ModuleName, 6, "adapter not found")
	ErrInsufficientFunds  = errors.Register(ModuleName, 7, "insufficient idle funds")
	ErrInvalidAmount      = errors.Register(ModuleName, 8, "invalid amount")
	ErrAdapterStillActive = errors.Register(ModuleName, 9, "adapter is in the active allocation")
	ErrInvalidPilot       = errors.Register(ModuleName, 10, "invalid pilot")
)
