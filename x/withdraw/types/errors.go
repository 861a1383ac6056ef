package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrZeroAmount        = errors.Register(ModuleName, 1, "amount must be positive")
	ErrInvalidRequest    = errors.Register(ModuleName, 2, "unknown withdrawal request")
	ErrAlreadyFinalized  = errors.Register(ModuleName, 3, "request already finalized")
	ErrAlreadyClaimed    = errors.Register(ModuleName, 4, "request already claimed")
	ErrNotFinalized      = errors.Register(ModuleName, 5, "request not finalized")
	ErrNotYetAvailable   = errors.Register(ModuleName, 6, "withdraw delay has not elapsed")
	ErrInsufficientFunds = errors.Register(ModuleName, 7, "insufficient queue funds")
	ErrNotAuthorized     = errors.Register(ModuleName, 8, "not authorized to claim")
	ErrInvalidParams     = errors.Register(ModuleName, 9, "invalid params")
	ErrInvalidAmount     = errors.Register(ModuleName, 10, "invalid amount")
	ErrInvalidAddress    = errors.Register(ModuleName, 11, "invalid address")
)
