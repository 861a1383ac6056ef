package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrZeroAmount            = errors.Register(ModuleName, 1, "amount must be positive")
	ErrInsufficientBalance   = errors.Register(ModuleName, 2, "insufficient balance")
	ErrInvalidState          = errors.Register(ModuleName, 3, "invalid ledger state")
	ErrDivisionByZero        = errors.Register(ModuleName, 4, "division by zero")
	ErrInsufficientAllowance = errors.Register(ModuleName, 5, "insufficient allowance")
	ErrInvalidAddress        = errors.Register(ModuleName, 6, "invalid address")
	ErrInvalidAmount         = errors.Register(ModuleName, 7, "invalid amount")
	ErrArithmetic            = errors.Register(ModuleName, 8, "arithmetic overflow")
)
