package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrAdapterNotFound   = errors.Register(ModuleName, 1, "adapter not found")
	ErrAdapterExists     = errors.Register(ModuleName, 2, "adapter already exists")
	ErrInvalidKind       = errors.Register(ModuleName, 3, "invalid adapter kind")
	ErrUnauthorized      = errors.Register(ModuleName, 4, "caller is not the bound pilot")
	ErrZeroAmount        = errors.Register(ModuleName, 5, "amount must be positive")
	ErrInsufficientFunds = errors.Register(ModuleName, 6, "insufficient adapter balance")
	ErrInvalidSource     = errors.Register(ModuleName, 7, "invalid yield source")
	ErrAdapterNotEmpty   = errors.Register(ModuleName, 8, "adapter still holds funds")
)
