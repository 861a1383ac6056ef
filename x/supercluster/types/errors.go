package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrZeroAmount             = errors.Register(ModuleName, 1, "amount must be positive")
	ErrPilotNotRegistered     = errors.Register(ModuleName, 2, "pilot not registered")
	ErrPilotAlreadyRegistered = errors.Register(ModuleName, 3, "pilot already registered")
	ErrPilotNotEmpty          = errors.Register(ModuleName, 4, "pilot still holds value")
	ErrRebaseDeviation        = errors.Register(ModuleName, 5, "managed value deviates from live value")
	ErrInvalidParams          = errors.Register(ModuleName, 6, "invalid params")
	ErrInvalidAmount          = errors.Register(ModuleName, 7, "invalid amount")
	ErrInvalidAddress         = errors.Register(ModuleName, 8, "invalid address")
)
