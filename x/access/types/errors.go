package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrUnauthorized   = errors.Register(ModuleName, 1, "unauthorized")
	ErrInvalidRole    = errors.Register(ModuleName, 2, "invalid role")
	ErrModulePaused   = errors.Register(ModuleName, 3, "module is paused")
	ErrInvalidAddress = errors.Register(ModuleName, 4, "invalid address")
	ErrLastAdmin      = errors.Register(ModuleName, 5, "cannot revoke the last admin")
	ErrInvalidModule  = errors.Register(ModuleName, 6, "module name is required")
)
