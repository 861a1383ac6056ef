package types

import (
	"cosmossdk.io/errors"
)

// Module error codes
var (
	ErrSourceNotFound        = errors.Register(ModuleName, 1, "yield source not found")
	ErrSourceExists          = errors.Register(ModuleName, 2, "yield source already exists")
	ErrZeroAmount            = errors.Register(ModuleName, 3, "amount must be positive")
	ErrInsufficientShares    = errors.Register(ModuleName, 4, "insufficient shares")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 5, "insufficient liquidity")
	ErrInvalidSource         = errors.Register(ModuleName, 6, "invalid yield source")
)
