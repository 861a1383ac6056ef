package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
)

// AccessKeeper defines the expected interface of the access module
type AccessKeeper interface {
	RequireRole(ctx sdk.Context, addr string, roles ...accesstypes.Role) error
	Guard(ctx sdk.Context, module string) error
}
