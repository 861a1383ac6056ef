package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
)

// AssetsKeeper defines the expected interface of the assets module
type AssetsKeeper interface {
	GetBalance(ctx sdk.Context, addr string) math.Int
	Send(ctx sdk.Context, from, to string, amount math.Int) error
}

// LedgerKeeper defines the expected interface of the stoken module
type LedgerKeeper interface {
	TransferFrom(ctx context.Context, spender, from, to string, value math.Int) (math.Int, error)
	TransferShares(ctx context.Context, from, to string, shares math.Int) error
}

// AccessKeeper defines the expected interface of the access module
type AccessKeeper interface {
	HasRole(ctx sdk.Context, role accesstypes.Role, addr string) bool
	RequireRole(ctx sdk.Context, addr string, roles ...accesstypes.Role) error
	Guard(ctx sdk.Context, module string) error
}

// WithdrawHooks lets the orchestrator react to queue transitions
type WithdrawHooks interface {
	// AfterBurnedRequestCancelled restores the claim of a cancelled request
	// whose ledger value was burned when it was recorded.
	AfterBurnedRequestCancelled(ctx sdk.Context, req Request) error
}
