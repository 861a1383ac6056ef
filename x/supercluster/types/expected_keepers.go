package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
)

// AssetsKeeper defines the expected interface of the assets module
type AssetsKeeper interface {
	GetBalance(ctx sdk.Context, addr string) math.Int
	Send(ctx sdk.Context, from, to string, amount math.Int) error
}

// LedgerKeeper defines the expected interface of the stoken module
type LedgerKeeper interface {
	Mint(ctx context.Context, caller, account string, value math.Int) (math.Int, error)
	Burn(ctx context.Context, caller, account string, value math.Int) (math.Int, error)
	UpdateManagedValue(ctx context.Context, caller string, newValue math.Int) error
	TotalShares(ctx sdk.Context) math.Int
	TotalManagedValue(ctx sdk.Context) math.Int
}

// PilotKeeper defines the expected interface of the pilot module
type PilotKeeper interface {
	GetPilot(ctx sdk.Context, id string) *pilottypes.Pilot
	Invest(ctx context.Context, caller, pilotID string, amount math.Int) (math.Int, error)
	DivestTo(ctx context.Context, caller, pilotID, destination string, amount math.Int) (math.Int, error)
	GetHoldings(ctx sdk.Context, pilotID string) (math.Int, error)
}

// WithdrawKeeper defines the expected interface of the withdraw module
type WithdrawKeeper interface {
	AutoRequest(ctx context.Context, caller, user string, value, delivered math.Int) (*withdrawtypes.Request, error)
	FreeFunds(ctx sdk.Context) math.Int
	ReleaseFunds(ctx sdk.Context, recipient string, amount math.Int) error
}

// AccessKeeper defines the expected interface of the access module
type AccessKeeper interface {
	RequireRole(ctx sdk.Context, addr string, roles ...accesstypes.Role) error
	Guard(ctx sdk.Context, module string) error
}
