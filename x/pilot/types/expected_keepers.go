package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
)

// Adapter is the uniform contract every strategy adapter satisfies.
// Implementations are free to hold funds however they like; the router only
// relies on these operations.
type Adapter interface {
	// ID returns the adapter identifier used in allocation tables.
	ID() string
	// Deposit pulls amount from caller into the strategy and returns the
	// receipt shares issued.
	Deposit(ctx sdk.Context, caller string, amount math.Int) (math.Int, error)
	// Withdraw redeems receipt shares and pays the proceeds to caller.
	Withdraw(ctx sdk.Context, caller string, shares math.Int) (math.Int, error)
	// WithdrawTo pays amount of underlying directly to recipient.
	WithdrawTo(ctx sdk.Context, caller, recipient string, amount math.Int) (math.Int, error)
	// GetBalance returns the current value of the position.
	GetBalance(ctx sdk.Context) (math.Int, error)
	// GetTotalAssets returns the current value of the position.
	GetTotalAssets(ctx sdk.Context) (math.Int, error)
}

// AdapterRegistry resolves adapter ids to implementations
type AdapterRegistry interface {
	GetAdapter(ctx sdk.Context, id string) (Adapter, error)
}

// AssetsKeeper defines the expected interface of the assets module
type AssetsKeeper interface {
	GetBalance(ctx sdk.Context, addr string) math.Int
	Send(ctx sdk.Context, from, to string, amount math.Int) error
}

// AccessKeeper defines the expected interface of the access module
type AccessKeeper interface {
	HasRole(ctx sdk.Context, role accesstypes.Role, addr string) bool
	RequireRole(ctx sdk.Context, addr string, roles ...accesstypes.Role) error
	Guard(ctx sdk.Context, module string) error
}
