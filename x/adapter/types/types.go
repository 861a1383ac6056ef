package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "adapter"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	AdapterKeyPrefix = []byte{0x01}
)

// AdapterKey is prefix | id.
func AdapterKey(id string) []byte {
	return append(append([]byte{}, AdapterKeyPrefix...), []byte(id)...)
}

// AdapterAddress is the account an adapter holds funds or positions under.
func AdapterAddress(id string) string {
	return ModuleName + "/" + id
}

// Kind selects an adapter implementation
type Kind string

const (
	// KindVault places funds in a yield source
	KindVault Kind = "vault"
	// KindReserve holds funds 1:1 in the adapter account
	KindReserve Kind = "reserve"
)

// Validate checks the kind is known
func (k Kind) Validate() error {
	switch k {
	case KindVault, KindReserve:
		return nil
	default:
		return errorsmod.Wrapf(ErrInvalidKind, "%q", string(k))
	}
}

// AdapterInfo is the persisted state of one adapter
type AdapterInfo struct {
	ID       string `json:"id"`
	Kind     Kind   `json:"kind"`
	SourceID string `json:"source_id,omitempty"`
	// Pilot is the id of the only router allowed to move funds.
	Pilot   string `json:"pilot"`
	Address string `json:"address"`
	// TotalDeposited is deposits net of withdrawals, floored at zero.
	TotalDeposited math.Int `json:"total_deposited"`
	CreatedAt      int64    `json:"created_at"`
}

// AssetsKeeper defines the expected interface of the assets module
type AssetsKeeper interface {
	GetBalance(ctx sdk.Context, addr string) math.Int
	Send(ctx sdk.Context, from, to string, amount math.Int) error
}

// YieldSourceKeeper defines the expected interface of the yieldsource module
type YieldSourceKeeper interface {
	Deposit(ctx sdk.Context, sourceID, owner string, amount math.Int) (math.Int, error)
	Redeem(ctx sdk.Context, sourceID, owner, recipient string, shares math.Int) (math.Int, error)
	WithdrawAmount(ctx sdk.Context, sourceID, owner, recipient string, amount math.Int) (math.Int, error)
	BalanceOf(ctx sdk.Context, sourceID, owner string) math.Int
	SharesOf(ctx sdk.Context, sourceID, owner string) math.Int
	HasSource(ctx sdk.Context, id string) bool
}

// AccessKeeper defines the expected interface of the access module
type AccessKeeper interface {
	RequireRole(ctx sdk.Context, addr string, roles ...accesstypes.Role) error
}
