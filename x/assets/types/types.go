package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "assets"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// DefaultDenom is the base asset denomination
	DefaultDenom = "uusdc"
)

// Store key prefixes
var (
	BalanceKeyPrefix = []byte{0x01}
	SupplyKey        = []byte{0x02}
)

// BalanceKey is prefix | address.
func BalanceKey(addr string) []byte {
	return append(append([]byte{}, BalanceKeyPrefix...), []byte(addr)...)
}

// ModuleAddress returns the account string owned by a module.
func ModuleAddress(name string) string {
	return "module/" + name
}

// Balance is the base-asset holding of one address
type Balance struct {
	Address string   `json:"address"`
	Amount  math.Int `json:"amount"`
}

// AccessKeeper defines the expected interface of the access module
type AccessKeeper interface {
	RequireRole(ctx sdk.Context, addr string, roles ...accesstypes.Role) error
}
