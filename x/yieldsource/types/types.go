package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "yieldsource"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Store key prefixes
var (
	SourceKeyPrefix   = []byte{0x01}
	PositionKeyPrefix = []byte{0x02}
)

// SourceKey is prefix | id.
func SourceKey(id string) []byte {
	return append(append([]byte{}, SourceKeyPrefix...), []byte(id)...)
}

// PositionKey is prefix | source | 0x00 | owner.
func PositionKey(sourceID, owner string) []byte {
	key := append(append([]byte{}, PositionKeyPrefix...), []byte(sourceID)...)
	key = append(key, 0x00)
	return append(key, []byte(owner)...)
}

// PositionPrefix scans every position of one source.
func PositionPrefix(sourceID string) []byte {
	key := append(append([]byte{}, PositionKeyPrefix...), []byte(sourceID)...)
	return append(key, 0x00)
}

// SourceAddress is the account that custodies a source's assets.
func SourceAddress(id string) string {
	return ModuleName + "/" + id
}

// Source is an external share-priced vault. Its assets are whatever its
// account holds, so yield and losses show up as balance changes.
type Source struct {
	ID          string   `json:"id"`
	Address     string   `json:"address"`
	TotalShares math.Int `json:"total_shares"`
	CreatedAt   int64    `json:"created_at"`
}

// Position is an owner's share of a source
type Position struct {
	SourceID string   `json:"source_id"`
	Owner    string   `json:"owner"`
	Shares   math.Int `json:"shares"`
}

// AssetsKeeper defines the expected interface of the assets module
type AssetsKeeper interface {
	GetBalance(ctx sdk.Context, addr string) math.Int
	Send(ctx sdk.Context, from, to string, amount math.Int) error
}

// AccessKeeper defines the expected interface of the access module
type AccessKeeper interface {
	RequireRole(ctx sdk.Context, addr string, roles ...accesstypes.Role) error
}
