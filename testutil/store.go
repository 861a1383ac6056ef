// Package testutil builds in-memory stores and contexts for keeper tests.
package testutil

import (
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// GenesisTime is the block time every test context starts at.
var GenesisTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// NewContext mounts the given keys on a fresh memdb-backed multistore and
// returns a context at height 1.
func NewContext(keys ...*storetypes.KVStoreKey) sdk.Context {
	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		panic(err)
	}
	header := cmtproto.Header{Height: 1, Time: GenesisTime}
	return sdk.NewContext(cms, header, false, log.NewNopLogger())
}
