package app

import (
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"

	accesskeeper "github.com/openalpha/supercluster/x/access/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	adapterkeeper "github.com/openalpha/supercluster/x/adapter/keeper"
	adaptertypes "github.com/openalpha/supercluster/x/adapter/types"
	assetskeeper "github.com/openalpha/supercluster/x/assets/keeper"
	assetstypes "github.com/openalpha/supercluster/x/assets/types"
	pilotkeeper "github.com/openalpha/supercluster/x/pilot/keeper"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
	stokenkeeper "github.com/openalpha/supercluster/x/stoken/keeper"
	stokentypes "github.com/openalpha/supercluster/x/stoken/types"
	superclusterkeeper "github.com/openalpha/supercluster/x/supercluster/keeper"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
	withdrawkeeper "github.com/openalpha/supercluster/x/withdraw/keeper"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
	yieldsourcekeeper "github.com/openalpha/supercluster/x/yieldsource/keeper"
	yieldsourcetypes "github.com/openalpha/supercluster/x/yieldsource/types"
)

// Keepers bundles every module keeper
type Keepers struct {
	Access       *accesskeeper.Keeper
	Assets       *assetskeeper.Keeper
	Ledger       *stokenkeeper.Keeper
	YieldSource  *yieldsourcekeeper.Keeper
	Adapter      *adapterkeeper.Keeper
	Pilot        *pilotkeeper.Keeper
	Withdraw     *withdrawkeeper.Keeper
	Supercluster *superclusterkeeper.Keeper
}

// StoreKeys returns a fresh key per module
func StoreKeys() map[string]*storetypes.KVStoreKey {
	return storetypes.NewKVStoreKeys(
		accesstypes.StoreKey,
		assetstypes.StoreKey,
		stokentypes.StoreKey,
		yieldsourcetypes.StoreKey,
		adaptertypes.StoreKey,
		pilottypes.StoreKey,
		withdrawtypes.StoreKey,
		superclustertypes.StoreKey,
	)
}

// NewKeepers builds the keeper graph over keys. The orchestrator is wired as
// the queue's hook receiver.
func NewKeepers(keys map[string]*storetypes.KVStoreKey, denom string, logger log.Logger) Keepers {
	var k Keepers
	k.Access = accesskeeper.NewKeeper(keys[accesstypes.StoreKey], logger)
	k.Assets = assetskeeper.NewKeeper(keys[assetstypes.StoreKey], k.Access, denom, logger)
	k.Ledger = stokenkeeper.NewKeeper(keys[stokentypes.StoreKey], k.Access, logger)
	k.YieldSource = yieldsourcekeeper.NewKeeper(keys[yieldsourcetypes.StoreKey], k.Assets, k.Access, logger)
	k.Adapter = adapterkeeper.NewKeeper(keys[adaptertypes.StoreKey], k.Assets, k.YieldSource, k.Access, logger)
	k.Pilot = pilotkeeper.NewKeeper(keys[pilottypes.StoreKey], k.Assets, k.Access, k.Adapter, logger)
	k.Withdraw = withdrawkeeper.NewKeeper(keys[withdrawtypes.StoreKey], k.Assets, k.Ledger, k.Access, logger)
	k.Supercluster = superclusterkeeper.NewKeeper(
		keys[superclustertypes.StoreKey],
		k.Assets,
		k.Ledger,
		k.Pilot,
		k.Withdraw,
		k.Access,
		logger,
	)
	k.Withdraw.SetHooks(k.Supercluster.Hooks())
	return k
}

// MsgServers holds the per-module message handlers
type MsgServers struct {
	Access       *accesskeeper.MsgServer
	Assets       *assetskeeper.MsgServer
	Ledger       *stokenkeeper.MsgServer
	Pilot        *pilotkeeper.MsgServer
	Withdraw     *withdrawkeeper.MsgServer
	Supercluster *superclusterkeeper.MsgServer
}

// QueryServers holds the per-module query handlers
type QueryServers struct {
	Ledger       *stokenkeeper.QueryServer
	Adapter      *adapterkeeper.QueryServer
	Pilot        *pilotkeeper.QueryServer
	Withdraw     *withdrawkeeper.QueryServer
	Supercluster *superclusterkeeper.QueryServer
}

func newMsgServers(k Keepers) MsgServers {
	return MsgServers{
		Access:       accesskeeper.NewMsgServerImpl(k.Access),
		Assets:       assetskeeper.NewMsgServerImpl(k.Assets),
		Ledger:       stokenkeeper.NewMsgServerImpl(k.Ledger),
		Pilot:        pilotkeeper.NewMsgServerImpl(k.Pilot),
		Withdraw:     withdrawkeeper.NewMsgServerImpl(k.Withdraw),
		Supercluster: superclusterkeeper.NewMsgServerImpl(k.Supercluster),
	}
}

func newQueryServers(k Keepers) QueryServers {
	return QueryServers{
		Ledger:       stokenkeeper.NewQueryServerImpl(k.Ledger),
		Adapter:      adapterkeeper.NewQueryServerImpl(k.Adapter),
		Pilot:        pilotkeeper.NewQueryServerImpl(k.Pilot),
		Withdraw:     withdrawkeeper.NewQueryServerImpl(k.Withdraw),
		Supercluster: superclusterkeeper.NewQueryServerImpl(k.Supercluster),
	}
}
