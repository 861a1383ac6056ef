// Package keeper wires every module keeper over one in-memory store for
// tests that cross module boundaries.
package keeper

import (
	"testing"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/supercluster/app"
	"github.com/openalpha/supercluster/testutil"
	accesskeeper "github.com/openalpha/supercluster/x/access/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	adaptertypes "github.com/openalpha/supercluster/x/adapter/types"
	assetstypes "github.com/openalpha/supercluster/x/assets/types"
)

// Well-known test principals. Each holds exactly the role it is named after.
const (
	Admin      = "admin"
	Minter     = "minter"
	Controller = "controller"
	Operator   = "operator"
)

// Keepers bundles every module keeper sharing one context
type Keepers = app.Keepers

// GrantSystemRoles gives the orchestrator's holding account the roles it
// acts under and the test principals their namesake roles.
func GrantSystemRoles(ctx sdk.Context, ak *accesskeeper.Keeper) error {
	grants := []struct {
		role accesstypes.Role
		addr string
	}{
		{accesstypes.RoleAdmin, Admin},
		{accesstypes.RoleMinter, Minter},
		{accesstypes.RoleController, Controller},
		{accesstypes.RoleOperator, Operator},
	}
	for _, g := range grants {
		if err := ak.SetRole(ctx, g.role, g.addr, ""); err != nil {
			return err
		}
	}
	return app.GrantHoldingRoles(ctx, ak)
}

// Setup returns fully wired keepers and a context with system roles granted
func Setup(t *testing.T) (Keepers, sdk.Context) {
	t.Helper()
	keys := app.StoreKeys()
	list := make([]*storetypes.KVStoreKey, 0, len(keys))
	for _, key := range keys {
		list = append(list, key)
	}
	ctx := testutil.NewContext(list...)
	k := app.NewKeepers(keys, assetstypes.DefaultDenom, log.NewNopLogger())
	require.NoError(t, GrantSystemRoles(ctx, k.Access))
	return k, ctx
}

// AdapterSpec describes one adapter for SetupPilot. An empty SourceID makes
// a reserve adapter; otherwise the source is created if missing.
type AdapterSpec struct {
	ID       string
	SourceID string
	Bps      uint32
}

// SetupPilot creates a pilot owned by owner, its adapters, and its
// allocation table. The pilot is registered with the orchestrator.
func SetupPilot(t *testing.T, k Keepers, ctx sdk.Context, pilotID, owner string, specs ...AdapterSpec) {
	t.Helper()
	_, err := k.Pilot.InitPilot(ctx, pilotID, owner)
	require.NoError(t, err)

	ids := make([]string, 0, len(specs))
	bps := make([]uint32, 0, len(specs))
	for _, s := range specs {
		kind := adaptertypes.KindReserve
		if s.SourceID != "" {
			kind = adaptertypes.KindVault
			if !k.YieldSource.HasSource(ctx, s.SourceID) {
				_, err := k.YieldSource.InitSource(ctx, s.SourceID)
				require.NoError(t, err)
			}
		}
		_, err := k.Adapter.InitAdapter(ctx, s.ID, kind, s.SourceID, pilotID)
		require.NoError(t, err)
		ids = append(ids, s.ID)
		bps = append(bps, s.Bps)
	}
	if len(ids) > 0 {
		require.NoError(t, k.Pilot.SetAllocation(ctx, owner, pilotID, ids, bps))
	}
	require.NoError(t, k.Supercluster.SetRegistered(ctx, pilotID))
}
