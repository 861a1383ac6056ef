package keeper_test

import (
	"testing"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/supercluster/testutil"
	"github.com/openalpha/supercluster/x/access/keeper"
	"github.com/openalpha/supercluster/x/access/types"
)

func setupKeeper(t *testing.T) (*keeper.Keeper, sdk.Context) {
	t.Helper()
	key := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.NewContext(key)
	k := keeper.NewKeeper(key, log.NewNopLogger())
	require.NoError(t, k.SetRole(ctx, types.RoleAdmin, "admin", ""))
	return k, ctx
}

func TestGrantAndRevoke(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.False(t, k.HasRole(ctx, types.RoleMinter, "alice"))
	require.NoError(t, k.GrantRole(ctx, "admin", types.RoleMinter, "alice"))
	require.True(t, k.HasRole(ctx, types.RoleMinter, "alice"))
	require.NoError(t, k.RequireRole(ctx, "alice", types.RoleController, types.RoleMinter))
	require.Equal(t, []types.Role{types.RoleMinter}, k.RolesOf(ctx, "alice"))

	require.NoError(t, k.RevokeRole(ctx, "admin", types.RoleMinter, "alice"))
	require.False(t, k.HasRole(ctx, types.RoleMinter, "alice"))
	require.ErrorIs(t, k.RequireRole(ctx, "alice", types.RoleMinter), types.ErrUnauthorized)
}

func TestOnlyAdminMutatesTable(t *testing.T) {
	k, ctx := setupKeeper(t)

	tests := []struct {
		name string
		run  func() error
	}{
		{"grant", func() error { return k.GrantRole(ctx, "mallory", types.RoleMinter, "mallory") }},
		{"revoke", func() error { return k.RevokeRole(ctx, "mallory", types.RoleAdmin, "admin") }},
		{"pause", func() error { return k.SetPaused(ctx, "mallory", "stoken", true) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.run(), types.ErrUnauthorized)
		})
	}
	require.False(t, k.HasRole(ctx, types.RoleMinter, "mallory"))
	require.False(t, k.IsPaused(ctx, "stoken"))
}

func TestInvalidRoleRejected(t *testing.T) {
	k, ctx := setupKeeper(t)
	require.ErrorIs(t, k.GrantRole(ctx, "admin", types.Role("root"), "alice"), types.ErrInvalidRole)
}

func TestLastAdminCannotBeRevoked(t *testing.T) {
	k, ctx := setupKeeper(t)
	require.ErrorIs(t, k.RevokeRole(ctx, "admin", types.RoleAdmin, "admin"), types.ErrLastAdmin)

	require.NoError(t, k.GrantRole(ctx, "admin", types.RoleAdmin, "admin2"))
	require.NoError(t, k.RevokeRole(ctx, "admin2", types.RoleAdmin, "admin"))
	require.Equal(t, []string{"admin2"}, k.Members(ctx, types.RoleAdmin))
}

func TestPauseGuard(t *testing.T) {
	k, ctx := setupKeeper(t)

	require.NoError(t, k.Guard(ctx, "stoken"))
	require.NoError(t, k.SetPaused(ctx, "admin", "stoken", true))
	require.ErrorIs(t, k.Guard(ctx, "stoken"), types.ErrModulePaused)
	require.NoError(t, k.Guard(ctx, "withdraw"))

	require.NoError(t, k.SetPaused(ctx, "admin", "stoken", false))
	require.NoError(t, k.Guard(ctx, "stoken"))
}

func TestInitializedMarker(t *testing.T) {
	k, ctx := setupKeeper(t)
	require.False(t, k.IsInitialized(ctx))
	k.MarkInitialized(ctx)
	require.True(t, k.IsInitialized(ctx))
}

func TestSetPausedMsgValidation(t *testing.T) {
	require.ErrorIs(t, types.MsgSetPaused{Module: "stoken"}.ValidateBasic(), types.ErrInvalidAddress)
	require.ErrorIs(t, types.MsgSetPaused{Authority: "admin"}.ValidateBasic(), types.ErrInvalidModule)
	require.NoError(t, types.MsgSetPaused{Authority: "admin", Module: "stoken"}.ValidateBasic())
}
