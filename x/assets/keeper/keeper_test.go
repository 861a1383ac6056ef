package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/openalpha/supercluster/testutil/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/assets/types"
)

func TestSend(t *testing.T) {
	k, ctx := keepertest.Setup(t)
	require.NoError(t, k.Assets.Fund(ctx, "alice", math.NewInt(100)))

	tests := []struct {
		name    string
		from    string
		to      string
		amount  math.Int
		wantErr error
	}{
		{"moves funds", "alice", "bob", math.NewInt(40), nil},
		{"zero is a no-op", "alice", "bob", math.ZeroInt(), nil},
		{"self send is a no-op", "alice", "alice", math.NewInt(10), nil},
		{"overdraw", "alice", "bob", math.NewInt(1000), types.ErrInsufficientFunds},
		{"negative", "alice", "bob", math.NewInt(-1), types.ErrInvalidAmount},
		{"empty recipient", "alice", "", math.NewInt(1), types.ErrInvalidAddress},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := k.Assets.Send(ctx, tc.from, tc.to, tc.amount)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	require.Equal(t, "60", k.Assets.GetBalance(ctx, "alice").String())
	require.Equal(t, "40", k.Assets.GetBalance(ctx, "bob").String())
	require.Equal(t, "100", k.Assets.GetSupply(ctx).String())
}

func TestMintRequiresAdmin(t *testing.T) {
	k, ctx := keepertest.Setup(t)

	err := k.Assets.Mint(ctx, "mallory", "mallory", math.NewInt(5))
	require.ErrorIs(t, err, accesstypes.ErrUnauthorized)

	require.NoError(t, k.Assets.Mint(ctx, keepertest.Admin, "alice", math.NewInt(5)))
	require.Equal(t, "5", k.Assets.GetBalance(ctx, "alice").String())
	require.Equal(t, "5", k.Assets.GetSupply(ctx).String())
	require.Len(t, k.Assets.GetAllBalances(ctx), 1)
}

func TestModuleAddress(t *testing.T) {
	require.Equal(t, "module/pilot", types.ModuleAddress("pilot"))
}
