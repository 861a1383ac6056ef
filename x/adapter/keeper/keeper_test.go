package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/openalpha/supercluster/testutil/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/adapter/keeper"
	"github.com/openalpha/supercluster/x/adapter/types"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
)

var pilotAddr = pilottypes.PilotAddress("p1")

func TestReserveAdapterRoundTrip(t *testing.T) {
	k, ctx := keepertest.Setup(t)
	_, err := k.Adapter.RegisterAdapter(ctx, keepertest.Admin, "cash", types.KindReserve, "", "p1")
	require.NoError(t, err)
	require.NoError(t, k.Assets.Fund(ctx, pilotAddr, math.NewInt(500)))

	adapter, err := k.Adapter.GetAdapter(ctx, "cash")
	require.NoError(t, err)
	require.Equal(t, "cash", adapter.ID())

	shares, err := adapter.Deposit(ctx, pilotAddr, math.NewInt(300))
	require.NoError(t, err)
	require.Equal(t, "300", shares.String())

	balance, err := adapter.GetBalance(ctx)
	require.NoError(t, err)
	require.Equal(t, "300", balance.String())

	paid, err := adapter.WithdrawTo(ctx, pilotAddr, "dest", math.NewInt(120))
	require.NoError(t, err)
	require.Equal(t, "120", paid.String())
	require.Equal(t, "120", k.Assets.GetBalance(ctx, "dest").String())

	paid, err = adapter.Withdraw(ctx, pilotAddr, math.NewInt(80))
	require.NoError(t, err)
	require.Equal(t, "80", paid.String())
	require.Equal(t, "280", k.Assets.GetBalance(ctx, pilotAddr).String())

	_, err = adapter.WithdrawTo(ctx, pilotAddr, "dest", math.NewInt(101))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)
	require.Equal(t, "100", k.Adapter.GetAdapterInfo(ctx, "cash").TotalDeposited.String())
}

func TestVaultAdapterTracksYield(t *testing.T) {
	k, ctx := keepertest.Setup(t)
	_, err := k.YieldSource.InitSource(ctx, "aave")
	require.NoError(t, err)
	_, err = k.Adapter.InitAdapter(ctx, "a1", types.KindVault, "aave", "p1")
	require.NoError(t, err)
	require.NoError(t, k.Assets.Fund(ctx, pilotAddr, math.NewInt(1000)))
	require.NoError(t, k.Assets.Fund(ctx, "sponsor", math.NewInt(100)))

	adapter, err := k.Adapter.GetAdapter(ctx, "a1")
	require.NoError(t, err)
	_, err = adapter.Deposit(ctx, pilotAddr, math.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, k.YieldSource.Accrue(ctx, keepertest.Admin, "aave", "sponsor", math.NewInt(100)))

	total, err := adapter.GetTotalAssets(ctx)
	require.NoError(t, err)
	require.Equal(t, "1100", total.String())

	paid, err := adapter.WithdrawTo(ctx, pilotAddr, "dest", math.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, "400", paid.String())

	// taking the whole balance leaves no residual position
	paid, err = adapter.WithdrawTo(ctx, pilotAddr, "dest", math.NewInt(700))
	require.NoError(t, err)
	require.Equal(t, "700", paid.String())
	require.True(t, k.YieldSource.SharesOf(ctx, "aave", types.AdapterAddress("a1")).IsZero())
	require.Equal(t, "1100", k.Assets.GetBalance(ctx, "dest").String())
}

func TestAdapterRejectsForeignCaller(t *testing.T) {
	k, ctx := keepertest.Setup(t)
	_, err := k.Adapter.InitAdapter(ctx, "cash", types.KindReserve, "", "p1")
	require.NoError(t, err)
	require.NoError(t, k.Assets.Fund(ctx, "intruder", math.NewInt(10)))

	adapter, err := k.Adapter.GetAdapter(ctx, "cash")
	require.NoError(t, err)
	_, err = adapter.Deposit(ctx, "intruder", math.NewInt(10))
	require.ErrorIs(t, err, types.ErrUnauthorized)
	_, err = adapter.WithdrawTo(ctx, pilottypes.PilotAddress("p2"), "intruder", math.NewInt(1))
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestRegisterAdapterValidation(t *testing.T) {
	k, ctx := keepertest.Setup(t)

	tests := []struct {
		name    string
		caller  string
		id      string
		kind    types.Kind
		source  string
		wantErr error
	}{
		{"not admin", "mallory", "x", types.KindReserve, "", accesstypes.ErrUnauthorized},
		{"unknown kind", keepertest.Admin, "x", types.Kind("lending"), "", types.ErrInvalidKind},
		{"vault without source", keepertest.Admin, "x", types.KindVault, "missing", types.ErrInvalidSource},
		{"reserve", keepertest.Admin, "x", types.KindReserve, "", nil},
		{"duplicate", keepertest.Admin, "x", types.KindReserve, "", types.ErrAdapterExists},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := k.Adapter.RegisterAdapter(ctx, tc.caller, tc.id, tc.kind, tc.source, "p1")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	_, err := k.Adapter.GetAdapter(ctx, "missing")
	require.ErrorIs(t, err, types.ErrAdapterNotFound)
}

func TestBindPilotRequiresEmptyAdapter(t *testing.T) {
	k, ctx := keepertest.Setup(t)
	_, err := k.Adapter.InitAdapter(ctx, "cash", types.KindReserve, "", "p1")
	require.NoError(t, err)
	require.NoError(t, k.Assets.Fund(ctx, pilotAddr, math.NewInt(10)))
	adapter, err := k.Adapter.GetAdapter(ctx, "cash")
	require.NoError(t, err)
	_, err = adapter.Deposit(ctx, pilotAddr, math.NewInt(10))
	require.NoError(t, err)

	err = k.Adapter.BindPilot(ctx, keepertest.Admin, "cash", "p2")
	require.ErrorIs(t, err, types.ErrAdapterNotEmpty)

	_, err = adapter.WithdrawTo(ctx, pilotAddr, pilotAddr, math.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, k.Adapter.BindPilot(ctx, keepertest.Admin, "cash", "p2"))
	require.Equal(t, "p2", k.Adapter.GetAdapterInfo(ctx, "cash").Pilot)

	q := keeper.NewQueryServerImpl(k.Adapter)
	resp, err := q.Adapter(ctx, "cash")
	require.NoError(t, err)
	require.Equal(t, "0", resp.Balance)
}
