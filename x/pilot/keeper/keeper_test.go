package keeper_test

import (
	"math/rand"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/openalpha/supercluster/testutil/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	adaptertypes "github.com/openalpha/supercluster/x/adapter/types"
	"github.com/openalpha/supercluster/x/pilot/keeper"
	"github.com/openalpha/supercluster/x/pilot/types"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
)

const owner = "owner"

func setupPilot(t *testing.T, specs ...keepertest.AdapterSpec) (keepertest.Keepers, sdk.Context) {
	t.Helper()
	k, ctx := keepertest.Setup(t)
	keepertest.SetupPilot(t, k, ctx, "p1", owner, specs...)
	return k, ctx
}

func balance(t *testing.T, k keepertest.Keepers, ctx sdk.Context, adapterID string) string {
	t.Helper()
	adapter, err := k.Adapter.GetAdapter(ctx, adapterID)
	require.NoError(t, err)
	bal, err := adapter.GetBalance(ctx)
	require.NoError(t, err)
	return bal.String()
}

func TestInvestSplitsByWeight(t *testing.T) {
	k, ctx := setupPilot(t,
		keepertest.AdapterSpec{ID: "a", Bps: 7000},
		keepertest.AdapterSpec{ID: "b", Bps: 3000},
	)
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(1000)))

	invested, err := k.Pilot.Invest(ctx, owner, "p1", math.NewInt(1000))
	require.NoError(t, err)
	require.Equal(t, "1000", invested.String())
	require.Equal(t, "700", balance(t, k, ctx, "a"))
	require.Equal(t, "300", balance(t, k, ctx, "b"))

	total, err := k.Pilot.GetTotalValue(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "1000", total.String())
}

func TestInvestResidueStaysIdle(t *testing.T) {
	k, ctx := setupPilot(t,
		keepertest.AdapterSpec{ID: "a", Bps: 3333},
		keepertest.AdapterSpec{ID: "b", Bps: 3333},
		keepertest.AdapterSpec{ID: "c", Bps: 3334},
	)
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(1001)))

	invested, err := k.Pilot.Invest(ctx, superclustertypes.HoldingAddress, "p1", math.NewInt(1001))
	require.NoError(t, err)
	require.Equal(t, "999", invested.String())
	require.Equal(t, "2", k.Pilot.IdleBalance(ctx, "p1").String())

	total, err := k.Pilot.GetTotalValue(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "1001", total.String())
}

func TestInvestErrors(t *testing.T) {
	k, ctx := setupPilot(t, keepertest.AdapterSpec{ID: "a", Bps: 10000})
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(100)))

	_, err := k.Pilot.Invest(ctx, "stranger", "p1", math.NewInt(10))
	require.ErrorIs(t, err, accesstypes.ErrUnauthorized)

	_, err = k.Pilot.Invest(ctx, owner, "p1", math.NewInt(101))
	require.ErrorIs(t, err, types.ErrInsufficientFunds)

	_, err = k.Pilot.Invest(ctx, owner, "missing", math.NewInt(1))
	require.ErrorIs(t, err, types.ErrPilotNotFound)

	invested, err := k.Pilot.Invest(ctx, owner, "p1", math.ZeroInt())
	require.NoError(t, err)
	require.True(t, invested.IsZero())
}

func TestSetAllocationValidation(t *testing.T) {
	k, ctx := setupPilot(t,
		keepertest.AdapterSpec{ID: "a", Bps: 5000},
		keepertest.AdapterSpec{ID: "b", Bps: 5000},
	)

	tests := []struct {
		name     string
		caller   string
		adapters []string
		bps      []uint32
		wantErr  error
	}{
		{"length mismatch", owner, []string{"a", "b"}, []uint32{10000}, types.ErrLengthMismatch},
		{"sum below", owner, []string{"a", "b"}, []uint32{5000, 4999}, types.ErrInvalidAllocation},
		{"sum above", owner, []string{"a", "b"}, []uint32{5000, 5001}, types.ErrInvalidAllocation},
		{"empty table", owner, nil, nil, types.ErrInvalidAllocation},
		{"duplicate", owner, []string{"a", "a"}, []uint32{5000, 5000}, types.ErrInvalidAllocation},
		{"unknown adapter", owner, []string{"zzz"}, []uint32{10000}, types.ErrAdapterNotFound},
		{"not owner", "stranger", []string{"a"}, []uint32{10000}, accesstypes.ErrUnauthorized},
		{"valid", owner, []string{"b", "a"}, []uint32{2500, 7500}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := k.Pilot.SetAllocation(ctx, tc.caller, "p1", tc.adapters, tc.bps)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}

	pilot := k.Pilot.GetPilot(ctx, "p1")
	require.Equal(t, "b", pilot.Allocations[0].AdapterID)
	require.Equal(t, uint32(7500), pilot.Allocations[1].TargetBps)
}

func TestValidateAllocationAcceptsExactlyFullWeight(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		n := 1 + r.Intn(5)
		adapters := make([]string, n)
		bps := make([]uint32, n)
		rem := uint32(types.TotalBps)
		for j := range adapters {
			adapters[j] = string(rune('a' + j))
			if j == n-1 {
				bps[j] = rem
				break
			}
			bps[j] = uint32(r.Intn(int(rem) + 1))
			rem -= bps[j]
		}
		require.NoError(t, types.ValidateAllocation(adapters, bps), "bps %v", bps)

		// one basis point either way is rejected
		j := r.Intn(n)
		bps[j]++
		require.ErrorIs(t, types.ValidateAllocation(adapters, bps), types.ErrInvalidAllocation)
		bps[j]--
		if bps[j] > 0 {
			bps[j]--
			require.ErrorIs(t, types.ValidateAllocation(adapters, bps), types.ErrInvalidAllocation)
		}
	}
}

func TestDivestToIsProportionalAndCapped(t *testing.T) {
	k, ctx := setupPilot(t,
		keepertest.AdapterSpec{ID: "a", Bps: 7000},
		keepertest.AdapterSpec{ID: "b", Bps: 3000},
	)
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(1000)))
	_, err := k.Pilot.Invest(ctx, owner, "p1", math.NewInt(1000))
	require.NoError(t, err)

	delivered, err := k.Pilot.DivestTo(ctx, owner, "p1", "dest", math.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, "500", delivered.String())
	require.Equal(t, "350", balance(t, k, ctx, "a"))
	require.Equal(t, "150", balance(t, k, ctx, "b"))

	// asking for more than the pilot holds delivers everything and no more
	delivered, err = k.Pilot.DivestTo(ctx, owner, "p1", "dest", math.NewInt(5000))
	require.NoError(t, err)
	require.Equal(t, "500", delivered.String())
	require.Equal(t, "1000", k.Assets.GetBalance(ctx, "dest").String())

	_, err = k.Pilot.DivestTo(ctx, owner, "p1", "dest", math.NewInt(1))
	require.ErrorIs(t, err, types.ErrZeroHoldings)
}

func TestDivestIncludesIdleShare(t *testing.T) {
	k, ctx := setupPilot(t, keepertest.AdapterSpec{ID: "a", Bps: 10000})
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(1000)))
	_, err := k.Pilot.Invest(ctx, owner, "p1", math.NewInt(600))
	require.NoError(t, err)

	delivered, err := k.Pilot.DivestTo(ctx, superclustertypes.HoldingAddress, "p1", "dest", math.NewInt(100))
	require.NoError(t, err)
	require.Equal(t, "100", delivered.String())
	require.Equal(t, "360", k.Pilot.IdleBalance(ctx, "p1").String())
	require.Equal(t, "540", balance(t, k, ctx, "a"))
}

func TestDivestFromYieldBearingAdapter(t *testing.T) {
	k, ctx := setupPilot(t,
		keepertest.AdapterSpec{ID: "v", SourceID: "aave", Bps: 5000},
		keepertest.AdapterSpec{ID: "r", Bps: 5000},
	)
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(1000)))
	require.NoError(t, k.Assets.Fund(ctx, "sponsor", math.NewInt(500)))
	_, err := k.Pilot.Invest(ctx, owner, "p1", math.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, k.YieldSource.Accrue(ctx, keepertest.Admin, "aave", "sponsor", math.NewInt(500)))

	total, err := k.Pilot.GetTotalValue(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "1500", total.String())

	delivered, err := k.Pilot.DivestTo(ctx, owner, "p1", "dest", math.NewInt(1500))
	require.NoError(t, err)
	require.Equal(t, "1500", delivered.String())
}

func TestDrainInactiveAdapter(t *testing.T) {
	k, ctx := setupPilot(t,
		keepertest.AdapterSpec{ID: "a", Bps: 5000},
		keepertest.AdapterSpec{ID: "b", Bps: 5000},
	)
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(1000)))
	_, err := k.Pilot.Invest(ctx, owner, "p1", math.NewInt(1000))
	require.NoError(t, err)

	require.NoError(t, k.Pilot.SetAllocation(ctx, owner, "p1", []string{"b"}, []uint32{10000}))
	require.True(t, k.Pilot.GetPilot(ctx, "p1").IsInactive("a"))

	// inactive holdings leave the total value but not the holdings
	total, err := k.Pilot.GetTotalValue(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "500", total.String())
	holdings, err := k.Pilot.GetHoldings(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "1000", holdings.String())

	_, err = k.Pilot.DrainAdapter(ctx, owner, "p1", "b")
	require.ErrorIs(t, err, types.ErrAdapterStillActive)

	drained, err := k.Pilot.DrainAdapter(ctx, owner, "p1", "a")
	require.NoError(t, err)
	require.Equal(t, "500", drained.String())
	require.False(t, k.Pilot.GetPilot(ctx, "p1").IsInactive("a"))

	total, err = k.Pilot.GetTotalValue(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "1000", total.String())
	holdings, err = k.Pilot.GetHoldings(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "1000", holdings.String())

	_, err = k.Pilot.DrainAdapter(ctx, owner, "p1", "a")
	require.ErrorIs(t, err, types.ErrAdapterNotFound)
}

func TestPausedPilotRejectsMovement(t *testing.T) {
	k, ctx := setupPilot(t, keepertest.AdapterSpec{ID: "a", Bps: 10000})
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(10)))
	require.NoError(t, k.Access.SetPaused(ctx, keepertest.Admin, types.ModuleName, true))

	_, err := k.Pilot.Invest(ctx, owner, "p1", math.NewInt(10))
	require.ErrorIs(t, err, accesstypes.ErrModulePaused)
}

func TestQueryPilot(t *testing.T) {
	k, ctx := setupPilot(t,
		keepertest.AdapterSpec{ID: "a", Bps: 6000},
		keepertest.AdapterSpec{ID: "b", Bps: 4000},
	)
	require.NoError(t, k.Assets.Fund(ctx, types.PilotAddress("p1"), math.NewInt(100)))
	_, err := k.Pilot.Invest(ctx, owner, "p1", math.NewInt(50))
	require.NoError(t, err)

	resp, err := keeper.NewQueryServerImpl(k.Pilot).Pilot(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "50", resp.Idle)
	require.Equal(t, "100", resp.TotalValue)
	require.Len(t, resp.Adapters, 2)
	require.Equal(t, adaptertypes.AdapterAddress("a"), k.Adapter.GetAdapterInfo(ctx, "a").Address)
}
