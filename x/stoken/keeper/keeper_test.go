package keeper_test

import (
	"math/big"
	"math/rand"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/supercluster/testutil"
	accesskeeper "github.com/openalpha/supercluster/x/access/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/stoken/keeper"
	"github.com/openalpha/supercluster/x/stoken/types"
)

const (
	admin      = "admin"
	minter     = "minter"
	controller = "controller"
)

func setupLedger(t *testing.T) (*keeper.Keeper, *accesskeeper.Keeper, sdk.Context) {
	t.Helper()
	accessKey := storetypes.NewKVStoreKey(accesstypes.StoreKey)
	stokenKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.NewContext(accessKey, stokenKey)

	ak := accesskeeper.NewKeeper(accessKey, log.NewNopLogger())
	require.NoError(t, ak.SetRole(ctx, accesstypes.RoleAdmin, admin, ""))
	require.NoError(t, ak.SetRole(ctx, accesstypes.RoleMinter, minter, ""))
	require.NoError(t, ak.SetRole(ctx, accesstypes.RoleController, controller, ""))

	return keeper.NewKeeper(stokenKey, ak, log.NewNopLogger()), ak, ctx
}

func requireInt(t *testing.T, want int64, got math.Int) {
	t.Helper()
	require.True(t, math.NewInt(want).Equal(got), "want %d got %s", want, got)
}

func TestRebaseDistributesProportionally(t *testing.T) {
	k, _, ctx := setupLedger(t)

	_, err := k.Mint(ctx, minter, "A", math.NewInt(1000))
	require.NoError(t, err)
	_, err = k.Mint(ctx, minter, "B", math.NewInt(1000))
	require.NoError(t, err)
	requireInt(t, 2000, k.TotalShares(ctx))

	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(3000)))
	requireInt(t, 1500, k.BalanceOf(ctx, "A"))
	requireInt(t, 1500, k.BalanceOf(ctx, "B"))
	requireInt(t, 1000, k.SharesOf(ctx, "A"))
}

func TestBurnFullBalanceAfterRebase(t *testing.T) {
	k, _, ctx := setupLedger(t)

	_, err := k.Mint(ctx, minter, "A", math.NewInt(1000))
	require.NoError(t, err)
	_, err = k.Mint(ctx, minter, "B", math.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, k.Rebase(ctx, controller, math.NewInt(3000)))

	burned, err := k.Burn(ctx, minter, "A", math.NewInt(1500))
	require.NoError(t, err)
	requireInt(t, 1000, burned)
	requireInt(t, 0, k.BalanceOf(ctx, "A"))
	requireInt(t, 1500, k.TotalManagedValue(ctx))
	requireInt(t, 1500, k.BalanceOf(ctx, "B"))
}

func TestMintBootstrapAndPricing(t *testing.T) {
	k, _, ctx := setupLedger(t)

	shares, err := k.Mint(ctx, minter, "A", math.NewInt(500))
	require.NoError(t, err)
	requireInt(t, 500, shares)

	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(1000)))

	// 2 value per share: 300 value buys 150 shares
	shares, err = k.Mint(ctx, minter, "B", math.NewInt(300))
	require.NoError(t, err)
	requireInt(t, 150, shares)
	requireInt(t, 1300, k.TotalManagedValue(ctx))
	requireInt(t, 300, k.BalanceOf(ctx, "B"))
}

func TestMintValidation(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(10))
	require.NoError(t, err)

	tests := []struct {
		name    string
		caller  string
		value   math.Int
		wantErr error
	}{
		{"zero value", minter, math.ZeroInt(), types.ErrZeroAmount},
		{"not a minter", "A", math.NewInt(5), accesstypes.ErrUnauthorized},
		{"controller cannot mint", controller, math.NewInt(5), accesstypes.ErrUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := k.Mint(ctx, tc.caller, "A", tc.value)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
	requireInt(t, 10, k.TotalShares(ctx))
}

func TestMintRejectsSharesWithoutValue(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(10))
	require.NoError(t, err)
	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.ZeroInt()))

	_, err = k.Mint(ctx, minter, "B", math.NewInt(10))
	require.ErrorIs(t, err, types.ErrInvalidState)
}

func TestMintBelowOneShareRejected(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(1))
	require.NoError(t, err)
	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(100)))

	_, err = k.Mint(ctx, minter, "B", math.NewInt(99))
	require.ErrorIs(t, err, types.ErrZeroAmount)
}

func TestBurnValidation(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(100))
	require.NoError(t, err)

	_, err = k.Burn(ctx, minter, "A", math.NewInt(101))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	_, err = k.Burn(ctx, minter, "nobody", math.NewInt(1))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	_, err = k.Burn(ctx, minter, "A", math.ZeroInt())
	require.ErrorIs(t, err, types.ErrZeroAmount)
	_, err = k.Burn(ctx, "A", "A", math.NewInt(1))
	require.ErrorIs(t, err, accesstypes.ErrUnauthorized)
	requireInt(t, 100, k.BalanceOf(ctx, "A"))
}

func TestUpdateManagedValueValidation(t *testing.T) {
	k, _, ctx := setupLedger(t)

	require.ErrorIs(t, k.UpdateManagedValue(ctx, minter, math.NewInt(1)), accesstypes.ErrUnauthorized)
	require.ErrorIs(t, k.UpdateManagedValue(ctx, controller, math.NewInt(1)), types.ErrInvalidState)
	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.ZeroInt()))
	require.ErrorIs(t, k.UpdateManagedValue(ctx, controller, math.NewInt(-1)), types.ErrInvalidAmount)
}

func TestBalanceOfEmptyLedger(t *testing.T) {
	k, _, ctx := setupLedger(t)
	requireInt(t, 0, k.BalanceOf(ctx, "A"))
	shares, err := k.ConvertToShares(ctx, math.NewInt(42))
	require.NoError(t, err)
	requireInt(t, 42, shares)
}

func TestTransferMovesProportionalShares(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(2000)))

	shares, err := k.Transfer(ctx, "A", "B", math.NewInt(500))
	require.NoError(t, err)
	requireInt(t, 250, shares)
	requireInt(t, 1500, k.BalanceOf(ctx, "A"))
	requireInt(t, 500, k.BalanceOf(ctx, "B"))

	_, err = k.Transfer(ctx, "B", "A", math.NewInt(501))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)

	shares, err = k.Transfer(ctx, "B", "A", math.ZeroInt())
	require.NoError(t, err)
	requireInt(t, 0, shares)
}

func TestAllowance(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(1000))
	require.NoError(t, err)

	_, err = k.TransferFrom(ctx, "queue", "A", "queue", math.NewInt(100))
	require.ErrorIs(t, err, types.ErrInsufficientAllowance)

	require.NoError(t, k.Approve(ctx, "A", "queue", math.NewInt(300)))
	_, err = k.TransferFrom(ctx, "queue", "A", "queue", math.NewInt(100))
	require.NoError(t, err)
	requireInt(t, 200, k.Allowance(ctx, "A", "queue"))
	requireInt(t, 100, k.BalanceOf(ctx, "queue"))

	// owner moving its own balance needs no allowance
	_, err = k.TransferFrom(ctx, "A", "A", "C", math.NewInt(50))
	require.NoError(t, err)
	requireInt(t, 850, k.BalanceOf(ctx, "A"))
}

func TestTransferShares(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(1000))
	require.NoError(t, err)

	require.NoError(t, k.TransferShares(ctx, "A", "B", math.NewInt(400)))
	requireInt(t, 600, k.SharesOf(ctx, "A"))
	requireInt(t, 400, k.SharesOf(ctx, "B"))
	require.ErrorIs(t, k.TransferShares(ctx, "B", "A", math.NewInt(401)), types.ErrInsufficientBalance)
}

func TestPausedLedgerRejectsMovement(t *testing.T) {
	k, ak, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, ak.SetPaused(ctx, admin, types.ModuleName, true))

	_, err = k.Mint(ctx, minter, "A", math.NewInt(1))
	require.ErrorIs(t, err, accesstypes.ErrModulePaused)
	_, err = k.Burn(ctx, minter, "A", math.NewInt(1))
	require.ErrorIs(t, err, accesstypes.ErrModulePaused)
	_, err = k.Transfer(ctx, "A", "B", math.NewInt(1))
	require.ErrorIs(t, err, accesstypes.ErrModulePaused)

	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(1100)))
}

func TestRebaseHistory(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(1000))
	require.NoError(t, err)

	for _, v := range []int64{1100, 1200, 1150} {
		require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(v)))
	}

	history := k.GetRebaseHistory(ctx, 2)
	require.Len(t, history, 2)
	require.Equal(t, uint64(3), history[0].Seq)
	requireInt(t, 1150, history[0].NewValue)
	requireInt(t, 1200, history[0].PreviousValue)
	require.Len(t, k.GetRebaseHistory(ctx, 0), 3)
}

func TestWideValuesDoNotOverflow(t *testing.T) {
	k, _, ctx := setupLedger(t)
	// 2^200 value: shares * value would exceed 256 bits without the wide product
	huge := math.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), 200))

	_, err := k.Mint(ctx, minter, "A", huge)
	require.NoError(t, err)
	_, err = k.Mint(ctx, minter, "B", huge)
	require.NoError(t, err)
	require.NoError(t, k.UpdateManagedValue(ctx, controller, huge.MulRaw(3)))

	want := huge.MulRaw(3).QuoRaw(2)
	require.True(t, want.Equal(k.BalanceOf(ctx, "A")))
}

// Random mint/burn/transfer/rebase sequences must keep shares summed exactly
// and never attribute more value than the ledger manages.
func TestLedgerConservation(t *testing.T) {
	k, _, ctx := setupLedger(t)
	rng := rand.New(rand.NewSource(7))
	holders := []string{"A", "B", "C", "D"}

	for i := 0; i < 400; i++ {
		a := holders[rng.Intn(len(holders))]
		b := holders[rng.Intn(len(holders))]
		switch rng.Intn(4) {
		case 0:
			_, _ = k.Mint(ctx, minter, a, math.NewInt(rng.Int63n(10_000)+1))
		case 1:
			bal := k.BalanceOf(ctx, a)
			if bal.IsPositive() {
				_, _ = k.Burn(ctx, minter, a, math.NewInt(rng.Int63n(bal.Int64())+1))
			}
		case 2:
			bal := k.BalanceOf(ctx, a)
			if bal.IsPositive() {
				_, err := k.Transfer(ctx, a, b, math.NewInt(rng.Int63n(bal.Int64())+1))
				require.NoError(t, err)
			}
		case 3:
			if k.TotalShares(ctx).IsPositive() {
				tmv := k.TotalManagedValue(ctx).Int64()
				next := tmv + rng.Int63n(tmv/5+1) - tmv/10
				_ = k.UpdateManagedValue(ctx, controller, math.NewInt(next))
			}
		}

		sumShares := math.ZeroInt()
		sumValue := math.ZeroInt()
		for _, acc := range k.GetAllAccounts(ctx) {
			sumShares = sumShares.Add(acc.Shares)
			sumValue = sumValue.Add(k.BalanceOf(ctx, acc.Address))
		}
		require.True(t, sumShares.Equal(k.TotalShares(ctx)), "step %d", i)
		require.True(t, sumValue.LTE(k.TotalManagedValue(ctx)), "step %d", i)
	}
}

// Minting value and burning the resulting balance restores the ledger to
// within one unit of value. The loss stays within a unit while a share is
// worth at most one unit of value.
func TestMintBurnRoundTrip(t *testing.T) {
	k, _, ctx := setupLedger(t)
	_, err := k.Mint(ctx, minter, "A", math.NewInt(7))
	require.NoError(t, err)
	require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(10)))

	_, err = k.Mint(ctx, minter, "B", math.NewInt(5))
	require.NoError(t, err)
	bal := k.BalanceOf(ctx, "B")
	requireInt(t, 4, bal)
	_, err = k.Burn(ctx, minter, "B", bal)
	require.NoError(t, err)
	require.True(t, k.SharesOf(ctx, "B").IsZero())
	requireInt(t, 7, k.TotalShares(ctx))
	requireInt(t, 11, k.TotalManagedValue(ctx))

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		k, _, ctx := setupLedger(t)
		seed := rng.Int63n(1_000_000) + 1
		_, err := k.Mint(ctx, minter, "A", math.NewInt(seed))
		require.NoError(t, err)
		require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(rng.Int63n(seed)+1)))

		preShares := k.TotalShares(ctx)
		preValue := k.TotalManagedValue(ctx)
		value := math.NewInt(rng.Int63n(1_000_000) + 2)
		_, err = k.Mint(ctx, minter, "B", value)
		require.NoError(t, err)
		bal := k.BalanceOf(ctx, "B")
		require.True(t, bal.LTE(value), "step %d: balance %s above minted %s", i, bal, value)

		_, err = k.Burn(ctx, minter, "B", bal)
		require.NoError(t, err)
		require.True(t, k.SharesOf(ctx, "B").IsZero(), "step %d", i)
		require.True(t, k.BalanceOf(ctx, "B").IsZero(), "step %d", i)
		require.True(t, preShares.Equal(k.TotalShares(ctx)), "step %d", i)
		dust := k.TotalManagedValue(ctx).Sub(preValue)
		require.True(t, !dust.IsNegative() && dust.LTE(math.OneInt()), "step %d: dust %s", i, dust)
	}
}

// Rebases leave shares untouched and keep balance ratios equal to share
// ratios, up to the floor on each balance.
func TestRebasePreservesOwnershipRatios(t *testing.T) {
	k, _, ctx := setupLedger(t)
	rng := rand.New(rand.NewSource(13))
	holders := []string{"A", "B", "C", "D", "E"}
	for _, h := range holders {
		_, err := k.Mint(ctx, minter, h, math.NewInt(rng.Int63n(1_000_000)+1))
		require.NoError(t, err)
	}

	checkRatios := func(step int) {
		for _, a := range holders {
			for _, b := range holders {
				sa, sb := k.SharesOf(ctx, a), k.SharesOf(ctx, b)
				// balanceOf(a)/balanceOf(b) == sa/sb, cross-multiplied; each
				// balance floors away less than one unit
				diff := k.BalanceOf(ctx, a).Mul(sb).Sub(k.BalanceOf(ctx, b).Mul(sa)).Abs()
				require.True(t, diff.LT(math.MaxInt(sa, sb)), "step %d: %s/%s off by %s", step, a, b, diff)
			}
		}
	}

	for i := 0; i < 100; i++ {
		before := make(map[string]math.Int, len(holders))
		for _, h := range holders {
			before[h] = k.SharesOf(ctx, h)
		}
		checkRatios(i)

		tmv := k.TotalManagedValue(ctx).Int64()
		next := tmv + rng.Int63n(tmv/2+1) - tmv/4
		require.NoError(t, k.UpdateManagedValue(ctx, controller, math.NewInt(next)))

		for _, h := range holders {
			require.True(t, before[h].Equal(k.SharesOf(ctx, h)), "step %d: shares of %s moved", i, h)
		}
		checkRatios(i)
	}
}
