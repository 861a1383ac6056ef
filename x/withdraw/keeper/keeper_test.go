package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/supercluster/testutil"
	keepertest "github.com/openalpha/supercluster/testutil/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	stokentypes "github.com/openalpha/supercluster/x/stoken/types"
	"github.com/openalpha/supercluster/x/withdraw/keeper"
	"github.com/openalpha/supercluster/x/withdraw/types"
)

const alice = "alice"

// setupQueue gives alice 1000 of ledger value and lets the queue take it
func setupQueue(t *testing.T) (keepertest.Keepers, sdk.Context) {
	t.Helper()
	k, ctx := keepertest.Setup(t)
	_, err := k.Ledger.Mint(ctx, keepertest.Minter, alice, math.NewInt(1000))
	require.NoError(t, err)
	require.NoError(t, k.Ledger.Approve(ctx, alice, types.QueueAddress, math.NewInt(1000)))
	require.NoError(t, k.Assets.Fund(ctx, keepertest.Operator, math.NewInt(10_000)))
	return k, ctx
}

func fundQueue(t *testing.T, k keepertest.Keepers, ctx sdk.Context, amount int64) {
	t.Helper()
	require.NoError(t, k.Withdraw.FundQueue(ctx, keepertest.Operator, math.NewInt(amount)))
}

func TestRequestFinalizeClaim(t *testing.T) {
	k, ctx := setupQueue(t)

	req, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, uint64(1), req.ID)
	require.Equal(t, types.StatusPending, req.Status())
	require.Equal(t, "500", k.Ledger.BalanceOf(ctx, alice).String())
	require.Equal(t, "500", k.Ledger.BalanceOf(ctx, types.QueueAddress).String())

	fundQueue(t, k, ctx, 520)
	req, err = k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, req.ID, math.NewInt(520))
	require.NoError(t, err)
	require.Equal(t, types.StatusFinalized, req.Status())
	require.Equal(t, testutil.GenesisTime.Unix()+types.DefaultParams().WithdrawDelay, req.AvailableAt)
	require.Equal(t, "520", k.Withdraw.GetReserved(ctx).String())
	// the operator who funded the settlement takes the held claim
	require.Equal(t, "500", k.Ledger.BalanceOf(ctx, keepertest.Operator).String())

	_, err = k.Withdraw.Claim(ctx, alice, req.ID)
	require.ErrorIs(t, err, types.ErrNotYetAvailable)

	ctx = ctx.WithBlockTime(testutil.GenesisTime.Add(types.DefaultWithdrawDelay))
	req, err = k.Withdraw.Claim(ctx, alice, req.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusClaimed, req.Status())
	require.Equal(t, "520", k.Assets.GetBalance(ctx, alice).String())
	require.True(t, k.Withdraw.GetReserved(ctx).IsZero())

	_, err = k.Withdraw.Claim(ctx, alice, req.ID)
	require.ErrorIs(t, err, types.ErrAlreadyClaimed)
}

func TestTransitionGuards(t *testing.T) {
	k, ctx := setupQueue(t)
	fundQueue(t, k, ctx, 1000)

	pending, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(100))
	require.NoError(t, err)
	finalized, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(100))
	require.NoError(t, err)
	_, err = k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, finalized.ID, math.NewInt(100))
	require.NoError(t, err)
	claimed, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(100))
	require.NoError(t, err)
	_, err = k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, claimed.ID, math.NewInt(100))
	require.NoError(t, err)
	later := ctx.WithBlockTime(testutil.GenesisTime.Add(48 * time.Hour))
	_, err = k.Withdraw.Claim(later, alice, claimed.ID)
	require.NoError(t, err)

	tests := []struct {
		name    string
		op      func() error
		wantErr error
	}{
		{"claim pending", func() error {
			_, err := k.Withdraw.Claim(later, alice, pending.ID)
			return err
		}, types.ErrNotFinalized},
		{"claim unknown", func() error {
			_, err := k.Withdraw.Claim(later, alice, 99)
			return err
		}, types.ErrInvalidRequest},
		{"claim by stranger", func() error {
			_, err := k.Withdraw.Claim(later, "mallory", finalized.ID)
			return err
		}, types.ErrNotAuthorized},
		{"finalize twice", func() error {
			_, err := k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, finalized.ID, math.NewInt(1))
			return err
		}, types.ErrAlreadyFinalized},
		{"finalize claimed", func() error {
			_, err := k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, claimed.ID, math.NewInt(1))
			return err
		}, types.ErrAlreadyClaimed},
		{"finalize zero", func() error {
			_, err := k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, pending.ID, math.ZeroInt())
			return err
		}, types.ErrZeroAmount},
		{"finalize by non-operator", func() error {
			_, err := k.Withdraw.FinalizeWithdraw(ctx, alice, pending.ID, math.NewInt(1))
			return err
		}, accesstypes.ErrUnauthorized},
		{"finalize beyond free funds", func() error {
			_, err := k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, pending.ID, math.NewInt(901))
			return err
		}, types.ErrInsufficientFunds},
		{"cancel finalized", func() error {
			return k.Withdraw.CancelRequest(ctx, keepertest.Operator, finalized.ID)
		}, types.ErrAlreadyFinalized},
		{"cancel claimed", func() error {
			return k.Withdraw.CancelRequest(later, keepertest.Operator, claimed.ID)
		}, types.ErrAlreadyClaimed},
		{"cancel by non-operator", func() error {
			return k.Withdraw.CancelRequest(ctx, alice, pending.ID)
		}, accesstypes.ErrUnauthorized},
		{"request zero", func() error {
			_, err := k.Withdraw.RequestWithdraw(ctx, alice, math.ZeroInt())
			return err
		}, types.ErrZeroAmount},
		{"request without approval", func() error {
			_, err := k.Withdraw.RequestWithdraw(ctx, "bob", math.NewInt(1))
			return err
		}, stokentypes.ErrInsufficientAllowance},
		{"auto request by non-orchestrator", func() error {
			_, err := k.Withdraw.AutoRequest(ctx, keepertest.Operator, alice, math.NewInt(1), math.NewInt(1))
			return err
		}, accesstypes.ErrUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.ErrorIs(t, tc.op(), tc.wantErr)
		})
	}

	// an operator may claim on the requester's behalf; funds still go to the requester
	before := k.Assets.GetBalance(later, alice)
	_, err = k.Withdraw.Claim(later, keepertest.Operator, finalized.ID)
	require.NoError(t, err)
	require.Equal(t, before.AddRaw(100).String(), k.Assets.GetBalance(later, alice).String())
}

func TestCancelReturnsHeldClaim(t *testing.T) {
	k, ctx := setupQueue(t)

	req, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(400))
	require.NoError(t, err)
	require.Equal(t, "600", k.Ledger.BalanceOf(ctx, alice).String())

	// yield accrues while the claim sits in custody
	require.NoError(t, k.Ledger.UpdateManagedValue(ctx, keepertest.Controller, math.NewInt(2000)))

	require.NoError(t, k.Withdraw.CancelRequest(ctx, keepertest.Operator, req.ID))
	require.Nil(t, k.Withdraw.GetRequest(ctx, req.ID))
	require.Equal(t, "2000", k.Ledger.BalanceOf(ctx, alice).String())
	require.True(t, k.Ledger.SharesOf(ctx, types.QueueAddress).IsZero())
	require.Empty(t, k.Withdraw.GetPendingRequests(ctx))

	_, err = k.Withdraw.Claim(ctx, alice, req.ID)
	require.ErrorIs(t, err, types.ErrInvalidRequest)
}

func TestHandlesAreNeverReused(t *testing.T) {
	k, ctx := setupQueue(t)

	var last uint64
	for i := 0; i < 5; i++ {
		req, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(10))
		require.NoError(t, err)
		require.Greater(t, req.ID, last)
		last = req.ID
		if i%2 == 0 {
			require.NoError(t, k.Withdraw.CancelRequest(ctx, keepertest.Operator, req.ID))
		}
	}
	require.Equal(t, last+1, k.Withdraw.NextID(ctx))
	require.Len(t, k.Withdraw.GetUserRequests(ctx, alice), 2)
}

func TestClaimDelayFollowsParams(t *testing.T) {
	k, ctx := setupQueue(t)
	require.NoError(t, k.Withdraw.UpdateParams(ctx, keepertest.Admin, types.Params{WithdrawDelay: 0}))
	fundQueue(t, k, ctx, 50)

	req, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(50))
	require.NoError(t, err)
	_, err = k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, req.ID, math.NewInt(50))
	require.NoError(t, err)
	_, err = k.Withdraw.Claim(ctx, alice, req.ID)
	require.NoError(t, err)

	err = k.Withdraw.UpdateParams(ctx, keepertest.Admin, types.Params{WithdrawDelay: -1})
	require.ErrorIs(t, err, types.ErrInvalidParams)
}

func TestQueueQuery(t *testing.T) {
	k, ctx := setupQueue(t)
	fundQueue(t, k, ctx, 300)
	req, err := k.Withdraw.RequestWithdraw(ctx, alice, math.NewInt(100))
	require.NoError(t, err)
	_, err = k.Withdraw.FinalizeWithdraw(ctx, keepertest.Operator, req.ID, math.NewInt(120))
	require.NoError(t, err)

	q := keeper.NewQueryServerImpl(k.Withdraw)
	resp, err := q.Queue(ctx)
	require.NoError(t, err)
	require.Equal(t, "300", resp.Balance)
	require.Equal(t, "120", resp.Reserved)
	require.Equal(t, "180", resp.Free)

	reqs, err := q.UserRequests(ctx, alice)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
}
