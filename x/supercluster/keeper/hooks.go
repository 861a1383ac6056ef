package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/supercluster/types"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
)

var _ withdrawtypes.WithdrawHooks = Hooks{}

// Hooks wraps the keeper to receive withdrawal queue callbacks
type Hooks struct {
	k *Keeper
}

// Hooks returns the queue hooks of the orchestrator
func (k *Keeper) Hooks() Hooks {
	return Hooks{k: k}
}

// AfterBurnedRequestCancelled pulls back the capital the withdrawal delivered
// to the queue, capped by free funds, and re-mints the requested value to the
// requester. Funds an operator added for other settlements stay in the queue.
func (h Hooks) AfterBurnedRequestCancelled(ctx sdk.Context, req withdrawtypes.Request) error {
	if err := h.k.sync(ctx); err != nil {
		return err
	}
	delivered := req.Delivered
	if delivered.IsNil() {
		delivered = math.ZeroInt()
	}
	back := math.MinInt(delivered, h.k.withdrawKeeper.FreeFunds(ctx))
	if back.IsPositive() {
		if err := h.k.withdrawKeeper.ReleaseFunds(ctx, types.HoldingAddress, back); err != nil {
			return err
		}
	}
	if _, err := h.k.ledgerKeeper.Mint(ctx, types.HoldingAddress, req.Requester, req.RequestedValue); err != nil {
		return err
	}
	h.k.logger.Info("burned request restored",
		"id", req.ID,
		"requester", req.Requester,
		"value", req.RequestedValue.String(),
		"returned", back.String(),
	)
	return nil
}
