package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/pkg/wideint"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
	"github.com/openalpha/supercluster/x/supercluster/types"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
)

// Deposit takes amount of base asset from depositor, credits the same value
// on the ledger and forwards the capital to a pilot for investment. An empty
// pilotID uses the default pilot; with no default the capital stays idle.
func (k *Keeper) Deposit(ctx context.Context, depositor string, amount math.Int, pilotID string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return math.ZeroInt(), err
	}
	if depositor == "" {
		return math.ZeroInt(), types.ErrInvalidAddress
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	if pilotID == "" {
		pilotID = k.GetParams(sdkCtx).DefaultPilot
	}
	if pilotID != "" && !k.IsRegistered(sdkCtx, pilotID) {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrPilotNotRegistered, pilotID)
	}

	// price the mint at live value so yield since the last rebase is not diluted
	if err := k.sync(sdkCtx); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.assetsKeeper.Send(sdkCtx, depositor, types.HoldingAddress, amount); err != nil {
		return math.ZeroInt(), err
	}
	shares, err := k.ledgerKeeper.Mint(sdkCtx, types.HoldingAddress, depositor, amount)
	if err != nil {
		return math.ZeroInt(), err
	}

	if pilotID != "" {
		if err := k.assetsKeeper.Send(sdkCtx, types.HoldingAddress, pilottypes.PilotAddress(pilotID), amount); err != nil {
			return math.ZeroInt(), err
		}
		if _, err := k.pilotKeeper.Invest(sdkCtx, types.HoldingAddress, pilotID, amount); err != nil {
			return math.ZeroInt(), err
		}
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"supercluster_deposit",
			sdk.NewAttribute("depositor", depositor),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("shares", shares.String()),
			sdk.NewAttribute("pilot", pilotID),
		),
	)
	k.logger.Info("deposit", "depositor", depositor, "amount", amount.String(), "shares", shares.String(), "pilot", pilotID)
	return shares, nil
}

// Withdraw burns value of owner's claim, moves up to value of capital into
// the withdrawal queue and records a pending request on owner's behalf.
// It returns the request and the capital actually delivered to the queue.
func (k *Keeper) Withdraw(ctx context.Context, owner string, value math.Int) (*withdrawtypes.Request, math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return nil, math.ZeroInt(), err
	}
	if value.IsNil() || !value.IsPositive() {
		return nil, math.ZeroInt(), types.ErrZeroAmount
	}
	if err := k.sync(sdkCtx); err != nil {
		return nil, math.ZeroInt(), err
	}
	if _, err := k.ledgerKeeper.Burn(sdkCtx, types.HoldingAddress, owner, value); err != nil {
		return nil, math.ZeroInt(), err
	}

	delivered, err := k.moveToQueue(sdkCtx, value)
	if err != nil {
		return nil, math.ZeroInt(), err
	}
	req, err := k.withdrawKeeper.AutoRequest(sdkCtx, types.HoldingAddress, owner, value, delivered)
	if err != nil {
		return nil, math.ZeroInt(), err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"supercluster_withdraw",
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("value", value.String()),
			sdk.NewAttribute("delivered", delivered.String()),
			sdk.NewAttribute("request_id", strconv.FormatUint(req.ID, 10)),
		),
	)
	k.logger.Info("withdraw",
		"owner", owner,
		"value", value.String(),
		"delivered", delivered.String(),
		"request_id", req.ID,
	)
	return req, delivered, nil
}

// moveToQueue sends idle holdings first, then divests registered pilots:
// proportionally on the first pass, filling in order on later passes.
func (k *Keeper) moveToQueue(ctx sdk.Context, value math.Int) (math.Int, error) {
	remaining := value

	idle := k.IdleBalance(ctx)
	if take := math.MinInt(idle, remaining); take.IsPositive() {
		if err := k.assetsKeeper.Send(ctx, types.HoldingAddress, withdrawtypes.QueueAddress, take); err != nil {
			return math.ZeroInt(), err
		}
		remaining = remaining.Sub(take)
	}

	passes := k.GetParams(ctx).MaxDivestPasses
	for pass := uint32(0); pass < passes && remaining.IsPositive(); pass++ {
		values, err := k.PilotValues(ctx)
		if err != nil {
			return math.ZeroInt(), err
		}
		total := math.ZeroInt()
		for _, v := range values {
			total = total.Add(v.Value)
		}
		if total.IsZero() {
			break
		}

		want := remaining
		progressed := false
		for _, v := range values {
			if remaining.IsZero() {
				break
			}
			if !v.Value.IsPositive() {
				continue
			}
			portion := math.MinInt(v.Value, remaining)
			if pass == 0 {
				share, err := wideint.MulDiv(v.Value, want, total)
				if err != nil {
					return math.ZeroInt(), err
				}
				portion = math.MinInt(share, portion)
			}
			if portion.IsZero() {
				continue
			}
			paid, err := k.pilotKeeper.DivestTo(ctx, types.HoldingAddress, v.PilotID, withdrawtypes.QueueAddress, portion)
			if err != nil {
				return math.ZeroInt(), err
			}
			if paid.IsPositive() {
				progressed = true
				remaining = remaining.Sub(math.MinInt(paid, remaining))
			}
		}
		if !progressed {
			break
		}
	}

	if remaining.IsPositive() {
		k.logger.Warn("withdrawal under-delivered", "requested", value.String(), "shortfall", remaining.String())
	}
	return value.Sub(remaining), nil
}

// Rebase sets the ledger's managed value to the live figure read from idle
// holdings and every registered pilot. It is a no-op on an empty ledger.
func (k *Keeper) Rebase(ctx context.Context, caller string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleController); err != nil {
		return math.ZeroInt(), err
	}
	if k.ledgerKeeper.TotalShares(sdkCtx).IsZero() {
		return k.ledgerKeeper.TotalManagedValue(sdkCtx), nil
	}
	live, err := k.LiveValue(sdkCtx)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.ledgerKeeper.UpdateManagedValue(sdkCtx, types.HoldingAddress, live); err != nil {
		return math.ZeroInt(), err
	}
	return live, nil
}

// UpdateManagedValue applies a controller-supplied managed value. When the
// deviation bound is set, the figure must lie within it of the live value.
func (k *Keeper) UpdateManagedValue(ctx context.Context, caller string, value math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleController); err != nil {
		return err
	}
	if value.IsNil() || value.IsNegative() {
		return types.ErrInvalidAmount
	}

	if bound := k.GetParams(sdkCtx).MaxRebaseDeviationBps; bound > 0 {
		live, err := k.LiveValue(sdkCtx)
		if err != nil {
			return err
		}
		if err := checkDeviation(value, live, bound); err != nil {
			return err
		}
	}
	return k.ledgerKeeper.UpdateManagedValue(sdkCtx, types.HoldingAddress, value)
}

// checkDeviation fails when |value - live| * 10000 > live * bound
func checkDeviation(value, live math.Int, bound uint32) error {
	diff := value.Sub(live).Abs()
	if diff.IsZero() {
		return nil
	}
	if live.IsZero() {
		return errorsmod.Wrapf(types.ErrRebaseDeviation, "live value is zero, got %s", value)
	}
	allowed, err := wideint.MulBps(live, bound)
	if err != nil {
		return err
	}
	if diff.GT(allowed) {
		return errorsmod.Wrapf(types.ErrRebaseDeviation, "value %s, live %s, bound %d bps", value, live, bound)
	}
	return nil
}

// sync rebases to the live value when it has drifted from the ledger
func (k *Keeper) sync(ctx sdk.Context) error {
	if k.ledgerKeeper.TotalShares(ctx).IsZero() {
		return nil
	}
	live, err := k.LiveValue(ctx)
	if err != nil {
		return err
	}
	if live.Equal(k.ledgerKeeper.TotalManagedValue(ctx)) {
		return nil
	}
	return k.ledgerKeeper.UpdateManagedValue(ctx, types.HoldingAddress, live)
}
