package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/pkg/wideint"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/yieldsource/types"
)

// Deposit moves amount from owner into the source and returns the shares issued
func (k *Keeper) Deposit(ctx sdk.Context, sourceID, owner string, amount math.Int) (math.Int, error) {
	src := k.GetSource(ctx, sourceID)
	if src == nil {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrSourceNotFound, sourceID)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}

	assets := k.TotalAssets(ctx, src)
	shares := amount
	if src.TotalShares.IsPositive() {
		if assets.IsZero() {
			return math.ZeroInt(), errorsmod.Wrap(types.ErrInsufficientLiquidity, "source holds no assets")
		}
		var err error
		shares, err = wideint.MulDiv(amount, src.TotalShares, assets)
		if err != nil {
			return math.ZeroInt(), err
		}
		if shares.IsZero() {
			return math.ZeroInt(), errorsmod.Wrapf(types.ErrZeroAmount, "deposit %s is below one share", amount)
		}
	}

	if err := k.assetsKeeper.Send(ctx, owner, src.Address, amount); err != nil {
		return math.ZeroInt(), err
	}
	src.TotalShares = src.TotalShares.Add(shares)
	k.SetSource(ctx, src)
	k.setShares(ctx, sourceID, owner, k.SharesOf(ctx, sourceID, owner).Add(shares))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"yieldsource_deposit",
			sdk.NewAttribute("source", sourceID),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("shares", shares.String()),
		),
	)
	return shares, nil
}

// Redeem burns shares from owner's position and pays the floored value to recipient
func (k *Keeper) Redeem(ctx sdk.Context, sourceID, owner, recipient string, shares math.Int) (math.Int, error) {
	src := k.GetSource(ctx, sourceID)
	if src == nil {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrSourceNotFound, sourceID)
	}
	if shares.IsNil() || !shares.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	held := k.SharesOf(ctx, sourceID, owner)
	if shares.GT(held) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientShares, "holds %s, redeeming %s", held, shares)
	}

	amount, err := wideint.MulDiv(shares, k.TotalAssets(ctx, src), src.TotalShares)
	if err != nil {
		return math.ZeroInt(), err
	}
	return amount, k.payOut(ctx, src, owner, recipient, shares, amount)
}

// WithdrawAmount pays exactly amount to recipient, burning the shares it
// costs rounded up, and returns the shares burned
func (k *Keeper) WithdrawAmount(ctx sdk.Context, sourceID, owner, recipient string, amount math.Int) (math.Int, error) {
	src := k.GetSource(ctx, sourceID)
	if src == nil {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrSourceNotFound, sourceID)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	assets := k.TotalAssets(ctx, src)
	if assets.IsZero() || src.TotalShares.IsZero() {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrInsufficientLiquidity, "source is empty")
	}

	shares, err := wideint.MulDivUp(amount, src.TotalShares, assets)
	if err != nil {
		return math.ZeroInt(), err
	}
	held := k.SharesOf(ctx, sourceID, owner)
	if shares.GT(held) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientShares, "holds %s, needs %s", held, shares)
	}
	return shares, k.payOut(ctx, src, owner, recipient, shares, amount)
}

func (k *Keeper) payOut(ctx sdk.Context, src *types.Source, owner, recipient string, shares, amount math.Int) error {
	src.TotalShares = src.TotalShares.Sub(shares)
	k.SetSource(ctx, src)
	k.setShares(ctx, src.ID, owner, k.SharesOf(ctx, src.ID, owner).Sub(shares))

	if err := k.assetsKeeper.Send(ctx, src.Address, recipient, amount); err != nil {
		return errorsmod.Wrap(types.ErrInsufficientLiquidity, err.Error())
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"yieldsource_withdraw",
			sdk.NewAttribute("source", src.ID),
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("recipient", recipient),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("shares", shares.String()),
		),
	)
	return nil
}

// Accrue moves amount from a sponsor into the source, raising every
// position's value. Caller must be an admin.
func (k *Keeper) Accrue(ctx context.Context, caller, sourceID, from string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	src := k.GetSource(sdkCtx, sourceID)
	if src == nil {
		return errorsmod.Wrap(types.ErrSourceNotFound, sourceID)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount
	}
	if src.TotalShares.IsZero() {
		return errorsmod.Wrap(types.ErrInvalidSource, "no positions to accrue to")
	}
	if err := k.assetsKeeper.Send(sdkCtx, from, src.Address, amount); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"yieldsource_accrue",
			sdk.NewAttribute("source", sourceID),
			sdk.NewAttribute("amount", amount.String()),
		),
	)
	k.logger.Info("yield accrued", "source", sourceID, "amount", amount.String())
	return nil
}

// Slash removes amount from the source to recipient, lowering every
// position's value. Caller must be an admin.
func (k *Keeper) Slash(ctx context.Context, caller, sourceID, recipient string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	src := k.GetSource(sdkCtx, sourceID)
	if src == nil {
		return errorsmod.Wrap(types.ErrSourceNotFound, sourceID)
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount
	}
	if err := k.assetsKeeper.Send(sdkCtx, src.Address, recipient, amount); err != nil {
		return errorsmod.Wrap(types.ErrInsufficientLiquidity, err.Error())
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"yieldsource_slash",
			sdk.NewAttribute("source", sourceID),
			sdk.NewAttribute("amount", amount.String()),
		),
	)
	k.logger.Warn("yield source slashed", "source", sourceID, "amount", amount.String())
	return nil
}
