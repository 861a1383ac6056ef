package keeper

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/stoken/types"
)

// Allowance returns the value spender may still move for owner
func (k *Keeper) Allowance(ctx sdk.Context, owner, spender string) math.Int {
	bz := k.GetStore(ctx).Get(types.AllowanceKey(owner, spender))
	if bz == nil {
		return math.ZeroInt()
	}
	var allowance types.Allowance
	if err := json.Unmarshal(bz, &allowance); err != nil || allowance.Value.IsNil() {
		return math.ZeroInt()
	}
	return allowance.Value
}

func (k *Keeper) setAllowance(ctx sdk.Context, owner, spender string, value math.Int) {
	store := k.GetStore(ctx)
	if value.IsZero() {
		store.Delete(types.AllowanceKey(owner, spender))
		return
	}
	bz, _ := json.Marshal(&types.Allowance{Owner: owner, Spender: spender, Value: value})
	store.Set(types.AllowanceKey(owner, spender), bz)
}

// Approve sets the value spender may move out of owner's balance
func (k *Keeper) Approve(ctx context.Context, owner, spender string, value math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if owner == "" || spender == "" {
		return types.ErrInvalidAddress
	}
	if value.IsNil() || value.IsNegative() {
		return types.ErrInvalidAmount
	}
	k.setAllowance(sdkCtx, owner, spender, value)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stoken_approval",
			sdk.NewAttribute("owner", owner),
			sdk.NewAttribute("spender", spender),
			sdk.NewAttribute("value", value.String()),
		),
	)
	return nil
}

// TransferFrom moves value from one holder to another, consuming the
// spender's allowance. An owner moving their own balance needs no allowance.
func (k *Keeper) TransferFrom(ctx context.Context, spender, from, to string, value math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if value.IsNil() || value.IsNegative() {
		return math.ZeroInt(), types.ErrInvalidAmount
	}
	if spender != from {
		allowed := k.Allowance(sdkCtx, from, spender)
		if value.GT(allowed) {
			return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientAllowance, "allowed %s, requested %s", allowed, value)
		}
		k.setAllowance(sdkCtx, from, spender, allowed.Sub(value))
	}
	return k.Transfer(ctx, from, to, value)
}
