package keeper

import (
	"context"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/withdraw/types"
)

// RequestWithdraw moves value of the caller's ledger claim into queue
// custody and records a pending request. The caller must have approved the
// queue as spender beforehand.
func (k *Keeper) RequestWithdraw(ctx context.Context, caller string, value math.Int) (*types.Request, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return nil, err
	}
	if caller == "" {
		return nil, types.ErrInvalidAddress
	}
	if value.IsNil() || !value.IsPositive() {
		return nil, types.ErrZeroAmount
	}

	shares, err := k.ledgerKeeper.TransferFrom(sdkCtx, types.QueueAddress, caller, types.QueueAddress, value)
	if err != nil {
		return nil, err
	}
	req := k.newRequest(sdkCtx, caller, types.KindCustodial, value, shares)
	k.emitRequest(sdkCtx, req)
	return req, nil
}

// AutoRequest records a pending request for value the orchestrator already
// burned on user's behalf, of which delivered reached the queue
func (k *Keeper) AutoRequest(ctx context.Context, caller, user string, value, delivered math.Int) (*types.Request, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleOrchestrator); err != nil {
		return nil, err
	}
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return nil, err
	}
	if user == "" {
		return nil, types.ErrInvalidAddress
	}
	if value.IsNil() || !value.IsPositive() {
		return nil, types.ErrZeroAmount
	}

	if delivered.IsNil() || delivered.IsNegative() || delivered.GT(value) {
		return nil, errorsmod.Wrapf(types.ErrInvalidAmount, "delivered %s of %s", delivered, value)
	}

	req := k.newRequest(sdkCtx, user, types.KindBurned, value, math.ZeroInt())
	req.Delivered = delivered
	k.SetRequest(sdkCtx, req)
	k.emitRequest(sdkCtx, req)
	return req, nil
}

func (k *Keeper) newRequest(ctx sdk.Context, requester string, kind types.RequestKind, value, shares math.Int) *types.Request {
	req := &types.Request{
		ID:              k.allocateID(ctx),
		Requester:       requester,
		Kind:            kind,
		RequestedValue:  value,
		HeldShares:      shares,
		Delivered:       math.ZeroInt(),
		SettlementValue: math.ZeroInt(),
		RequestedAt:     ctx.BlockTime().Unix(),
	}
	k.SetRequest(ctx, req)
	return req
}

func (k *Keeper) emitRequest(ctx sdk.Context, req *types.Request) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"withdraw_request",
			sdk.NewAttribute("id", strconv.FormatUint(req.ID, 10)),
			sdk.NewAttribute("requester", req.Requester),
			sdk.NewAttribute("kind", string(req.Kind)),
			sdk.NewAttribute("value", req.RequestedValue.String()),
		),
	)
	k.logger.Info("withdrawal requested",
		"id", req.ID,
		"requester", req.Requester,
		"kind", req.Kind,
		"value", req.RequestedValue.String(),
	)
}

// FinalizeWithdraw fixes the settlement value of a pending request and
// starts its delay. The queue must hold enough unreserved funds to cover it.
func (k *Keeper) FinalizeWithdraw(ctx context.Context, caller string, id uint64, settlement math.Int) (*types.Request, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleOperator); err != nil {
		return nil, err
	}
	req := k.GetRequest(sdkCtx, id)
	if req == nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidRequest, "id %d", id)
	}
	if req.Claimed {
		return nil, types.ErrAlreadyClaimed
	}
	if req.Finalized {
		return nil, types.ErrAlreadyFinalized
	}
	if settlement.IsNil() || !settlement.IsPositive() {
		return nil, types.ErrZeroAmount
	}
	if free := k.FreeFunds(sdkCtx); free.LT(settlement) {
		return nil, errorsmod.Wrapf(types.ErrInsufficientFunds, "free %s, settlement %s", free, settlement)
	}

	// the operator funded the settlement, so it takes over the held claim
	if req.Kind == types.KindCustodial && req.HeldShares.IsPositive() {
		if err := k.ledgerKeeper.TransferShares(sdkCtx, types.QueueAddress, caller, req.HeldShares); err != nil {
			return nil, err
		}
	}

	req.Finalized = true
	req.FinalizedBy = caller
	req.SettlementValue = settlement
	req.AvailableAt = sdkCtx.BlockTime().Unix() + k.GetParams(sdkCtx).WithdrawDelay
	k.SetRequest(sdkCtx, req)
	k.setReserved(sdkCtx, k.GetReserved(sdkCtx).Add(settlement))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"withdraw_finalize",
			sdk.NewAttribute("id", strconv.FormatUint(id, 10)),
			sdk.NewAttribute("requester", req.Requester),
			sdk.NewAttribute("settlement", settlement.String()),
			sdk.NewAttribute("available_at", strconv.FormatInt(req.AvailableAt, 10)),
		),
	)
	k.logger.Info("withdrawal finalized",
		"id", id,
		"settlement", settlement.String(),
		"available_at", req.AvailableAt,
	)
	return req, nil
}

// Claim pays a finalized request's settlement to its requester once the
// delay has elapsed. The request is marked claimed before funds move; a
// failed payout aborts the whole operation.
func (k *Keeper) Claim(ctx context.Context, caller string, id uint64) (*types.Request, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return nil, err
	}
	req := k.GetRequest(sdkCtx, id)
	if req == nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidRequest, "id %d", id)
	}
	if req.Claimed {
		return nil, types.ErrAlreadyClaimed
	}
	if !req.Finalized {
		return nil, types.ErrNotFinalized
	}
	now := sdkCtx.BlockTime().Unix()
	if !req.IsAvailable(now) {
		return nil, errorsmod.Wrapf(types.ErrNotYetAvailable, "available at %d, now %d", req.AvailableAt, now)
	}
	if caller != req.Requester && !k.accessKeeper.HasRole(sdkCtx, accesstypes.RoleOperator, caller) {
		return nil, errorsmod.Wrapf(types.ErrNotAuthorized, "%s is not the requester of %d", caller, id)
	}

	req.Claimed = true
	req.ClaimedAt = now
	k.SetRequest(sdkCtx, req)
	reserved := k.GetReserved(sdkCtx).Sub(req.SettlementValue)
	if reserved.IsNegative() {
		reserved = math.ZeroInt()
	}
	k.setReserved(sdkCtx, reserved)

	if err := k.assetsKeeper.Send(sdkCtx, types.QueueAddress, req.Requester, req.SettlementValue); err != nil {
		return nil, errorsmod.Wrap(types.ErrInsufficientFunds, err.Error())
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"withdraw_claim",
			sdk.NewAttribute("id", strconv.FormatUint(id, 10)),
			sdk.NewAttribute("requester", req.Requester),
			sdk.NewAttribute("amount", req.SettlementValue.String()),
			sdk.NewAttribute("claimed_by", caller),
		),
	)
	k.logger.Info("withdrawal claimed", "id", id, "requester", req.Requester, "amount", req.SettlementValue.String())
	return req, nil
}

// CancelRequest removes a pending request and restores the requester's
// claim. Finalized or claimed requests cannot be cancelled.
func (k *Keeper) CancelRequest(ctx context.Context, caller string, id uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleOperator); err != nil {
		return err
	}
	req := k.GetRequest(sdkCtx, id)
	if req == nil {
		return errorsmod.Wrapf(types.ErrInvalidRequest, "id %d", id)
	}
	if req.Claimed {
		return types.ErrAlreadyClaimed
	}
	if req.Finalized {
		return types.ErrAlreadyFinalized
	}

	switch req.Kind {
	case types.KindCustodial:
		if req.HeldShares.IsPositive() {
			if err := k.ledgerKeeper.TransferShares(sdkCtx, types.QueueAddress, req.Requester, req.HeldShares); err != nil {
				return err
			}
		}
	case types.KindBurned:
		if k.hooks != nil {
			if err := k.hooks.AfterBurnedRequestCancelled(sdkCtx, *req); err != nil {
				return err
			}
		}
	}
	k.deleteRequest(sdkCtx, req)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"withdraw_cancel",
			sdk.NewAttribute("id", strconv.FormatUint(id, 10)),
			sdk.NewAttribute("requester", req.Requester),
			sdk.NewAttribute("kind", string(req.Kind)),
			sdk.NewAttribute("value", req.RequestedValue.String()),
		),
	)
	k.logger.Info("withdrawal cancelled", "id", id, "requester", req.Requester, "by", caller)
	return nil
}

// FundQueue moves base asset from caller into the queue for settlements
func (k *Keeper) FundQueue(ctx context.Context, caller string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount
	}
	if err := k.assetsKeeper.Send(sdkCtx, caller, types.QueueAddress, amount); err != nil {
		return err
	}
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"withdraw_fund",
			sdk.NewAttribute("from", caller),
			sdk.NewAttribute("amount", amount.String()),
		),
	)
	return nil
}

// UpdateParams replaces the queue parameters; caller must be an admin
func (k *Keeper) UpdateParams(ctx context.Context, caller string, params types.Params) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	if err := k.SetParams(sdkCtx, params); err != nil {
		return err
	}
	k.logger.Info("params updated", "withdraw_delay", params.WithdrawDelay)
	return nil
}
