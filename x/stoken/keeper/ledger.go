package keeper

import (
	"context"
	"encoding/json"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/stoken/types"
)

// Mint credits value to account and returns the shares created.
// The first mint into an empty ledger is 1:1; later mints are priced at the
// current value per share, floored.
func (k *Keeper) Mint(ctx context.Context, caller, account string, value math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleMinter); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return math.ZeroInt(), err
	}
	if account == "" {
		return math.ZeroInt(), types.ErrInvalidAddress
	}
	if value.IsNil() || !value.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}

	shares, err := k.ConvertToShares(sdkCtx, value)
	if err != nil {
		return math.ZeroInt(), err
	}
	if shares.IsZero() {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrZeroAmount, "value %s is below one share", value)
	}

	ledger := k.GetLedger(sdkCtx)
	ledger.TotalShares = ledger.TotalShares.Add(shares)
	ledger.TotalManagedValue = ledger.TotalManagedValue.Add(value)
	k.SetLedger(sdkCtx, ledger)
	k.setShares(sdkCtx, account, k.SharesOf(sdkCtx, account).Add(shares))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stoken_mint",
			sdk.NewAttribute("account", account),
			sdk.NewAttribute("value", value.String()),
			sdk.NewAttribute("shares", shares.String()),
			sdk.NewAttribute("total_shares", ledger.TotalShares.String()),
			sdk.NewAttribute("total_managed_value", ledger.TotalManagedValue.String()),
		),
	)
	k.logger.Debug("minted", "account", account, "value", value.String(), "shares", shares.String())
	return shares, nil
}

// Burn debits value from account and returns the shares destroyed
func (k *Keeper) Burn(ctx context.Context, caller, account string, value math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleMinter); err != nil {
		return math.ZeroInt(), err
	}
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return math.ZeroInt(), err
	}
	if value.IsNil() || !value.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}

	balance := k.BalanceOf(sdkCtx, account)
	if value.GT(balance) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientBalance, "balance %s, burn %s", balance, value)
	}

	held := k.SharesOf(sdkCtx, account)
	shares, err := mulDiv(value, held, balance)
	if err != nil {
		return math.ZeroInt(), err
	}
	if shares.IsZero() {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrZeroAmount, "value %s is below one share", value)
	}

	ledger := k.GetLedger(sdkCtx)
	ledger.TotalShares = ledger.TotalShares.Sub(shares)
	ledger.TotalManagedValue = ledger.TotalManagedValue.Sub(value)
	k.SetLedger(sdkCtx, ledger)
	k.setShares(sdkCtx, account, held.Sub(shares))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stoken_burn",
			sdk.NewAttribute("account", account),
			sdk.NewAttribute("value", value.String()),
			sdk.NewAttribute("shares", shares.String()),
			sdk.NewAttribute("total_shares", ledger.TotalShares.String()),
			sdk.NewAttribute("total_managed_value", ledger.TotalManagedValue.String()),
		),
	)
	k.logger.Debug("burned", "account", account, "value", value.String(), "shares", shares.String())
	return shares, nil
}

// UpdateManagedValue replaces the ledger's total managed value. Every
// holder's balance scales by newValue/previous while shares stay fixed.
func (k *Keeper) UpdateManagedValue(ctx context.Context, caller string, newValue math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleController); err != nil {
		return err
	}
	if newValue.IsNil() || newValue.IsNegative() {
		return types.ErrInvalidAmount
	}

	ledger := k.GetLedger(sdkCtx)
	if ledger.TotalShares.IsZero() && newValue.IsPositive() {
		return errorsmod.Wrap(types.ErrInvalidState, "cannot assign value to a ledger without shares")
	}

	previous := ledger.TotalManagedValue
	ledger.TotalManagedValue = newValue
	ledger.LastRebaseAt = sdkCtx.BlockTime().Unix()
	ledger.RebaseCount++
	k.SetLedger(sdkCtx, ledger)

	k.appendRebaseRecord(sdkCtx, types.RebaseRecord{
		Seq:           ledger.RebaseCount,
		Height:        sdkCtx.BlockHeight(),
		Timestamp:     ledger.LastRebaseAt,
		PreviousValue: previous,
		NewValue:      newValue,
		TotalShares:   ledger.TotalShares,
		UpdatedBy:     caller,
	})

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stoken_rebase",
			sdk.NewAttribute("previous_value", previous.String()),
			sdk.NewAttribute("new_value", newValue.String()),
			sdk.NewAttribute("total_shares", ledger.TotalShares.String()),
			sdk.NewAttribute("seq", strconv.FormatUint(ledger.RebaseCount, 10)),
		),
	)
	k.logger.Info("managed value updated",
		"previous", previous.String(),
		"new", newValue.String(),
		"total_shares", ledger.TotalShares.String(),
	)
	return nil
}

// Rebase is an alias of UpdateManagedValue
func (k *Keeper) Rebase(ctx context.Context, caller string, newValue math.Int) error {
	return k.UpdateManagedValue(ctx, caller, newValue)
}

// Transfer moves value from one holder to another and returns the shares moved.
// The sender's shares shrink by value * shares / balance, floored.
func (k *Keeper) Transfer(ctx context.Context, from, to string, value math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return math.ZeroInt(), err
	}
	if from == "" || to == "" {
		return math.ZeroInt(), types.ErrInvalidAddress
	}
	if value.IsNil() || value.IsNegative() {
		return math.ZeroInt(), types.ErrInvalidAmount
	}
	if value.IsZero() {
		return math.ZeroInt(), nil
	}

	balance := k.BalanceOf(sdkCtx, from)
	if value.GT(balance) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientBalance, "balance %s, transfer %s", balance, value)
	}
	shares, err := mulDiv(value, k.SharesOf(sdkCtx, from), balance)
	if err != nil {
		return math.ZeroInt(), err
	}
	k.moveShares(sdkCtx, from, to, shares)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stoken_transfer",
			sdk.NewAttribute("from", from),
			sdk.NewAttribute("to", to),
			sdk.NewAttribute("value", value.String()),
			sdk.NewAttribute("shares", shares.String()),
		),
	)
	return shares, nil
}

// TransferShares moves an exact share amount. Modules use it to hand back
// custody of a claim without re-pricing it.
func (k *Keeper) TransferShares(ctx context.Context, from, to string, shares math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if from == "" || to == "" {
		return types.ErrInvalidAddress
	}
	if shares.IsNil() || shares.IsNegative() {
		return types.ErrInvalidAmount
	}
	held := k.SharesOf(sdkCtx, from)
	if shares.GT(held) {
		return errorsmod.Wrapf(types.ErrInsufficientBalance, "holds %s shares, moving %s", held, shares)
	}
	k.moveShares(sdkCtx, from, to, shares)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"stoken_transfer_shares",
			sdk.NewAttribute("from", from),
			sdk.NewAttribute("to", to),
			sdk.NewAttribute("shares", shares.String()),
		),
	)
	return nil
}

func (k *Keeper) moveShares(ctx sdk.Context, from, to string, shares math.Int) {
	if from == to || shares.IsZero() {
		return
	}
	k.setShares(ctx, from, k.SharesOf(ctx, from).Sub(shares))
	k.setShares(ctx, to, k.SharesOf(ctx, to).Add(shares))
}

// ============ Rebase history ============

func (k *Keeper) appendRebaseRecord(ctx sdk.Context, record types.RebaseRecord) {
	bz, _ := json.Marshal(&record)
	k.GetStore(ctx).Set(types.RebaseHistoryKey(record.Seq), bz)
}

// GetRebaseHistory returns up to limit records, newest first. Zero limit returns all.
func (k *Keeper) GetRebaseHistory(ctx sdk.Context, limit int) []types.RebaseRecord {
	iterator := storetypes.KVStoreReversePrefixIterator(k.GetStore(ctx), types.RebaseHistoryKeyPrefix)
	defer iterator.Close()

	var records []types.RebaseRecord
	for ; iterator.Valid(); iterator.Next() {
		if limit > 0 && len(records) >= limit {
			break
		}
		var record types.RebaseRecord
		if err := json.Unmarshal(iterator.Value(), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records
}
