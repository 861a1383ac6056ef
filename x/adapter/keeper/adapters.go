package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/adapter/types"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
)

var (
	_ pilottypes.Adapter = (*vaultAdapter)(nil)
	_ pilottypes.Adapter = (*reserveAdapter)(nil)
)

// base carries what every adapter kind shares: the binding check and the
// net-deposit accounting. State is re-read from the store on each call so an
// adapter handle never outlives the context it was resolved in.
type base struct {
	keeper *Keeper
	id     string
}

func (b *base) ID() string { return b.id }

func (b *base) load(ctx sdk.Context) (*types.AdapterInfo, error) {
	info := b.keeper.GetAdapterInfo(ctx, b.id)
	if info == nil {
		return nil, errorsmod.Wrap(types.ErrAdapterNotFound, b.id)
	}
	return info, nil
}

func (b *base) authorize(ctx sdk.Context, caller string) (*types.AdapterInfo, error) {
	info, err := b.load(ctx)
	if err != nil {
		return nil, err
	}
	if caller != pilottypes.PilotAddress(info.Pilot) {
		return nil, errorsmod.Wrapf(types.ErrUnauthorized, "%s is bound to pilot %s", b.id, info.Pilot)
	}
	return info, nil
}

func (b *base) recordDeposit(ctx sdk.Context, info *types.AdapterInfo, amount math.Int) {
	info.TotalDeposited = info.TotalDeposited.Add(amount)
	b.keeper.SetAdapterInfo(ctx, info)
	b.emit(ctx, "adapter_deposit", info, amount)
}

func (b *base) recordWithdraw(ctx sdk.Context, info *types.AdapterInfo, amount math.Int, recipient string) {
	if amount.GTE(info.TotalDeposited) {
		info.TotalDeposited = math.ZeroInt()
	} else {
		info.TotalDeposited = info.TotalDeposited.Sub(amount)
	}
	b.keeper.SetAdapterInfo(ctx, info)
	b.emit(ctx, "adapter_withdraw", info, amount, sdk.NewAttribute("recipient", recipient))
}

func (b *base) emit(ctx sdk.Context, eventType string, info *types.AdapterInfo, amount math.Int, extra ...sdk.Attribute) {
	attrs := append([]sdk.Attribute{
		sdk.NewAttribute("adapter", info.ID),
		sdk.NewAttribute("pilot", info.Pilot),
		sdk.NewAttribute("amount", amount.String()),
		sdk.NewAttribute("total_deposited", info.TotalDeposited.String()),
	}, extra...)
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType, attrs...))
}

func (b *base) GetBalance(ctx sdk.Context) (math.Int, error) {
	info, err := b.load(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	return b.keeper.balanceOf(ctx, info), nil
}

func (b *base) GetTotalAssets(ctx sdk.Context) (math.Int, error) {
	return b.GetBalance(ctx)
}

// ============ vault ============

// vaultAdapter places funds in a yield source and holds its receipt shares
type vaultAdapter struct {
	base
}

func (a *vaultAdapter) Deposit(ctx sdk.Context, caller string, amount math.Int) (math.Int, error) {
	info, err := a.authorize(ctx, caller)
	if err != nil {
		return math.ZeroInt(), err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	if err := a.keeper.assetsKeeper.Send(ctx, caller, info.Address, amount); err != nil {
		return math.ZeroInt(), err
	}
	shares, err := a.keeper.yieldSourceKeeper.Deposit(ctx, info.SourceID, info.Address, amount)
	if err != nil {
		return math.ZeroInt(), err
	}
	a.recordDeposit(ctx, info, amount)
	return shares, nil
}

func (a *vaultAdapter) Withdraw(ctx sdk.Context, caller string, shares math.Int) (math.Int, error) {
	info, err := a.authorize(ctx, caller)
	if err != nil {
		return math.ZeroInt(), err
	}
	if shares.IsNil() || !shares.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	amount, err := a.keeper.yieldSourceKeeper.Redeem(ctx, info.SourceID, info.Address, caller, shares)
	if err != nil {
		return math.ZeroInt(), err
	}
	a.recordWithdraw(ctx, info, amount, caller)
	return amount, nil
}

func (a *vaultAdapter) WithdrawTo(ctx sdk.Context, caller, recipient string, amount math.Int) (math.Int, error) {
	info, err := a.authorize(ctx, caller)
	if err != nil {
		return math.ZeroInt(), err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	balance := a.keeper.balanceOf(ctx, info)
	if amount.GT(balance) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientFunds, "balance %s, requested %s", balance, amount)
	}
	if amount.Equal(balance) {
		// redeem every share so no dust position is left behind
		shares := a.keeper.yieldSourceKeeper.SharesOf(ctx, info.SourceID, info.Address)
		paid, err := a.keeper.yieldSourceKeeper.Redeem(ctx, info.SourceID, info.Address, recipient, shares)
		if err != nil {
			return math.ZeroInt(), err
		}
		a.recordWithdraw(ctx, info, paid, recipient)
		return paid, nil
	}
	if _, err := a.keeper.yieldSourceKeeper.WithdrawAmount(ctx, info.SourceID, info.Address, recipient, amount); err != nil {
		return math.ZeroInt(), err
	}
	a.recordWithdraw(ctx, info, amount, recipient)
	return amount, nil
}

// ============ reserve ============

// reserveAdapter holds funds 1:1 in its own account; shares equal amounts
type reserveAdapter struct {
	base
}

func (a *reserveAdapter) Deposit(ctx sdk.Context, caller string, amount math.Int) (math.Int, error) {
	info, err := a.authorize(ctx, caller)
	if err != nil {
		return math.ZeroInt(), err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	if err := a.keeper.assetsKeeper.Send(ctx, caller, info.Address, amount); err != nil {
		return math.ZeroInt(), err
	}
	a.recordDeposit(ctx, info, amount)
	return amount, nil
}

func (a *reserveAdapter) Withdraw(ctx sdk.Context, caller string, shares math.Int) (math.Int, error) {
	return a.WithdrawTo(ctx, caller, caller, shares)
}

func (a *reserveAdapter) WithdrawTo(ctx sdk.Context, caller, recipient string, amount math.Int) (math.Int, error) {
	info, err := a.authorize(ctx, caller)
	if err != nil {
		return math.ZeroInt(), err
	}
	if amount.IsNil() || !amount.IsPositive() {
		return math.ZeroInt(), types.ErrZeroAmount
	}
	balance := a.keeper.balanceOf(ctx, info)
	if amount.GT(balance) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientFunds, "balance %s, requested %s", balance, amount)
	}
	if err := a.keeper.assetsKeeper.Send(ctx, info.Address, recipient, amount); err != nil {
		return math.ZeroInt(), err
	}
	a.recordWithdraw(ctx, info, amount, recipient)
	return amount, nil
}
