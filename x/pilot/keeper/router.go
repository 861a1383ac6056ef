package keeper

import (
	"context"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/pkg/wideint"
	"github.com/openalpha/supercluster/x/pilot/types"
)

// SetAllocation replaces a pilot's allocation table. Adapters dropped from
// the table become inactive; their balances stay where they are.
func (k *Keeper) SetAllocation(ctx context.Context, caller, pilotID string, adapters []string, bps []uint32) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return err
	}
	pilot, err := k.mustGetPilot(sdkCtx, pilotID)
	if err != nil {
		return err
	}
	if err := k.requireOwner(pilot, caller); err != nil {
		return err
	}
	if err := types.ValidateAllocation(adapters, bps); err != nil {
		return err
	}
	for _, id := range adapters {
		if _, err := k.registry.GetAdapter(sdkCtx, id); err != nil {
			return errorsmod.Wrap(types.ErrAdapterNotFound, err.Error())
		}
	}

	next := make([]types.Allocation, len(adapters))
	for i, id := range adapters {
		next[i] = types.Allocation{AdapterID: id, TargetBps: bps[i]}
	}

	var inactive []string
	for _, prev := range pilot.Allocations {
		if !containsString(adapters, prev.AdapterID) {
			inactive = append(inactive, prev.AdapterID)
		}
	}
	for _, id := range pilot.Inactive {
		if !containsString(adapters, id) && !containsString(inactive, id) {
			inactive = append(inactive, id)
		}
	}

	pilot.Allocations = next
	pilot.Inactive = inactive
	pilot.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetPilot(sdkCtx, pilot)

	weights := make([]string, len(bps))
	for i, b := range bps {
		weights[i] = strconv.FormatUint(uint64(b), 10)
	}
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pilot_allocation",
			sdk.NewAttribute("pilot", pilotID),
			sdk.NewAttribute("adapters", strings.Join(adapters, ",")),
			sdk.NewAttribute("bps", strings.Join(weights, ",")),
		),
	)
	k.logger.Info("allocation set", "pilot", pilotID, "adapters", adapters, "bps", bps)
	return nil
}

// Invest splits amount of the pilot's idle funds across its allocation.
// Each adapter receives amount * bps / 10000, floored; the residue stays idle.
func (k *Keeper) Invest(ctx context.Context, caller, pilotID string, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return math.ZeroInt(), err
	}
	pilot, err := k.mustGetPilot(sdkCtx, pilotID)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.requireOperator(sdkCtx, pilot, caller); err != nil {
		return math.ZeroInt(), err
	}
	if amount.IsNil() || amount.IsNegative() {
		return math.ZeroInt(), types.ErrInvalidAmount
	}
	if amount.IsZero() {
		return math.ZeroInt(), nil
	}
	idle := k.IdleBalance(sdkCtx, pilotID)
	if idle.LT(amount) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrInsufficientFunds, "idle %s, invest %s", idle, amount)
	}

	invested := math.ZeroInt()
	for _, alloc := range pilot.Allocations {
		portion, err := wideint.MulBps(amount, alloc.TargetBps)
		if err != nil {
			return math.ZeroInt(), err
		}
		if portion.IsZero() {
			continue
		}
		adapter, err := k.registry.GetAdapter(sdkCtx, alloc.AdapterID)
		if err != nil {
			return math.ZeroInt(), err
		}
		if _, err := adapter.Deposit(sdkCtx, pilot.Address, portion); err != nil {
			return math.ZeroInt(), errorsmod.Wrapf(err, "deposit into %s", alloc.AdapterID)
		}
		invested = invested.Add(portion)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pilot_invest",
			sdk.NewAttribute("pilot", pilotID),
			sdk.NewAttribute("amount", amount.String()),
			sdk.NewAttribute("invested", invested.String()),
		),
	)
	k.logger.Info("invested", "pilot", pilotID, "amount", amount.String(), "invested", invested.String())
	return invested, nil
}

// DivestTo pays up to amount to destination, taking from idle funds and each
// active adapter in proportion to its share of total holdings. Each source
// pays min(holding * amount / total, holding, remaining), so the delivered
// amount never exceeds the request and any rounding shortfall is left uncollected.
func (k *Keeper) DivestTo(ctx context.Context, caller, pilotID, destination string, amount math.Int) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return math.ZeroInt(), err
	}
	pilot, err := k.mustGetPilot(sdkCtx, pilotID)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.requireOperator(sdkCtx, pilot, caller); err != nil {
		return math.ZeroInt(), err
	}
	if amount.IsNil() || amount.IsNegative() {
		return math.ZeroInt(), types.ErrInvalidAmount
	}

	idle := k.IdleBalance(sdkCtx, pilotID)
	holdings := idle
	adapters := make([]types.Adapter, 0, len(pilot.Allocations))
	balances := make([]math.Int, 0, len(pilot.Allocations))
	for _, alloc := range pilot.Allocations {
		adapter, err := k.registry.GetAdapter(sdkCtx, alloc.AdapterID)
		if err != nil {
			return math.ZeroInt(), err
		}
		balance, err := adapter.GetTotalAssets(sdkCtx)
		if err != nil {
			return math.ZeroInt(), errorsmod.Wrapf(err, "read %s", alloc.AdapterID)
		}
		adapters = append(adapters, adapter)
		balances = append(balances, balance)
		holdings = holdings.Add(balance)
	}
	if holdings.IsZero() {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrZeroHoldings, pilotID)
	}
	if amount.IsZero() {
		return math.ZeroInt(), nil
	}

	remaining := amount
	share, err := proportion(idle, amount, holdings, remaining)
	if err != nil {
		return math.ZeroInt(), err
	}
	if share.IsPositive() {
		if err := k.assetsKeeper.Send(sdkCtx, pilot.Address, destination, share); err != nil {
			return math.ZeroInt(), err
		}
		remaining = remaining.Sub(share)
	}

	for i, adapter := range adapters {
		if remaining.IsZero() {
			break
		}
		if !balances[i].IsPositive() {
			continue
		}
		share, err := proportion(balances[i], amount, holdings, remaining)
		if err != nil {
			return math.ZeroInt(), err
		}
		if share.IsZero() {
			continue
		}
		paid, err := adapter.WithdrawTo(sdkCtx, pilot.Address, destination, share)
		if err != nil {
			return math.ZeroInt(), errorsmod.Wrapf(err, "withdraw from %s", adapter.ID())
		}
		remaining = remaining.Sub(math.MinInt(paid, remaining))
	}

	delivered := amount.Sub(remaining)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pilot_divest",
			sdk.NewAttribute("pilot", pilotID),
			sdk.NewAttribute("destination", destination),
			sdk.NewAttribute("requested", amount.String()),
			sdk.NewAttribute("delivered", delivered.String()),
		),
	)
	k.logger.Info("divested",
		"pilot", pilotID,
		"destination", destination,
		"requested", amount.String(),
		"delivered", delivered.String(),
	)
	return delivered, nil
}

// proportion returns min(holding * amount / total, holding, remaining)
func proportion(holding, amount, total, remaining math.Int) (math.Int, error) {
	share, err := wideint.MulDiv(holding, amount, total)
	if err != nil {
		return math.ZeroInt(), err
	}
	return math.MinInt(math.MinInt(share, holding), remaining), nil
}

// GetTotalValue returns idle funds plus every active adapter's balance
func (k *Keeper) GetTotalValue(ctx sdk.Context, pilotID string) (math.Int, error) {
	pilot, err := k.mustGetPilot(ctx, pilotID)
	if err != nil {
		return math.ZeroInt(), err
	}
	total := k.IdleBalance(ctx, pilotID)
	for _, alloc := range pilot.Allocations {
		adapter, err := k.registry.GetAdapter(ctx, alloc.AdapterID)
		if err != nil {
			return math.ZeroInt(), err
		}
		balance, err := adapter.GetBalance(ctx)
		if err != nil {
			return math.ZeroInt(), errorsmod.Wrapf(err, "read %s", alloc.AdapterID)
		}
		total = total.Add(balance)
	}
	return total, nil
}

// GetHoldings is GetTotalValue plus whatever dropped adapters still hold.
// Capital parked in an inactive adapter still belongs to the pilot until drained.
func (k *Keeper) GetHoldings(ctx sdk.Context, pilotID string) (math.Int, error) {
	total, err := k.GetTotalValue(ctx, pilotID)
	if err != nil {
		return math.ZeroInt(), err
	}
	pilot, err := k.mustGetPilot(ctx, pilotID)
	if err != nil {
		return math.ZeroInt(), err
	}
	for _, id := range pilot.Inactive {
		adapter, err := k.registry.GetAdapter(ctx, id)
		if err != nil {
			return math.ZeroInt(), err
		}
		balance, err := adapter.GetBalance(ctx)
		if err != nil {
			return math.ZeroInt(), errorsmod.Wrapf(err, "read inactive %s", id)
		}
		total = total.Add(balance)
	}
	return total, nil
}

// AdapterBalances breaks a pilot's holdings down by adapter, active first
func (k *Keeper) AdapterBalances(ctx sdk.Context, pilotID string) ([]types.AdapterBalance, error) {
	pilot, err := k.mustGetPilot(ctx, pilotID)
	if err != nil {
		return nil, err
	}
	out := make([]types.AdapterBalance, 0, len(pilot.Allocations)+len(pilot.Inactive))
	read := func(id string, bps uint32, active bool) error {
		adapter, err := k.registry.GetAdapter(ctx, id)
		if err != nil {
			return err
		}
		balance, err := adapter.GetBalance(ctx)
		if err != nil {
			return err
		}
		out = append(out, types.AdapterBalance{AdapterID: id, TargetBps: bps, Active: active, Balance: balance})
		return nil
	}
	for _, alloc := range pilot.Allocations {
		if err := read(alloc.AdapterID, alloc.TargetBps, true); err != nil {
			return nil, err
		}
	}
	for _, id := range pilot.Inactive {
		if err := read(id, 0, false); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DrainAdapter pulls an inactive adapter's whole balance back to idle
func (k *Keeper) DrainAdapter(ctx context.Context, caller, pilotID, adapterID string) (math.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.Guard(sdkCtx, types.ModuleName); err != nil {
		return math.ZeroInt(), err
	}
	pilot, err := k.mustGetPilot(sdkCtx, pilotID)
	if err != nil {
		return math.ZeroInt(), err
	}
	if err := k.requireOwner(pilot, caller); err != nil {
		return math.ZeroInt(), err
	}
	if pilot.IsActive(adapterID) {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrAdapterStillActive, adapterID)
	}
	if !pilot.IsInactive(adapterID) {
		return math.ZeroInt(), errorsmod.Wrapf(types.ErrAdapterNotFound, "%s was never allocated by %s", adapterID, pilotID)
	}

	adapter, err := k.registry.GetAdapter(sdkCtx, adapterID)
	if err != nil {
		return math.ZeroInt(), err
	}
	balance, err := adapter.GetBalance(sdkCtx)
	if err != nil {
		return math.ZeroInt(), err
	}
	drained := math.ZeroInt()
	if balance.IsPositive() {
		drained, err = adapter.WithdrawTo(sdkCtx, pilot.Address, pilot.Address, balance)
		if err != nil {
			return math.ZeroInt(), err
		}
	}

	remaining := pilot.Inactive[:0]
	for _, id := range pilot.Inactive {
		if id != adapterID {
			remaining = append(remaining, id)
		}
	}
	pilot.Inactive = remaining
	pilot.UpdatedAt = sdkCtx.BlockTime().Unix()
	k.SetPilot(sdkCtx, pilot)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pilot_drain",
			sdk.NewAttribute("pilot", pilotID),
			sdk.NewAttribute("adapter", adapterID),
			sdk.NewAttribute("amount", drained.String()),
		),
	)
	k.logger.Info("adapter drained", "pilot", pilotID, "adapter", adapterID, "amount", drained.String())
	return drained, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
