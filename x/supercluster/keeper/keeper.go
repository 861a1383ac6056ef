package keeper

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/supercluster/types"
)

// Keeper is the orchestrator. It is the only minter and burner of the
// ledger and the only mover of capital between holding, pilots and queue.
type Keeper struct {
	storeKey       storetypes.StoreKey
	assetsKeeper   types.AssetsKeeper
	ledgerKeeper   types.LedgerKeeper
	pilotKeeper    types.PilotKeeper
	withdrawKeeper types.WithdrawKeeper
	accessKeeper   types.AccessKeeper
	logger         log.Logger
}

// NewKeeper creates a new supercluster keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	assetsKeeper types.AssetsKeeper,
	ledgerKeeper types.LedgerKeeper,
	pilotKeeper types.PilotKeeper,
	withdrawKeeper types.WithdrawKeeper,
	accessKeeper types.AccessKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:       storeKey,
		assetsKeeper:   assetsKeeper,
		ledgerKeeper:   ledgerKeeper,
		pilotKeeper:    pilotKeeper,
		withdrawKeeper: withdrawKeeper,
		accessKeeper:   accessKeeper,
		logger:         logger.With("module", "x/supercluster"),
	}
}

// Logger returns the module logger
func (k *Keeper) Logger() log.Logger {
	return k.logger
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// ============ Params ============

// GetParams returns the orchestrator parameters
func (k *Keeper) GetParams(ctx sdk.Context) types.Params {
	bz := k.GetStore(ctx).Get(types.ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}
	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams saves the orchestrator parameters
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if params.DefaultPilot != "" && !k.IsRegistered(ctx, params.DefaultPilot) {
		return errorsmod.Wrap(types.ErrPilotNotRegistered, params.DefaultPilot)
	}
	bz, _ := json.Marshal(&params)
	k.GetStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// UpdateParams replaces the parameters; caller must be an admin
func (k *Keeper) UpdateParams(ctx context.Context, caller string, params types.Params) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	if err := k.SetParams(sdkCtx, params); err != nil {
		return err
	}
	k.logger.Info("params updated",
		"max_rebase_deviation_bps", params.MaxRebaseDeviationBps,
		"default_pilot", params.DefaultPilot,
	)
	return nil
}

// ============ Pilot registry ============

// IsRegistered reports whether a pilot counts toward managed value
func (k *Keeper) IsRegistered(ctx sdk.Context, pilotID string) bool {
	return k.GetStore(ctx).Has(types.RegisteredKey(pilotID))
}

// GetRegisteredPilots returns registered pilot ids in key order
func (k *Keeper) GetRegisteredPilots(ctx sdk.Context) []string {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.RegisteredPrefix)
	defer iterator.Close()

	var ids []string
	for ; iterator.Valid(); iterator.Next() {
		var reg types.RegisteredPilot
		if err := json.Unmarshal(iterator.Value(), &reg); err != nil {
			continue
		}
		ids = append(ids, reg.PilotID)
	}
	return ids
}

// SetRegistered registers a pilot without an authority check. Used by genesis.
func (k *Keeper) SetRegistered(ctx sdk.Context, pilotID string) error {
	if k.pilotKeeper.GetPilot(ctx, pilotID) == nil {
		return errorsmod.Wrapf(types.ErrPilotNotRegistered, "unknown pilot %s", pilotID)
	}
	if k.IsRegistered(ctx, pilotID) {
		return errorsmod.Wrap(types.ErrPilotAlreadyRegistered, pilotID)
	}
	bz, _ := json.Marshal(&types.RegisteredPilot{PilotID: pilotID, RegisteredAt: ctx.BlockTime().Unix()})
	k.GetStore(ctx).Set(types.RegisteredKey(pilotID), bz)
	return nil
}

// RegisterPilot adds a pilot to managed-value aggregation; caller must be an admin
func (k *Keeper) RegisterPilot(ctx context.Context, caller, pilotID string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	if err := k.SetRegistered(sdkCtx, pilotID); err != nil {
		return err
	}
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent("supercluster_pilot_registered", sdk.NewAttribute("pilot", pilotID)),
	)
	k.logger.Info("pilot registered", "pilot", pilotID)
	return nil
}

// DeregisterPilot removes an empty pilot from aggregation; caller must be an admin
func (k *Keeper) DeregisterPilot(ctx context.Context, caller, pilotID string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	if !k.IsRegistered(sdkCtx, pilotID) {
		return errorsmod.Wrap(types.ErrPilotNotRegistered, pilotID)
	}
	value, err := k.pilotKeeper.GetHoldings(sdkCtx, pilotID)
	if err != nil {
		return err
	}
	if value.IsPositive() {
		return errorsmod.Wrapf(types.ErrPilotNotEmpty, "%s holds %s", pilotID, value)
	}

	k.GetStore(sdkCtx).Delete(types.RegisteredKey(pilotID))
	params := k.GetParams(sdkCtx)
	if params.DefaultPilot == pilotID {
		params.DefaultPilot = ""
		if err := k.SetParams(sdkCtx, params); err != nil {
			return err
		}
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent("supercluster_pilot_deregistered", sdk.NewAttribute("pilot", pilotID)),
	)
	k.logger.Info("pilot deregistered", "pilot", pilotID)
	return nil
}

// ============ Valuation ============

// IdleBalance returns capital held by the orchestrator outside any pilot
func (k *Keeper) IdleBalance(ctx sdk.Context) math.Int {
	return k.assetsKeeper.GetBalance(ctx, types.HoldingAddress)
}

// PilotValues reads every registered pilot's holdings, dropped adapters included
func (k *Keeper) PilotValues(ctx sdk.Context) ([]types.PilotValue, error) {
	ids := k.GetRegisteredPilots(ctx)
	values := make([]types.PilotValue, 0, len(ids))
	for _, id := range ids {
		value, err := k.pilotKeeper.GetHoldings(ctx, id)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "value pilot %s", id)
		}
		values = append(values, types.PilotValue{PilotID: id, Value: value})
	}
	return values, nil
}

// LiveValue is idle holdings plus every registered pilot's holdings
func (k *Keeper) LiveValue(ctx sdk.Context) (math.Int, error) {
	values, err := k.PilotValues(ctx)
	if err != nil {
		return math.ZeroInt(), err
	}
	total := k.IdleBalance(ctx)
	for _, v := range values {
		total = total.Add(v.Value)
	}
	return total, nil
}

// GetVaultState returns the aggregate view of the vault
func (k *Keeper) GetVaultState(ctx sdk.Context) (*types.VaultState, error) {
	values, err := k.PilotValues(ctx)
	if err != nil {
		return nil, err
	}
	idle := k.IdleBalance(ctx)
	live := idle
	for _, v := range values {
		live = live.Add(v.Value)
	}
	return &types.VaultState{
		TotalShares:       k.ledgerKeeper.TotalShares(ctx),
		TotalManagedValue: k.ledgerKeeper.TotalManagedValue(ctx),
		LiveValue:         live,
		Idle:              idle,
		Pilots:            values,
		Params:            k.GetParams(ctx),
	}, nil
}
