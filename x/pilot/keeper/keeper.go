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
	"github.com/openalpha/supercluster/x/pilot/types"
)

// Keeper manages strategy routers
type Keeper struct {
	storeKey     storetypes.StoreKey
	assetsKeeper types.AssetsKeeper
	accessKeeper types.AccessKeeper
	registry     types.AdapterRegistry
	logger       log.Logger
}

// NewKeeper creates a new pilot keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	assetsKeeper types.AssetsKeeper,
	accessKeeper types.AccessKeeper,
	registry types.AdapterRegistry,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:     storeKey,
		assetsKeeper: assetsKeeper,
		accessKeeper: accessKeeper,
		registry:     registry,
		logger:       logger.With("module", "x/pilot"),
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

// GetPilot returns a pilot by id, nil when unknown
func (k *Keeper) GetPilot(ctx sdk.Context, id string) *types.Pilot {
	bz := k.GetStore(ctx).Get(types.PilotKey(id))
	if bz == nil {
		return nil
	}
	var pilot types.Pilot
	if err := json.Unmarshal(bz, &pilot); err != nil {
		return nil
	}
	return &pilot
}

// SetPilot saves a pilot
func (k *Keeper) SetPilot(ctx sdk.Context, pilot *types.Pilot) {
	bz, _ := json.Marshal(pilot)
	k.GetStore(ctx).Set(types.PilotKey(pilot.ID), bz)
}

// GetAllPilots returns every pilot
func (k *Keeper) GetAllPilots(ctx sdk.Context) []*types.Pilot {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PilotKeyPrefix)
	defer iterator.Close()

	var pilots []*types.Pilot
	for ; iterator.Valid(); iterator.Next() {
		var pilot types.Pilot
		if err := json.Unmarshal(iterator.Value(), &pilot); err != nil {
			continue
		}
		pilots = append(pilots, &pilot)
	}
	return pilots
}

func (k *Keeper) mustGetPilot(ctx sdk.Context, id string) (*types.Pilot, error) {
	pilot := k.GetPilot(ctx, id)
	if pilot == nil {
		return nil, errorsmod.Wrap(types.ErrPilotNotFound, id)
	}
	return pilot, nil
}

// InitPilot creates a pilot without an authority check. Used by genesis.
func (k *Keeper) InitPilot(ctx sdk.Context, id, owner string) (*types.Pilot, error) {
	if id == "" || owner == "" {
		return nil, types.ErrInvalidPilot
	}
	if k.GetPilot(ctx, id) != nil {
		return nil, errorsmod.Wrap(types.ErrPilotExists, id)
	}
	pilot := types.NewPilot(id, owner, ctx.BlockTime().Unix())
	k.SetPilot(ctx, pilot)
	return pilot, nil
}

// CreatePilot creates a pilot owned by owner; caller must be an admin
func (k *Keeper) CreatePilot(ctx context.Context, caller, id, owner string) (*types.Pilot, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return nil, err
	}
	pilot, err := k.InitPilot(sdkCtx, id, owner)
	if err != nil {
		return nil, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"pilot_created",
			sdk.NewAttribute("pilot", id),
			sdk.NewAttribute("owner", owner),
		),
	)
	k.logger.Info("pilot created", "pilot", id, "owner", owner)
	return pilot, nil
}

// requireOwner allows only the pilot owner
func (k *Keeper) requireOwner(pilot *types.Pilot, caller string) error {
	if caller != pilot.Owner {
		return errorsmod.Wrapf(accesstypes.ErrUnauthorized, "%s does not own pilot %s", caller, pilot.ID)
	}
	return nil
}

// requireOperator allows the pilot owner or the orchestrator
func (k *Keeper) requireOperator(ctx sdk.Context, pilot *types.Pilot, caller string) error {
	if caller == pilot.Owner || k.accessKeeper.HasRole(ctx, accesstypes.RoleOrchestrator, caller) {
		return nil
	}
	return errorsmod.Wrapf(accesstypes.ErrUnauthorized, "%s may not move funds of pilot %s", caller, pilot.ID)
}

// IdleBalance returns the funds a pilot holds outside any adapter
func (k *Keeper) IdleBalance(ctx sdk.Context, pilotID string) math.Int {
	return k.assetsKeeper.GetBalance(ctx, types.PilotAddress(pilotID))
}
