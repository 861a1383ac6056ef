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
	"github.com/openalpha/supercluster/x/adapter/types"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
)

var _ pilottypes.AdapterRegistry = (*Keeper)(nil)

// Keeper stores adapter state and resolves adapter ids to implementations
type Keeper struct {
	storeKey          storetypes.StoreKey
	assetsKeeper      types.AssetsKeeper
	yieldSourceKeeper types.YieldSourceKeeper
	accessKeeper      types.AccessKeeper
	logger            log.Logger
}

// NewKeeper creates a new adapter keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	assetsKeeper types.AssetsKeeper,
	yieldSourceKeeper types.YieldSourceKeeper,
	accessKeeper types.AccessKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:          storeKey,
		assetsKeeper:      assetsKeeper,
		yieldSourceKeeper: yieldSourceKeeper,
		accessKeeper:      accessKeeper,
		logger:            logger.With("module", "x/adapter"),
	}
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// GetAdapterInfo returns adapter state, nil when unknown
func (k *Keeper) GetAdapterInfo(ctx sdk.Context, id string) *types.AdapterInfo {
	bz := k.GetStore(ctx).Get(types.AdapterKey(id))
	if bz == nil {
		return nil
	}
	var info types.AdapterInfo
	if err := json.Unmarshal(bz, &info); err != nil {
		return nil
	}
	return &info
}

// SetAdapterInfo saves adapter state
func (k *Keeper) SetAdapterInfo(ctx sdk.Context, info *types.AdapterInfo) {
	bz, _ := json.Marshal(info)
	k.GetStore(ctx).Set(types.AdapterKey(info.ID), bz)
}

// GetAllAdapters returns every adapter
func (k *Keeper) GetAllAdapters(ctx sdk.Context) []*types.AdapterInfo {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.AdapterKeyPrefix)
	defer iterator.Close()

	var adapters []*types.AdapterInfo
	for ; iterator.Valid(); iterator.Next() {
		var info types.AdapterInfo
		if err := json.Unmarshal(iterator.Value(), &info); err != nil {
			continue
		}
		adapters = append(adapters, &info)
	}
	return adapters
}

// InitAdapter registers an adapter without an authority check. Used by genesis.
func (k *Keeper) InitAdapter(ctx sdk.Context, id string, kind types.Kind, sourceID, pilotID string) (*types.AdapterInfo, error) {
	if id == "" {
		return nil, errorsmod.Wrap(types.ErrAdapterNotFound, "empty id")
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if k.GetAdapterInfo(ctx, id) != nil {
		return nil, errorsmod.Wrap(types.ErrAdapterExists, id)
	}
	if kind == types.KindVault && !k.yieldSourceKeeper.HasSource(ctx, sourceID) {
		return nil, errorsmod.Wrapf(types.ErrInvalidSource, "unknown source %q", sourceID)
	}
	if kind == types.KindReserve {
		sourceID = ""
	}

	info := &types.AdapterInfo{
		ID:             id,
		Kind:           kind,
		SourceID:       sourceID,
		Pilot:          pilotID,
		Address:        types.AdapterAddress(id),
		TotalDeposited: math.ZeroInt(),
		CreatedAt:      ctx.BlockTime().Unix(),
	}
	k.SetAdapterInfo(ctx, info)
	return info, nil
}

// RegisterAdapter registers an adapter; caller must be an admin
func (k *Keeper) RegisterAdapter(ctx context.Context, caller, id string, kind types.Kind, sourceID, pilotID string) (*types.AdapterInfo, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return nil, err
	}
	info, err := k.InitAdapter(sdkCtx, id, kind, sourceID, pilotID)
	if err != nil {
		return nil, err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"adapter_registered",
			sdk.NewAttribute("adapter", id),
			sdk.NewAttribute("kind", string(kind)),
			sdk.NewAttribute("pilot", pilotID),
		),
	)
	k.logger.Info("adapter registered", "adapter", id, "kind", kind, "pilot", pilotID)
	return info, nil
}

// BindPilot moves an empty adapter to another pilot; caller must be an admin
func (k *Keeper) BindPilot(ctx context.Context, caller, id, pilotID string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	info := k.GetAdapterInfo(sdkCtx, id)
	if info == nil {
		return errorsmod.Wrap(types.ErrAdapterNotFound, id)
	}
	if balance := k.balanceOf(sdkCtx, info); balance.IsPositive() {
		return errorsmod.Wrapf(types.ErrAdapterNotEmpty, "%s holds %s", id, balance)
	}
	info.Pilot = pilotID
	k.SetAdapterInfo(sdkCtx, info)
	k.logger.Info("adapter rebound", "adapter", id, "pilot", pilotID)
	return nil
}

// GetAdapter resolves id to its implementation
func (k *Keeper) GetAdapter(ctx sdk.Context, id string) (pilottypes.Adapter, error) {
	info := k.GetAdapterInfo(ctx, id)
	if info == nil {
		return nil, errorsmod.Wrap(types.ErrAdapterNotFound, id)
	}
	switch info.Kind {
	case types.KindVault:
		return &vaultAdapter{base{keeper: k, id: id}}, nil
	case types.KindReserve:
		return &reserveAdapter{base{keeper: k, id: id}}, nil
	default:
		return nil, errorsmod.Wrap(types.ErrInvalidKind, string(info.Kind))
	}
}

// balanceOf returns the current value of an adapter's holdings
func (k *Keeper) balanceOf(ctx sdk.Context, info *types.AdapterInfo) math.Int {
	if info.Kind == types.KindVault {
		return k.yieldSourceKeeper.BalanceOf(ctx, info.SourceID, info.Address)
	}
	return k.assetsKeeper.GetBalance(ctx, info.Address)
}
