package keeper

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/pkg/wideint"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	"github.com/openalpha/supercluster/x/yieldsource/types"
)

// Keeper runs the external yield sources adapters deposit into.
// The router never sees inside them; it only reads balances.
type Keeper struct {
	storeKey     storetypes.StoreKey
	assetsKeeper types.AssetsKeeper
	accessKeeper types.AccessKeeper
	logger       log.Logger
}

// NewKeeper creates a new yieldsource keeper
func NewKeeper(storeKey storetypes.StoreKey, assetsKeeper types.AssetsKeeper, accessKeeper types.AccessKeeper, logger log.Logger) *Keeper {
	return &Keeper{
		storeKey:     storeKey,
		assetsKeeper: assetsKeeper,
		accessKeeper: accessKeeper,
		logger:       logger.With("module", "x/yieldsource"),
	}
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// GetSource returns a source by id, nil when unknown
func (k *Keeper) GetSource(ctx sdk.Context, id string) *types.Source {
	bz := k.GetStore(ctx).Get(types.SourceKey(id))
	if bz == nil {
		return nil
	}
	var src types.Source
	if err := json.Unmarshal(bz, &src); err != nil {
		return nil
	}
	return &src
}

// HasSource reports whether a source exists
func (k *Keeper) HasSource(ctx sdk.Context, id string) bool {
	return k.GetStore(ctx).Has(types.SourceKey(id))
}

// SetSource saves a source
func (k *Keeper) SetSource(ctx sdk.Context, src *types.Source) {
	bz, _ := json.Marshal(src)
	k.GetStore(ctx).Set(types.SourceKey(src.ID), bz)
}

// GetAllSources returns every source
func (k *Keeper) GetAllSources(ctx sdk.Context) []*types.Source {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.SourceKeyPrefix)
	defer iterator.Close()

	var sources []*types.Source
	for ; iterator.Valid(); iterator.Next() {
		var src types.Source
		if err := json.Unmarshal(iterator.Value(), &src); err != nil {
			continue
		}
		sources = append(sources, &src)
	}
	return sources
}

// InitSource registers a source without an authority check. Used by genesis.
func (k *Keeper) InitSource(ctx sdk.Context, id string) (*types.Source, error) {
	if id == "" {
		return nil, types.ErrInvalidSource
	}
	if k.GetSource(ctx, id) != nil {
		return nil, errorsmod.Wrap(types.ErrSourceExists, id)
	}
	src := &types.Source{
		ID:          id,
		Address:     types.SourceAddress(id),
		TotalShares: math.ZeroInt(),
		CreatedAt:   ctx.BlockTime().Unix(),
	}
	k.SetSource(ctx, src)
	return src, nil
}

// CreateSource registers a new source; caller must be an admin
func (k *Keeper) CreateSource(ctx context.Context, caller, id string) (*types.Source, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return nil, err
	}
	src, err := k.InitSource(sdkCtx, id)
	if err != nil {
		return nil, err
	}
	k.logger.Info("yield source created", "source", id)
	return src, nil
}

// TotalAssets returns the assets a source holds
func (k *Keeper) TotalAssets(ctx sdk.Context, src *types.Source) math.Int {
	return k.assetsKeeper.GetBalance(ctx, src.Address)
}

// ============ Positions ============

// SharesOf returns owner's shares in a source
func (k *Keeper) SharesOf(ctx sdk.Context, sourceID, owner string) math.Int {
	bz := k.GetStore(ctx).Get(types.PositionKey(sourceID, owner))
	if bz == nil {
		return math.ZeroInt()
	}
	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil || pos.Shares.IsNil() {
		return math.ZeroInt()
	}
	return pos.Shares
}

func (k *Keeper) setShares(ctx sdk.Context, sourceID, owner string, shares math.Int) {
	store := k.GetStore(ctx)
	if shares.IsZero() {
		store.Delete(types.PositionKey(sourceID, owner))
		return
	}
	bz, _ := json.Marshal(&types.Position{SourceID: sourceID, Owner: owner, Shares: shares})
	store.Set(types.PositionKey(sourceID, owner), bz)
}

// BalanceOf returns the asset value of owner's position, floored
func (k *Keeper) BalanceOf(ctx sdk.Context, sourceID, owner string) math.Int {
	src := k.GetSource(ctx, sourceID)
	if src == nil || src.TotalShares.IsZero() {
		return math.ZeroInt()
	}
	value, err := wideint.MulDiv(k.SharesOf(ctx, sourceID, owner), k.TotalAssets(ctx, src), src.TotalShares)
	if err != nil {
		return math.ZeroInt()
	}
	return value
}

// GetPositions returns every position in a source
func (k *Keeper) GetPositions(ctx sdk.Context, sourceID string) []types.Position {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PositionPrefix(sourceID))
	defer iterator.Close()

	var positions []types.Position
	for ; iterator.Valid(); iterator.Next() {
		var pos types.Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			continue
		}
		positions = append(positions, pos)
	}
	return positions
}
