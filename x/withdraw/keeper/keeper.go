package keeper

import (
	"encoding/json"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/withdraw/types"
)

// Keeper manages the withdrawal queue
type Keeper struct {
	storeKey     storetypes.StoreKey
	assetsKeeper types.AssetsKeeper
	ledgerKeeper types.LedgerKeeper
	accessKeeper types.AccessKeeper
	hooks        types.WithdrawHooks
	logger       log.Logger
}

// NewKeeper creates a new withdraw keeper
func NewKeeper(
	storeKey storetypes.StoreKey,
	assetsKeeper types.AssetsKeeper,
	ledgerKeeper types.LedgerKeeper,
	accessKeeper types.AccessKeeper,
	logger log.Logger,
) *Keeper {
	return &Keeper{
		storeKey:     storeKey,
		assetsKeeper: assetsKeeper,
		ledgerKeeper: ledgerKeeper,
		accessKeeper: accessKeeper,
		logger:       logger.With("module", "x/withdraw"),
	}
}

// SetHooks sets the queue hooks. It may be called once.
func (k *Keeper) SetHooks(hooks types.WithdrawHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set withdraw hooks twice")
	}
	k.hooks = hooks
	return k
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

// GetParams returns the queue parameters
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

// SetParams saves the queue parameters
func (k *Keeper) SetParams(ctx sdk.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	bz, _ := json.Marshal(&params)
	k.GetStore(ctx).Set(types.ParamsKey, bz)
	return nil
}

// ============ Handles ============

// NextID returns the handle the next request will receive. Handles start at
// 1, strictly increase and are never reused, even after cancellation.
func (k *Keeper) NextID(ctx sdk.Context) uint64 {
	bz := k.GetStore(ctx).Get(types.NextIDKey)
	if bz == nil {
		return 1
	}
	return sdk.BigEndianToUint64(bz)
}

func (k *Keeper) allocateID(ctx sdk.Context) uint64 {
	id := k.NextID(ctx)
	k.GetStore(ctx).Set(types.NextIDKey, sdk.Uint64ToBigEndian(id+1))
	return id
}

// ============ Requests ============

// GetRequest returns a request by handle, nil when unknown or cancelled
func (k *Keeper) GetRequest(ctx sdk.Context, id uint64) *types.Request {
	bz := k.GetStore(ctx).Get(types.RequestKey(id))
	if bz == nil {
		return nil
	}
	var req types.Request
	if err := json.Unmarshal(bz, &req); err != nil {
		return nil
	}
	return &req
}

// SetRequest saves a request and keeps the pending index in step
func (k *Keeper) SetRequest(ctx sdk.Context, req *types.Request) {
	store := k.GetStore(ctx)
	bz, _ := json.Marshal(req)
	store.Set(types.RequestKey(req.ID), bz)
	store.Set(types.UserIndexKey(req.Requester, req.ID), []byte{})
	if req.Finalized {
		store.Delete(types.PendingIndexKey(req.ID))
	} else {
		store.Set(types.PendingIndexKey(req.ID), []byte{})
	}
}

func (k *Keeper) deleteRequest(ctx sdk.Context, req *types.Request) {
	store := k.GetStore(ctx)
	store.Delete(types.RequestKey(req.ID))
	store.Delete(types.UserIndexKey(req.Requester, req.ID))
	store.Delete(types.PendingIndexKey(req.ID))
}

// GetUserRequests returns a requester's live requests in handle order
func (k *Keeper) GetUserRequests(ctx sdk.Context, user string) []*types.Request {
	prefix := types.UserPrefix(user)
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), prefix)
	defer iterator.Close()

	var requests []*types.Request
	for ; iterator.Valid(); iterator.Next() {
		id := sdk.BigEndianToUint64(iterator.Key()[len(prefix):])
		if req := k.GetRequest(ctx, id); req != nil {
			requests = append(requests, req)
		}
	}
	return requests
}

// GetPendingRequests returns every pending request in handle order
func (k *Keeper) GetPendingRequests(ctx sdk.Context) []*types.Request {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.PendingIndexPrefix)
	defer iterator.Close()

	var requests []*types.Request
	for ; iterator.Valid(); iterator.Next() {
		id := sdk.BigEndianToUint64(iterator.Key()[len(types.PendingIndexPrefix):])
		if req := k.GetRequest(ctx, id); req != nil {
			requests = append(requests, req)
		}
	}
	return requests
}

// ============ Funds ============

// GetReserved returns settlement value finalized but not yet claimed
func (k *Keeper) GetReserved(ctx sdk.Context) math.Int {
	bz := k.GetStore(ctx).Get(types.ReservedKey)
	if bz == nil {
		return math.ZeroInt()
	}
	var reserved math.Int
	if err := reserved.UnmarshalJSON(bz); err != nil {
		return math.ZeroInt()
	}
	return reserved
}

func (k *Keeper) setReserved(ctx sdk.Context, reserved math.Int) {
	bz, _ := reserved.MarshalJSON()
	k.GetStore(ctx).Set(types.ReservedKey, bz)
}

// QueueBalance returns the base asset the queue holds
func (k *Keeper) QueueBalance(ctx sdk.Context) math.Int {
	return k.assetsKeeper.GetBalance(ctx, types.QueueAddress)
}

// FreeFunds returns queue holdings not reserved for finalized requests
func (k *Keeper) FreeFunds(ctx sdk.Context) math.Int {
	free := k.QueueBalance(ctx).Sub(k.GetReserved(ctx))
	if free.IsNegative() {
		return math.ZeroInt()
	}
	return free
}

// ReleaseFunds moves free queue funds to recipient. Used by the
// orchestrator hook when a burned request is cancelled.
func (k *Keeper) ReleaseFunds(ctx sdk.Context, recipient string, amount math.Int) error {
	free := k.FreeFunds(ctx)
	if amount.GT(free) {
		return types.ErrInsufficientFunds.Wrapf("free %s, release %s", free, amount)
	}
	return k.assetsKeeper.Send(ctx, types.QueueAddress, recipient, amount)
}
