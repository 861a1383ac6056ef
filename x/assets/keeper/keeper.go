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
	"github.com/openalpha/supercluster/x/assets/types"
)

// Keeper tracks base-asset balances. Moves between accounts are keeper
// calls; callers are trusted modules or a msg server that checked the signer.
type Keeper struct {
	storeKey     storetypes.StoreKey
	accessKeeper types.AccessKeeper
	denom        string
	logger       log.Logger
}

// NewKeeper creates a new assets keeper
func NewKeeper(storeKey storetypes.StoreKey, accessKeeper types.AccessKeeper, denom string, logger log.Logger) *Keeper {
	if denom == "" {
		denom = types.DefaultDenom
	}
	return &Keeper{
		storeKey:     storeKey,
		accessKeeper: accessKeeper,
		denom:        denom,
		logger:       logger.With("module", "x/assets"),
	}
}

// Denom returns the base asset denomination
func (k *Keeper) Denom() string {
	return k.denom
}

// GetStore returns the KVStore
func (k *Keeper) GetStore(ctx sdk.Context) storetypes.KVStore {
	return ctx.KVStore(k.storeKey)
}

// GetBalance returns the balance of addr, zero when unknown
func (k *Keeper) GetBalance(ctx sdk.Context, addr string) math.Int {
	bz := k.GetStore(ctx).Get(types.BalanceKey(addr))
	if bz == nil {
		return math.ZeroInt()
	}
	var bal types.Balance
	if err := json.Unmarshal(bz, &bal); err != nil || bal.Amount.IsNil() {
		return math.ZeroInt()
	}
	return bal.Amount
}

func (k *Keeper) setBalance(ctx sdk.Context, addr string, amount math.Int) {
	store := k.GetStore(ctx)
	if amount.IsZero() {
		store.Delete(types.BalanceKey(addr))
		return
	}
	bz, _ := json.Marshal(&types.Balance{Address: addr, Amount: amount})
	store.Set(types.BalanceKey(addr), bz)
}

// GetSupply returns the total base asset in existence
func (k *Keeper) GetSupply(ctx sdk.Context) math.Int {
	bz := k.GetStore(ctx).Get(types.SupplyKey)
	if bz == nil {
		return math.ZeroInt()
	}
	var supply math.Int
	if err := supply.UnmarshalJSON(bz); err != nil {
		return math.ZeroInt()
	}
	return supply
}

func (k *Keeper) setSupply(ctx sdk.Context, supply math.Int) {
	bz, _ := supply.MarshalJSON()
	k.GetStore(ctx).Set(types.SupplyKey, bz)
}

// Send moves amount from one address to another
func (k *Keeper) Send(ctx sdk.Context, from, to string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	if from == "" || to == "" {
		return types.ErrInvalidAddress
	}
	if amount.IsZero() || from == to {
		return nil
	}

	fromBal := k.GetBalance(ctx, from)
	if fromBal.LT(amount) {
		return errorsmod.Wrapf(types.ErrInsufficientFunds, "%s has %s, needs %s", from, fromBal, amount)
	}
	k.setBalance(ctx, from, fromBal.Sub(amount))
	k.setBalance(ctx, to, k.GetBalance(ctx, to).Add(amount))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"assets_transfer",
			sdk.NewAttribute("from", from),
			sdk.NewAttribute("to", to),
			sdk.NewAttribute("amount", amount.String()),
		),
	)
	return nil
}

// Fund credits newly created asset to addr without an authority check.
// Used by genesis.
func (k *Keeper) Fund(ctx sdk.Context, to string, amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	if to == "" {
		return types.ErrInvalidAddress
	}
	k.setBalance(ctx, to, k.GetBalance(ctx, to).Add(amount))
	k.setSupply(ctx, k.GetSupply(ctx).Add(amount))
	return nil
}

// Mint credits newly created asset to addr; caller must be an admin.
// It stands in for capital arriving from outside the system.
func (k *Keeper) Mint(ctx context.Context, caller, to string, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.accessKeeper.RequireRole(sdkCtx, caller, accesstypes.RoleAdmin); err != nil {
		return err
	}
	if err := k.Fund(sdkCtx, to, amount); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"assets_mint",
			sdk.NewAttribute("to", to),
			sdk.NewAttribute("amount", amount.String()),
		),
	)
	k.logger.Info("asset minted", "to", to, "amount", amount.String())
	return nil
}

// GetAllBalances returns every non-zero balance
func (k *Keeper) GetAllBalances(ctx sdk.Context) []types.Balance {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.BalanceKeyPrefix)
	defer iterator.Close()

	var balances []types.Balance
	for ; iterator.Valid(); iterator.Next() {
		var bal types.Balance
		if err := json.Unmarshal(iterator.Value(), &bal); err != nil {
			continue
		}
		balances = append(balances, bal)
	}
	return balances
}
