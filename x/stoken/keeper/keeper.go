package keeper

import (
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/pkg/wideint"
	"github.com/openalpha/supercluster/x/stoken/types"
)

// Keeper manages the rebasing ledger state
type Keeper struct {
	storeKey     storetypes.StoreKey
	accessKeeper types.AccessKeeper
	logger       log.Logger
}

// NewKeeper creates a new stoken keeper
func NewKeeper(storeKey storetypes.StoreKey, accessKeeper types.AccessKeeper, logger log.Logger) *Keeper {
	return &Keeper{
		storeKey:     storeKey,
		accessKeeper: accessKeeper,
		logger:       logger.With("module", "x/stoken"),
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

// ============ Ledger header ============

// GetLedger returns the ledger header
func (k *Keeper) GetLedger(ctx sdk.Context) types.LedgerState {
	bz := k.GetStore(ctx).Get(types.LedgerKey)
	if bz == nil {
		return types.NewLedgerState()
	}
	var ledger types.LedgerState
	if err := json.Unmarshal(bz, &ledger); err != nil {
		return types.NewLedgerState()
	}
	return ledger
}

// SetLedger saves the ledger header
func (k *Keeper) SetLedger(ctx sdk.Context, ledger types.LedgerState) {
	bz, _ := json.Marshal(&ledger)
	k.GetStore(ctx).Set(types.LedgerKey, bz)
}

// TotalShares returns the sum of all holder shares
func (k *Keeper) TotalShares(ctx sdk.Context) math.Int {
	return k.GetLedger(ctx).TotalShares
}

// TotalManagedValue returns the value the ledger currently represents
func (k *Keeper) TotalManagedValue(ctx sdk.Context) math.Int {
	return k.GetLedger(ctx).TotalManagedValue
}

// ============ Shares ============

// SharesOf returns the shares held by addr
func (k *Keeper) SharesOf(ctx sdk.Context, addr string) math.Int {
	bz := k.GetStore(ctx).Get(types.SharesKey(addr))
	if bz == nil {
		return math.ZeroInt()
	}
	var acc types.Account
	if err := json.Unmarshal(bz, &acc); err != nil || acc.Shares.IsNil() {
		return math.ZeroInt()
	}
	return acc.Shares
}

func (k *Keeper) setShares(ctx sdk.Context, addr string, shares math.Int) {
	store := k.GetStore(ctx)
	if shares.IsZero() {
		store.Delete(types.SharesKey(addr))
		return
	}
	bz, _ := json.Marshal(&types.Account{Address: addr, Shares: shares})
	store.Set(types.SharesKey(addr), bz)
}

// GetAllAccounts returns every holder with non-zero shares
func (k *Keeper) GetAllAccounts(ctx sdk.Context) []types.Account {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.SharesKeyPrefix)
	defer iterator.Close()

	var accounts []types.Account
	for ; iterator.Valid(); iterator.Next() {
		var acc types.Account
		if err := json.Unmarshal(iterator.Value(), &acc); err != nil {
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts
}

// ============ Conversions ============

// BalanceOf returns the value attributable to addr, floored.
// It is zero whenever the ledger has no shares.
func (k *Keeper) BalanceOf(ctx sdk.Context, addr string) math.Int {
	value, err := k.ConvertToValue(ctx, k.SharesOf(ctx, addr))
	if err != nil {
		return math.ZeroInt()
	}
	return value
}

// ConvertToValue returns shares * TotalManagedValue / TotalShares, floored
func (k *Keeper) ConvertToValue(ctx sdk.Context, shares math.Int) (math.Int, error) {
	ledger := k.GetLedger(ctx)
	if ledger.TotalShares.IsZero() {
		return math.ZeroInt(), nil
	}
	return mulDiv(shares, ledger.TotalManagedValue, ledger.TotalShares)
}

// ConvertToShares returns the shares a mint of value would create now
func (k *Keeper) ConvertToShares(ctx sdk.Context, value math.Int) (math.Int, error) {
	ledger := k.GetLedger(ctx)
	if ledger.TotalShares.IsZero() {
		return value, nil
	}
	if ledger.TotalManagedValue.IsZero() {
		return math.ZeroInt(), errorsmod.Wrap(types.ErrInvalidState, "shares outstanding with zero managed value")
	}
	return mulDiv(value, ledger.TotalShares, ledger.TotalManagedValue)
}

func mulDiv(x, y, d math.Int) (math.Int, error) {
	z, err := wideint.MulDiv(x, y, d)
	switch {
	case err == nil:
		return z, nil
	case err == wideint.ErrDivisionByZero:
		return math.ZeroInt(), types.ErrDivisionByZero
	default:
		return math.ZeroInt(), errorsmod.Wrap(types.ErrArithmetic, err.Error())
	}
}
