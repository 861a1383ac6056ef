package keeper

import (
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/access/types"
)

// Keeper holds the capability table and the module pause switches
type Keeper struct {
	storeKey storetypes.StoreKey
	logger   log.Logger
}

// NewKeeper creates a new access keeper
func NewKeeper(storeKey storetypes.StoreKey, logger log.Logger) *Keeper {
	return &Keeper{
		storeKey: storeKey,
		logger:   logger.With("module", "x/access"),
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

// ============ Roles ============

// HasRole reports whether addr holds role
func (k *Keeper) HasRole(ctx sdk.Context, role types.Role, addr string) bool {
	if addr == "" {
		return false
	}
	return k.GetStore(ctx).Has(types.GrantKey(role, addr))
}

// RequireRole fails with ErrUnauthorized unless addr holds at least one of roles
func (k *Keeper) RequireRole(ctx sdk.Context, addr string, roles ...types.Role) error {
	for _, role := range roles {
		if k.HasRole(ctx, role, addr) {
			return nil
		}
	}
	return errorsmod.Wrapf(types.ErrUnauthorized, "%s lacks role %v", addr, roles)
}

// SetRole writes a grant without any caller check. Used by genesis.
func (k *Keeper) SetRole(ctx sdk.Context, role types.Role, addr, grantedBy string) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if addr == "" {
		return types.ErrInvalidAddress
	}
	grant := types.Grant{
		Role:      role,
		Address:   addr,
		GrantedBy: grantedBy,
		GrantedAt: ctx.BlockTime().Unix(),
	}
	bz, err := json.Marshal(&grant)
	if err != nil {
		return err
	}
	k.GetStore(ctx).Set(types.GrantKey(role, addr), bz)
	return nil
}

// GrantRole grants role to addr; caller must be an admin
func (k *Keeper) GrantRole(ctx context.Context, caller string, role types.Role, addr string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.RequireRole(sdkCtx, caller, types.RoleAdmin); err != nil {
		return err
	}
	if err := k.SetRole(sdkCtx, role, addr, caller); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"access_role_granted",
			sdk.NewAttribute("role", string(role)),
			sdk.NewAttribute("address", addr),
			sdk.NewAttribute("granted_by", caller),
		),
	)
	k.logger.Info("role granted", "role", role, "address", addr, "by", caller)
	return nil
}

// RevokeRole removes role from addr; caller must be an admin
func (k *Keeper) RevokeRole(ctx context.Context, caller string, role types.Role, addr string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.RequireRole(sdkCtx, caller, types.RoleAdmin); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}
	if !k.HasRole(sdkCtx, role, addr) {
		return nil
	}
	if role == types.RoleAdmin && len(k.Members(sdkCtx, types.RoleAdmin)) == 1 {
		return types.ErrLastAdmin
	}

	k.GetStore(sdkCtx).Delete(types.GrantKey(role, addr))

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"access_role_revoked",
			sdk.NewAttribute("role", string(role)),
			sdk.NewAttribute("address", addr),
			sdk.NewAttribute("revoked_by", caller),
		),
	)
	k.logger.Info("role revoked", "role", role, "address", addr, "by", caller)
	return nil
}

// Members returns every address holding role, in key order
func (k *Keeper) Members(ctx sdk.Context, role types.Role) []string {
	iterator := storetypes.KVStorePrefixIterator(k.GetStore(ctx), types.RolePrefix(role))
	defer iterator.Close()

	var members []string
	for ; iterator.Valid(); iterator.Next() {
		var grant types.Grant
		if err := json.Unmarshal(iterator.Value(), &grant); err != nil {
			continue
		}
		members = append(members, grant.Address)
	}
	return members
}

// RolesOf returns the roles held by addr
func (k *Keeper) RolesOf(ctx sdk.Context, addr string) []types.Role {
	var roles []types.Role
	for _, role := range types.AllRoles {
		if k.HasRole(ctx, role, addr) {
			roles = append(roles, role)
		}
	}
	return roles
}

// ============ Pause ============

// SetPaused toggles a module's pause switch; caller must be an admin
func (k *Keeper) SetPaused(ctx context.Context, caller, module string, paused bool) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := k.RequireRole(sdkCtx, caller, types.RoleAdmin); err != nil {
		return err
	}

	state := types.PauseState{
		Module:    module,
		Paused:    paused,
		UpdatedBy: caller,
		UpdatedAt: sdkCtx.BlockTime().Unix(),
	}
	bz, err := json.Marshal(&state)
	if err != nil {
		return err
	}
	k.GetStore(sdkCtx).Set(types.PauseKey(module), bz)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			"access_pause",
			sdk.NewAttribute("module", module),
			sdk.NewAttribute("paused", boolString(paused)),
		),
	)
	k.logger.Warn("module pause updated", "target", module, "paused", paused, "by", caller)
	return nil
}

// IsPaused reports whether module is paused
func (k *Keeper) IsPaused(ctx sdk.Context, module string) bool {
	bz := k.GetStore(ctx).Get(types.PauseKey(module))
	if bz == nil {
		return false
	}
	var state types.PauseState
	if err := json.Unmarshal(bz, &state); err != nil {
		return false
	}
	return state.Paused
}

// Guard fails with ErrModulePaused when module is paused
func (k *Keeper) Guard(ctx sdk.Context, module string) error {
	if k.IsPaused(ctx, module) {
		return errorsmod.Wrap(types.ErrModulePaused, module)
	}
	return nil
}

// ============ Genesis marker ============

// IsInitialized reports whether genesis has been applied to this store
func (k *Keeper) IsInitialized(ctx sdk.Context) bool {
	return k.GetStore(ctx).Has(types.InitializedKey)
}

// MarkInitialized records that genesis has been applied
func (k *Keeper) MarkInitialized(ctx sdk.Context) {
	k.GetStore(ctx).Set(types.InitializedKey, []byte{0x01})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
