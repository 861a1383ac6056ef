package app

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/config"
	accesskeeper "github.com/openalpha/supercluster/x/access/keeper"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	adaptertypes "github.com/openalpha/supercluster/x/adapter/types"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
)

// genesisGrantor is recorded as the grantor of roles written at genesis
const genesisGrantor = "genesis"

// HoldingRoles are the roles the orchestrator's holding account acts under
var HoldingRoles = []accesstypes.Role{
	accesstypes.RoleMinter,
	accesstypes.RoleController,
	accesstypes.RoleOrchestrator,
}

// GrantHoldingRoles gives the orchestrator's holding account its roles
func GrantHoldingRoles(ctx sdk.Context, ak *accesskeeper.Keeper) error {
	for _, role := range HoldingRoles {
		if err := ak.SetRole(ctx, role, superclustertypes.HoldingAddress, genesisGrantor); err != nil {
			return err
		}
	}
	return nil
}

// InitGenesis writes the configured initial state. It fails if any entry is
// rejected by its keeper, leaving the store empty.
func (a *App) InitGenesis(ctx sdk.Context, g config.GenesisConfig) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := GrantHoldingRoles(ctx, a.Access); err != nil {
		return err
	}
	for _, r := range g.Roles {
		if err := a.Access.SetRole(ctx, accesstypes.Role(r.Role), r.Address, genesisGrantor); err != nil {
			return fmt.Errorf("role %s for %s: %w", r.Role, r.Address, err)
		}
	}
	for _, b := range g.Balances {
		amount, _ := math.NewIntFromString(b.Amount)
		if err := a.Assets.Fund(ctx, b.Address, amount); err != nil {
			return fmt.Errorf("balance for %s: %w", b.Address, err)
		}
	}
	for _, id := range g.YieldSources {
		if _, err := a.YieldSource.InitSource(ctx, id); err != nil {
			return fmt.Errorf("yield source %s: %w", id, err)
		}
	}
	for _, ad := range g.Adapters {
		if _, err := a.Adapter.InitAdapter(ctx, ad.ID, adaptertypes.Kind(ad.Kind), ad.Source, ad.Pilot); err != nil {
			return fmt.Errorf("adapter %s: %w", ad.ID, err)
		}
	}
	for _, p := range g.Pilots {
		if _, err := a.Pilot.InitPilot(ctx, p.ID, p.Owner); err != nil {
			return fmt.Errorf("pilot %s: %w", p.ID, err)
		}
		if len(p.Adapters) > 0 {
			if err := a.Pilot.SetAllocation(ctx, p.Owner, p.ID, p.Adapters, p.Bps); err != nil {
				return fmt.Errorf("pilot %s allocation: %w", p.ID, err)
			}
		}
		if p.Registered {
			if err := a.Supercluster.SetRegistered(ctx, p.ID); err != nil {
				return fmt.Errorf("register pilot %s: %w", p.ID, err)
			}
		}
	}

	params := superclustertypes.Params{
		MaxRebaseDeviationBps: g.MaxRebaseDeviationBps,
		DefaultPilot:          g.DefaultPilot,
		MaxDivestPasses:       g.MaxDivestPasses,
	}
	if err := a.Supercluster.SetParams(ctx, params); err != nil {
		return err
	}
	queueParams := withdrawtypes.Params{WithdrawDelay: int64(g.WithdrawDelay / time.Second)}
	if err := a.Withdraw.SetParams(ctx, queueParams); err != nil {
		return err
	}

	a.Access.MarkInitialized(ctx)
	a.logger.Info("genesis applied",
		"denom", g.Denom,
		"roles", len(g.Roles),
		"pilots", len(g.Pilots),
		"adapters", len(g.Adapters),
	)
	return nil
}
