package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/supercluster/types"
)

// QueryServer defines the supercluster QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// Vault returns the aggregate vault state
func (q *QueryServer) Vault(ctx context.Context) (*types.VaultState, error) {
	return q.keeper.GetVaultState(sdk.UnwrapSDKContext(ctx))
}

// Params returns the orchestrator parameters
func (q *QueryServer) Params(ctx context.Context) (types.Params, error) {
	return q.keeper.GetParams(sdk.UnwrapSDKContext(ctx)), nil
}

// RegisteredPilots returns registered pilot ids
func (q *QueryServer) RegisteredPilots(ctx context.Context) ([]string, error) {
	return q.keeper.GetRegisteredPilots(sdk.UnwrapSDKContext(ctx)), nil
}
