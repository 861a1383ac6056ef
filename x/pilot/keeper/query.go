package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/pilot/types"
)

// QueryServer defines the pilot QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// PilotResponse is a pilot with its live holdings
type PilotResponse struct {
	*types.Pilot
	Idle       string                 `json:"idle"`
	TotalValue string                 `json:"total_value"`
	Adapters   []types.AdapterBalance `json:"adapters"`
}

// Pilot returns one pilot with its holdings
func (q *QueryServer) Pilot(ctx context.Context, id string) (*PilotResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pilot, err := q.keeper.mustGetPilot(sdkCtx, id)
	if err != nil {
		return nil, err
	}
	total, err := q.keeper.GetTotalValue(sdkCtx, id)
	if err != nil {
		return nil, err
	}
	balances, err := q.keeper.AdapterBalances(sdkCtx, id)
	if err != nil {
		return nil, err
	}
	return &PilotResponse{
		Pilot:      pilot,
		Idle:       q.keeper.IdleBalance(sdkCtx, id).String(),
		TotalValue: total.String(),
		Adapters:   balances,
	}, nil
}

// Pilots returns every pilot
func (q *QueryServer) Pilots(ctx context.Context) ([]*types.Pilot, error) {
	return q.keeper.GetAllPilots(sdk.UnwrapSDKContext(ctx)), nil
}
