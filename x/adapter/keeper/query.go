package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/adapter/types"
)

// QueryServer defines the adapter QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// AdapterResponse is adapter state with its live balance
type AdapterResponse struct {
	*types.AdapterInfo
	Balance string `json:"balance"`
}

// Adapter returns one adapter
func (q *QueryServer) Adapter(ctx context.Context, id string) (*AdapterResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	info := q.keeper.GetAdapterInfo(sdkCtx, id)
	if info == nil {
		return nil, errorsmod.Wrap(types.ErrAdapterNotFound, id)
	}
	return &AdapterResponse{AdapterInfo: info, Balance: q.keeper.balanceOf(sdkCtx, info).String()}, nil
}

// Adapters returns every adapter
func (q *QueryServer) Adapters(ctx context.Context) ([]*AdapterResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	var out []*AdapterResponse
	for _, info := range q.keeper.GetAllAdapters(sdkCtx) {
		out = append(out, &AdapterResponse{AdapterInfo: info, Balance: q.keeper.balanceOf(sdkCtx, info).String()})
	}
	return out, nil
}
