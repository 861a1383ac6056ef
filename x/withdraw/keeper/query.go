package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/withdraw/types"
)

// QueryServer defines the withdraw QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// RequestResponse is a request with its derived status
type RequestResponse struct {
	*types.Request
	Status types.RequestStatus `json:"status"`
}

// QueueResponse summarizes the queue's funds
type QueueResponse struct {
	Balance  string       `json:"balance"`
	Reserved string       `json:"reserved"`
	Free     string       `json:"free"`
	Pending  int          `json:"pending"`
	NextID   uint64       `json:"next_id"`
	Params   types.Params `json:"params"`
}

func wrap(reqs []*types.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequestResponse{Request: r, Status: r.Status()})
	}
	return out
}

// Request returns one request
func (q *QueryServer) Request(ctx context.Context, id uint64) (*RequestResponse, error) {
	req := q.keeper.GetRequest(sdk.UnwrapSDKContext(ctx), id)
	if req == nil {
		return nil, errorsmod.Wrapf(types.ErrInvalidRequest, "id %d", id)
	}
	return &RequestResponse{Request: req, Status: req.Status()}, nil
}

// UserRequests returns a requester's live requests
func (q *QueryServer) UserRequests(ctx context.Context, user string) ([]RequestResponse, error) {
	return wrap(q.keeper.GetUserRequests(sdk.UnwrapSDKContext(ctx), user)), nil
}

// PendingRequests returns every pending request
func (q *QueryServer) PendingRequests(ctx context.Context) ([]RequestResponse, error) {
	return wrap(q.keeper.GetPendingRequests(sdk.UnwrapSDKContext(ctx))), nil
}

// Queue returns the queue's funds and counters
func (q *QueryServer) Queue(ctx context.Context) (*QueueResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return &QueueResponse{
		Balance:  q.keeper.QueueBalance(sdkCtx).String(),
		Reserved: q.keeper.GetReserved(sdkCtx).String(),
		Free:     q.keeper.FreeFunds(sdkCtx).String(),
		Pending:  len(q.keeper.GetPendingRequests(sdkCtx)),
		NextID:   q.keeper.NextID(sdkCtx),
		Params:   q.keeper.GetParams(sdkCtx),
	}, nil
}
