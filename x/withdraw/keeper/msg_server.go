package keeper

import (
	"context"

	"github.com/openalpha/supercluster/x/withdraw/types"
)

// MsgServer defines the withdraw MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

func respond(req *types.Request) *types.MsgRequestResponse {
	return &types.MsgRequestResponse{Request: req, Status: req.Status()}
}

// RequestWithdraw handles MsgRequestWithdraw
func (m *MsgServer) RequestWithdraw(ctx context.Context, msg *types.MsgRequestWithdraw) (*types.MsgRequestResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	value, _ := types.ParseAmount(msg.Value)
	req, err := m.keeper.RequestWithdraw(ctx, msg.Requester, value)
	if err != nil {
		return nil, err
	}
	return respond(req), nil
}

// FinalizeWithdraw handles MsgFinalizeWithdraw
func (m *MsgServer) FinalizeWithdraw(ctx context.Context, msg *types.MsgFinalizeWithdraw) (*types.MsgRequestResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	settlement, _ := types.ParseAmount(msg.Settlement)
	req, err := m.keeper.FinalizeWithdraw(ctx, msg.Operator, msg.RequestID, settlement)
	if err != nil {
		return nil, err
	}
	return respond(req), nil
}

// Claim handles MsgClaim
func (m *MsgServer) Claim(ctx context.Context, msg *types.MsgClaim) (*types.MsgRequestResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	req, err := m.keeper.Claim(ctx, msg.Caller, msg.RequestID)
	if err != nil {
		return nil, err
	}
	return respond(req), nil
}

// CancelRequest handles MsgCancelRequest
func (m *MsgServer) CancelRequest(ctx context.Context, msg *types.MsgCancelRequest) (*types.MsgRequestResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.CancelRequest(ctx, msg.Operator, msg.RequestID); err != nil {
		return nil, err
	}
	return &types.MsgRequestResponse{Status: "cancelled"}, nil
}

// FundQueue handles MsgFundQueue
func (m *MsgServer) FundQueue(ctx context.Context, msg *types.MsgFundQueue) (*types.MsgRequestResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, _ := types.ParseAmount(msg.Amount)
	if err := m.keeper.FundQueue(ctx, msg.Funder, amount); err != nil {
		return nil, err
	}
	return &types.MsgRequestResponse{Status: "funded"}, nil
}
