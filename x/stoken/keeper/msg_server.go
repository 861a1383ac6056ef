package keeper

import (
	"context"

	"github.com/openalpha/supercluster/x/stoken/types"
)

// MsgServer defines the stoken MsgServer. Mint, burn and rebase are driven
// by the orchestrator and have no user-facing messages.
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Transfer handles MsgTransfer
func (m *MsgServer) Transfer(ctx context.Context, msg *types.MsgTransfer) (*types.MsgTransferResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	value, _ := types.ParseValue(msg.Value)
	shares, err := m.keeper.Transfer(ctx, msg.From, msg.To, value)
	if err != nil {
		return nil, err
	}
	return &types.MsgTransferResponse{Shares: shares.String()}, nil
}

// Approve handles MsgApprove
func (m *MsgServer) Approve(ctx context.Context, msg *types.MsgApprove) (*types.MsgApproveResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	value, _ := types.ParseValue(msg.Value)
	if err := m.keeper.Approve(ctx, msg.Owner, msg.Spender, value); err != nil {
		return nil, err
	}
	return &types.MsgApproveResponse{}, nil
}

// TransferFrom handles MsgTransferFrom
func (m *MsgServer) TransferFrom(ctx context.Context, msg *types.MsgTransferFrom) (*types.MsgTransferResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	value, _ := types.ParseValue(msg.Value)
	shares, err := m.keeper.TransferFrom(ctx, msg.Spender, msg.From, msg.To, value)
	if err != nil {
		return nil, err
	}
	return &types.MsgTransferResponse{Shares: shares.String()}, nil
}
