package keeper

import (
	"context"

	"github.com/openalpha/supercluster/x/access/types"
)

// MsgServer defines the access MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// GrantRole handles MsgGrantRole
func (m *MsgServer) GrantRole(ctx context.Context, msg *types.MsgGrantRole) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.GrantRole(ctx, msg.Authority, types.Role(msg.Role), msg.Address); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// RevokeRole handles MsgRevokeRole
func (m *MsgServer) RevokeRole(ctx context.Context, msg *types.MsgRevokeRole) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.RevokeRole(ctx, msg.Authority, types.Role(msg.Role), msg.Address); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

// SetPaused handles MsgSetPaused
func (m *MsgServer) SetPaused(ctx context.Context, msg *types.MsgSetPaused) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.SetPaused(ctx, msg.Authority, msg.Module, msg.Paused); err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}
