package keeper

import (
	"context"

	"github.com/openalpha/supercluster/x/supercluster/types"
)

// MsgServer defines the supercluster MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Deposit handles MsgDeposit
func (m *MsgServer) Deposit(ctx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, _ := types.ParseAmount(msg.Amount)
	shares, err := m.keeper.Deposit(ctx, msg.Depositor, amount, msg.PilotID)
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{Shares: shares.String()}, nil
}

// Withdraw handles MsgWithdraw
func (m *MsgServer) Withdraw(ctx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	value, _ := types.ParseAmount(msg.Value)
	req, delivered, err := m.keeper.Withdraw(ctx, msg.Owner, value)
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{
		RequestID:   req.ID,
		Delivered:   delivered.String(),
		AvailableAt: req.AvailableAt,
	}, nil
}

// Rebase handles MsgRebase
func (m *MsgServer) Rebase(ctx context.Context, msg *types.MsgRebase) (*types.MsgValueResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	value, err := m.keeper.Rebase(ctx, msg.Controller)
	if err != nil {
		return nil, err
	}
	return &types.MsgValueResponse{Value: value.String()}, nil
}

// UpdateManagedValue handles MsgUpdateManagedValue
func (m *MsgServer) UpdateManagedValue(ctx context.Context, msg *types.MsgUpdateManagedValue) (*types.MsgValueResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	value, _ := types.ParseAmount(msg.Value)
	if err := m.keeper.UpdateManagedValue(ctx, msg.Controller, value); err != nil {
		return nil, err
	}
	return &types.MsgValueResponse{Value: value.String()}, nil
}

// RegisterPilot handles MsgRegisterPilot
func (m *MsgServer) RegisterPilot(ctx context.Context, msg *types.MsgRegisterPilot) (*types.MsgValueResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.RegisterPilot(ctx, msg.Authority, msg.PilotID); err != nil {
		return nil, err
	}
	return &types.MsgValueResponse{Value: msg.PilotID}, nil
}

// DeregisterPilot handles MsgDeregisterPilot
func (m *MsgServer) DeregisterPilot(ctx context.Context, msg *types.MsgDeregisterPilot) (*types.MsgValueResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.DeregisterPilot(ctx, msg.Authority, msg.PilotID); err != nil {
		return nil, err
	}
	return &types.MsgValueResponse{Value: msg.PilotID}, nil
}

// UpdateParams handles MsgUpdateParams
func (m *MsgServer) UpdateParams(ctx context.Context, msg *types.MsgUpdateParams) (*types.MsgValueResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.UpdateParams(ctx, msg.Authority, msg.Params); err != nil {
		return nil, err
	}
	return &types.MsgValueResponse{Value: "ok"}, nil
}
