package keeper

import (
	"context"

	"github.com/openalpha/supercluster/x/pilot/types"
)

// MsgServer defines the pilot MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// CreatePilot handles MsgCreatePilot
func (m *MsgServer) CreatePilot(ctx context.Context, msg *types.MsgCreatePilot) (*types.Pilot, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	return m.keeper.CreatePilot(ctx, msg.Authority, msg.PilotID, msg.Owner)
}

// SetAllocation handles MsgSetAllocation
func (m *MsgServer) SetAllocation(ctx context.Context, msg *types.MsgSetAllocation) (*types.MsgAmountResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.keeper.SetAllocation(ctx, msg.Owner, msg.PilotID, msg.Adapters, msg.Bps); err != nil {
		return nil, err
	}
	return &types.MsgAmountResponse{Amount: "0"}, nil
}

// Invest handles MsgInvest
func (m *MsgServer) Invest(ctx context.Context, msg *types.MsgInvest) (*types.MsgAmountResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, _ := types.ParseAmount(msg.Amount)
	invested, err := m.keeper.Invest(ctx, msg.Caller, msg.PilotID, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgAmountResponse{Amount: invested.String()}, nil
}

// Divest handles MsgDivest
func (m *MsgServer) Divest(ctx context.Context, msg *types.MsgDivest) (*types.MsgAmountResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, _ := types.ParseAmount(msg.Amount)
	delivered, err := m.keeper.DivestTo(ctx, msg.Caller, msg.PilotID, msg.Destination, amount)
	if err != nil {
		return nil, err
	}
	return &types.MsgAmountResponse{Amount: delivered.String()}, nil
}

// DrainAdapter handles MsgDrainAdapter
func (m *MsgServer) DrainAdapter(ctx context.Context, msg *types.MsgDrainAdapter) (*types.MsgAmountResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	drained, err := m.keeper.DrainAdapter(ctx, msg.Owner, msg.PilotID, msg.AdapterID)
	if err != nil {
		return nil, err
	}
	return &types.MsgAmountResponse{Amount: drained.String()}, nil
}
