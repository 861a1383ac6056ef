package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/assets/types"
)

// MsgServer defines the assets MsgServer
type MsgServer struct {
	keeper *Keeper
}

// NewMsgServerImpl creates a new MsgServer instance
func NewMsgServerImpl(keeper *Keeper) *MsgServer {
	return &MsgServer{keeper: keeper}
}

// Send handles MsgSend; the signer is msg.From
func (m *MsgServer) Send(ctx context.Context, msg *types.MsgSend) (*types.MsgSendResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, _ := types.ParseAmount(msg.Amount)
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := m.keeper.Send(sdkCtx, msg.From, msg.To, amount); err != nil {
		return nil, err
	}
	return &types.MsgSendResponse{Balance: m.keeper.GetBalance(sdkCtx, msg.From).String()}, nil
}

// Mint handles MsgMint
func (m *MsgServer) Mint(ctx context.Context, msg *types.MsgMint) (*types.MsgSendResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amount, _ := types.ParseAmount(msg.Amount)
	if err := m.keeper.Mint(ctx, msg.Authority, msg.To, amount); err != nil {
		return nil, err
	}
	return &types.MsgSendResponse{Balance: m.keeper.GetBalance(sdk.UnwrapSDKContext(ctx), msg.To).String()}, nil
}
