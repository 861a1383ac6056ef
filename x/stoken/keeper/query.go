package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/x/stoken/types"
)

// QueryServer defines the stoken QueryServer
type QueryServer struct {
	keeper *Keeper
}

// NewQueryServerImpl creates a new QueryServer instance
func NewQueryServerImpl(keeper *Keeper) *QueryServer {
	return &QueryServer{keeper: keeper}
}

// AccountResponse is the ledger view of one holder
type AccountResponse struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Shares  string `json:"shares"`
}

// LedgerResponse is the ledger header with the derived share price
type LedgerResponse struct {
	TotalShares       string `json:"total_shares"`
	TotalManagedValue string `json:"total_managed_value"`
	LastRebaseAt      int64  `json:"last_rebase_at"`
	RebaseCount       uint64 `json:"rebase_count"`
}

// Account returns the balance and shares of addr
func (q *QueryServer) Account(ctx context.Context, addr string) (*AccountResponse, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return &AccountResponse{
		Address: addr,
		Balance: q.keeper.BalanceOf(sdkCtx, addr).String(),
		Shares:  q.keeper.SharesOf(sdkCtx, addr).String(),
	}, nil
}

// Ledger returns the ledger header
func (q *QueryServer) Ledger(ctx context.Context) (*LedgerResponse, error) {
	ledger := q.keeper.GetLedger(sdk.UnwrapSDKContext(ctx))
	return &LedgerResponse{
		TotalShares:       ledger.TotalShares.String(),
		TotalManagedValue: ledger.TotalManagedValue.String(),
		LastRebaseAt:      ledger.LastRebaseAt,
		RebaseCount:       ledger.RebaseCount,
	}, nil
}

// Allowance returns the remaining allowance of spender over owner
func (q *QueryServer) Allowance(ctx context.Context, owner, spender string) (string, error) {
	return q.keeper.Allowance(sdk.UnwrapSDKContext(ctx), owner, spender).String(), nil
}

// RebaseHistory returns the newest rebase records
func (q *QueryServer) RebaseHistory(ctx context.Context, limit int) ([]types.RebaseRecord, error) {
	return q.keeper.GetRebaseHistory(sdk.UnwrapSDKContext(ctx), limit), nil
}
