package types

import (
	"cosmossdk.io/math"
)

const (
	// ModuleName defines the module name
	ModuleName = "stoken"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// LedgerState is the ledger header. Holder balances are derived from it:
// balanceOf(a) = shares[a] * TotalManagedValue / TotalShares, floored.
type LedgerState struct {
	TotalShares       math.Int `json:"total_shares"`
	TotalManagedValue math.Int `json:"total_managed_value"`
	LastRebaseAt      int64    `json:"last_rebase_at"`
	RebaseCount       uint64   `json:"rebase_count"`
}

// NewLedgerState returns an empty ledger
func NewLedgerState() LedgerState {
	return LedgerState{
		TotalShares:       math.ZeroInt(),
		TotalManagedValue: math.ZeroInt(),
	}
}

// Account is the share holding of one address
type Account struct {
	Address string   `json:"address"`
	Shares  math.Int `json:"shares"`
}

// Allowance is the value a spender may move on behalf of an owner
type Allowance struct {
	Owner   string   `json:"owner"`
	Spender string   `json:"spender"`
	Value   math.Int `json:"value"`
}

// RebaseRecord is one entry of the managed-value history
type RebaseRecord struct {
	Seq           uint64   `json:"seq"`
	Height        int64    `json:"height"`
	Timestamp     int64    `json:"timestamp"`
	PreviousValue math.Int `json:"previous_value"`
	NewValue      math.Int `json:"new_value"`
	TotalShares   math.Int `json:"total_shares"`
	UpdatedBy     string   `json:"updated_by"`
}
