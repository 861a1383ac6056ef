package types

import (
	"time"

	"cosmossdk.io/math"
)

const (
	// ModuleName defines the module name
	ModuleName = "withdraw"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// DefaultWithdrawDelay is the wait between finalization and claim
	DefaultWithdrawDelay = 24 * time.Hour
)

// QueueAddress holds settlement funds and custodial claims.
var QueueAddress = ModuleName + "/queue"

// RequestKind tells how the requester's ledger claim was removed
type RequestKind string

const (
	// KindCustodial: the queue holds the requester's ledger claim
	KindCustodial RequestKind = "custodial"
	// KindBurned: the orchestrator already burned the claim
	KindBurned RequestKind = "burned"
)

// RequestStatus is derived from the request flags
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusFinalized RequestStatus = "finalized"
	StatusClaimed   RequestStatus = "claimed"
)

// Request is one withdrawal request. Cancelled requests are deleted.
type Request struct {
	ID              uint64      `json:"id"`
	Requester       string      `json:"requester"`
	Kind            RequestKind `json:"kind"`
	RequestedValue  math.Int    `json:"requested_value"`
	HeldShares      math.Int    `json:"held_shares"`
	// Delivered is the capital moved into the queue when a burned request was created
	Delivered       math.Int    `json:"delivered"`
	SettlementValue math.Int    `json:"settlement_value"`
	RequestedAt     int64       `json:"requested_at"`
	AvailableAt     int64       `json:"available_at"`
	Finalized       bool        `json:"finalized"`
	Claimed         bool        `json:"claimed"`
	FinalizedBy     string      `json:"finalized_by,omitempty"`
	ClaimedAt       int64       `json:"claimed_at,omitempty"`
}

// Status returns the lifecycle state of the request
func (r *Request) Status() RequestStatus {
	switch {
	case r.Claimed:
		return StatusClaimed
	case r.Finalized:
		return StatusFinalized
	default:
		return StatusPending
	}
}

// IsAvailable reports whether the delay has elapsed at now
func (r *Request) IsAvailable(now int64) bool {
	return r.Finalized && now >= r.AvailableAt
}

// Params are the queue parameters
type Params struct {
	// WithdrawDelay in seconds
	WithdrawDelay int64 `json:"withdraw_delay"`
}

// DefaultParams returns default parameters
func DefaultParams() Params {
	return Params{WithdrawDelay: int64(DefaultWithdrawDelay / time.Second)}
}

// Validate checks the parameters
func (p Params) Validate() error {
	if p.WithdrawDelay < 0 {
		return ErrInvalidParams.Wrap("withdraw delay cannot be negative")
	}
	return nil
}
