package types

import (
	"cosmossdk.io/math"
)

// MsgRequestWithdraw queues a withdrawal of the requester's ledger value
type MsgRequestWithdraw struct {
	Requester string `json:"requester"`
	Value     string `json:"value"`
}

// ValidateBasic performs stateless checks
func (msg MsgRequestWithdraw) ValidateBasic() error {
	if msg.Requester == "" {
		return ErrInvalidAddress
	}
	_, err := ParseAmount(msg.Value)
	return err
}

// MsgFinalizeWithdraw sets the settlement value of a pending request
type MsgFinalizeWithdraw struct {
	Operator   string `json:"operator"`
	RequestID  uint64 `json:"request_id"`
	Settlement string `json:"settlement"`
}

// ValidateBasic performs stateless checks
func (msg MsgFinalizeWithdraw) ValidateBasic() error {
	if msg.Operator == "" {
		return ErrInvalidAddress
	}
	_, err := ParseAmount(msg.Settlement)
	return err
}

// MsgClaim pays out a finalized request
type MsgClaim struct {
	Caller    string `json:"caller"`
	RequestID uint64 `json:"request_id"`
}

// ValidateBasic performs stateless checks
func (msg MsgClaim) ValidateBasic() error {
	if msg.Caller == "" {
		return ErrInvalidAddress
	}
	return nil
}

// MsgCancelRequest cancels a pending request
type MsgCancelRequest struct {
	Operator  string `json:"operator"`
	RequestID uint64 `json:"request_id"`
}

// ValidateBasic performs stateless checks
func (msg MsgCancelRequest) ValidateBasic() error {
	if msg.Operator == "" {
		return ErrInvalidAddress
	}
	return nil
}

// MsgFundQueue adds settlement liquidity to the queue
type MsgFundQueue struct {
	Funder string `json:"funder"`
	Amount string `json:"amount"`
}

// ValidateBasic performs stateless checks
func (msg MsgFundQueue) ValidateBasic() error {
	if msg.Funder == "" {
		return ErrInvalidAddress
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// MsgRequestResponse returns the request after the operation
type MsgRequestResponse struct {
	Request *Request      `json:"request,omitempty"`
	Status  RequestStatus `json:"status"`
}

// ParseAmount parses a non-negative integer amount
func ParseAmount(s string) (math.Int, error) {
	v, ok := math.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return math.ZeroInt(), ErrInvalidAmount.Wrapf("cannot parse %q", s)
	}
	return v, nil
}
