package types

import (
	"cosmossdk.io/math"
)

// MsgTransfer moves ledger value between holders
type MsgTransfer struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

// ValidateBasic performs stateless checks
func (msg MsgTransfer) ValidateBasic() error {
	if msg.From == "" || msg.To == "" {
		return ErrInvalidAddress
	}
	_, err := ParseValue(msg.Value)
	return err
}

// MsgTransferResponse reports the shares that moved
type MsgTransferResponse struct {
	Shares string `json:"shares"`
}

// MsgApprove sets the value a spender may move for the owner
type MsgApprove struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Value   string `json:"value"`
}

// ValidateBasic performs stateless checks
func (msg MsgApprove) ValidateBasic() error {
	if msg.Owner == "" || msg.Spender == "" {
		return ErrInvalidAddress
	}
	_, err := ParseValue(msg.Value)
	return err
}

// MsgApproveResponse is the Approve response
type MsgApproveResponse struct{}

// MsgTransferFrom moves value out of an owner's balance using an allowance
type MsgTransferFrom struct {
	Spender string `json:"spender"`
	From    string `json:"from"`
	To      string `json:"to"`
	Value   string `json:"value"`
}

// ValidateBasic performs stateless checks
func (msg MsgTransferFrom) ValidateBasic() error {
	if msg.Spender == "" || msg.From == "" || msg.To == "" {
		return ErrInvalidAddress
	}
	_, err := ParseValue(msg.Value)
	return err
}

// ParseValue parses a non-negative integer value
func ParseValue(s string) (math.Int, error) {
	v, ok := math.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return math.ZeroInt(), ErrInvalidAmount.Wrapf("cannot parse %q", s)
	}
	return v, nil
}
