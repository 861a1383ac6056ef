package types

import (
	"cosmossdk.io/math"
)

// MsgSend moves base asset between two addresses
type MsgSend struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// ValidateBasic performs stateless checks
func (msg MsgSend) ValidateBasic() error {
	if msg.From == "" || msg.To == "" {
		return ErrInvalidAddress
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// MsgMint credits new base asset to an address
type MsgMint struct {
	Authority string `json:"authority"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
}

// ValidateBasic performs stateless checks
func (msg MsgMint) ValidateBasic() error {
	if msg.Authority == "" || msg.To == "" {
		return ErrInvalidAddress
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// MsgSendResponse is returned by MsgSend and MsgMint
type MsgSendResponse struct {
	Balance string `json:"balance"`
}

// ParseAmount parses a non-negative integer amount.
func ParseAmount(s string) (math.Int, error) {
	amount, ok := math.NewIntFromString(s)
	if !ok || amount.IsNegative() {
		return math.ZeroInt(), ErrInvalidAmount.Wrapf("cannot parse %q", s)
	}
	return amount, nil
}
