package types

import (
	"cosmossdk.io/math"
)

// MsgDeposit deposits base asset into the vault
type MsgDeposit struct {
	Depositor string `json:"depositor"`
	Amount    string `json:"amount"`
	PilotID   string `json:"pilot_id,omitempty"`
}

// ValidateBasic performs stateless checks
func (msg MsgDeposit) ValidateBasic() error {
	if msg.Depositor == "" {
		return ErrInvalidAddress
	}
	amount, err := ParseAmount(msg.Amount)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// MsgDepositResponse reports the ledger shares minted
type MsgDepositResponse struct {
	Shares string `json:"shares"`
}

// MsgWithdraw burns ledger value and queues its payout
type MsgWithdraw struct {
	Owner string `json:"owner"`
	Value string `json:"value"`
}

// ValidateBasic performs stateless checks
func (msg MsgWithdraw) ValidateBasic() error {
	if msg.Owner == "" {
		return ErrInvalidAddress
	}
	value, err := ParseAmount(msg.Value)
	if err != nil {
		return err
	}
	if value.IsZero() {
		return ErrZeroAmount
	}
	return nil
}

// MsgWithdrawResponse reports the queued request
type MsgWithdrawResponse struct {
	RequestID   uint64 `json:"request_id"`
	Delivered   string `json:"delivered"`
	AvailableAt int64  `json:"available_at"`
}

// MsgRebase sets managed value to the live figure
type MsgRebase struct {
	Controller string `json:"controller"`
}

// ValidateBasic performs stateless checks
func (msg MsgRebase) ValidateBasic() error {
	if msg.Controller == "" {
		return ErrInvalidAddress
	}
	return nil
}

// MsgUpdateManagedValue sets managed value to a reported figure
type MsgUpdateManagedValue struct {
	Controller string `json:"controller"`
	Value      string `json:"value"`
}

// ValidateBasic performs stateless checks
func (msg MsgUpdateManagedValue) ValidateBasic() error {
	if msg.Controller == "" {
		return ErrInvalidAddress
	}
	_, err := ParseAmount(msg.Value)
	return err
}

// MsgRegisterPilot adds a pilot to the vault
type MsgRegisterPilot struct {
	Authority string `json:"authority"`
	PilotID   string `json:"pilot_id"`
}

// ValidateBasic performs stateless checks
func (msg MsgRegisterPilot) ValidateBasic() error {
	if msg.Authority == "" {
		return ErrInvalidAddress
	}
	if msg.PilotID == "" {
		return ErrPilotNotRegistered.Wrap("empty pilot id")
	}
	return nil
}

// MsgDeregisterPilot removes an empty pilot from the vault
type MsgDeregisterPilot = MsgRegisterPilot

// MsgUpdateParams replaces the orchestrator parameters
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

// ValidateBasic performs stateless checks
func (msg MsgUpdateParams) ValidateBasic() error {
	if msg.Authority == "" {
		return ErrInvalidAddress
	}
	return msg.Params.Validate()
}

// MsgValueResponse reports a value produced by an operation
type MsgValueResponse struct {
	Value string `json:"value"`
}

// ParseAmount parses a non-negative integer amount
func ParseAmount(s string) (math.Int, error) {
	v, ok := math.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return math.ZeroInt(), ErrInvalidAmount.Wrapf("cannot parse %q", s)
	}
	return v, nil
}
