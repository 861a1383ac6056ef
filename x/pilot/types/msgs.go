package types

import (
	"cosmossdk.io/math"
)

// MsgCreatePilot creates a strategy router
type MsgCreatePilot struct {
	Authority string `json:"authority"`
	PilotID   string `json:"pilot_id"`
	Owner     string `json:"owner"`
}

// ValidateBasic performs stateless checks
func (msg MsgCreatePilot) ValidateBasic() error {
	if msg.Authority == "" || msg.PilotID == "" || msg.Owner == "" {
		return ErrInvalidPilot
	}
	return nil
}

// MsgSetAllocation replaces a pilot's allocation table
type MsgSetAllocation struct {
	Owner    string   `json:"owner"`
	PilotID  string   `json:"pilot_id"`
	Adapters []string `json:"adapters"`
	Bps      []uint32 `json:"bps"`
}

// ValidateBasic performs stateless checks
func (msg MsgSetAllocation) ValidateBasic() error {
	if msg.Owner == "" || msg.PilotID == "" {
		return ErrInvalidPilot
	}
	return ValidateAllocation(msg.Adapters, msg.Bps)
}

// MsgInvest invests idle funds across the allocation table
type MsgInvest struct {
	Caller  string `json:"caller"`
	PilotID string `json:"pilot_id"`
	Amount  string `json:"amount"`
}

// ValidateBasic performs stateless checks
func (msg MsgInvest) ValidateBasic() error {
	if msg.Caller == "" || msg.PilotID == "" {
		return ErrInvalidPilot
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// MsgDivest pays funds out of a pilot to a destination
type MsgDivest struct {
	Caller      string `json:"caller"`
	PilotID     string `json:"pilot_id"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
}

// ValidateBasic performs stateless checks
func (msg MsgDivest) ValidateBasic() error {
	if msg.Caller == "" || msg.PilotID == "" || msg.Destination == "" {
		return ErrInvalidPilot
	}
	_, err := ParseAmount(msg.Amount)
	return err
}

// MsgDrainAdapter returns an inactive adapter's funds to idle
type MsgDrainAdapter struct {
	Owner     string `json:"owner"`
	PilotID   string `json:"pilot_id"`
	AdapterID string `json:"adapter_id"`
}

// ValidateBasic performs stateless checks
func (msg MsgDrainAdapter) ValidateBasic() error {
	if msg.Owner == "" || msg.PilotID == "" || msg.AdapterID == "" {
		return ErrInvalidPilot
	}
	return nil
}

// MsgAmountResponse reports the amount an operation moved
type MsgAmountResponse struct {
	Amount string `json:"amount"`
}

// ParseAmount parses a non-negative integer amount
func ParseAmount(s string) (math.Int, error) {
	v, ok := math.NewIntFromString(s)
	if !ok || v.IsNegative() {
		return math.ZeroInt(), ErrInvalidAmount.Wrapf("cannot parse %q", s)
	}
	return v, nil
}
