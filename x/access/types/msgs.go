package types

// MsgGrantRole grants a role to an address
type MsgGrantRole struct {
	Authority string `json:"authority"`
	Role      string `json:"role"`
	Address   string `json:"address"`
}

// ValidateBasic performs stateless checks
func (msg MsgGrantRole) ValidateBasic() error {
	if msg.Authority == "" || msg.Address == "" {
		return ErrInvalidAddress
	}
	return Role(msg.Role).Validate()
}

// MsgRevokeRole removes a role from an address
type MsgRevokeRole struct {
	Authority string `json:"authority"`
	Role      string `json:"role"`
	Address   string `json:"address"`
}

// ValidateBasic performs stateless checks
func (msg MsgRevokeRole) ValidateBasic() error {
	if msg.Authority == "" || msg.Address == "" {
		return ErrInvalidAddress
	}
	return Role(msg.Role).Validate()
}

// MsgSetPaused toggles the pause switch of a module
type MsgSetPaused struct {
	Authority string `json:"authority"`
	Module    string `json:"module"`
	Paused    bool   `json:"paused"`
}

// ValidateBasic performs stateless checks
func (msg MsgSetPaused) ValidateBasic() error {
	if msg.Authority == "" {
		return ErrInvalidAddress
	}
	if msg.Module == "" {
		return ErrInvalidModule
	}
	return nil
}

// MsgEmptyResponse is returned by messages without a payload
type MsgEmptyResponse struct{}
