package types

import (
	"cosmossdk.io/math"

	"github.com/openalpha/supercluster/pkg/wideint"
)

const (
	// ModuleName defines the module name
	ModuleName = "supercluster"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// DefaultMaxRebaseDeviationBps bounds trusted managed-value updates
	DefaultMaxRebaseDeviationBps = 500

	// DefaultMaxDivestPasses bounds the sweeps a withdrawal makes over pilots
	DefaultMaxDivestPasses = 3
)

// HoldingAddress is the orchestrator's account. It holds undeployed capital
// and acts as minter, controller and orchestrator toward the other modules.
var HoldingAddress = ModuleName + "/holding"

// Store key prefixes
var (
	ParamsKey        = []byte{0x01}
	RegisteredPrefix = []byte{0x02}
)

// RegisteredKey is prefix | pilot id.
func RegisteredKey(pilotID string) []byte {
	return append(append([]byte{}, RegisteredPrefix...), []byte(pilotID)...)
}

// Params are the orchestrator parameters
type Params struct {
	// MaxRebaseDeviationBps is how far a controller-supplied managed value may
	// stray from the live figure. Zero disables the check.
	MaxRebaseDeviationBps uint32 `json:"max_rebase_deviation_bps"`
	// DefaultPilot receives deposits that name no pilot. Empty keeps them idle.
	DefaultPilot    string `json:"default_pilot"`
	MaxDivestPasses uint32 `json:"max_divest_passes"`
}

// DefaultParams returns default parameters
func DefaultParams() Params {
	return Params{
		MaxRebaseDeviationBps: DefaultMaxRebaseDeviationBps,
		MaxDivestPasses:       DefaultMaxDivestPasses,
	}
}

// Validate checks the parameters
func (p Params) Validate() error {
	if p.MaxRebaseDeviationBps > wideint.BpsDenominator {
		return ErrInvalidParams.Wrapf("deviation %d bps exceeds 100%%", p.MaxRebaseDeviationBps)
	}
	if p.MaxDivestPasses == 0 {
		return ErrInvalidParams.Wrap("at least one divest pass is required")
	}
	return nil
}

// RegisteredPilot is a pilot whose value counts toward managed value
type RegisteredPilot struct {
	PilotID      string `json:"pilot_id"`
	RegisteredAt int64  `json:"registered_at"`
}

// PilotValue is one pilot's contribution to managed value
type PilotValue struct {
	PilotID string   `json:"pilot_id"`
	Value   math.Int `json:"value"`
}

// VaultState is the aggregate view of the vault
type VaultState struct {
	TotalShares       math.Int     `json:"total_shares"`
	TotalManagedValue math.Int     `json:"total_managed_value"`
	LiveValue         math.Int     `json:"live_value"`
	Idle              math.Int     `json:"idle"`
	Pilots            []PilotValue `json:"pilots"`
	Params            Params       `json:"params"`
}
