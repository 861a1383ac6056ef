package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/openalpha/supercluster/pkg/wideint"
)

const (
	// ModuleName defines the module name
	ModuleName = "pilot"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// TotalBps is the required sum of an allocation table
	TotalBps = wideint.BpsDenominator
)

// Store key prefixes
var (
	PilotKeyPrefix = []byte{0x01}
)

// PilotKey is prefix | id.
func PilotKey(id string) []byte {
	return append(append([]byte{}, PilotKeyPrefix...), []byte(id)...)
}

// PilotAddress is the account holding a pilot's idle funds.
func PilotAddress(id string) string {
	return ModuleName + "/" + id
}

// Allocation is one entry of a pilot's target table
type Allocation struct {
	AdapterID string `json:"adapter_id"`
	TargetBps uint32 `json:"target_bps"`
}

// Pilot is a strategy router. Allocations are always replaced wholesale.
type Pilot struct {
	ID          string       `json:"id"`
	Owner       string       `json:"owner"`
	Address     string       `json:"address"`
	Allocations []Allocation `json:"allocations"`
	// Inactive lists adapters dropped from the table. Their balances are left
	// out of GetTotalValue but still count toward GetHoldings until drained.
	Inactive  []string `json:"inactive,omitempty"`
	CreatedAt int64    `json:"created_at"`
	UpdatedAt int64    `json:"updated_at"`
}

// NewPilot creates a pilot with an empty allocation table
func NewPilot(id, owner string, createdAt int64) *Pilot {
	return &Pilot{
		ID:          id,
		Owner:       owner,
		Address:     PilotAddress(id),
		Allocations: []Allocation{},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// IsActive reports whether adapterID is in the current allocation table
func (p *Pilot) IsActive(adapterID string) bool {
	for _, a := range p.Allocations {
		if a.AdapterID == adapterID {
			return true
		}
	}
	return false
}

// IsInactive reports whether adapterID was dropped from the table
func (p *Pilot) IsInactive(adapterID string) bool {
	for _, id := range p.Inactive {
		if id == adapterID {
			return true
		}
	}
	return false
}

// ValidateAllocation checks a candidate table: equal lengths, no duplicate
// adapters, basis points summing to exactly TotalBps.
func ValidateAllocation(adapters []string, bps []uint32) error {
	if len(adapters) != len(bps) {
		return errorsmod.Wrapf(ErrLengthMismatch, "%d adapters, %d weights", len(adapters), len(bps))
	}
	seen := make(map[string]struct{}, len(adapters))
	var sum uint64
	for i, id := range adapters {
		if id == "" {
			return errorsmod.Wrap(ErrInvalidAllocation, "empty adapter id")
		}
		if _, dup := seen[id]; dup {
			return errorsmod.Wrapf(ErrInvalidAllocation, "duplicate adapter %s", id)
		}
		seen[id] = struct{}{}
		sum += uint64(bps[i])
	}
	if sum != TotalBps {
		return errorsmod.Wrapf(ErrInvalidAllocation, "weights sum to %d, want %d", sum, TotalBps)
	}
	return nil
}

// AdapterBalance is the value one adapter holds for a pilot
type AdapterBalance struct {
	AdapterID string   `json:"adapter_id"`
	TargetBps uint32   `json:"target_bps"`
	Active    bool     `json:"active"`
	Balance   math.Int `json:"balance"`
}
