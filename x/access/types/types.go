package types

import errorsmod "cosmossdk.io/errors"

const (
	// ModuleName defines the module name
	ModuleName = "access"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

// Role is a named capability held by an address.
type Role string

const (
	// RoleAdmin grants and revokes roles and toggles module pauses.
	RoleAdmin Role = "admin"
	// RoleMinter may mint and burn ledger value.
	RoleMinter Role = "minter"
	// RoleController may set the ledger's managed value.
	RoleController Role = "controller"
	// RoleOperator finalizes and cancels withdrawal requests.
	RoleOperator Role = "operator"
	// RoleOrchestrator records burned withdrawal requests and drives pilots.
	RoleOrchestrator Role = "orchestrator"
)

// AllRoles lists every known role.
var AllRoles = []Role{RoleAdmin, RoleMinter, RoleController, RoleOperator, RoleOrchestrator}

// Validate checks the role is known.
func (r Role) Validate() error {
	for _, known := range AllRoles {
		if r == known {
			return nil
		}
	}
	return errorsmod.Wrapf(ErrInvalidRole, "%q", string(r))
}

// Grant is one (role, address) entry of the capability table.
type Grant struct {
	Role      Role   `json:"role"`
	Address   string `json:"address"`
	GrantedBy string `json:"granted_by,omitempty"`
	GrantedAt int64  `json:"granted_at"`
}

// PauseState records whether a module refuses state changes.
type PauseState struct {
	Module    string `json:"module"`
	Paused    bool   `json:"paused"`
	UpdatedBy string `json:"updated_by"`
	UpdatedAt int64  `json:"updated_at"`
}
