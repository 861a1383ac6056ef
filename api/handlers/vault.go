package handlers

import (
	"net/http"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	"github.com/openalpha/supercluster/x/supercluster/types"
)

// VaultHandler serves the orchestrator: vault state, deposits, withdrawals
// and managed-value updates
type VaultHandler struct {
	*Backend
}

// NewVaultHandler creates a VaultHandler
func NewVaultHandler(b *Backend) *VaultHandler {
	return &VaultHandler{Backend: b}
}

// RegisterRoutes registers vault routes
func (h *VaultHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/vault", h.GetVault).Methods("GET")
	r.HandleFunc("/v1/vault/params", h.GetParams).Methods("GET")
	r.HandleFunc("/v1/vault/pilots", h.GetRegisteredPilots).Methods("GET")

	r.HandleFunc("/v1/vault/deposit", h.Deposit).Methods("POST")
	r.HandleFunc("/v1/vault/withdraw", h.Withdraw).Methods("POST")
	r.HandleFunc("/v1/vault/rebase", h.Rebase).Methods("POST")
	r.HandleFunc("/v1/vault/managed-value", h.UpdateManagedValue).Methods("POST")

	r.HandleFunc("/v1/vault/pilots/register", h.RegisterPilot).Methods("POST")
	r.HandleFunc("/v1/vault/pilots/deregister", h.DeregisterPilot).Methods("POST")
	r.HandleFunc("/v1/vault/params", h.UpdateParams).Methods("POST")
}

// GetVault returns the vault snapshot
func (h *VaultHandler) GetVault(w http.ResponseWriter, r *http.Request) {
	var resp *types.VaultState
	err := h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Supercluster.Vault(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordVaultState(resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetParams returns the orchestrator parameters
func (h *VaultHandler) GetParams(w http.ResponseWriter, r *http.Request) {
	var resp types.Params
	err := h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Supercluster.Params(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRegisteredPilots lists the pilots the vault routes through
func (h *VaultHandler) GetRegisteredPilots(w http.ResponseWriter, r *http.Request) {
	var ids []string
	err := h.query(func(ctx sdk.Context) error {
		var err error
		ids, err = h.App.Queries.Supercluster.RegisteredPilots(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pilots": ids})
}

// Deposit handles MsgDeposit
func (h *VaultHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgDeposit
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var resp *types.MsgDepositResponse
	err := h.exec("deposit", func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Msgs.Supercluster.Deposit(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Withdraw handles MsgWithdraw
func (h *VaultHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgWithdraw
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var resp *types.MsgWithdrawResponse
	err := h.exec("withdraw", func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Msgs.Supercluster.Withdraw(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Rebase handles MsgRebase
func (h *VaultHandler) Rebase(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgRebase
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.valueOp(w, "rebase", func(ctx sdk.Context) (*types.MsgValueResponse, error) {
		return h.App.Msgs.Supercluster.Rebase(ctx, &msg)
	})
}

// UpdateManagedValue handles MsgUpdateManagedValue
func (h *VaultHandler) UpdateManagedValue(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgUpdateManagedValue
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.valueOp(w, "update_managed_value", func(ctx sdk.Context) (*types.MsgValueResponse, error) {
		return h.App.Msgs.Supercluster.UpdateManagedValue(ctx, &msg)
	})
}

// RegisterPilot handles MsgRegisterPilot
func (h *VaultHandler) RegisterPilot(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgRegisterPilot
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.valueOp(w, "register_pilot", func(ctx sdk.Context) (*types.MsgValueResponse, error) {
		return h.App.Msgs.Supercluster.RegisterPilot(ctx, &msg)
	})
}

// DeregisterPilot handles MsgDeregisterPilot
func (h *VaultHandler) DeregisterPilot(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgDeregisterPilot
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.valueOp(w, "deregister_pilot", func(ctx sdk.Context) (*types.MsgValueResponse, error) {
		return h.App.Msgs.Supercluster.DeregisterPilot(ctx, &msg)
	})
}

// UpdateParams handles MsgUpdateParams
func (h *VaultHandler) UpdateParams(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgUpdateParams
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.valueOp(w, "update_params", func(ctx sdk.Context) (*types.MsgValueResponse, error) {
		return h.App.Msgs.Supercluster.UpdateParams(ctx, &msg)
	})
}

func (h *VaultHandler) valueOp(w http.ResponseWriter, op string, fn func(ctx sdk.Context) (*types.MsgValueResponse, error)) {
	var resp *types.MsgValueResponse
	err := h.exec(op, func(ctx sdk.Context) error {
		var err error
		resp, err = fn(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
