package handlers

import (
	"context"
	"net/http"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
	assetstypes "github.com/openalpha/supercluster/x/assets/types"
	yieldsourcetypes "github.com/openalpha/supercluster/x/yieldsource/types"
)

// AdminHandler serves roles, pause switches, base-asset balances and yield
// source accounting
type AdminHandler struct {
	*Backend
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(b *Backend) *AdminHandler {
	return &AdminHandler{Backend: b}
}

// RegisterRoutes registers admin routes
func (h *AdminHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/access/roles/{address}", h.GetRoles).Methods("GET")
	r.HandleFunc("/v1/access/grant", h.GrantRole).Methods("POST")
	r.HandleFunc("/v1/access/revoke", h.RevokeRole).Methods("POST")
	r.HandleFunc("/v1/access/pause", h.SetPaused).Methods("POST")

	r.HandleFunc("/v1/assets/{address}", h.GetBalance).Methods("GET")
	r.HandleFunc("/v1/assets/send", h.Send).Methods("POST")
	r.HandleFunc("/v1/assets/mint", h.Mint).Methods("POST")

	r.HandleFunc("/v1/sources", h.GetSources).Methods("GET")
	r.HandleFunc("/v1/sources/{id}/accrue", h.Accrue).Methods("POST")
	r.HandleFunc("/v1/sources/{id}/slash", h.Slash).Methods("POST")
}

// RolesResponse lists the roles held by an address
type RolesResponse struct {
	Address string             `json:"address"`
	Roles   []accesstypes.Role `json:"roles"`
}

// GetRoles returns the roles held by an address
func (h *AdminHandler) GetRoles(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	resp := RolesResponse{Address: address}
	_ = h.query(func(ctx sdk.Context) error {
		resp.Roles = h.App.Access.RolesOf(ctx, address)
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

// GrantRole handles MsgGrantRole
func (h *AdminHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	var msg accesstypes.MsgGrantRole
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.emptyOp(w, h.exec("grant_role", func(ctx sdk.Context) error {
		_, err := h.App.Msgs.Access.GrantRole(ctx, &msg)
		return err
	}))
}

// RevokeRole handles MsgRevokeRole
func (h *AdminHandler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	var msg accesstypes.MsgRevokeRole
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.emptyOp(w, h.exec("revoke_role", func(ctx sdk.Context) error {
		_, err := h.App.Msgs.Access.RevokeRole(ctx, &msg)
		return err
	}))
}

// SetPaused handles MsgSetPaused
func (h *AdminHandler) SetPaused(w http.ResponseWriter, r *http.Request) {
	var msg accesstypes.MsgSetPaused
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.emptyOp(w, h.exec("set_paused", func(ctx sdk.Context) error {
		_, err := h.App.Msgs.Access.SetPaused(ctx, &msg)
		return err
	}))
}

func (h *AdminHandler) emptyOp(w http.ResponseWriter, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, accesstypes.MsgEmptyResponse{})
}

// GetBalance returns the base-asset balance of an address
func (h *AdminHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	var balance string
	_ = h.query(func(ctx sdk.Context) error {
		balance = h.App.Assets.GetBalance(ctx, address).String()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"address": address,
		"denom":   h.App.Assets.Denom(),
		"balance": balance,
	})
}

// Send handles MsgSend
func (h *AdminHandler) Send(w http.ResponseWriter, r *http.Request) {
	var msg assetstypes.MsgSend
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var resp *assetstypes.MsgSendResponse
	err := h.exec("send", func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Msgs.Assets.Send(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Mint handles MsgMint
func (h *AdminHandler) Mint(w http.ResponseWriter, r *http.Request) {
	var msg assetstypes.MsgMint
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var resp *assetstypes.MsgSendResponse
	err := h.exec("mint", func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Msgs.Assets.Mint(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SourceResponse is a yield source with its assets
type SourceResponse struct {
	*yieldsourcetypes.Source
	TotalAssets string `json:"total_assets"`
}

// GetSources lists every yield source
func (h *AdminHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	var out []SourceResponse
	_ = h.query(func(ctx sdk.Context) error {
		for _, src := range h.App.YieldSource.GetAllSources(ctx) {
			out = append(out, SourceResponse{Source: src, TotalAssets: h.App.YieldSource.TotalAssets(ctx, src).String()})
		}
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"sources": out})
}

// SourceFlowRequest moves base asset into (accrue) or out of (slash) a source.
// Account is the sponsor for accrue and the recipient for slash.
type SourceFlowRequest struct {
	Caller  string `json:"caller"`
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// Accrue credits yield to the source in the path
func (h *AdminHandler) Accrue(w http.ResponseWriter, r *http.Request) {
	h.sourceFlow(w, r, "accrue", "accrued", h.App.YieldSource.Accrue)
}

// Slash removes value from the source in the path
func (h *AdminHandler) Slash(w http.ResponseWriter, r *http.Request) {
	h.sourceFlow(w, r, "slash", "slashed", h.App.YieldSource.Slash)
}

func (h *AdminHandler) sourceFlow(
	w http.ResponseWriter, r *http.Request, op, key string,
	fn func(ctx context.Context, caller, sourceID, account string, amount math.Int) error,
) {
	var req SourceFlowRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Caller == "" || req.Account == "" {
		writeError(w, accesstypes.ErrInvalidAddress)
		return
	}
	amount, err := assetstypes.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	id := mux.Vars(r)["id"]
	err = h.exec(op, func(ctx sdk.Context) error {
		return fn(ctx, req.Caller, id, req.Account, amount)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"source": id, key: amount.String()})
}
