package handlers

import (
	"net/http"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	"github.com/openalpha/supercluster/x/stoken/keeper"
	"github.com/openalpha/supercluster/x/stoken/types"
)

// DefaultHistoryLimit bounds /v1/stoken/history when no limit is given
const DefaultHistoryLimit = 50

// LedgerHandler serves the rebasing ledger
type LedgerHandler struct {
	*Backend
}

// NewLedgerHandler creates a LedgerHandler
func NewLedgerHandler(b *Backend) *LedgerHandler {
	return &LedgerHandler{Backend: b}
}

// RegisterRoutes registers ledger routes
func (h *LedgerHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/stoken", h.GetLedger).Methods("GET")
	r.HandleFunc("/v1/stoken/accounts/{address}", h.GetAccount).Methods("GET")
	r.HandleFunc("/v1/stoken/allowances/{owner}/{spender}", h.GetAllowance).Methods("GET")
	r.HandleFunc("/v1/stoken/history", h.GetHistory).Methods("GET")

	r.HandleFunc("/v1/stoken/transfer", h.Transfer).Methods("POST")
	r.HandleFunc("/v1/stoken/approve", h.Approve).Methods("POST")
	r.HandleFunc("/v1/stoken/transfer-from", h.TransferFrom).Methods("POST")
}

// GetLedger returns the ledger header
func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	var resp *keeper.LedgerResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Ledger.Ledger(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAccount returns balance and shares of one holder
func (h *LedgerHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	var resp *keeper.AccountResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Ledger.Account(ctx, address)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAllowance returns the remaining allowance of spender over owner
func (h *LedgerHandler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var allowance string
	err := h.query(func(ctx sdk.Context) error {
		var err error
		allowance, err = h.App.Queries.Ledger.Allowance(ctx, vars["owner"], vars["spender"])
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"owner":     vars["owner"],
		"spender":   vars["spender"],
		"allowance": allowance,
	})
}

// GetHistory returns the newest rebase records
func (h *LedgerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", DefaultHistoryLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var records []types.RebaseRecord
	err = h.query(func(ctx sdk.Context) error {
		var err error
		records, err = h.App.Queries.Ledger.RebaseHistory(ctx, limit)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// Transfer handles MsgTransfer
func (h *LedgerHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgTransfer
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var resp *types.MsgTransferResponse
	err := h.exec("transfer", func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Msgs.Ledger.Transfer(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Approve handles MsgApprove
func (h *LedgerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgApprove
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var resp *types.MsgApproveResponse
	err := h.exec("approve", func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Msgs.Ledger.Approve(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransferFrom handles MsgTransferFrom
func (h *LedgerHandler) TransferFrom(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgTransferFrom
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var resp *types.MsgTransferResponse
	err := h.exec("transfer_from", func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Msgs.Ledger.TransferFrom(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
