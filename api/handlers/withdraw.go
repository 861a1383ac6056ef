package handlers

import (
	"net/http"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	"github.com/openalpha/supercluster/x/withdraw/keeper"
	"github.com/openalpha/supercluster/x/withdraw/types"
)

// WithdrawHandler serves the withdrawal queue
type WithdrawHandler struct {
	*Backend
}

// NewWithdrawHandler creates a WithdrawHandler
func NewWithdrawHandler(b *Backend) *WithdrawHandler {
	return &WithdrawHandler{Backend: b}
}

// RegisterRoutes registers withdrawal routes. Literal segments are
// registered before {id} so they win the match.
func (h *WithdrawHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/withdrawals/queue", h.GetQueue).Methods("GET")
	r.HandleFunc("/v1/withdrawals/pending", h.GetPending).Methods("GET")
	r.HandleFunc("/v1/withdrawals/user/{address}", h.GetUserRequests).Methods("GET")
	r.HandleFunc("/v1/withdrawals/{id:[0-9]+}", h.GetRequest).Methods("GET")

	r.HandleFunc("/v1/withdrawals/request", h.Request).Methods("POST")
	r.HandleFunc("/v1/withdrawals/finalize", h.Finalize).Methods("POST")
	r.HandleFunc("/v1/withdrawals/claim", h.Claim).Methods("POST")
	r.HandleFunc("/v1/withdrawals/cancel", h.Cancel).Methods("POST")
	r.HandleFunc("/v1/withdrawals/fund", h.Fund).Methods("POST")
}

// GetRequest returns one request with its status
func (h *WithdrawHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid request id")
		return
	}
	var resp *keeper.RequestResponse
	err = h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Withdraw.Request(ctx, id)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetUserRequests lists a requester's live requests
func (h *WithdrawHandler) GetUserRequests(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	var reqs []keeper.RequestResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		reqs, err = h.App.Queries.Withdraw.UserRequests(ctx, address)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// GetPending lists every pending request in id order
func (h *WithdrawHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	var reqs []keeper.RequestResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		reqs, err = h.App.Queries.Withdraw.PendingRequests(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs})
}

// GetQueue summarizes the queue's funds
func (h *WithdrawHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	var resp *keeper.QueueResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Withdraw.Queue(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Request handles MsgRequestWithdraw
func (h *WithdrawHandler) Request(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgRequestWithdraw
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.requestOp(w, "request_withdraw", func(ctx sdk.Context) (*types.MsgRequestResponse, error) {
		return h.App.Msgs.Withdraw.RequestWithdraw(ctx, &msg)
	})
}

// Finalize handles MsgFinalizeWithdraw
func (h *WithdrawHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgFinalizeWithdraw
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.requestOp(w, "finalize_withdraw", func(ctx sdk.Context) (*types.MsgRequestResponse, error) {
		return h.App.Msgs.Withdraw.FinalizeWithdraw(ctx, &msg)
	})
}

// Claim handles MsgClaim
func (h *WithdrawHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgClaim
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.requestOp(w, "claim", func(ctx sdk.Context) (*types.MsgRequestResponse, error) {
		return h.App.Msgs.Withdraw.Claim(ctx, &msg)
	})
}

// Cancel handles MsgCancelRequest
func (h *WithdrawHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgCancelRequest
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.requestOp(w, "cancel_request", func(ctx sdk.Context) (*types.MsgRequestResponse, error) {
		return h.App.Msgs.Withdraw.CancelRequest(ctx, &msg)
	})
}

// Fund handles MsgFundQueue
func (h *WithdrawHandler) Fund(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgFundQueue
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	h.requestOp(w, "fund_queue", func(ctx sdk.Context) (*types.MsgRequestResponse, error) {
		return h.App.Msgs.Withdraw.FundQueue(ctx, &msg)
	})
}

func (h *WithdrawHandler) requestOp(w http.ResponseWriter, op string, fn func(ctx sdk.Context) (*types.MsgRequestResponse, error)) {
	var resp *types.MsgRequestResponse
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
