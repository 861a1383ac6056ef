package handlers

import (
	"net/http"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"

	adapterkeeper "github.com/openalpha/supercluster/x/adapter/keeper"
	"github.com/openalpha/supercluster/x/pilot/keeper"
	"github.com/openalpha/supercluster/x/pilot/types"
)

// PilotHandler serves pilots and the adapters they route through
type PilotHandler struct {
	*Backend
}

// NewPilotHandler creates a PilotHandler
func NewPilotHandler(b *Backend) *PilotHandler {
	return &PilotHandler{Backend: b}
}

// RegisterRoutes registers pilot and adapter routes
func (h *PilotHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/pilots", h.GetPilots).Methods("GET")
	r.HandleFunc("/v1/pilots/{id}", h.GetPilot).Methods("GET")
	r.HandleFunc("/v1/adapters", h.GetAdapters).Methods("GET")
	r.HandleFunc("/v1/adapters/{id}", h.GetAdapter).Methods("GET")

	r.HandleFunc("/v1/pilots", h.CreatePilot).Methods("POST")
	r.HandleFunc("/v1/pilots/{id}/allocation", h.SetAllocation).Methods("POST")
	r.HandleFunc("/v1/pilots/{id}/invest", h.Invest).Methods("POST")
	r.HandleFunc("/v1/pilots/{id}/divest", h.Divest).Methods("POST")
	r.HandleFunc("/v1/pilots/{id}/drain", h.Drain).Methods("POST")
}

// GetPilots lists every pilot
func (h *PilotHandler) GetPilots(w http.ResponseWriter, r *http.Request) {
	var pilots []*types.Pilot
	err := h.query(func(ctx sdk.Context) error {
		var err error
		pilots, err = h.App.Queries.Pilot.Pilots(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"pilots": pilots})
}

// GetPilot returns one pilot with its live holdings
func (h *PilotHandler) GetPilot(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var resp *keeper.PilotResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Pilot.Pilot(ctx, id)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetAdapters lists every adapter with its balance
func (h *PilotHandler) GetAdapters(w http.ResponseWriter, r *http.Request) {
	var adapters []*adapterkeeper.AdapterResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		adapters, err = h.App.Queries.Adapter.Adapters(ctx)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"adapters": adapters})
}

// GetAdapter returns one adapter with its balance
func (h *PilotHandler) GetAdapter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var resp *adapterkeeper.AdapterResponse
	err := h.query(func(ctx sdk.Context) error {
		var err error
		resp, err = h.App.Queries.Adapter.Adapter(ctx, id)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreatePilot handles MsgCreatePilot
func (h *PilotHandler) CreatePilot(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgCreatePilot
	if !decodeBody(w, r, &msg) || !validate(w, msg) {
		return
	}
	var pilot *types.Pilot
	err := h.exec("create_pilot", func(ctx sdk.Context) error {
		var err error
		pilot, err = h.App.Msgs.Pilot.CreatePilot(ctx, &msg)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pilot)
}

// SetAllocation handles MsgSetAllocation for the pilot in the path
func (h *PilotHandler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgSetAllocation
	if !decodeBody(w, r, &msg) {
		return
	}
	msg.PilotID = mux.Vars(r)["id"]
	if !validate(w, msg) {
		return
	}
	h.amountOp(w, "set_allocation", func(ctx sdk.Context) (*types.MsgAmountResponse, error) {
		return h.App.Msgs.Pilot.SetAllocation(ctx, &msg)
	})
}

// Invest handles MsgInvest for the pilot in the path
func (h *PilotHandler) Invest(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgInvest
	if !decodeBody(w, r, &msg) {
		return
	}
	msg.PilotID = mux.Vars(r)["id"]
	if !validate(w, msg) {
		return
	}
	h.amountOp(w, "invest", func(ctx sdk.Context) (*types.MsgAmountResponse, error) {
		return h.App.Msgs.Pilot.Invest(ctx, &msg)
	})
}

// Divest handles MsgDivest for the pilot in the path
func (h *PilotHandler) Divest(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgDivest
	if !decodeBody(w, r, &msg) {
		return
	}
	msg.PilotID = mux.Vars(r)["id"]
	if !validate(w, msg) {
		return
	}
	h.amountOp(w, "divest", func(ctx sdk.Context) (*types.MsgAmountResponse, error) {
		return h.App.Msgs.Pilot.Divest(ctx, &msg)
	})
}

// Drain handles MsgDrainAdapter for the pilot in the path
func (h *PilotHandler) Drain(w http.ResponseWriter, r *http.Request) {
	var msg types.MsgDrainAdapter
	if !decodeBody(w, r, &msg) {
		return
	}
	msg.PilotID = mux.Vars(r)["id"]
	if !validate(w, msg) {
		return
	}
	h.amountOp(w, "drain_adapter", func(ctx sdk.Context) (*types.MsgAmountResponse, error) {
		return h.App.Msgs.Pilot.DrainAdapter(ctx, &msg)
	})
}

func (h *PilotHandler) amountOp(w http.ResponseWriter, op string, fn func(ctx sdk.Context) (*types.MsgAmountResponse, error)) {
	var resp *types.MsgAmountResponse
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
