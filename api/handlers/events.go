package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/openalpha/supercluster/recorder"
)

// DefaultEventsLimit bounds /v1/events when no limit is given
const DefaultEventsLimit = 100

// EventsHandler serves the recorded event history
type EventsHandler struct {
	recorder recorder.Recorder
}

// NewEventsHandler creates an EventsHandler
func NewEventsHandler(rec recorder.Recorder) *EventsHandler {
	return &EventsHandler{recorder: rec}
}

// RegisterRoutes registers event routes
func (h *EventsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/v1/events", h.GetEvents).Methods("GET")
}

// GetEvents returns the newest committed events, optionally of one type
func (h *EventsHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", DefaultEventsLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	events, err := h.recorder.Recent(limit, r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}
