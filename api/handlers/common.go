package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/app"
	"github.com/openalpha/supercluster/metrics"
)

// Backend is the state every handler reads and writes
type Backend struct {
	App *app.App
	// Metrics may be nil
	Metrics *metrics.Collector
}

// exec runs fn as one atomic operation and records it under op
func (b *Backend) exec(op string, fn func(ctx sdk.Context) error) error {
	timer := metrics.NewTimer()
	err := b.App.Exec(fn)
	if b.Metrics != nil {
		b.Metrics.RecordOperation(op, err, timer.ElapsedMs())
	}
	return err
}

func (b *Backend) query(fn func(ctx sdk.Context) error) error {
	return b.App.Query(fn)
}

// ErrorBody is the JSON error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail identifies a registered error kind
type ErrorDetail struct {
	Codespace string `json:"codespace"`
	Code      uint32 `json:"code"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError maps err onto a status code and the error envelope
func writeError(w http.ResponseWriter, err error) {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	writeJSON(w, StatusFor(err), ErrorBody{Error: ErrorDetail{
		Codespace: codespace,
		Code:      code,
		Message:   err.Error(),
	}})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
		Codespace: "api",
		Code:      http.StatusBadRequest,
		Message:   message,
	}})
}

// decodeBody reads a JSON request body into v; unknown fields are rejected
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// validator is implemented by every Msg
type validator interface {
	ValidateBasic() error
}

func validate(w http.ResponseWriter, msg validator) bool {
	if err := msg.ValidateBasic(); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return v, nil
}
