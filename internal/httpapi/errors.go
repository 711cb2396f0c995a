package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"talent-engine/internal/recon"
	"talent-engine/internal/remote"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeReconError maps reconciliation failures onto the API surface:
// validation -> 400, nowhere-to-look -> 404, a remote 4xx rejection (the
// write path never masks those) -> 400 with the remote message, a remote 5xx
// -> 500 (the caller did nothing wrong), anything else (corrupt local
// document included) -> 500.
func writeReconError(w http.ResponseWriter, r *http.Request, err error) {
	status := remote.StatusOf(err)
	switch {
	case errors.Is(err, recon.ErrMissingID):
		WriteError(w, r, http.StatusBadRequest, "missing_id", "id is required")
	case errors.Is(err, recon.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", "record not found")
	case status >= 400 && status < 500:
		WriteError(w, r, http.StatusBadRequest, "remote_rejected", err.Error())
	case status != 0:
		WriteError(w, r, http.StatusInternalServerError, "remote_error", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
