package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"talent-engine/internal/domain"
	"talent-engine/internal/recon"
)

type InterviewsHandler struct {
	Recon *recon.Reconciler
}

func (h InterviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Recon.ListInterviews(r.Context())
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, list)
}

func (h InterviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var iv domain.Interview
	if err := json.NewDecoder(r.Body).Decode(&iv); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	created, err := h.Recon.CreateInterview(r.Context(), iv)
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h InterviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, patch, err := decodePatch(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	updated, err := h.Recon.UpdateInterview(r.Context(), id, patch)
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h InterviewsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/interviews/")
	if err := h.Recon.DeleteInterview(r.Context(), id); err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "id": id})
}
