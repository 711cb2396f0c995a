package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"talent-engine/internal/domain"
	"talent-engine/internal/recon"
)

type CandidatesHandler struct {
	Recon *recon.Reconciler
}

func (h CandidatesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Recon.ListCandidates(r.Context())
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, list)
}

func (h CandidatesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cand domain.Candidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	created, err := h.Recon.CreateCandidate(r.Context(), cand)
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h CandidatesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, patch, err := decodePatch(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	updated, err := h.Recon.UpdateCandidate(r.Context(), id, patch)
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

// UpdateDurable is the candidate edit flow's variant: local persistence is a
// safety net taken regardless of the remote outcome.
func (h CandidatesHandler) UpdateDurable(w http.ResponseWriter, r *http.Request) {
	id, patch, err := decodePatch(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	updated, err := h.Recon.UpdateCandidateDurable(r.Context(), id, patch)
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h CandidatesHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/candidates/")
	if err := h.Recon.DeleteCandidate(r.Context(), id); err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "id": id})
}
