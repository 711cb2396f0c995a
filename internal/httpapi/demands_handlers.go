package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"talent-engine/internal/domain"
	"talent-engine/internal/recon"
)

type DemandsHandler struct {
	Recon *recon.Reconciler
}

func (h DemandsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Recon.ListDemands(r.Context())
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, list)
}

func (h DemandsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d domain.Demand
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	created, err := h.Recon.CreateDemand(r.Context(), d)
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (h DemandsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, patch, err := decodePatch(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	updated, err := h.Recon.UpdateDemand(r.Context(), id, patch)
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h DemandsHandler) DeleteByPath(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/demands/")
	if err := h.Recon.DeleteDemand(r.Context(), id); err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "id": id})
}
