package httpapi

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"talent-engine/internal/recon"
	"talent-engine/internal/store"
)

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "time": time.Now().UTC().Format(time.RFC3339)})
}

// IntegrationsHandler exposes the raw remote application list, no cache and
// no local fallback. Integrations want the API's truth or an error.
type IntegrationsHandler struct {
	Remote recon.API
}

func (h IntegrationsHandler) Applicants(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Remote.ListApplications(r.Context())
	if err != nil {
		WriteError(w, r, http.StatusBadGateway, "remote_error", err.Error())
		return
	}
	writeJSON(w, apps)
}

type MailHandler struct {
	Send func(to, subject, html string) error
}

func (h MailHandler) SendMail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To      string `json:"to"`
		Subject string `json:"subject"`
		HTML    string `json:"html"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.To == "" || req.Subject == "" || req.HTML == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "to, subject and html are required")
		return
	}

	if err := h.Send(req.To, req.Subject, req.HTML); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "send_failed", err.Error())
		return
	}
	writeJSON(w, map[string]any{"success": true})
}

// LoginHandler is the opaque identity stub: role-gated dashboards need a user
// object with a role, nothing more. Real authentication lives elsewhere.
type LoginHandler struct{}

func (h LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Email == "" || req.Role == "" {
		WriteError(w, r, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	// hr_manager -> "Hr Manager"
	parts := strings.Split(req.Role, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}

	writeJSON(w, map[string]any{
		"user": map[string]any{
			"id":    "1",
			"name":  strings.Join(parts, " "),
			"email": req.Email,
			"role":  req.Role,
		},
	})
}

type UploadHandler struct {
	Dir string
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

func (h UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_form", err.Error())
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "missing_file", "no file uploaded")
		return
	}
	defer file.Close()

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), unsafeFilename.ReplaceAllString(hdr.Filename, ""))
	dir := filepath.Join(h.Dir, "resumes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, map[string]any{"url": "/uploads/resumes/" + name})
}

type AuditHandler struct {
	DB *sql.DB
}

func (h AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := store.ListAudit(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if entries == nil {
		entries = []store.AuditEntry{}
	}
	writeJSON(w, entries)
}
