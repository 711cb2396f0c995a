package httpapi

import "net/http"

// NewMux wires the whole API surface. Exact paths (e.g. /api/demands/update)
// win over the trailing-slash subtrees that carry the /{id} deletes.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Candidates
	ch := CandidatesHandler{Recon: d.Recon}
	mux.HandleFunc("/api/candidates", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:   ch.List,
		http.MethodPost:  ch.Create,
		http.MethodPatch: ch.Update,
	}))
	mux.HandleFunc("/api/candidates/update", methodMux(map[string]http.HandlerFunc{
		http.MethodPatch: ch.Update,
	}))
	mux.HandleFunc("/api/candidates/durable", methodMux(map[string]http.HandlerFunc{
		http.MethodPatch: ch.UpdateDurable,
	}))
	mux.HandleFunc("/api/candidates/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: ch.DeleteByPath, // /api/candidates/{id}
	}))

	// Demands
	dh := DemandsHandler{Recon: d.Recon}
	mux.HandleFunc("/api/demands", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:   dh.List,
		http.MethodPost:  dh.Create,
		http.MethodPatch: dh.Update,
	}))
	mux.HandleFunc("/api/demands/update", methodMux(map[string]http.HandlerFunc{
		http.MethodPatch: dh.Update,
	}))
	mux.HandleFunc("/api/demands/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: dh.DeleteByPath,
	}))

	// Interviews
	ih := InterviewsHandler{Recon: d.Recon}
	mux.HandleFunc("/api/interviews", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:   ih.List,
		http.MethodPost:  ih.Create,
		http.MethodPatch: ih.Update,
	}))
	mux.HandleFunc("/api/interviews/update", methodMux(map[string]http.HandlerFunc{
		http.MethodPatch: ih.Update,
	}))
	mux.HandleFunc("/api/interviews/", methodMux(map[string]http.HandlerFunc{
		http.MethodDelete: ih.DeleteByPath,
	}))

	// Integrations: raw remote passthrough
	igh := IntegrationsHandler{Remote: d.Remote}
	mux.HandleFunc("/api/integrations/applicants", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: igh.Applicants,
	}))

	// Mail
	mh := MailHandler{Send: d.SendMail}
	mux.HandleFunc("/api/email/send", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: mh.SendMail,
	}))

	// Identity stub
	lh := LoginHandler{}
	mux.HandleFunc("/api/login", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: lh.Login,
	}))

	// Resume uploads
	uh := UploadHandler{Dir: d.UploadsDir}
	mux.HandleFunc("/api/upload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: uh.Upload,
	}))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(d.UploadsDir))))

	// Audit trail
	ah := AuditHandler{DB: d.Audit}
	mux.HandleFunc("/api/audit", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.List,
	}))

	// Config (use CfgVal, not a snapshot)
	cfh := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfh.Get,
		http.MethodPut: cfh.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: cfh.Path,
	}))

	// Secrets
	sh := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/remote", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetRemoteAPIKey,
	}))
	mux.HandleFunc("/api/secrets/smtp", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.SetSMTPPassword,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	return mux
}
