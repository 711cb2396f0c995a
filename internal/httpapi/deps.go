package httpapi

import (
	"database/sql"
	"sync/atomic"

	"talent-engine/internal/config"
	"talent-engine/internal/events"
	"talent-engine/internal/recon"
)

type Deps struct {
	Recon *recon.Reconciler

	// Remote is the raw client, for the integrations passthrough (no cache,
	// no fallback). Same interface the reconciler uses, so tests share fakes.
	Remote recon.API

	Hub   *events.Hub
	Audit *sql.DB

	// Atomic store for the live config (stores config.Config).
	CfgVal      *atomic.Value
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Mail delivery, injected for testability.
	SendMail func(to, subject, html string) error

	// Where /api/upload writes resumes; also served under /uploads/.
	UploadsDir string
}
