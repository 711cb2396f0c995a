package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"talent-engine/internal/cache"
	"talent-engine/internal/config"
	"talent-engine/internal/events"
	"talent-engine/internal/httpapi"
	"talent-engine/internal/mail"
	"talent-engine/internal/recon"
	"talent-engine/internal/remote"
	"talent-engine/internal/secrets"
	"talent-engine/internal/store"
	"talent-engine/internal/store/localdoc"
)

func main() {
	// Engine data dir: env wins (the desktop shell passes one), else local.
	dataDir := os.Getenv("TALENT_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config invalid (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	storageDir := cfg.StorageDir(dataDir)
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		log.Fatal(err)
	}

	docs := localdoc.New(filepath.Join(storageDir, "db.json"))

	auditDB, err := store.Open(filepath.Join(storageDir, "talent.db"))
	if err != nil {
		log.Fatal(err)
	}
	defer auditDB.Close()
	if err := store.Migrate(auditDB.Pool); err != nil {
		log.Fatal(err)
	}

	apiKeyAccount := secrets.APIKeyAccount(cfg)
	rc := remote.New(remote.Options{
		BaseURL:    cfg.Remote.BaseURL,
		Timeout:    time.Duration(cfg.Remote.TimeoutSeconds) * time.Second,
		RatePerSec: cfg.Remote.RatePerSec,
		Burst:      cfg.Remote.Burst,
		APIKey: func() (string, error) {
			return secrets.GetAPIKey(apiKeyAccount)
		},
	})

	hub := events.NewHub()
	c := cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)

	rec := &recon.Reconciler{
		Remote:    rc,
		Docs:      docs,
		Cache:     c,
		Audit:     auditDB.Pool,
		Hub:       hub,
		RequestID: httpapi.RequestIDFrom,
	}

	mailer := &mail.Mailer{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		From:     cfg.Mail.From,
		Username: cfg.Mail.Username,
		Password: func() (string, error) {
			return secrets.GetSMTPPassword(secrets.SMTPAccount(cfg))
		},
	}

	warmCache(rec)

	mux := httpapi.NewMux(httpapi.Deps{
		Recon:       rec,
		Remote:      rc,
		Hub:         hub,
		Audit:       auditDB.Pool,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		SendMail:    mailer.Send,
		UploadsDir:  filepath.Join(storageDir, "uploads"),
	})

	handler := httpapi.Chain(mux,
		httpapi.Cors,
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (data=%s)", addr, dataDir)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.Serve(ln))
}

// warmCache prefetches the three collections so the first dashboard load hits
// warm data. Failures are fine: reads degrade to local on their own.
func warmCache(rec *recon.Reconciler) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		list, err := rec.ListCandidates(ctx)
		if err == nil {
			log.Printf("[warmup] candidates=%d", len(list))
		}
		return nil
	})
	g.Go(func() error {
		list, err := rec.ListDemands(ctx)
		if err == nil {
			log.Printf("[warmup] demands=%d", len(list))
		}
		return nil
	})
	g.Go(func() error {
		list, err := rec.ListInterviews(ctx)
		if err == nil {
			log.Printf("[warmup] interviews=%d", len(list))
		}
		return nil
	})
	_ = g.Wait()
}
