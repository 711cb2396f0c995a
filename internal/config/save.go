package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}

	if cfg.Remote.BaseURL == "" {
		errs = append(errs, "remote.base_url is required")
	} else if u, err := url.Parse(cfg.Remote.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("remote.base_url %q is not an absolute URL", cfg.Remote.BaseURL))
	}
	if cfg.Remote.TimeoutSeconds <= 0 {
		errs = append(errs, "remote.timeout_seconds must be > 0")
	}
	if cfg.Remote.RatePerSec <= 0 {
		errs = append(errs, "remote.rate_per_sec must be > 0")
	}
	if cfg.Remote.Burst <= 0 {
		errs = append(errs, "remote.burst must be > 0")
	}

	if cfg.Cache.TTLSeconds <= 0 {
		errs = append(errs, "cache.ttl_seconds must be > 0")
	}

	// Mail is optional, but if a host is set the rest must be usable.
	if cfg.Mail.SMTPHost != "" {
		if cfg.Mail.SMTPPort <= 0 || cfg.Mail.SMTPPort > 65535 {
			errs = append(errs, "mail.smtp_port must be 1..65535")
		}
		if cfg.Mail.From == "" {
			errs = append(errs, "mail.from is required when mail.smtp_host is set")
		}
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
