package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.Remote.BaseURL = "https://api-dev.guhatek.org"
	cfg.Remote.TimeoutSeconds = 20
	cfg.Remote.RatePerSec = 5
	cfg.Remote.Burst = 2
	cfg.Cache.TTLSeconds = 60
	return cfg
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: 9000
remote:
  base_url: https://api.example.com
  api_key_account: talent-engine:remote:test
  timeout_seconds: 10
  rate_per_sec: 2.5
  burst: 4
cache:
  ttl_seconds: 30
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "https://api.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, "talent-engine:remote:test", cfg.Remote.APIKeyAccount)
	assert.Equal(t, 2.5, cfg.Remote.RatePerSec)
	assert.Equal(t, 30, cfg.Cache.TTLSeconds)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))

	bad := validConfig()
	bad.App.Port = 0
	err := Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "app.port")

	bad = validConfig()
	bad.Remote.BaseURL = "not a url"
	err = Validate(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.base_url")

	bad = validConfig()
	bad.Cache.TTLSeconds = 0
	assert.Error(t, Validate(bad))
}

func TestValidateMailOptionalButConsistent(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, Validate(cfg)) // no mail section at all is fine

	cfg.Mail.SMTPHost = "smtp.example.com"
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.smtp_port")
	assert.Contains(t, err.Error(), "mail.from")

	cfg.Mail.SMTPPort = 587
	cfg.Mail.From = "hr@example.com"
	assert.NoError(t, Validate(cfg))
}

func TestStorageDir(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "/var/lib/talent", cfg.StorageDir("/var/lib/talent"))

	cfg.App.DataDir = "/mnt/records"
	assert.Equal(t, "/mnt/records", cfg.StorageDir("/var/lib/talent"))
}

func TestSaveAtomicRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := validConfig()
	cfg.Remote.APIKeyAccount = "talent-engine:remote:test"

	require.NoError(t, SaveAtomic(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	// nothing transient left behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveAtomicKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	first := validConfig()
	require.NoError(t, SaveAtomic(path, first))

	second := first
	second.App.Port = 9999
	require.NoError(t, SaveAtomic(path, second))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, got.App.Port)

	bak, err := Load(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, first.App.Port, bak.App.Port)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	bad := validConfig()
	bad.Remote.TimeoutSeconds = -1

	require.Error(t, SaveAtomic(path, bad))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err)) // invalid config never touches disk
}

func TestEnsureUserConfig(t *testing.T) {
	dataDir := t.TempDir()
	defaultPath := filepath.Join(t.TempDir(), "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  port: 38472\n"), 0o644))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	cfg, err := Load(userPath)
	require.NoError(t, err)
	assert.Equal(t, 38472, cfg.App.Port)

	// a second run must not clobber user edits
	require.NoError(t, os.WriteFile(userPath, []byte("app:\n  port: 1234\n"), 0o644))
	again, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, userPath, again)
	cfg, err = Load(userPath)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.App.Port)
}
