package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Remote struct {
		BaseURL string `yaml:"base_url" json:"base_url"`
		// Keyring account holding the x-api-key value. The key itself never
		// lives in this file.
		APIKeyAccount  string  `yaml:"api_key_account" json:"api_key_account"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		RatePerSec     float64 `yaml:"rate_per_sec" json:"rate_per_sec"`
		Burst          int     `yaml:"burst" json:"burst"`
	} `yaml:"remote" json:"remote"`

	Cache struct {
		TTLSeconds int `yaml:"ttl_seconds" json:"ttl_seconds"`
	} `yaml:"cache" json:"cache"`

	Mail struct {
		SMTPHost string `yaml:"smtp_host" json:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port" json:"smtp_port"`
		From     string `yaml:"from" json:"from"`
		Username string `yaml:"username" json:"username"`
	} `yaml:"mail" json:"mail"`
}

// StorageDir is where the engine keeps its records: the local document, the
// audit DB and uploads. The bootstrap dir (env-resolved, holds the config
// itself) is the default; app.data_dir relocates the stores without moving
// the config.
func (c Config) StorageDir(bootstrapDir string) string {
	if c.App.DataDir != "" {
		return c.App.DataDir
	}
	return bootstrapDir
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
