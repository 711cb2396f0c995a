package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"talent-engine/internal/config"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "talent-engine"

// GetAPIKey fetches the remote HR API key (the x-api-key value).
func GetAPIKey(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("remote API key account is not configured")
	}
	key, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(key) == "" {
		return "", errors.New("remote API key not found in keychain")
	}
	return key, nil
}

func SetAPIKey(account string, key string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, account, key)
}

func DeleteAPIKey(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// GetSMTPPassword fetches the mail password for the configured SMTP account.
func GetSMTPPassword(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("smtp account name is empty")
	}
	pw, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", errors.New("SMTP password not found in keychain")
	}
	return pw, nil
}

func SetSMTPPassword(account string, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("smtp account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

// APIKeyAccount names the keyring slot for the remote API key.
func APIKeyAccount(cfg config.Config) string {
	if cfg.Remote.APIKeyAccount != "" {
		return cfg.Remote.APIKeyAccount
	}
	return "talent-engine:remote:default"
}

// SMTPAccount names the keyring slot for the SMTP password.
func SMTPAccount(cfg config.Config) string {
	return fmt.Sprintf("talent-engine:smtp:%s@%s", cfg.Mail.Username, cfg.Mail.SMTPHost)
}
