// Package credentials persists and resolves the portal login.
//
// The username always lives in config.json under the per-user config
// directory. The password goes to the OS keyring by default, or next to
// the username in plaintext when the user opted out of the keyring with
// --insecure. Resolve checks the file first, then the keyring, so both
// layouts read back transparently.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zalando/go-keyring"

	"github.com/uqgrd/uqgrd/internal/domain/shared"
)

const (
	serviceName    = "uqgrd"
	configFileName = "config.json"
)

// fileConfig is the on-disk layout of config.json. Password is only
// present in insecure mode.
type fileConfig struct {
	Username string  `json:"username"`
	Password *string `json:"password,omitempty"`
}

// ConfigDir returns the per-application configuration directory,
// creating nothing. All durable files (config.json, state.db) live here.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, serviceName), nil
}

// Store reads and writes the credential configuration.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the default config directory.
func NewStore() (*Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// NewStoreAt creates a store rooted at an explicit directory.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists the credentials. With insecure set, the password is
// written to config.json in plaintext; otherwise it goes to the OS
// keyring and only the username touches disk.
func (s *Store) Save(username, password string, insecure bool) error {
	if username == "" {
		return shared.WrapError("credentials", "Save", shared.ErrEmptyValue, "username cannot be empty", nil)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	cfg := fileConfig{Username: username}
	if insecure {
		cfg.Password = &password
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, configFileName), data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if !insecure {
		if err := keyring.Set(serviceName, username, password); err != nil {
			return shared.WrapError("credentials", "Save", shared.ErrExternalService, "keyring write failed", err)
		}
	}

	return nil
}

// Resolve returns the stored (username, password) pair.
func (s *Store) Resolve() (username, password string, err error) {
	data, err := os.ReadFile(filepath.Join(s.dir, configFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", "", shared.ErrCredentialsNotFound
		}
		return "", "", shared.WrapError("credentials", "Resolve", shared.ErrInvalidState, "read config", err)
	}

	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return "", "", shared.WrapError("credentials", "Resolve", shared.ErrInvalidFormat, "parse config", err)
	}
	if cfg.Username == "" {
		return "", "", shared.ErrCredentialsCorrupt
	}

	// Plaintext mode: the file carries everything.
	if cfg.Password != nil {
		return cfg.Username, *cfg.Password, nil
	}

	pw, err := keyring.Get(serviceName, cfg.Username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", "", shared.ErrCredentialsNotFound
		}
		return "", "", shared.WrapError("credentials", "Resolve", shared.ErrExternalService, "keyring read failed", err)
	}

	return cfg.Username, pw, nil
}
