// Package config loads process configuration from environment variables.
// It is read once at startup; components receive the resulting structs by
// value and never consult the environment themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// UQAM portal API
	Portal PortalConfig

	// Grade watch daemon
	Watch WatchConfig

	// Outgoing mail
	SMTP SMTPConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string
	Environment Environment
	Debug       bool
}

// PortalConfig holds UQAM portal client settings.
type PortalConfig struct {
	// BaseURL of the portal, e.g. https://monportail.uqam.ca
	BaseURL string

	// RequestTimeout bounds every portal round trip so a hung request
	// cannot stall the daemon.
	RequestTimeout time.Duration
}

// WatchConfig holds settings for the change-detection daemon.
type WatchConfig struct {
	// Interval between check cycles.
	Interval time.Duration

	// StatePath overrides the state database location. Empty means the
	// per-user config directory.
	StatePath string
}

// SMTPConfig holds mail relay settings. Username and Password are hard
// preconditions of sending, checked by the notifier at send time, not at
// startup: the grades and credentials commands never need them.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// RecipientDomain builds the destination address as
	// {portal username}@{RecipientDomain}.
	RecipientDomain string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App:    loadAppConfig(),
		Portal: loadPortalConfig(),
		Watch:  loadWatchConfig(),
		SMTP:   loadSMTPConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func loadAppConfig() AppConfig {
	env := Environment(getEnv("APP_ENV", "development"))
	return AppConfig{
		Name:        "uqgrd",
		Environment: env,
		Debug:       env == EnvDevelopment || getEnvBool("APP_DEBUG", false),
	}
}

func loadPortalConfig() PortalConfig {
	return PortalConfig{
		BaseURL:        getEnv("UQGRD_PORTAL_URL", "https://monportail.uqam.ca"),
		RequestTimeout: getEnvDuration("UQGRD_REQUEST_TIMEOUT", 30*time.Second),
	}
}

func loadWatchConfig() WatchConfig {
	// CHECK_INTERVAL is a bare number of minutes; anything unparsable
	// falls back to the 60 minute default.
	return WatchConfig{
		Interval:  time.Duration(getEnvInt("CHECK_INTERVAL", 60)) * time.Minute,
		StatePath: getEnv("UQGRD_STATE_PATH", ""),
	}
}

func loadSMTPConfig() SMTPConfig {
	return SMTPConfig{
		Host:            getEnv("SMTP_SERVER", "smtp.gmail.com"),
		Port:            getEnvInt("SMTP_PORT", 587),
		Username:        getEnv("SMTP_USERNAME", ""),
		Password:        getEnv("SMTP_PASSWORD", ""),
		RecipientDomain: getEnv("UQGRD_MAIL_DOMAIN", "uqam.ca"),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []string

	if c.Portal.BaseURL == "" {
		errs = append(errs, "UQGRD_PORTAL_URL cannot be empty")
	}
	if c.Watch.Interval <= 0 {
		errs = append(errs, "CHECK_INTERVAL must be positive")
	}
	if c.Portal.RequestTimeout <= 0 {
		errs = append(errs, "UQGRD_REQUEST_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// --- Helper functions for environment variable parsing ---

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
