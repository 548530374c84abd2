package campus

import (
	"fmt"
	"net/url"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the backend the client talks to when none is configured.
const DefaultBaseURL = "http://localhost:3000"

// StoreKind selects where credentials are persisted.
type StoreKind string

const (
	StoreFile    StoreKind = "file"
	StoreKeyring StoreKind = "keyring"
)

// Config is the client configuration. Zero fields of a loaded Config are
// filled from DefaultConfig.
type Config struct {
	BaseURL   string    `koanf:"base_url"`
	Store     StoreKind `koanf:"store"`
	StorePath string    `koanf:"store_path"` // file store only
	LogLevel  string    `koanf:"log_level"`
	Mode      string    `koanf:"mode"`
	PageSize  int       `koanf:"page_size"`
}

// DefaultConfig returns the built-in configuration. StorePath is left empty
// for the loader to resolve.
func DefaultConfig() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		Store:    StoreFile,
		LogLevel: zerolog.WarnLevel.String(),
		Mode:     ModeStandard.String(),
		PageSize: DefaultPageSize,
	}
}

// ChatMode returns the configured reasoning mode.
func (c Config) ChatMode() Mode {
	m, _ := ParseMode(c.Mode)
	return m
}

// Level returns the configured log level.
func (c Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return l
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url %q must be an http or https URL: %w", c.BaseURL, ErrValidation)
	}
	switch c.Store {
	case StoreFile, StoreKeyring:
	default:
		return fmt.Errorf("store %q must be %q or %q: %w", c.Store, StoreFile, StoreKeyring, ErrValidation)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level %q: %w", c.LogLevel, ErrValidation)
	}
	if _, ok := ParseMode(c.Mode); !ok {
		return fmt.Errorf("mode %q must be %q or %q: %w", c.Mode, ModeStandard, ModeDeepThinking, ErrValidation)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d: %w", c.PageSize, ErrValidation)
	}
	return nil
}
