// Package koanf loads [campus.Config] from a YAML file and the environment
// using koanf. Environment variables override the file, and both override
// [campus.DefaultConfig].
package koanf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/fwojciec/campus"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is prepended to the upper-cased key to form its variable name,
// e.g. CAMPUS_BASE_URL for base_url.
const EnvPrefix = "CAMPUS_"

// keys lists every configuration key that may come from the environment.
var keys = []string{"base_url", "store", "store_path", "log_level", "mode", "page_size"}

// DefaultPath returns $XDG_CONFIG_HOME/campus/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "campus", "config.yaml")
}

// DefaultStorePath returns the credentials file used by the file store when
// store_path is not configured.
func DefaultStorePath() string {
	return filepath.Join(xdg.DataHome, "campus", "auth.json")
}

// Option configures [Load].
type Option func(*loader)

type loader struct {
	lookup func(string) (string, bool)
}

// WithLookupEnv replaces os.LookupEnv as the source of environment values.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *loader) { l.lookup = fn }
}

// Load reads the configuration. An empty path means [DefaultPath], which may
// be absent; an explicit path must exist.
func Load(path string, opts ...Option) (campus.Config, error) {
	l := loader{lookup: os.LookupEnv}
	for _, o := range opts {
		o(&l)
	}

	required := path != ""
	if path == "" {
		path = DefaultPath()
	}

	k := koanf.New(".")
	switch _, err := os.Stat(path); {
	case err == nil:
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return campus.Config{}, fmt.Errorf("koanf: load %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return campus.Config{}, fmt.Errorf("koanf: %w", err)
	}

	for _, key := range keys {
		if v, ok := l.lookup(EnvPrefix + strings.ToUpper(key)); ok && v != "" {
			if err := k.Set(key, v); err != nil {
				return campus.Config{}, fmt.Errorf("koanf: set %s: %w", key, err)
			}
		}
	}

	cfg := campus.DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return campus.Config{}, fmt.Errorf("koanf: unmarshal: %w", err)
	}
	if cfg.StorePath == "" {
		cfg.StorePath = DefaultStorePath()
	}
	if err := cfg.Validate(); err != nil {
		return campus.Config{}, fmt.Errorf("koanf: %s: %w", path, err)
	}
	return cfg, nil
}
