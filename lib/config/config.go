// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// DefaultBaseURL is the backend the desk talks to when nothing else is
// configured.
const DefaultBaseURL = "http://127.0.0.1:5000/api"

// Config is the master configuration structure.
type Config struct {
	// Environment selects the overrides block to apply. Empty means no
	// overrides.
	Environment Environment `yaml:"environment"`

	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	UI      UIConfig      `yaml:"ui"`
	Log     LogConfig     `yaml:"log"`

	// Environments holds per-environment overrides.
	Environments map[Environment]*Overrides `yaml:"environments,omitempty"`

	// path is the file this config was read from, empty for defaults.
	path string
}

// APIConfig configures the backend connection.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each request. Zero means the client default.
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig configures where the access token is persisted.
type SessionConfig struct {
	// File is the session file. Empty means $XDG_CONFIG_HOME/realty/session.json.
	File string `yaml:"file"`

	// IdentityFile is an age identity. When set, the token is stored
	// encrypted to it.
	IdentityFile string `yaml:"identity_file"`
}

// UIConfig configures the terminal desk.
type UIConfig struct {
	ToastDuration time.Duration `yaml:"toast_duration"`
	Mouse         bool          `yaml:"mouse"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// File receives JSON log records. The TUI owns the terminal, so
	// without a file its records only surface as warnings in the desk.
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Overrides holds the fields an environments block may change. Nil
// pointers leave the base value alone.
type Overrides struct {
	API struct {
		BaseURL *string        `yaml:"base_url,omitempty"`
		Timeout *time.Duration `yaml:"timeout,omitempty"`
	} `yaml:"api,omitempty"`

	Session struct {
		File         *string `yaml:"file,omitempty"`
		IdentityFile *string `yaml:"identity_file,omitempty"`
	} `yaml:"session,omitempty"`

	UI struct {
		ToastDuration *time.Duration `yaml:"toast_duration,omitempty"`
		Mouse         *bool          `yaml:"mouse,omitempty"`
	} `yaml:"ui,omitempty"`

	Log struct {
		File  *string `yaml:"file,omitempty"`
		Level *string `yaml:"level,omitempty"`
	} `yaml:"log,omitempty"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
		},
		UI: UIConfig{
			ToastDuration: 3 * time.Second,
			Mouse:         true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Path returns the file the configuration was read from, or "" when
// only defaults and environment variables apply.
func (c *Config) Path() string {
	return c.path
}

// DefaultPath returns $XDG_CONFIG_HOME/realty/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "realty", "config.yaml")
}

// Resolve picks the config file to read. required reports whether the
// file was named explicitly and so must exist.
func Resolve(flagPath string) (path string, required bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if envPath := os.Getenv("REALTY_CONFIG"); envPath != "" {
		return envPath, true
	}
	return DefaultPath(), false
}

// LoadDotEnv loads variables from a .env file without replacing ones
// already set. An empty path means ".env" in the working directory,
// which may be absent. A named file must exist.
func LoadDotEnv(path string) error {
	required := path != ""
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load resolves and loads the configuration. flagPath is the value of
// --config and may be empty.
func Load(flagPath string) (*Config, error) {
	path, required := Resolve(flagPath)

	if !required {
		if path == "" {
			return finish(Default())
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return finish(Default())
		}
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.path = path
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	cfg.applyEnvironmentVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	overrides := c.Environments[c.Environment]
	if overrides == nil {
		return
	}

	setString(&c.API.BaseURL, overrides.API.BaseURL)
	if overrides.API.Timeout != nil {
		c.API.Timeout = *overrides.API.Timeout
	}
	setString(&c.Session.File, overrides.Session.File)
	setString(&c.Session.IdentityFile, overrides.Session.IdentityFile)
	if overrides.UI.ToastDuration != nil {
		c.UI.ToastDuration = *overrides.UI.ToastDuration
	}
	if overrides.UI.Mouse != nil {
		c.UI.Mouse = *overrides.UI.Mouse
	}
	setString(&c.Log.File, overrides.Log.File)
	setString(&c.Log.Level, overrides.Log.Level)
}

func setString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}

// applyEnvironmentVariables lets REALTY_* variables win over the file.
func (c *Config) applyEnvironmentVariables() {
	if value := os.Getenv("REALTY_API_URL"); value != "" {
		c.API.BaseURL = value
	}
	if value := os.Getenv("REALTY_SESSION_FILE"); value != "" {
		c.Session.File = value
	}
	if value := os.Getenv("REALTY_LOG_LEVEL"); value != "" {
		c.Log.Level = value
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} in string fields.
func (c *Config) expandVariables() {
	c.API.BaseURL = expandVars(c.API.BaseURL)
	c.Session.File = expandVars(c.Session.File)
	c.Session.IdentityFile = expandVars(c.Session.IdentityFile)
	c.Log.File = expandVars(c.Log.File)
	c.Log.Level = expandVars(c.Log.Level)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		fallback := parts[2]

		if value := os.Getenv(name); value != "" {
			return value
		}
		if name == "HOME" {
			if home, err := os.UserHomeDir(); err == nil {
				return home
			}
		}
		return fallback
	})
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: must be debug, info, warn or error", c.Log.Level)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case "", Development, Staging, Production:
	default:
		errs = append(errs, fmt.Errorf("environment must be one of: development, staging, production (got %q)", c.Environment))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	} else if parsed, err := url.Parse(c.API.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Errorf("api.base_url must be an http or https URL (got %q)", c.API.BaseURL))
	} else if parsed.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url has no host"))
	}

	if c.API.Timeout < 0 {
		errs = append(errs, fmt.Errorf("api.timeout must not be negative"))
	}
	if c.UI.ToastDuration < 0 {
		errs = append(errs, fmt.Errorf("ui.toast_duration must not be negative"))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
