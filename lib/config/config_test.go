// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate clears every variable the loader reads so the developer's own
// environment cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"REALTY_CONFIG", "REALTY_API_URL", "REALTY_SESSION_FILE", "REALTY_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	return xdg
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL != "http://127.0.0.1:5000/api" {
		t.Errorf("expected base_url=http://127.0.0.1:5000/api, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 0 {
		t.Errorf("expected timeout=0, got %s", cfg.API.Timeout)
	}
	if cfg.UI.ToastDuration != 3*time.Second {
		t.Errorf("expected toast_duration=3s, got %s", cfg.UI.ToastDuration)
	}
	if !cfg.UI.Mouse {
		t.Error("expected mouse=true")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected level=info, got %s", cfg.Log.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_MissingDefaultFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("expected no path, got %s", cfg.Path())
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base_url, got %s", cfg.API.BaseURL)
	}
}

func TestLoad_ReadsXDGFile(t *testing.T) {
	xdg := isolate(t)
	path := writeConfig(t, filepath.Join(xdg, "realty"), "api:\n  base_url: http://desk.example:8080/api\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("expected path %s, got %s", path, cfg.Path())
	}
	if cfg.API.BaseURL != "http://desk.example:8080/api" {
		t.Errorf("expected XDG base_url, got %s", cfg.API.BaseURL)
	}
}

func TestLoad_ResolutionOrder(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, filepath.Join(xdg, "realty"), "log:\n  level: debug\n")
	envPath := writeConfig(t, filepath.Join(t.TempDir(), "env"), "log:\n  level: warn\n")
	flagPath := writeConfig(t, filepath.Join(t.TempDir(), "flag"), "log:\n  level: error\n")

	t.Setenv("REALTY_CONFIG", envPath)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("REALTY_CONFIG should beat the XDG file, got level %s", cfg.Log.Level)
	}

	cfg, err = Load(flagPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("--config should beat REALTY_CONFIG, got level %s", cfg.Log.Level)
	}
}

func TestLoad_NamedFileMustExist(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing --config file")
	}

	t.Setenv("REALTY_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(""); err == nil {
		t.Error("expected error for a missing REALTY_CONFIG file")
	}
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
api:
  base_url: https://realty.example/api
  timeout: 15s
session:
  file: /tmp/realty-session.json
  identity_file: /tmp/realty.age
ui:
  toast_duration: 5s
  mouse: false
log:
  file: /tmp/realty.log
  level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.API.BaseURL != "https://realty.example/api" {
		t.Errorf("expected base_url from file, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("expected timeout=15s, got %s", cfg.API.Timeout)
	}
	if cfg.Session.File != "/tmp/realty-session.json" {
		t.Errorf("expected session file from file, got %s", cfg.Session.File)
	}
	if cfg.Session.IdentityFile != "/tmp/realty.age" {
		t.Errorf("expected identity file from file, got %s", cfg.Session.IdentityFile)
	}
	if cfg.UI.ToastDuration != 5*time.Second {
		t.Errorf("expected toast_duration=5s, got %s", cfg.UI.ToastDuration)
	}
	if cfg.UI.Mouse {
		t.Error("expected mouse=false")
	}
	if cfg.Log.File != "/tmp/realty.log" || cfg.Log.Level != "debug" {
		t.Errorf("expected log settings from file, got %+v", cfg.Log)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "log:\n  file: /tmp/realty.log\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base_url, got %s", cfg.API.BaseURL)
	}
	if !cfg.UI.Mouse || cfg.UI.ToastDuration != 3*time.Second {
		t.Errorf("expected default UI settings, got %+v", cfg.UI)
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), "api: [unterminated\n")

	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("expected parsing error, got %v", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	content := `
environment: production
api:
  base_url: http://127.0.0.1:5000/api
environments:
  development:
    log:
      level: debug
  production:
    api:
      base_url: https://realty.example/api
      timeout: 10s
    ui:
      mouse: false
`
	path := writeConfig(t, t.TempDir(), content)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.BaseURL != "https://realty.example/api" {
		t.Errorf("expected production base_url, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("expected production timeout, got %s", cfg.API.Timeout)
	}
	if cfg.UI.Mouse {
		t.Error("expected production to disable mouse")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("development block must not apply in production, got level %s", cfg.Log.Level)
	}
}

func TestEnvironmentVariablesWin(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
api:
  base_url: http://from-file:5000/api
session:
  file: /from/file.json
log:
  level: debug
`)
	t.Setenv("REALTY_API_URL", "http://from-env:5000/api")
	t.Setenv("REALTY_SESSION_FILE", "/from/env.json")
	t.Setenv("REALTY_LOG_LEVEL", "warn")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.BaseURL != "http://from-env:5000/api" {
		t.Errorf("expected REALTY_API_URL to win, got %s", cfg.API.BaseURL)
	}
	if cfg.Session.File != "/from/env.json" {
		t.Errorf("expected REALTY_SESSION_FILE to win, got %s", cfg.Session.File)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected REALTY_LOG_LEVEL to win, got %s", cfg.Log.Level)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("REALTY_TEST_HOST", "desk.internal")
	t.Setenv("REALTY_TEST_EMPTY", "")

	tests := []struct {
		input    string
		expected string
	}{
		{"http://${REALTY_TEST_HOST}/api", "http://desk.internal/api"},
		{"${REALTY_TEST_EMPTY:-fallback}", "fallback"},
		{"${REALTY_TEST_UNSET_VARIABLE:-/var/log/realty.log}", "/var/log/realty.log"},
		{"${REALTY_TEST_UNSET_VARIABLE}", ""},
		{"no variables here", "no variables here"},
	}

	for _, tt := range tests {
		if got := expandVars(tt.input); got != tt.expected {
			t.Errorf("expandVars(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadFile_ExpandsVariables(t *testing.T) {
	isolate(t)
	t.Setenv("REALTY_TEST_LOG_DIR", "/srv/logs")
	path := writeConfig(t, t.TempDir(), "log:\n  file: ${REALTY_TEST_LOG_DIR}/realty.log\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Log.File != "/srv/logs/realty.log" {
		t.Errorf("expected expanded log file, got %s", cfg.Log.File)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid default", func(*Config) {}, ""},
		{"https accepted", func(c *Config) { c.API.BaseURL = "https://realty.example/api" }, ""},
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url is required"},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://realty.example" }, "http or https"},
		{"no host", func(c *Config) { c.API.BaseURL = "http:///api" }, "no host"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"negative toast", func(c *Config) { c.UI.ToastDuration = -time.Second }, "ui.toast_duration"},
		{"unknown level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"unknown environment", func(c *Config) { c.Environment = "qa" }, "environment must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := Default()
	for input, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		cfg.Log.Level = input
		got, err := cfg.SlogLevel()
		if err != nil {
			t.Errorf("SlogLevel(%q): %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("SlogLevel(%q) = %v, expected %v", input, got, want)
		}
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "realty.env")
	if err := os.WriteFile(envFile, []byte("REALTY_API_URL=http://dotenv:5000/api\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv skips variables that are already present, so clear the
	// one isolate set.
	os.Unsetenv("REALTY_API_URL")
	t.Cleanup(func() { os.Unsetenv("REALTY_API_URL") })

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://dotenv:5000/api" {
		t.Errorf("expected base_url from .env, got %s", cfg.API.BaseURL)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err == nil {
		t.Error("expected error for a missing named .env file")
	}
}

func TestLoadDotEnv_MissingDefaultIsFine(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadDotEnv(""); err != nil {
		t.Errorf("expected missing .env to be ignored, got %v", err)
	}
}
