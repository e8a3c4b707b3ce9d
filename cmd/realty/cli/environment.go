// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/realty/lib/clock"
	"github.com/bureau-foundation/realty/lib/config"
	"github.com/bureau-foundation/realty/lib/realtyapi"
	"github.com/bureau-foundation/realty/lib/sealed"
	"github.com/bureau-foundation/realty/lib/session"
)

// Environment is embedded in the params of every command that talks to
// the backend. It binds --config and --env-file and turns them into a
// [Backend] through [Environment.Open].
type Environment struct {
	ConfigPath  string
	EnvFilePath string
}

// AddFlags implements [FlagBinder].
func (e *Environment) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&e.ConfigPath, "config", "", "config file (default: $REALTY_CONFIG or $XDG_CONFIG_HOME/realty/config.yaml)")
	flagSet.StringVar(&e.EnvFilePath, "env-file", "", "dotenv file loaded before the config (default: ./.env if present)")
}

// Backend bundles what a command needs to reach the API: the loaded
// configuration, the session gate over the token store, and a client
// whose 401 answers purge the stored token.
type Backend struct {
	Config *config.Config
	Store  session.Store
	Gate   *session.Gate
	Client *realtyapi.Client

	identity *sealed.Identity
}

// Open loads the configuration, restores the stored session and builds
// the API client.
func (e *Environment) Open(logger *slog.Logger) (*Backend, error) {
	cfg, err := e.LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewBackend(cfg, logger)
}

// NewBackend builds a Backend from an already loaded configuration.
// The logger is handed to the session gate and the API client.
func NewBackend(cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	backend := &Backend{Config: cfg}
	sessionPath := cfg.Session.File
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	if cfg.Session.IdentityFile != "" {
		identity, err := sealed.LoadOrCreateIdentity(cfg.Session.IdentityFile)
		if err != nil {
			return nil, Internal("loading session identity: %w", err)
		}
		backend.identity = identity
		backend.Store = session.NewSealedStore(sessionPath, identity, clock.Real())
	} else {
		backend.Store = session.NewFileStore(sessionPath)
	}

	backend.Gate = session.NewGate(backend.Store, logger)
	if _, err := backend.Gate.Restore(); err != nil {
		backend.Close()
		return nil, Internal("%w", err)
	}

	gate := backend.Gate
	var err error
	backend.Client, err = realtyapi.NewClient(realtyapi.Config{
		BaseURL: cfg.API.BaseURL,
		Tokens:  gate,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
		OnUnauthorized: func(token string) {
			if _, err := gate.Revoke(token); err != nil {
				logger.Warn("purging rejected token", "error", err)
			}
		},
	})
	if err != nil {
		backend.Close()
		return nil, Validation("%w", err)
	}
	return backend, nil
}

// OpenSession is Open followed by [Backend.RequireSession], for commands
// that only make authenticated calls.
func (e *Environment) OpenSession(logger *slog.Logger) (*Backend, error) {
	backend, err := e.Open(logger)
	if err != nil {
		return nil, err
	}
	if err := backend.RequireSession(); err != nil {
		backend.Close()
		return nil, err
	}
	return backend, nil
}

// LoadConfig loads the dotenv file and the configuration, validates it,
// and applies log.level to command loggers.
func (e *Environment) LoadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(e.EnvFilePath); err != nil {
		return nil, Validation("%w", err)
	}
	cfg, err := config.Load(e.ConfigPath)
	if err != nil {
		return nil, Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Validation("invalid configuration: %w", err)
	}
	level, _ := cfg.SlogLevel()
	LogLevel.Set(level)
	return cfg, nil
}

// RequireSession fails with a forbidden error when no token is stored.
func (b *Backend) RequireSession() error {
	if b.Gate.Authenticated() {
		return nil
	}
	return Forbidden("not logged in").
		WithHint("Run 'realty login <username>' first.")
}

// Close releases the session identity, if one was loaded.
func (b *Backend) Close() error {
	if b.identity == nil {
		return nil
	}
	err := b.identity.Close()
	b.identity = nil
	return err
}
