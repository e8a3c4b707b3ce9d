// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Status is the auth state.
type Status int

const (
	// Unauthenticated: no usable token. The auth screen is shown.
	Unauthenticated Status = iota

	// Authenticated: a token is held and its payload decoded. The
	// dashboard is shown. The backend may still reject the token, which
	// moves the gate back to Unauthenticated.
	Authenticated
)

func (status Status) String() string {
	switch status {
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Gate is the two-state auth machine over a Store. Transitions into
// Authenticated happen through Restore (a decodable stored token) and
// Login; transitions out happen through Logout, which callers invoke
// on explicit logout and on any unauthorized response.
//
// Gate is safe for concurrent use: API calls running off the UI loop
// read the token through Token while the loop itself drives the
// transitions.
type Gate struct {
	store  Store
	logger *slog.Logger

	mu      sync.RWMutex
	status  Status
	token   string
	subject string
}

// NewGate returns an Unauthenticated gate over store.
func NewGate(store Store, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{store: store, logger: logger}
}

// Restore inspects the stored token. No token leaves the gate
// Unauthenticated. A stored record that does not decode, or a token
// whose payload does not decode, is purged and also leaves it
// Unauthenticated. Otherwise the gate becomes
// Authenticated with the token's subject as display name. The returned
// error reports storage failures only.
func (gate *Gate) Restore() (Status, error) {
	token, err := gate.store.Load()
	if errors.Is(err, ErrNoSession) {
		gate.reset()
		return Unauthenticated, nil
	}
	if errors.Is(err, ErrMalformedSession) {
		return gate.purge(err)
	}
	if err != nil {
		gate.reset()
		return Unauthenticated, fmt.Errorf("loading stored session: %w", err)
	}

	claims, err := DecodeClaims(token)
	if err != nil {
		return gate.purge(err)
	}

	gate.mu.Lock()
	gate.status = Authenticated
	gate.token = token
	gate.subject = claims.Subject
	gate.mu.Unlock()
	return Authenticated, nil
}

// purge discards an unreadable stored session.
func (gate *Gate) purge(cause error) (Status, error) {
	gate.logger.Warn("discarding stored token", "error", cause)
	gate.reset()
	if err := gate.store.Clear(); err != nil {
		return Unauthenticated, fmt.Errorf("purging malformed token: %w", err)
	}
	return Unauthenticated, nil
}

// Login persists token and moves to Authenticated. username is what the
// user typed and becomes the display name; it wins over the token's
// subject, which is only consulted when username is empty.
func (gate *Gate) Login(token, username string) error {
	if token == "" {
		return errors.New("session: login returned an empty token")
	}
	if username == "" {
		username, _ = Subject(token)
	}

	gate.mu.Lock()
	defer gate.mu.Unlock()
	if err := gate.store.Save(token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	gate.status = Authenticated
	gate.token = token
	gate.subject = username
	return nil
}

// Revoke logs out only if token is still the current session token. A
// rejection that arrives after a newer login leaves that login alone.
// It reports whether the session was revoked.
func (gate *Gate) Revoke(token string) (bool, error) {
	gate.mu.Lock()
	defer gate.mu.Unlock()
	if gate.status != Authenticated || gate.token != token {
		return false, nil
	}
	gate.status = Unauthenticated
	gate.token = ""
	gate.subject = ""
	if err := gate.store.Clear(); err != nil {
		return true, fmt.Errorf("clearing session: %w", err)
	}
	return true, nil
}

// Logout purges the stored token and moves to Unauthenticated. The
// in-memory state is reset even when the store fails to clear.
func (gate *Gate) Logout() error {
	gate.reset()
	if err := gate.store.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func (gate *Gate) reset() {
	gate.mu.Lock()
	gate.status = Unauthenticated
	gate.token = ""
	gate.subject = ""
	gate.mu.Unlock()
}

// Status returns the current state.
func (gate *Gate) Status() Status {
	gate.mu.RLock()
	defer gate.mu.RUnlock()
	return gate.status
}

// Authenticated reports whether the gate holds a token.
func (gate *Gate) Authenticated() bool {
	return gate.Status() == Authenticated
}

// Token returns the bearer token, empty when Unauthenticated.
func (gate *Gate) Token() string {
	gate.mu.RLock()
	defer gate.mu.RUnlock()
	return gate.token
}

// DisplayName returns the subject shown in the profile badge.
func (gate *Gate) DisplayName() string {
	gate.mu.RLock()
	defer gate.mu.RUnlock()
	return gate.subject
}

// Initial returns the upper-cased first letter of the display name, or
// the empty string when there is none.
func (gate *Gate) Initial() string {
	return Initial(gate.DisplayName())
}

// Initial returns the upper-cased first rune of name.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first))
}
