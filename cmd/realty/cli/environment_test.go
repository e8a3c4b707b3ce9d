// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bureau-foundation/realty/lib/realtyapi"
	"github.com/bureau-foundation/realty/lib/realtyapi/realtyapitest"
	"github.com/bureau-foundation/realty/lib/session"
)

func testEnvironment(t *testing.T, server *realtyapitest.Server, extra string) (Environment, string) {
	t.Helper()
	t.Setenv("REALTY_API_URL", "")
	t.Setenv("REALTY_SESSION_FILE", "")
	t.Setenv("REALTY_LOG_LEVEL", "")
	t.Setenv("REALTY_CONFIG", "")

	directory := t.TempDir()
	sessionPath := filepath.Join(directory, "session.json")
	configPath := writeFile(t, "config.yaml", fmt.Sprintf(
		"api:\n  base_url: %s\nsession:\n  file: %s\n%s", server.BaseURL(), sessionPath, extra))
	return Environment{ConfigPath: configPath}, sessionPath
}

func TestEnvironment_OpenWithoutSession(t *testing.T) {
	server := realtyapitest.NewServer(t)
	environment, _ := testEnvironment(t, server, "")

	backend, err := environment.Open(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer backend.Close()

	if backend.Client.BaseURL() != server.BaseURL() {
		t.Errorf("BaseURL = %q, want %q", backend.Client.BaseURL(), server.BaseURL())
	}
	err = backend.RequireSession()
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryForbidden {
		t.Errorf("RequireSession = %v, want forbidden", err)
	}
}

func TestEnvironment_UnauthorizedPurgesToken(t *testing.T) {
	server := realtyapitest.NewServer(t)
	environment, sessionPath := testEnvironment(t, server, "")
	token := server.AddUser("meera", "pw")
	if err := session.NewFileStore(sessionPath).Save(token); err != nil {
		t.Fatal(err)
	}

	backend, err := environment.Open(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer backend.Close()
	if err := backend.RequireSession(); err != nil {
		t.Fatalf("RequireSession: %v", err)
	}
	if backend.Gate.DisplayName() != "meera" {
		t.Errorf("DisplayName = %q", backend.Gate.DisplayName())
	}

	if _, err := backend.Client.Clients(context.Background()); err != nil {
		t.Fatalf("Clients: %v", err)
	}

	server.ExpireTokens()
	_, err = backend.Client.Clients(context.Background())
	if got := APIFailure("list clients", err); got.Category != CategoryForbidden {
		t.Errorf("category = %q, want forbidden", got.Category)
	}
	if _, err := session.NewFileStore(sessionPath).Load(); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("stored token after 401: %v", err)
	}
}

func TestEnvironment_LateRejectionKeepsNewerLogin(t *testing.T) {
	server := realtyapitest.NewServer(t)
	environment, sessionPath := testEnvironment(t, server, "")
	if err := session.NewFileStore(sessionPath).Save(server.AddUser("meera", "pw")); err != nil {
		t.Fatal(err)
	}

	backend, err := environment.Open(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer backend.Close()

	release := server.Hold("GET /clients")
	defer release()
	result := make(chan error, 1)
	go func() {
		_, err := backend.Client.Clients(context.Background())
		result <- err
	}()
	deadline := time.Now().Add(5 * time.Second)
	for server.Calls("GET /clients") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("request never reached the server")
		}
		time.Sleep(time.Millisecond)
	}

	// While the old request is in flight its token expires and another
	// user logs in.
	server.ExpireTokens()
	fresh := server.AddUser("asha", "pw")
	if err := backend.Gate.Logout(); err != nil {
		t.Fatal(err)
	}
	if err := backend.Gate.Login(fresh, "asha"); err != nil {
		t.Fatal(err)
	}

	release()
	if err := <-result; !errors.Is(err, realtyapi.ErrSessionExpired) {
		t.Fatalf("Clients = %v, want ErrSessionExpired", err)
	}
	if backend.Gate.Token() != fresh {
		t.Error("late 401 logged out the newer session")
	}
	if stored, err := session.NewFileStore(sessionPath).Load(); err != nil || stored != fresh {
		t.Errorf("stored token = %q, %v; want the newer login", stored, err)
	}
}

func TestEnvironment_CorruptSessionFileIsDiscarded(t *testing.T) {
	server := realtyapitest.NewServer(t)
	environment, sessionPath := testEnvironment(t, server, "")
	if err := os.WriteFile(sessionPath, []byte(`{"token": "eyJhbGciOi`), 0o600); err != nil {
		t.Fatal(err)
	}

	backend, err := environment.Open(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Open with a corrupt session file: %v", err)
	}
	defer backend.Close()

	if backend.Gate.Authenticated() {
		t.Error("corrupt session restored as authenticated")
	}
	if _, err := os.Stat(sessionPath); !os.IsNotExist(err) {
		t.Errorf("corrupt session file survived Open: %v", err)
	}
}

func TestEnvironment_SealedSession(t *testing.T) {
	server := realtyapitest.NewServer(t)
	identityPath := filepath.Join(t.TempDir(), "identity.txt")
	environment, _ := testEnvironment(t, server, "  identity_file: "+identityPath+"\n")

	backend, err := environment.Open(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.Store.(*session.SealedStore); !ok {
		t.Fatalf("store = %T, want *session.SealedStore", backend.Store)
	}
	token := server.AddUser("meera", "pw")
	if err := backend.Gate.Login(token, "meera"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	reopened, err := environment.Open(slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Gate.Token() != token {
		t.Error("sealed token did not survive a reopen")
	}
}

func TestEnvironment_InvalidConfig(t *testing.T) {
	t.Setenv("REALTY_API_URL", "")
	t.Setenv("REALTY_LOG_LEVEL", "")
	path := writeFile(t, "config.yaml", "api:\n  base_url: ftp://example.com\n")

	environment := Environment{ConfigPath: path}
	_, err := environment.Open(slog.New(slog.DiscardHandler))
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("Open = %v, want validation error", err)
	}
}
