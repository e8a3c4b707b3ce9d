// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
)

// TokenKey is the fixed key the token is stored under.
const TokenKey = "access_token"

// ErrNoSession is returned by Store.Load when no token is stored.
var ErrNoSession = errors.New("session: no stored token")

// ErrMalformedSession is wrapped by Store.Load when the stored record
// exists but cannot be decoded. Gate.Restore purges such a record.
var ErrMalformedSession = errors.New("session: stored record is malformed")

// Store persists a single bearer token.
type Store interface {
	// Load returns the stored token, or ErrNoSession. A record that
	// exists but does not decode wraps ErrMalformedSession.
	Load() (string, error)

	// Save replaces the stored token.
	Save(token string) error

	// Clear removes the stored token. Clearing an empty store is not
	// an error.
	Clear() error
}

// DefaultPath returns the session file path: $REALTY_SESSION_FILE if
// set, else $XDG_CONFIG_HOME/realty/session.json, else
// ~/.config/realty/session.json.
func DefaultPath() string {
	if path := os.Getenv("REALTY_SESSION_FILE"); path != "" {
		return path
	}
	return filepath.Join(ConfigDirectory(), "session.json")
}

// ConfigDirectory returns realty's per-user configuration directory.
func ConfigDirectory() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "realty")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "realty")
}

// fileRecord is the on-disk JSON layout of a FileStore.
type fileRecord struct {
	AccessToken string `json:"access_token"`
}

// FileStore keeps the token in a JSON file with mode 0600.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (store *FileStore) Path() string { return store.path }

// Load reads the token. A missing file, or a file with an empty token,
// is ErrNoSession.
func (store *FileStore) Load() (string, error) {
	data, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("reading session file %s: %w", store.path, err)
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrMalformedSession, store.path, err)
	}
	if record.AccessToken == "" {
		return "", ErrNoSession
	}
	return record.AccessToken, nil
}

// Save writes the token, creating the parent directory with mode 0700.
func (store *FileStore) Save(token string) error {
	data, err := json.MarshalIndent(fileRecord{AccessToken: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	return writePrivateFile(store.path, append(data, '\n'))
}

// Clear removes the session file.
func (store *FileStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session file %s: %w", store.path, err)
	}
	return nil
}

// writePrivateFile writes data to path through a temporary file and a
// rename, so a crash never leaves a half-written token behind.
func writePrivateFile(path string, data []byte) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	temporary, err := os.CreateTemp(directory, ".session-*")
	if err != nil {
		return fmt.Errorf("creating temporary session file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := temporary.Chmod(0o600); err != nil {
		temporary.Close()
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("replacing session file %s: %w", path, err)
	}
	return nil
}

// MemoryStore keeps the token in memory. The zero value is an empty
// store.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// Load returns the token or ErrNoSession.
func (store *MemoryStore) Load() (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.token == "" {
		return "", ErrNoSession
	}
	return store.token, nil
}

// Save replaces the token.
func (store *MemoryStore) Save(token string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.token = token
	return nil
}

// Clear forgets the token.
func (store *MemoryStore) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.token = ""
	return nil
}
