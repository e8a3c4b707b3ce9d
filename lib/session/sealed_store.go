// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bureau-foundation/realty/lib/clock"
	"github.com/bureau-foundation/realty/lib/codec"
	"github.com/bureau-foundation/realty/lib/sealed"
)

// sealedRecord is the CBOR plaintext inside a sealed session file.
type sealedRecord struct {
	AccessToken string    `cbor:"access_token"`
	SavedAt     time.Time `cbor:"saved_at"`
}

// SealedStore keeps the token in an age-encrypted file. The plaintext
// is a CBOR record holding the token and the time it was saved.
type SealedStore struct {
	path     string
	identity *sealed.Identity
	clock    clock.Clock
}

// NewSealedStore returns a SealedStore at path that seals to, and opens
// with, identity. The identity is borrowed; the caller closes it after
// the store is no longer used.
func NewSealedStore(path string, identity *sealed.Identity, clk clock.Clock) *SealedStore {
	if clk == nil {
		clk = clock.Real()
	}
	return &SealedStore{path: path, identity: identity, clock: clk}
}

// Path returns the sealed session file path.
func (store *SealedStore) Path() string { return store.path }

// Load opens the sealed file and returns the token. A file sealed to
// another identity, or one that does not decrypt, is malformed.
func (store *SealedStore) Load() (string, error) {
	record, err := store.open()
	if err != nil {
		return "", err
	}
	return record.AccessToken, nil
}

// SavedAt reports when the stored token was written.
func (store *SealedStore) SavedAt() (time.Time, error) {
	record, err := store.open()
	if err != nil {
		return time.Time{}, err
	}
	return record.SavedAt, nil
}

func (store *SealedStore) open() (sealedRecord, error) {
	ciphertext, err := os.ReadFile(store.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return sealedRecord{}, ErrNoSession
		}
		return sealedRecord{}, fmt.Errorf("reading sealed session %s: %w", store.path, err)
	}

	plaintext, err := sealed.Open(ciphertext, store.identity)
	if err != nil {
		return sealedRecord{}, fmt.Errorf("%w: opening %s: %v", ErrMalformedSession, store.path, err)
	}
	defer plaintext.Close()

	var record sealedRecord
	if err := codec.Unmarshal(plaintext.Bytes(), &record); err != nil {
		return sealedRecord{}, fmt.Errorf("%w: decoding %s: %v", ErrMalformedSession, store.path, err)
	}
	if record.AccessToken == "" {
		return sealedRecord{}, ErrNoSession
	}
	return record, nil
}

// Save seals the token to the store's identity and writes it.
func (store *SealedStore) Save(token string) error {
	plaintext, err := codec.Marshal(sealedRecord{
		AccessToken: token,
		SavedAt:     store.clock.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}
	ciphertext, err := sealed.Seal(plaintext, store.identity.PublicKey)
	if err != nil {
		return fmt.Errorf("sealing session: %w", err)
	}
	return writePrivateFile(store.path, ciphertext)
}

// Clear removes the sealed file.
func (store *SealedStore) Clear() error {
	if err := os.Remove(store.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing sealed session %s: %w", store.path, err)
	}
	return nil
}
