// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSealOpenRoundTrip(t *testing.T) {
	identity, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	defer identity.Close()

	ciphertext, err := Seal([]byte("header.payload.signature"), identity.PublicKey)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !bytes.HasPrefix(ciphertext, []byte("-----BEGIN AGE ENCRYPTED FILE-----")) {
		t.Errorf("ciphertext is not armored: %q", ciphertext[:40])
	}
	if bytes.Contains(ciphertext, []byte("payload")) {
		t.Error("ciphertext contains plaintext")
	}

	plaintext, err := Open(ciphertext, identity)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer plaintext.Close()
	if got := plaintext.String(); got != "header.payload.signature" {
		t.Errorf("Open = %q, want original plaintext", got)
	}
}

func TestOpenWrongIdentity(t *testing.T) {
	owner, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	defer owner.Close()
	stranger, err := GenerateIdentity()
	if err != nil {
		t.Fatalf("GenerateIdentity: %v", err)
	}
	defer stranger.Close()

	ciphertext, err := Seal([]byte("token"), owner.PublicKey)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := Open(ciphertext, stranger); err == nil {
		t.Fatal("Open with the wrong identity succeeded")
	}
}

func TestSealRequiresRecipient(t *testing.T) {
	if _, err := Seal([]byte("x")); err == nil {
		t.Fatal("Seal without recipients succeeded")
	}
	if _, err := Seal([]byte("x"), "not-a-key"); err == nil {
		t.Fatal("Seal with a malformed recipient succeeded")
	}
}

func TestLoadOrCreateIdentity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "identity.txt")

	created, err := LoadOrCreateIdentity(path)
	if err != nil {
		t.Fatalf("LoadOrCreateIdentity (create): %v", err)
	}
	defer created.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat identity file: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Errorf("identity file mode = %o, want 600", mode)
	}

	loaded, err := LoadOrCreateIdentity(path)
	if err != nil {
		t.Fatalf("LoadOrCreateIdentity (load): %v", err)
	}
	defer loaded.Close()
	if loaded.PublicKey != created.PublicKey {
		t.Errorf("reloaded public key %q, want %q", loaded.PublicKey, created.PublicKey)
	}
	if !strings.HasPrefix(loaded.PublicKey, "age1") {
		t.Errorf("public key %q lacks age1 prefix", loaded.PublicKey)
	}
}

func TestLoadIdentityFileRejectsGarbage(t *testing.T) {
	directory := t.TempDir()

	empty := filepath.Join(directory, "empty.txt")
	if err := os.WriteFile(empty, []byte("# only a comment\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIdentityFile(empty); err == nil {
		t.Error("LoadIdentityFile accepted a file with no key")
	}

	garbage := filepath.Join(directory, "garbage.txt")
	if err := os.WriteFile(garbage, []byte("AGE-SECRET-KEY-NOPE\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadIdentityFile(garbage); err == nil {
		t.Error("LoadIdentityFile accepted a malformed key")
	}
}
