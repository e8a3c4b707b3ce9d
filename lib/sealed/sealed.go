// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/realty/lib/secret"
)

// Identity is an age x25519 identity. PrivateKey holds the
// AGE-SECRET-KEY-1... encoding in protected memory; PublicKey is the
// matching age1... recipient and is safe to print.
//
// Call Close when the identity is no longer needed.
type Identity struct {
	PrivateKey *secret.Buffer
	PublicKey  string
}

// Close releases the private key memory.
func (identity *Identity) Close() error {
	if identity == nil || identity.PrivateKey == nil {
		return nil
	}
	return identity.PrivateKey.Close()
}

// GenerateIdentity creates a fresh x25519 identity.
func GenerateIdentity() (*Identity, error) {
	generated, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age identity: %w", err)
	}
	privateKey, err := secret.NewFromBytes([]byte(generated.String()))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	return &Identity{
		PrivateKey: privateKey,
		PublicKey:  generated.Recipient().String(),
	}, nil
}

// LoadIdentityFile reads an identity in age-keygen format: "#" comment
// lines and exactly one AGE-SECRET-KEY-1 line.
func LoadIdentityFile(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(data)

	var keyLine []byte
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if keyLine != nil {
			return nil, fmt.Errorf("identity file %s: more than one key", path)
		}
		keyLine = line
	}
	if keyLine == nil {
		return nil, fmt.Errorf("identity file %s: no key found", path)
	}

	privateKey, err := secret.NewTrimmed(bytes.Clone(keyLine))
	if err != nil {
		return nil, fmt.Errorf("protecting private key: %w", err)
	}
	parsed, err := age.ParseX25519Identity(privateKey.String())
	if err != nil {
		privateKey.Close()
		return nil, fmt.Errorf("identity file %s: %w", path, err)
	}
	return &Identity{
		PrivateKey: privateKey,
		PublicKey:  parsed.Recipient().String(),
	}, nil
}

// WriteIdentityFile writes identity in age-keygen format with mode 0600,
// creating the parent directory with mode 0700.
func WriteIdentityFile(path string, identity *Identity) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating identity directory: %w", err)
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "# public key: %s\n", identity.PublicKey)
	builder.Write(identity.PrivateKey.Bytes())
	builder.WriteByte('\n')
	if err := os.WriteFile(path, []byte(builder.String()), 0o600); err != nil {
		return fmt.Errorf("writing identity file %s: %w", path, err)
	}
	return nil
}

// LoadOrCreateIdentity loads the identity at path, generating and
// writing a new one when the file does not exist.
func LoadOrCreateIdentity(path string) (*Identity, error) {
	identity, err := LoadIdentityFile(path)
	if err == nil {
		return identity, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	identity, err = GenerateIdentity()
	if err != nil {
		return nil, err
	}
	if err := WriteIdentityFile(path, identity); err != nil {
		identity.Close()
		return nil, err
	}
	return identity, nil
}

// Seal encrypts plaintext to the given recipients and returns armored
// ciphertext.
func Seal(plaintext []byte, recipientKeys ...string) ([]byte, error) {
	if len(recipientKeys) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}
	recipients := make([]age.Recipient, 0, len(recipientKeys))
	for _, key := range recipientKeys {
		recipient, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient %q: %w", key, err)
		}
		recipients = append(recipients, recipient)
	}

	var output bytes.Buffer
	armored := armor.NewWriter(&output)
	writer, err := age.Encrypt(armored, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypting: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armored.Close(); err != nil {
		return nil, fmt.Errorf("finalizing armor: %w", err)
	}
	return output.Bytes(), nil
}

// Open decrypts armored ciphertext produced by Seal. The identity is
// borrowed, not closed. The caller closes the returned buffer.
func Open(ciphertext []byte, identity *Identity) (*secret.Buffer, error) {
	parsed, err := age.ParseX25519Identity(identity.PrivateKey.String())
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	reader, err := age.Decrypt(armor.NewReader(bytes.NewReader(ciphertext)), parsed)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading plaintext: %w", err)
	}
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("sealed record is empty")
	}
	return secret.NewFromBytes(plaintext)
}
