// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bureau-foundation/realty/lib/secret"
)

// ReadPassword reads a password for login and register. If passwordFile
// is empty or "-", prompts on the terminal with echo disabled. Otherwise
// reads the file.
func ReadPassword(passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" && passwordFile != "-" {
		return readSecretFile(passwordFile)
	}

	file, ok := Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return nil, Validation("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(file.Fd()))
	fmt.Fprintln(Stderr)
	if err != nil {
		return nil, Internal("reading password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return nil, Validation("Username and password are required.")
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, Internal("storing password: %w", err)
	}
	return buffer, nil
}

// readSecretFile reads a secret from a file path into a secret.Buffer.
// Strips trailing newlines.
func readSecretFile(path string) (*secret.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Internal("reading %s: %w", path, err)
	}

	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}

	if len(data) == 0 {
		secret.Zero(data)
		return nil, Validation("file %s is empty (after stripping trailing newlines)", path)
	}

	buffer, err := secret.NewFromBytes(data)
	if err != nil {
		secret.Zero(data)
		return nil, Internal("storing secret: %w", err)
	}
	return buffer, nil
}

// Confirm prints title and body to [Stderr] and reads a y/N answer from
// [Stdin]. Anything other than "y" or "yes" (including EOF) is a no.
func Confirm(title, body string) bool {
	fmt.Fprintf(Stderr, "%s\n%s\n[y/N] ", title, body)
	line, _ := bufio.NewReader(Stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
