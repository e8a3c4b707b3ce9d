// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed encrypts small records at rest with age.
//
// The realty session store uses it to keep the backend bearer token
// unreadable to anything that does not hold the operator's identity
// file. Ciphertext is ASCII-armored so the sealed session file stays a
// text file that survives copy and paste.
//
// Key exports:
//
//   - [GenerateIdentity] / [LoadIdentityFile] / [LoadOrCreateIdentity]
//   - [Seal] -- encrypt to one or more age1... recipients
//   - [Open] -- decrypt into a [secret.Buffer]
//
// Private keys and opened plaintext live in secret.Buffer values.
package sealed
