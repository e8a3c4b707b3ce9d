// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration for realty's on-disk
// records.
//
// JSON is the wire format for the backend REST API and for CLI --json
// output. CBOR is used only for records the client writes for itself,
// currently the sealed session record, where a compact deterministic
// encoding keeps the ciphertext small and byte-stable.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2). Records
// carry `cbor` struct tags; a type never carries both `cbor` and `json`
// tags on one field.
package codec
