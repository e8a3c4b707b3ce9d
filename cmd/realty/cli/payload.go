// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
)

// ReadPayload decodes a JSONC file (JSON with comments and trailing
// commas) into target. path "-" reads [Stdin]. Fields target does not
// declare are rejected so a typo in a key is not silently dropped.
func ReadPayload(path string, target any) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Internal("reading payload: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return Validation("parsing payload %s: %w", path, err)
	}
	return nil
}
