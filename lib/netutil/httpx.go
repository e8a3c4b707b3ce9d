// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP body reads and network error
// classification for realty's REST client.
//
// Every success body read goes through ReadResponse, which refuses
// bodies larger than MaxResponseSize instead of buffering whatever a
// misbehaving backend sends. The largest legitimate response is the
// contract list, which is a few hundred bytes per row.
package netutil

import (
	"errors"
	"io"
)

// MaxResponseSize bounds JSON API response bodies: 32 MB.
const MaxResponseSize int64 = 32 << 20

// ErrResponseTooLarge is returned when a body exceeds MaxResponseSize.
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// ReadResponse reads a JSON API response body of at most
// MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}

// ErrorBody returns as much of an error response body as can be read,
// for diagnostics. Read failures yield whatever was read before them.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}
