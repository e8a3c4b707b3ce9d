// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package realtyapi is a typed client for the real estate backend's
// REST API.
//
// The backend serves everything under a fixed /api prefix. Two calls
// are unauthenticated (Register and Login); every other call attaches
// "Authorization: Bearer <token>" using the token the configured
// [TokenSource] holds at the moment the request is built.
//
// Errors come in three shapes:
//
//   - a 401 on an authenticated call matches [ErrSessionExpired] with
//     errors.Is. The caller must treat the session as over.
//   - any other non-2xx response is an [*APIError] carrying the
//     backend's "error" (or "msg") text.
//   - transport and decoding failures are returned wrapped, with the
//     method and path for context.
//
// [UserMessage] reduces any of these to the one line a user should see.
//
// The backend's MySQL driver serializes DECIMAL columns sometimes as
// JSON numbers and sometimes as strings, and dates in several layouts.
// [Money] and the date helpers in lib/format absorb that variation.
package realtyapi
