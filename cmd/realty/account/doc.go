// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package account implements the session commands: login, register,
// logout and whoami.
package account
