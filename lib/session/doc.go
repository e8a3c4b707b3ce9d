// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the one piece of state realty persists: the
// backend's bearer token.
//
// A [Store] saves and loads the token under a fixed key. [FileStore]
// writes it as JSON next to the user's config; [SealedStore] encrypts
// the same record with an age identity so the file is useless on its
// own. [Gate] is the two-state auth machine built on a Store: a stored
// token whose payload segment decodes is Authenticated, anything else
// is Unauthenticated.
//
// [DecodeClaims] reads the token's payload without verifying its
// signature. The result is for display only (the profile initial, the
// "logged in as" line). The backend re-validates the token on every
// request and is the only authority on whether it is still good.
package session
