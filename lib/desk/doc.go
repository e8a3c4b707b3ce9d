// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package desk holds the state behind realty's interactive desk,
// independent of how it is drawn.
//
// [Cache] is the reference-data snapshot (clients, agents, contracts),
// replaced only whole by [Fetch]. [Router] tracks the visible page and
// says what entering it should do. [Select] is a dropdown's choice,
// which survives a repopulation only while its key still exists.
// [Gate] holds at most one pending destructive action until it is
// confirmed or cancelled. The Validate functions turn raw form text
// into API inputs, and the Render functions turn API results into
// [Table] and [Card] values with no network access.
//
// None of these types lock. They belong to a single event loop (the
// bubbletea Update function in lib/deskui); only Fetch runs off it.
package desk
