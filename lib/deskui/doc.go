// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package deskui is the interactive terminal front end of realty, built
// on bubbletea.
//
// [Model] owns one [desk.Cache], one [desk.Router] and one
// [desk.Gate], and drives them from its Update loop, which is the only
// place the cache, the selections and the session transitions are
// touched. Every backend call runs as a tea.Cmd and comes back as a
// result message stamped with the session epoch it was issued in. A
// logout (explicit or forced by a 401) advances the epoch, so answers
// to calls made before it are dropped. Report results also carry the
// selection they were requested for and are dropped when the user has
// since picked something else.
//
// The screen has two states. Unauthenticated shows the login/register
// form. Authenticated shows a header with the profile initial, a
// navigation column with the seven pages, the active page's forms and
// reports, and a status line with key help and the loading spinner.
// Dropdowns open as a fuzzy-filtered overlay, deletes go through a
// centered confirmation modal, and notifications appear as toasts that
// expire after the configured duration.
//
// [LogHandler] routes slog records into the running program so
// warnings surface as toasts while the alternate screen owns the
// terminal.
package deskui
