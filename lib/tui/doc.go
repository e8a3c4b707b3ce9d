// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal building blocks for realty's
// interactive desk: the color theme, dropdown and modal overlays, fuzzy
// matching for dropdown filtering, a scrollbar, and a small markdown
// renderer for the help screen.
//
// Components here know nothing about clients or contracts. They take
// labels and values, render lines, and leave splicing them onto the
// screen to the owning model (see [SpliceOverlay]).
package tui
