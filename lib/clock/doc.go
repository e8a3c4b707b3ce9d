// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that stamps or expires things (toast lifetimes, request timing,
// session save times) takes a Clock instead of calling time.Now, so
// tests can pin the current instant:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	model := deskui.NewModel(deskui.Config{Clock: fake, ...})
//	fake.Advance(3 * time.Second)
package clock
