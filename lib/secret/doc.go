// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds passwords and private keys in memory that the Go
// garbage collector never sees.
//
// A [Buffer] is an anonymous mmap region locked into RAM and excluded
// from core dumps. Closing it zeroes the region before unmapping. The
// realty CLI keeps the password typed at the login prompt and the age
// identity that seals the stored session token in Buffers, and converts
// them to strings only at the HTTP and age API boundaries.
package secret
