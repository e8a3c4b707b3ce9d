// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer is a fixed-size region of locked, non-dumpable memory. It must
// not be copied. All reads after Close panic.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	size   int
	closed bool
}

// New maps size bytes of zeroed protected memory.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}
	if err := unix.Madvise(region, unix.MADV_DONTDUMP); err != nil {
		unix.Munlock(region)
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP): %w", err)
	}

	return &Buffer{region: region, size: size}, nil
}

// NewFromBytes copies source into a new Buffer and zeroes source.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: empty source")
	}
	buffer, err := New(len(source))
	if err != nil {
		Zero(source)
		return nil, err
	}
	copy(buffer.region, source)
	Zero(source)
	return buffer, nil
}

// NewTrimmed is NewFromBytes after trimming surrounding whitespace, for
// values read from a terminal line or a key file. The whole of source is
// zeroed either way.
func NewTrimmed(source []byte) (*Buffer, error) {
	trimmed := bytes.TrimSpace(source)
	if len(trimmed) == 0 {
		Zero(source)
		return nil, fmt.Errorf("secret: value is empty")
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(source)
	return buffer, err
}

// Bytes returns the live region. The slice is invalid after Close.
func (buffer *Buffer) Bytes() []byte {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	buffer.mustBeOpen()
	return buffer.region[:buffer.size]
}

// String copies the contents onto the heap. Use only where an API
// insists on a string.
func (buffer *Buffer) String() string {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	buffer.mustBeOpen()
	return string(buffer.region[:buffer.size])
}

// Len returns the number of secret bytes.
func (buffer *Buffer) Len() int {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	return buffer.size
}

// Close zeroes, unlocks, and unmaps the region. Repeated calls are
// no-ops.
func (buffer *Buffer) Close() error {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	if buffer.closed {
		return nil
	}
	buffer.closed = true

	Zero(buffer.region)
	var firstError error
	if err := unix.Munlock(buffer.region); err != nil {
		firstError = fmt.Errorf("secret: munlock: %w", err)
	}
	if err := unix.Munmap(buffer.region); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap: %w", err)
	}
	buffer.region = nil
	return firstError
}

func (buffer *Buffer) mustBeOpen() {
	if buffer.closed {
		panic("secret: read from closed buffer")
	}
}

// Zero overwrites data with zero bytes.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}
