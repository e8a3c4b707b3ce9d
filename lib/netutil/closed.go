// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

// IsConnectionError reports whether err means the backend could not be
// reached or dropped the connection: refused or reset connections, DNS
// failures, timeouts, and truncated responses. These are the failures a
// user fixes by starting the backend or retrying, as opposed to errors
// the backend reported on purpose.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE,
			syscall.EHOSTUNREACH, syscall.ENETUNREACH, syscall.ETIMEDOUT:
			return true
		}
	}
	var dnsError *net.DNSError
	if errors.As(err, &dnsError) {
		return true
	}
	var netError net.Error
	return errors.As(err, &netError) && netError.Timeout()
}
