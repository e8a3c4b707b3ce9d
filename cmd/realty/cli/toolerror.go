// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/netutil"
	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// ErrorCategory classifies command errors so that scripts can decide
// what to do (retry, fix input, log in again) from the exit code alone.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing required flags, wrong argument count, unparseable values,
	// or a request the backend rejected as malformed.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced record does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates there is no usable session: the user
	// never logged in, or the backend rejected the stored token. The
	// caller should run "realty login".
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict indicates the operation conflicts with existing
	// state, such as registering a taken username.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient indicates a temporary failure: the backend is
	// unreachable, timed out, or answered 5xx. The caller may retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected local failure: I/O
	// errors, unreadable config, bugs.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps each category to the process exit status.
var exitCodes = map[ErrorCategory]int{
	CategoryInternal:   1,
	CategoryValidation: 2,
	CategoryNotFound:   3,
	CategoryForbidden:  4,
	CategoryConflict:   5,
	CategoryTransient:  6,
}

// ToolError is a categorized error returned by CLI commands. It wraps an
// inner error, preserving the chain for errors.Is and errors.As, and
// optionally carries a hint telling the user what to do next.
//
// Use the category-specific constructors (Validation, NotFound, etc.)
// rather than constructing ToolError directly.
type ToolError struct {
	// Category classifies the error and selects the exit code.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error

	// Hint is an optional next step, printed after a blank line.
	Hint string
}

// Error returns the underlying message followed by the hint, if any.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// Unwrap returns the underlying error.
func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// ExitCode returns the process exit status for the error's category.
func (e *ToolError) ExitCode() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced record does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: there is no valid session.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error: the operation conflicts with existing state.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// APIFailure categorizes an error returned by the realtyapi client or
// by desk form validation. action names what was attempted ("list
// clients") and prefixes the message. A ToolError already in the chain
// is returned unchanged.
func APIFailure(action string, err error) *ToolError {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError
	}
	var validationError *desk.ValidationError
	if errors.As(err, &validationError) {
		return Validation("%s: %s", action, validationError.Message)
	}

	message := realtyapi.UserMessage(err, err.Error())

	switch {
	case errors.Is(err, realtyapi.ErrSessionExpired):
		return Forbidden("%s: %s", action, message).
			WithHint("Run 'realty login <username>' to start a new session.")
	case realtyapi.IsUnauthorized(err):
		return Forbidden("%s: %s", action, message)
	case realtyapi.IsNotFound(err):
		return NotFound("%s: %s", action, message)
	case realtyapi.IsConflict(err):
		return Conflict("%s: %s", action, message)
	}

	var apiError *realtyapi.APIError
	if errors.As(err, &apiError) {
		if apiError.StatusCode >= 500 {
			return Transient("%s: %s", action, message)
		}
		return Validation("%s: %s", action, message)
	}

	var urlError *url.Error
	if errors.As(err, &urlError) || netutil.IsConnectionError(err) {
		return Transient("%s: %w", action, err).
			WithHint("Check that the backend is running and api.base_url is correct.")
	}

	return Internal("%s: %w", action, err)
}
