// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtyapi

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
)

// ErrSessionExpired is matched by the error from any authenticated call
// that the backend answered with 401. Its text is what the user sees.
var ErrSessionExpired = errors.New("Session expired. Please login again.")

// APIError is a non-2xx response from the backend.
type APIError struct {
	// StatusCode is the HTTP status.
	StatusCode int

	// Message is the backend's "error" field, or the "msg" field the
	// JWT layer uses. Empty when the body carried neither.
	Message string
}

func (err *APIError) Error() string {
	if err.Message == "" {
		return fmt.Sprintf("realty: HTTP %d", err.StatusCode)
	}
	return fmt.Sprintf("realty: HTTP %d: %s", err.StatusCode, err.Message)
}

// sessionExpiredError marks a 401 on an authenticated call. It matches
// ErrSessionExpired and unwraps to the underlying *APIError.
type sessionExpiredError struct {
	cause *APIError
}

func (err *sessionExpiredError) Error() string { return ErrSessionExpired.Error() }

func (err *sessionExpiredError) Is(target error) bool { return target == ErrSessionExpired }

func (err *sessionExpiredError) Unwrap() error { return err.cause }

// IsUnauthorized reports whether err is a 401, from either an
// authenticated call (session expired) or a failed login.
func IsUnauthorized(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a 409, which the backend returns
// when registering a username that already exists.
func IsConflict(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusConflict
}

// UserMessage returns the line to show the user for err: the session
// expiry text, the backend's own message, or fallback when the backend
// said nothing useful or could not be reached.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrSessionExpired) {
		return ErrSessionExpired.Error()
	}
	var apiError *APIError
	if errors.As(err, &apiError) && apiError.Message != "" {
		return apiError.Message
	}
	return fallback
}

// parseAPIError builds an APIError from a response status and body.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}
	var wireError struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if json.Unmarshal(body, &wireError) == nil {
		switch {
		case wireError.Error != "":
			apiError.Message = wireError.Error
		case wireError.Msg != "":
			apiError.Message = wireError.Msg
		}
	}
	return apiError
}
