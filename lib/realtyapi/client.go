// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtyapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/bureau-foundation/realty/lib/clock"
	"github.com/bureau-foundation/realty/lib/netutil"
)

// DefaultBaseURL is the backend's development address.
const DefaultBaseURL = "http://127.0.0.1:5000/api"

// TokenSource supplies the bearer token for authenticated calls. It is
// consulted once per request, so a logout between two calls takes
// effect on the second.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

// Token implements TokenSource.
func (token StaticToken) Token() string { return string(token) }

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root, including the /api prefix. Defaults to
	// DefaultBaseURL. Must be http or https.
	BaseURL string

	// Tokens supplies the bearer token. Nil means every authenticated
	// call is sent without an Authorization header, which the backend
	// answers with 401.
	Tokens TokenSource

	// HTTPClient is used for all requests. Defaults to a client with
	// no timeout.
	HTTPClient *http.Client

	// Timeout bounds each request when positive. Zero leaves requests
	// unbounded, so a hung backend leaves the caller waiting.
	Timeout time.Duration

	// Clock times requests for the debug log. Defaults to clock.Real().
	Clock clock.Clock

	// Logger receives one debug record per request. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// OnUnauthorized, when set, is called once for every 401 answer to
	// an authenticated call, before the call returns ErrSessionExpired.
	// It receives the token the request carried, which may no longer be
	// the current one. It runs on the calling goroutine.
	OnUnauthorized func(token string)
}

// Client is a typed client for the backend REST API. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	timeout    time.Duration
	clock      clock.Clock
	logger     *slog.Logger

	onUnauthorized func(token string)
}

// NewClient creates a Client. It fails only on an unusable base URL.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("realty: parsing base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("realty: base URL must be http or https (got %q)", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("realty: base URL %q has no host", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		tokens:     config.Tokens,
		httpClient: httpClient,
		timeout:    config.Timeout,
		clock:      clk,
		logger:     logger,

		onUnauthorized: config.OnUnauthorized,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (client *Client) BaseURL() string { return client.baseURL }

// do sends one request and returns the response body of a 2xx answer.
// When authenticated is set, the bearer token is attached and a 401
// becomes a session-expired error; otherwise a 401 is an ordinary
// *APIError (a bad password is not an expired session).
func (client *Client) do(ctx context.Context, method, path string, requestBody any, authenticated bool) ([]byte, error) {
	if client.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("realty: encoding %s %s body: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("realty: creating %s %s: %w", method, path, err)
	}
	requestID := uuid.NewString()
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Request-ID", requestID)
	var token string
	if authenticated && client.tokens != nil {
		token = client.tokens.Token()
		if token != "" {
			request.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		client.logger.Debug("request failed",
			"request_id", requestID,
			"method", method,
			"path", path,
			"error", err,
		)
		return nil, fmt.Errorf("realty: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	client.logger.Debug("request complete",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"elapsed", client.clock.Now().Sub(started),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiError := parseAPIError(response.StatusCode, []byte(netutil.ErrorBody(response.Body)))
		if authenticated && response.StatusCode == http.StatusUnauthorized {
			client.logger.Info("session rejected by backend", "request_id", requestID, "path", path)
			if client.onUnauthorized != nil {
				client.onUnauthorized(token)
			}
			return nil, &sessionExpiredError{cause: apiError}
		}
		return nil, apiError
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("realty: reading %s %s response: %w", method, path, err)
	}
	return body, nil
}

// call sends a request and decodes a 2xx JSON body into result (when
// result is non-nil).
func (client *Client) call(ctx context.Context, method, path string, requestBody, result any, authenticated bool) error {
	body, err := client.do(ctx, method, path, requestBody, authenticated)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("realty: decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (client *Client) get(ctx context.Context, path string, result any) error {
	return client.call(ctx, http.MethodGet, path, nil, result, true)
}

func (client *Client) post(ctx context.Context, path string, requestBody, result any) error {
	return client.call(ctx, http.MethodPost, path, requestBody, result, true)
}

func (client *Client) delete(ctx context.Context, path string, result any) error {
	return client.call(ctx, http.MethodDelete, path, nil, result, true)
}
