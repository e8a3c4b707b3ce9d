// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// ErrMalformedToken is returned by DecodeClaims when the token does not
// have a decodable JSON payload segment.
var ErrMalformedToken = errors.New("session: malformed token")

// Claims is the unverified payload of a bearer token.
type Claims struct {
	// Subject is the "sub" claim. The backend sets it to the username.
	// Empty when the claim is missing or not a string.
	Subject string

	// IssuedAt and ExpiresAt are the "iat" and "exp" claims, zero when
	// absent. They are informational; nothing in the client refuses a
	// token because of them.
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Raw holds every claim as decoded.
	Raw map[string]any
}

// payloadEncodings are tried in order. Tokens from the backend use
// unpadded base64url, but stored tokens from older clients may carry
// padding or the standard alphabet.
var payloadEncodings = []*base64.Encoding{
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.StdEncoding,
}

// DecodeClaims decodes the middle segment of a dot-separated token as
// base64 JSON. It performs no signature check.
func DecodeClaims(token string) (Claims, error) {
	segments := strings.Split(token, ".")
	if len(segments) < 2 || segments[1] == "" {
		return Claims{}, fmt.Errorf("%w: no payload segment", ErrMalformedToken)
	}

	var payload []byte
	for _, encoding := range payloadEncodings {
		decoded, err := encoding.DecodeString(segments[1])
		if err == nil {
			payload = decoded
			break
		}
	}
	if payload == nil {
		return Claims{}, fmt.Errorf("%w: payload is not base64", ErrMalformedToken)
	}

	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return Claims{}, fmt.Errorf("%w: payload is not a JSON object", ErrMalformedToken)
	}

	claims := Claims{Raw: raw}
	if subject, ok := raw["sub"].(string); ok {
		claims.Subject = subject
	}
	claims.IssuedAt = numericDate(raw["iat"])
	claims.ExpiresAt = numericDate(raw["exp"])
	return claims, nil
}

// Subject returns the token's display subject, if it has one.
func Subject(token string) (string, bool) {
	claims, err := DecodeClaims(token)
	if err != nil || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}

func numericDate(value any) time.Time {
	seconds, ok := value.(float64)
	if !ok || seconds <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(seconds), 0).UTC()
}
