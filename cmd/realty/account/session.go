// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/format"
	"github.com/bureau-foundation/realty/lib/session"
)

type logoutParams struct {
	cli.Environment
}

// LogoutCommand returns the "logout" command. Logging out when no
// session is stored is not an error.
func LogoutCommand() *cli.Command {
	var params logoutParams

	return &cli.Command{
		Name:    "logout",
		Summary: "Forget the stored session token",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			backend, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := backend.Gate.Logout(); err != nil {
				return cli.Internal("%w", err)
			}
			fmt.Fprintln(cli.Stderr, "You have been logged out.")
			return nil
		},
	}
}

type whoamiParams struct {
	cli.Environment
	cli.JSONOutput
}

// whoamiResult is the JSON output of "realty whoami".
type whoamiResult struct {
	Username  string     `json:"username"`
	Initial   string     `json:"initial"`
	BaseURL   string     `json:"base_url"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// WhoAmICommand returns the "whoami" command. It reads the stored token
// without contacting the backend, so it cannot tell whether the token
// is still accepted.
func WhoAmICommand() *cli.Command {
	var params whoamiParams

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the signed-in user",
		Description: `Show the user the stored session belongs to, read from the token
itself. The backend is not contacted.`,
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			backend, err := params.OpenSession(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			result := whoamiResult{
				Username: backend.Gate.DisplayName(),
				Initial:  backend.Gate.Initial(),
				BaseURL:  backend.Client.BaseURL(),
			}
			if claims, err := session.DecodeClaims(backend.Gate.Token()); err == nil {
				if !claims.IssuedAt.IsZero() {
					result.IssuedAt = &claims.IssuedAt
				}
				if !claims.ExpiresAt.IsZero() {
					result.ExpiresAt = &claims.ExpiresAt
				}
			}

			if done, err := params.EmitJSON(result); done {
				return err
			}

			cli.Printf("%s\n", result.Username)
			cli.Printf("  backend: %s\n", result.BaseURL)
			if result.IssuedAt != nil {
				cli.Printf("  issued:  %s\n", format.Date(*result.IssuedAt))
			}
			if result.ExpiresAt != nil {
				cli.Printf("  expires: %s\n", format.Date(*result.ExpiresAt))
			}
			return nil
		},
	}
}
