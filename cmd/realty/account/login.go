// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/desk"
)

type credentialParams struct {
	cli.Environment
	PasswordFile string `json:"-" flag:"password-file" desc:"path to file containing the password, or - to prompt interactively (default: prompt)"`
}

// LoginCommand returns the "login" command. It exchanges a username and
// password for a token and stores it where the desk and every other
// command find it.
func LoginCommand() *cli.Command {
	var params credentialParams

	return &cli.Command{
		Name:    "login",
		Summary: "Sign in and store the session token",
		Description: `Sign in to the realty backend and save the access token locally.

The token is written to session.file (default
$XDG_CONFIG_HOME/realty/session.json, mode 0600). When
session.identity_file is configured, the token is encrypted to that age
identity instead of stored in the clear.

The password is read from --password-file, or prompted for with echo
disabled.`,
		Usage: "realty login <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "realty login meera",
			},
			{
				Description: "Log in from a script",
				Command:     "realty login meera --password-file ~/.realty-password",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			username, err := usernameArgument(args, "login")
			if err != nil {
				return err
			}

			password, err := cli.ReadPassword(params.PasswordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			credentials, err := desk.ValidateCredentials(username, password.String())
			if err != nil {
				return cli.APIFailure("login", err)
			}

			backend, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			token, err := backend.Client.Login(ctx, credentials)
			if err != nil {
				return cli.APIFailure("login", err)
			}
			if err := backend.Gate.Login(token, credentials.Username); err != nil {
				return cli.Internal("%w", err)
			}

			logger.Info("logged in", "user", credentials.Username)
			fmt.Fprintln(cli.Stderr, "Login Successful! Welcome.")
			return nil
		},
	}
}

// RegisterCommand returns the "register" command, which creates a
// backend account. It does not log in.
func RegisterCommand() *cli.Command {
	var params credentialParams

	return &cli.Command{
		Name:    "register",
		Summary: "Create an account",
		Description: `Create a user on the realty backend. Registration does not sign
in; run "realty login" afterwards.`,
		Usage: "realty register <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create an account (prompts for password)",
				Command:     "realty register meera",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			username, err := usernameArgument(args, "register")
			if err != nil {
				return err
			}

			password, err := cli.ReadPassword(params.PasswordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			credentials, err := desk.ValidateCredentials(username, password.String())
			if err != nil {
				return cli.APIFailure("register", err)
			}

			backend, err := params.Open(logger)
			if err != nil {
				return err
			}
			defer backend.Close()

			message, err := backend.Client.Register(ctx, credentials)
			if err != nil {
				return cli.APIFailure("register", err)
			}
			fmt.Fprintln(cli.Stderr, message)
			return nil
		},
	}
}

func usernameArgument(args []string, command string) (string, error) {
	if len(args) < 1 {
		return "", cli.Validation("username is required\n\nUsage: realty %s <username> [flags]", command)
	}
	if len(args) > 1 {
		return "", cli.Validation("unexpected argument: %s", args[1])
	}
	return args[0], nil
}
