// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for realty.
//
// The file is resolved from the --config flag, then the REALTY_CONFIG
// environment variable, then $XDG_CONFIG_HOME/realty/config.yaml. The
// first two must exist when named; the XDG file is optional and a
// missing one leaves the defaults in place. [LoadDotEnv] runs before
// resolution so a .env file can supply any REALTY_* variable.
//
// The file may carry an environments block keyed by development,
// staging or production. The block matching [Config].Environment is
// layered over the base values. After that, ${VAR} and ${VAR:-default}
// references in string fields are expanded, and finally REALTY_API_URL,
// REALTY_SESSION_FILE and REALTY_LOG_LEVEL override whatever the file
// said.
//
// Key exports:
//
//   - [Config] -- API, session, UI and log settings
//   - [Default] -- the built-in defaults
//   - [Load] and [LoadFile] -- the loading entry points
//   - [LoadDotEnv] -- .env loading through godotenv
//
// This package depends on no other realty packages.
package config
