// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// WalletCoreConfig is the top-level configuration for a walletcore host
// process. It aggregates every setting the core itself needs — it knows
// nothing about wallet data, UI, or the sync transport, which are the
// host's concern (spec §1 Non-goals).
//
// Struct tags:
//   - env — direct environment variable name for scalar fields, read via
//     caarlos0/env.
type WalletCoreConfig struct {
	// FilesystemRoot is the directory under which AccountStore creates its
	// Accounts/ tree. The core writes only under <FilesystemRoot>/Accounts/
	// (spec §6 "Filesystem root").
	FilesystemRoot string `env:"FILESYSTEM_ROOT"`

	// ServerBaseURL is the account server's base URL. serverclient.New
	// upgrades a bare host:port to https by default; the open question in
	// Design Notes §9 about the hardcoded SYNC_SERVER constant is resolved
	// by requiring the host to supply this value.
	ServerBaseURL string `env:"SERVER_BASE_URL"`

	// RequestTimeout bounds every ServerClient HTTP round-trip. On timeout
	// the operation fails with walleterr.NetworkError and leaves all local
	// state untouched (spec §5 Cancellation and timeouts).
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// JSONFilePath is the optional path to a JSON configuration file. When
	// non-empty, the file is parsed and merged on top of the values already
	// loaded from environment variables and flags. Populated via the CONFIG
	// environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// GetWalletCoreConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *WalletCoreConfig or an error if any source
// fails to load or the final config fails validation.
func GetWalletCoreConfig() (*WalletCoreConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
