// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [WalletCoreConfig] satisfies the
// invariants walletcore needs before it is used at startup: a filesystem
// root to create Accounts/ under, a server base URL to dial, and a positive
// request timeout (spec §5 Cancellation and timeouts).
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *WalletCoreConfig) validate() error {
	if cfg.FilesystemRoot == "" {
		return ErrMissingFilesystemRoot
	}
	if cfg.ServerBaseURL == "" {
		return ErrMissingServerBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}
	return nil
}
