// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [WalletCoreConfig.validate] when required
// settings are incomplete or invalid.
var (
	// ErrMissingFilesystemRoot indicates FilesystemRoot was not supplied by
	// any config source.
	ErrMissingFilesystemRoot = errors.New("config: filesystem root is required")
	// ErrMissingServerBaseURL indicates ServerBaseURL was not supplied by
	// any config source.
	ErrMissingServerBaseURL = errors.New("config: server base URL is required")
	// ErrInvalidRequestTimeout indicates RequestTimeout is zero or negative.
	ErrInvalidRequestTimeout = errors.New("config: request timeout must be positive")
)
