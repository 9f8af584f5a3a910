// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"time"
)

// ParseFlags parses all walletcore configuration flags.
//
// Flags:
//
//	-root filesystem root under which Accounts/ is created
//	-server-url account server base URL
//	-request-timeout per-request HTTP deadline (e.g. "30s", "1m")
//	-c/-config json file path with configs
func ParseFlags() *WalletCoreConfig {
	var filesystemRoot string
	var serverBaseURL string
	var requestTimeout time.Duration
	var jsonConfigPath string

	flag.StringVar(&filesystemRoot, "root", "", "Filesystem root for the Accounts/ tree")
	flag.StringVar(&serverBaseURL, "server-url", "", "Account server base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g. 30s, 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &WalletCoreConfig{
		FilesystemRoot: filesystemRoot,
		ServerBaseURL:  serverBaseURL,
		RequestTimeout: requestTimeout,
		JSONFilePath:   jsonConfigPath,
	}
}
