// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// WalletCoreJSONConfig is the JSON-specific representation of
// [WalletCoreConfig]. It uses the custom [Duration] type so that
// RequestTimeout can be expressed as a human-readable string (e.g. "1h",
// "30s") in the config file.
//
// After decoding, the values are mapped into a [WalletCoreConfig] by
// [parseJSON].
type WalletCoreJSONConfig struct {
	FilesystemRoot string   `json:"filesystem_root"`
	ServerBaseURL  string   `json:"server_base_url"`
	RequestTimeout Duration `json:"request_timeout"`
}

// parseJSON opens the JSON file at jsonFilePath, decodes it into a
// [WalletCoreJSONConfig], and maps the result into a [WalletCoreConfig].
//
// JSONFilePath is intentionally left empty in the returned config so that
// the path is not re-processed during subsequent merge steps.
//
// Returns a wrapped error if the file cannot be opened or its contents
// cannot be decoded as valid JSON.
func parseJSON(jsonFilePath string) (*WalletCoreConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg WalletCoreJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &WalletCoreConfig{
		FilesystemRoot: jsonCfg.FilesystemRoot,
		ServerBaseURL:  jsonCfg.ServerBaseURL,
		RequestTimeout: time.Duration(jsonCfg.RequestTimeout),
		JSONFilePath:   "", // intentionally cleared to prevent re-processing
	}

	return cfg, nil
}

// Duration is a thin wrapper around [time.Duration] that adds JSON
// unmarshaling support for human-readable duration strings such as "1h",
// "30m", or "15s", in addition to raw nanosecond integers.
//
// Use Duration in JSON config structs wherever a time.Duration field is
// needed. Convert back to time.Duration with a simple cast:
//
//	d := Duration(5 * time.Minute)
//	std := time.Duration(d) // → 5m0s
type Duration time.Duration

// UnmarshalJSON implements [json.Unmarshaler] for Duration.
//
// Supported JSON value types:
//   - string: parsed with [time.ParseDuration] (e.g. "1h30m", "30s").
//   - number: treated as a raw nanosecond count (same as time.Duration).
//
// Returns an error if the value is a string that cannot be parsed as a
// duration, or if the JSON value is of an unsupported type.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

// MarshalJSON implements [json.Marshaler] for Duration.
// The value is serialized as a human-readable string using
// [time.Duration.String] (e.g. "1h0m0s", "30m0s").
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
