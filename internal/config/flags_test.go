package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFlags tests the ParseFlags function
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *WalletCoreConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-root", "/var/lib/walletcore",
				"-server-url", "https://wallet.example.test",
				"-request-timeout", "30s",
				"-c", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *WalletCoreConfig) {
				assert.Equal(t, "/var/lib/walletcore", cfg.FilesystemRoot)
				assert.Equal(t, "https://wallet.example.test", cfg.ServerBaseURL)
				assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "config alias flag",
			args: []string{
				"-config", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *WalletCoreConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "partial flags",
			args: []string{
				"-root", "/var/lib/walletcore",
			},
			validate: func(t *testing.T, cfg *WalletCoreConfig) {
				assert.Equal(t, "/var/lib/walletcore", cfg.FilesystemRoot)
				assert.Empty(t, cfg.ServerBaseURL)
				assert.Zero(t, cfg.RequestTimeout)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *WalletCoreConfig) {
				assert.Empty(t, cfg.FilesystemRoot)
				assert.Empty(t, cfg.ServerBaseURL)
				assert.Zero(t, cfg.RequestTimeout)
				assert.Empty(t, cfg.JSONFilePath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			oldArgs := os.Args
			os.Args = append([]string{"cmd"}, tt.args...)
			defer func() { os.Args = oldArgs }()

			cfg := ParseFlags()
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}
