// Command walletcore is a thin CLI over the walletcore library facade. The
// CLI itself is out of scope for the core (spec §1 Non-goals); every
// subcommand here does nothing but parse arguments, call walletcore.Client
// methods (typically sign in, run one operation, log out), and print the
// result.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vaultwire/walletcore"
	"github.com/vaultwire/walletcore/internal/config"
)

func main() {
	cfg, err := config.GetWalletCoreConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "walletcore: config error: %v\n", err)
		os.Exit(1)
	}

	client, err := walletcore.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "walletcore: %v\n", err)
		os.Exit(1)
	}

	rootCmd := newRootCmd(client)
	// Hand cobra only what flag.Parse left over, starting at the subcommand.
	rootCmd.SetArgs(flag.Args())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
