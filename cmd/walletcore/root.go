package main

import (
	"github.com/spf13/cobra"

	"github.com/vaultwire/walletcore"
)

// newRootCmd builds the walletcore command tree bound to client. Every
// subcommand is a direct call into client's exported methods: the CLI adds
// no behavior of its own beyond argument parsing, prompting, and printing.
func newRootCmd(client *walletcore.Client) *cobra.Command {
	root := &cobra.Command{
		Use:           "walletcore",
		Short:         "Identity and key-management core for a Bitcoin wallet",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newCreateCmd(client),
		newSignInCmd(client),
		newSignInRecoveryCmd(client),
		newRecoveryQuestionsCmd(client),
		newCheckRecoveryAnswersCmd(client),
		newChangePasswordCmd(client),
		newSetRecoveryCmd(client),
		newOtpCmd(client),
		newSettingsCmd(client),
		newListCmd(client),
		newDeleteCmd(client),
	)

	return root
}
