package main

import (
	"github.com/spf13/cobra"

	"github.com/vaultwire/walletcore"
)

func newOtpCmd(client *walletcore.Client) *cobra.Command {
	otp := &cobra.Command{
		Use:   "otp",
		Short: "Manage the account's TOTP second factor",
	}
	otp.AddCommand(newOtpSetCmd(client), newOtpRemoveCmd(client))
	return otp
}

func newOtpSetCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "set <username>",
		Short: "Generate and install a new TOTP seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			sess, err := client.SignIn(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			defer client.Logout(sess)

			if err := client.SetOtpKey(cmd.Context(), sess); err != nil {
				return err
			}

			outln(cmd.OutOrStdout(), "OTP key installed")
			return nil
		},
	}
}

func newOtpRemoveCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <username>",
		Short: "Remove the locally installed TOTP seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("Password: ")
			if err != nil {
				return err
			}
			sess, err := client.SignIn(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			defer client.Logout(sess)

			if err := client.RemoveOtpKey(sess); err != nil {
				return err
			}

			outln(cmd.OutOrStdout(), "OTP key removed")
			return nil
		},
	}
}
