package main

import (
	"github.com/spf13/cobra"

	"github.com/vaultwire/walletcore"
)

func newSettingsCmd(client *walletcore.Client) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Load or save the encrypted per-account settings record",
	}
	settingsCmd.AddCommand(newSettingsShowCmd(client), newSettingsSetCmd(client))
	return settingsCmd
}

func newSettingsShowCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Sign in and print the decrypted settings record as JSON",
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

			s, err := client.LoadSettings(sess)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}
}

func newSettingsSetCmd(client *walletcore.Client) *cobra.Command {
	var (
		language          string
		numCurrency       int
		minutesAutoLogout int
		pin               string
		disablePINLogin   bool
	)

	cmd := &cobra.Command{
		Use:   "set <username>",
		Short: "Sign in, apply flag overrides, and save the settings record",
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

			s, err := client.LoadSettings(sess)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("language") {
				s.Language = language
			}
			if cmd.Flags().Changed("currency") {
				s.NumCurrency = numCurrency
			}
			if cmd.Flags().Changed("auto-logout-minutes") {
				s.MinutesAutoLogout = minutesAutoLogout
			}
			if cmd.Flags().Changed("pin") {
				s.PIN = &pin
			}
			if cmd.Flags().Changed("disable-pin-login") {
				s.DisablePINLogin = disablePINLogin
			}

			if err := client.SaveSettings(sess, s); err != nil {
				return err
			}

			outln(cmd.OutOrStdout(), "settings saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "UI language code")
	cmd.Flags().IntVar(&numCurrency, "currency", 0, "ISO-4217 numeric currency code")
	cmd.Flags().IntVar(&minutesAutoLogout, "auto-logout-minutes", 0, "minutes of inactivity before auto-logout")
	cmd.Flags().StringVar(&pin, "pin", "", "numeric quick-unlock PIN")
	cmd.Flags().BoolVar(&disablePINLogin, "disable-pin-login", false, "disable PIN-based quick unlock")

	return cmd
}
