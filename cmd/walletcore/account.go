package main

import (
	"github.com/spf13/cobra"

	"github.com/vaultwire/walletcore"
)

func newCreateCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "create <username>",
		Short: "Create a new account and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := promptPassword("New account password: ")
			if err != nil {
				return err
			}

			sess, err := client.CreateAccount(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			defer client.Logout(sess)

			out(cmd.OutOrStdout(), "account %q created\n", sess.Username())
			return nil
		},
	}
}

func newSignInCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "signin <username>",
		Short: "Sign in with a password",
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

			out(cmd.OutOrStdout(), "signed in as %q\n", sess.Username())
			return nil
		},
	}
}

func newSignInRecoveryCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "signin-recovery <username>",
		Short: "Sign in with recovery answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := promptPassword("Recovery answers: ")
			if err != nil {
				return err
			}

			sess, err := client.SignInWithRecovery(cmd.Context(), args[0], answers)
			if err != nil {
				return err
			}
			defer client.Logout(sess)

			out(cmd.OutOrStdout(), "signed in as %q (recovery-limited: %v)\n", sess.Username(), sess.RecoveryLimited())
			return nil
		},
	}
}

func newRecoveryQuestionsCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "recovery-questions <username>",
		Short: "Fetch the account's recovery questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := client.FetchRecoveryQuestions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			outln(cmd.OutOrStdout(), questions)
			return nil
		},
	}
}

func newCheckRecoveryAnswersCmd(client *walletcore.Client) *cobra.Command {
	var online bool
	cmd := &cobra.Command{
		Use:   "check-recovery-answers <username>",
		Short: "Check whether recovery answers are correct",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := promptPassword("Recovery answers: ")
			if err != nil {
				return err
			}

			ok, err := client.CheckRecoveryAnswers(cmd.Context(), args[0], answers, online)
			if err != nil {
				return err
			}
			out(cmd.OutOrStdout(), "%v\n", ok)
			return nil
		},
	}
	cmd.Flags().BoolVar(&online, "online", true, "ask the server instead of checking the local ELP2 sidecar")
	return cmd
}

func newChangePasswordCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "change-password <username>",
		Short: "Sign in and change the account password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPassword, err := promptPassword("Current password: ")
			if err != nil {
				return err
			}
			sess, err := client.SignIn(cmd.Context(), args[0], oldPassword)
			if err != nil {
				return err
			}
			defer client.Logout(sess)

			newPassword, err := promptPassword("New password: ")
			if err != nil {
				return err
			}

			if err := client.ChangePassword(cmd.Context(), sess, newPassword); err != nil {
				return err
			}

			outln(cmd.OutOrStdout(), "password changed")
			return nil
		},
	}
}

func newSetRecoveryCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "set-recovery <username>",
		Short: "Sign in and install recovery questions/answers",
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

			questions, err := promptPassword("Recovery questions (newline-separated): ")
			if err != nil {
				return err
			}
			answers, err := promptPassword("Recovery answers (newline-separated, same order): ")
			if err != nil {
				return err
			}

			if err := client.SetRecovery(cmd.Context(), sess, questions, answers); err != nil {
				return err
			}

			outln(cmd.OutOrStdout(), "recovery installed")
			return nil
		},
	}
}

func newListCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List local account directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := client.ListAccounts()
			if err != nil {
				return err
			}
			for _, n := range names {
				outln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newDeleteCmd(client *walletcore.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account's local directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.DeleteAccount(args[0]); err != nil {
				return err
			}
			outln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}
