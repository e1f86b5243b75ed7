package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/siteadmin/internal/client/auth"
	"github.com/atinyakov/siteadmin/internal/client/shell"
)

var loginCmd = &cobra.Command{
	Use:   "login [email]",
	Short: "Log in and store the session token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		p := shell.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		var email string
		if len(args) == 1 {
			email = args[0]
		} else {
			email = p.Ask("Email")
		}
		password := p.Secret("Password")

		msg, err := auth.New(a.api, a.session, a.log.Log).Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("%s", msg)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := auth.New(a.api, a.session, a.log.Log).Logout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
