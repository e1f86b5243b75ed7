package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/siteadmin/internal/client/auth"
	"github.com/atinyakov/siteadmin/internal/client/shell"
)

var (
	adminName  string
	adminEmail string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create another admin account",
	Long: `Create another admin account. Missing values are asked for interactively;
the password is always read from the prompt.

Examples:
  siteadmin create-admin
  siteadmin create-admin --name Ann --email ann@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireLogin(); err != nil {
			return err
		}

		p := shell.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		admin := auth.Admin{Name: adminName, Email: adminEmail}
		if admin.Name == "" {
			admin.Name = p.Ask("Name")
		}
		if admin.Email == "" {
			admin.Email = p.Ask("Email")
		}
		admin.Password = p.Secret("Password")

		msg, err := auth.New(a.api, a.session, a.log.Log).CreateAdmin(cmd.Context(), admin)
		if err != nil {
			return fmt.Errorf("%s", msg)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Admin display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	rootCmd.AddCommand(createAdminCmd)
}
