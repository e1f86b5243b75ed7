package main

import (
	"github.com/spf13/cobra"

	"github.com/atinyakov/siteadmin/internal/client/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the interactive admin console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sh := shell.New(shell.Options{
			Client:  a.api,
			Session: a.session,
			In:      cmd.InOrStdin(),
			Out:     cmd.OutOrStdout(),
			Log:     a.log.Log,
		})
		defer sh.Close()
		return sh.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
