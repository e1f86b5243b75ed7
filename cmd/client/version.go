package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version   string
	buildDate string
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build version and date",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "siteadmin\nVersion: %s\nBuild Date: %s\n", orNA(version), orNA(buildDate))
	},
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
