package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/siteadmin/internal/client/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image and print its URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.requireLogin(); err != nil {
			return err
		}

		url, err := upload.New(a.api, a.log.Log).UploadFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
