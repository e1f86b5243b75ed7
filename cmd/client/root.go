package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configFile  string
	apiURL      string
	sessionFile string
	logLevel    string
	caFile      string
)

var rootCmd = &cobra.Command{
	Use:   "siteadmin",
	Short: "Admin console for the site content API",
	Long: `siteadmin manages the content of the company website: services, blog
posts, testimonials, FAQ entries, portfolio projects and the site header.

Examples:
  siteadmin login admin@example.com
  siteadmin shell
  siteadmin upload ./logo.png
  siteadmin create-admin --name Ann --email ann@example.com`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session", "", "Path to the session file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&caFile, "ca", "", "PEM CA bundle trusted for the backend")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
