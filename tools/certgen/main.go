// Package main generates a development Certificate Authority (CA) and a
// server certificate for the content backend, writing them to a directory.
//
// An existing CA in the directory is reused, so clients that already trust
// it keep working after the server certificate is reissued.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/atinyakov/siteadmin/internal/certgen"
)

var (
	outDir string
	hosts  []string
)

var rootCmd = &cobra.Command{
	Use:   "certgen",
	Short: "Generate a development CA and server certificate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return generate(outDir, hosts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "certs", "output directory")
	rootCmd.Flags().StringSliceVar(&hosts, "hosts", []string{"localhost", "127.0.0.1"}, "server host names and IPs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// generate writes ca.crt/ca.key (unless present) and server.crt/server.key into dir.
func generate(dir string, hosts []string, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	caCertPath := filepath.Join(dir, "ca.crt")
	caKeyPath := filepath.Join(dir, "ca.key")

	caCert, caKey, err := certgen.LoadCACredentials(caCertPath, caKeyPath)
	if errors.Is(err, fs.ErrNotExist) {
		certPEM, keyPEM, genErr := certgen.GenerateCA("SiteAdmin Dev CA")
		if genErr != nil {
			return genErr
		}
		if err := writePair(caCertPath, caKeyPath, certPEM, keyPEM); err != nil {
			return err
		}
		caCert, caKey, err = certgen.ParseCA(certPEM, keyPEM)
		fmt.Fprintf(out, "CA written to %s\n", caCertPath)
	}
	if err != nil {
		return err
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(hosts, caCert, caKey)
	if err != nil {
		return err
	}
	serverCert := filepath.Join(dir, "server.crt")
	if err := writePair(serverCert, filepath.Join(dir, "server.key"), certPEM, keyPEM); err != nil {
		return err
	}
	fmt.Fprintf(out, "Server certificate for %v written to %s\n", hosts, serverCert)
	return nil
}

func writePair(certPath, keyPath string, certPEM, keyPEM []byte) error {
	if err := os.WriteFile(certPath, certPEM, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", certPath, err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", keyPath, err)
	}
	return nil
}
