// Package cmd contains the wallet app.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	nodeURL     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Path to the private key.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple ledger wallet",
}

// Execute runs the wallet command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, nameservice.KeyExtension) {
		accountName += nameservice.KeyExtension
	}

	return filepath.Join(accountPath, accountName)
}
