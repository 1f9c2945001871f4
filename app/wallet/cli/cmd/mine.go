package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine a block",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	result, err := newClient(nodeURL).mine()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: index %d nonce %d\n", result.Message, result.Index, result.Nonce)
	for _, tx := range result.Transactions {
		fmt.Printf("  %s -> %s: %s\n", tx.Sender, tx.Recipient, tx.Amount)
	}
}
