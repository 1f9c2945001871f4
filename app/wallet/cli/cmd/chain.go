package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the chain of the node",
	Run:   chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) {
	result, err := newClient(nodeURL).chain()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Length:", result.Length)
	for _, block := range result.Chain {
		fmt.Printf("Block %d nonce %d prev %s txs %d\n", block.Index, block.Nonce, block.PrevBlockHash, len(block.Transactions))
	}
}
