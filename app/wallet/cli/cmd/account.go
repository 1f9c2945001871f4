package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var listAll bool

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print account for the specific wallet",
	Run:   accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().BoolVarP(&listAll, "all", "l", false, "List every account in the account path.")
}

func accountRun(cmd *cobra.Command, args []string) {
	if listAll {
		ns, err := nameservice.New(accountPath)
		if err != nil {
			log.Fatal(err)
		}

		accounts := ns.Copy()
		names := make([]string, 0, len(accounts))
		byName := make(map[string]database.AccountID, len(accounts))
		for account, name := range accounts {
			names = append(names, name)
			byName[name] = account
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("%-12s %s\n", name, byName[name])
		}
		return
	}

	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(database.PublicKeyToAccountID(privateKey.PublicKey))
}
