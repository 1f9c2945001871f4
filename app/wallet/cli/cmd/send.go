package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	from  string
	to    string
	value float64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "Sender, defaults to the account of the private key.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Recipient account or a name from the account path.")
	sendCmd.Flags().Float64VarP(&value, "value", "v", 0, "Value to send.")
}

func sendRun(cmd *cobra.Command, args []string) {
	sender := from
	if sender == "" {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		sender = string(database.PublicKeyToAccountID(privateKey.PublicKey))
	}

	ns, err := nameservice.New(accountPath)
	if err != nil {
		log.Fatal(err)
	}

	recipient := to
	if account := ns.Resolve(to); account != "" {
		recipient = string(account)
	}

	result, err := newClient(nodeURL).submit(newTx(sender, recipient, value))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.Message)
}

func newTx(sender string, recipient string, value float64) database.NewTx {
	amount := database.Amount(value)
	return database.NewTx{
		Sender:    &sender,
		Recipient: &recipient,
		Amount:    &amount,
	}
}
