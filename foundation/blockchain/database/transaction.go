package database

import (
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/canonical"
)

// Amount represents the value moved by a transaction.
type Amount float64

// MarshalJSON writes integral amounts without a fraction so hashes stay
// stable across encoders.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(canonical.FormatNumber(float64(a))), nil
}

// String implements the fmt.Stringer interface.
func (a Amount) String() string {
	return canonical.FormatNumber(float64(a))
}

// =============================================================================

// Tx is the transactional information between two parties.
type Tx struct {
	Amount    Amount `json:"amount"`
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
}

// String returns the text form used to join transactions into the proof of
// work content, for example {'amount': 5, 'recipient': 'bob', 'sender': 'alice'}.
func (tx Tx) String() string {
	var b strings.Builder
	tx.writeTo(&b)
	return b.String()
}

func (tx Tx) writeTo(b *strings.Builder) {
	b.WriteString("{'amount': ")
	b.WriteString(tx.Amount.String())
	b.WriteString(", 'recipient': ")
	b.WriteString(canonical.QuoteString(tx.Recipient))
	b.WriteString(", 'sender': ")
	b.WriteString(canonical.QuoteString(tx.Sender))
	b.WriteByte('}')
}

// TxsString returns the text form of a list of transactions, [] when empty.
func TxsString(txs []Tx) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, tx := range txs {
		if i > 0 {
			b.WriteString(", ")
		}
		tx.writeTo(&b)
	}
	b.WriteByte(']')

	return b.String()
}

// =============================================================================

// NewTx is what a client submits to add a transaction. The fields are
// pointers so a missing field can be told apart from a zero value.
type NewTx struct {
	Sender    *string `json:"sender" validate:"required"`
	Recipient *string `json:"recipient" validate:"required"`
	Amount    *Amount `json:"amount" validate:"required"`
}

// ToTx converts a validated submission into a transaction. The caller must
// have validated the submission first.
func (ntx NewTx) ToTx() Tx {
	return Tx{
		Amount:    *ntx.Amount,
		Recipient: *ntx.Recipient,
		Sender:    *ntx.Sender,
	}
}
