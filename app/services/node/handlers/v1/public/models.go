package public

import "github.com/ardanlabs/powledger/foundation/blockchain/database"

type chain struct {
	Chain  []database.Block `json:"chain"`
	Length uint64           `json:"length"`
}

type submitted struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type mined struct {
	Message       string        `json:"message"`
	Index         uint64        `json:"index"`
	PrevBlockHash string        `json:"hash_of_previous_block"`
	Nonce         uint64        `json:"nonce"`
	Transactions  []database.Tx `json:"transaction"`
}

type tx struct {
	Sender        string          `json:"sender"`
	SenderName    string          `json:"sender_name,omitempty"`
	Recipient     string          `json:"recipient"`
	RecipientName string          `json:"recipient_name,omitempty"`
	Amount        database.Amount `json:"amount"`
}
