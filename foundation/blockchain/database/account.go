package database

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// AccountID represents the identity a mining node is rewarded under. The
// ledger treats it as an opaque string.
type AccountID string

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(crypto.PubkeyToAddress(pk).String())
}

// NewRandomAccountID generates a random identity for a node that has no
// key file, a UUID without the dashes.
func NewRandomAccountID() AccountID {
	return AccountID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
