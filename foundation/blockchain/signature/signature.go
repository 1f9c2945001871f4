// Package signature provides helper functions for handling the blockchain
// hashing needs.
package signature

import (
	"crypto/sha256"

	"github.com/ardanlabs/powledger/foundation/blockchain/canonical"
	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents a hash code of zeros. It's returned when a value can't
// be encoded, which only happens when a programming error hands the hasher
// a type the canonical encoder doesn't support.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns a unique string for the value. The value is serialized with
// the canonical encoder so the same logical content always produces the
// same hash.
func Hash(value any) string {
	data, err := canonical.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return HashBytes(data)
}

// HashBytes returns the lowercase hex encoded SHA-256 digest of the data.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}
