package database

import (
	"fmt"
	"math"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/canonical"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Timestamp represents a point in time as seconds since the Unix epoch with
// a fractional part for sub second precision.
type Timestamp float64

// NewTimestamp converts the time to a timestamp with microsecond precision.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(float64(t.UnixMicro()) / 1e6)
}

// Time converts the timestamp back into a time value.
func (ts Timestamp) Time() time.Time {
	sec, frac := math.Modf(float64(ts))
	return time.Unix(int64(sec), int64(math.Round(frac*1e6))*int64(time.Microsecond)).UTC()
}

// MarshalJSON writes the timestamp as a float that always carries a
// fractional part.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(canonical.FormatFloat(float64(ts))), nil
}

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	Index         uint64    `json:"index"`                  // Position in the ledger.
	TimeStamp     Timestamp `json:"timestamp"`              // Time the block was committed.
	Transactions  []Tx      `json:"transaction"`            // Pool contents at commit time.
	Nonce         uint64    `json:"nonce"`                  // Value identified to solve the proof of work.
	PrevBlockHash string    `json:"hash_of_previous_block"` // Hash of the previous block in the chain.
}

// Hash returns the unique hash for the Block. All fields take part so any
// change to a committed block breaks the chain from that point on.
func (b Block) Hash() string {
	return signature.Hash(b)
}

// ValidateBlock takes a block and validates it against the block that
// precedes it in the chain.
func (b Block) ValidateBlock(previousBlock Block, pow ProofOfWork, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block index is the next index", b.Index)

	nextIndex := previousBlock.Index + 1
	if b.Index != nextIndex {
		return fmt.Errorf("this block is not the next index, got %d, exp %d", b.Index, nextIndex)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: previous hash does match previous block", b.Index)

	if prevHash := previousBlock.Hash(); b.PrevBlockHash != prevHash {
		return fmt.Errorf("%w: got %s, exp %s", ErrParentMismatch, b.PrevBlockHash, prevHash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: nonce solves the proof of work", b.Index)

	if !pow.IsValid(b.Index, b.PrevBlockHash, b.Transactions, b.Nonce) {
		return fmt.Errorf("%w: blk[%d] nonce[%d]", ErrInvalidProof, b.Index, b.Nonce)
	}

	return nil
}
