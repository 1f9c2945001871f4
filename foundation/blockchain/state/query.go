package state

import "github.com/ardanlabs/powledger/foundation/blockchain/database"

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.db.MempoolLength()
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() uint64 {
	return s.db.Length()
}

// QueryBlocksByNumber returns the blocks from and to the specified indexes,
// inclusive. Out of range indexes are clamped to the chain.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	blocks := s.db.CopyBlocks()

	last := uint64(len(blocks)) - 1
	if to > last {
		to = last
	}
	if from > to {
		return nil
	}

	return blocks[from : to+1]
}
