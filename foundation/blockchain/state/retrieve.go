package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
)

// RetrieveChain returns a snapshot of the chain and its length.
func (s *State) RetrieveChain() ([]database.Block, uint64) {
	blocks := s.db.CopyBlocks()
	return blocks, uint64(len(blocks))
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() (database.Block, error) {
	return s.db.LatestBlock()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.db.CopyMempool()
}

// RetrieveMinerAccountID returns the account this node mines under.
func (s *State) RetrieveMinerAccountID() database.AccountID {
	return s.minerAccountID
}
