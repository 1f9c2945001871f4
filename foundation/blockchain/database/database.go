// Package database handles all the lower level support for maintaining the
// blockchain in memory: the ordered set of blocks and the pool of
// transactions waiting to be committed into the next one.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// ProofOfWork represents the behavior required to find and verify the
// nonce that admits a block into the chain.
type ProofOfWork interface {
	Search(ctx context.Context, index uint64, prevHash string, txs []Tx) (uint64, error)
	IsValid(index uint64, prevHash string, txs []Tx, nonce uint64) bool
}

// Mempool represents the behavior required from the pool of transactions
// waiting to be committed.
type Mempool interface {
	Count() int
	Append(tx Tx) int
	Prepend(tx Tx) int
	Delete(tx Tx) bool
	Drain() []Tx
	Restore(txs []Tx)
	Copy() []Tx
}

// =============================================================================

// Config represents the configuration required to construct the database.
type Config struct {
	Genesis   genesis.Genesis
	POW       ProofOfWork
	Mempool   Mempool
	EvHandler func(v string, args ...any)
}

// Database manages the blocks and the pool of pending transactions. Blocks
// are only ever appended and are never changed once they are in the chain.
type Database struct {
	mu        sync.RWMutex
	genesis   genesis.Genesis
	pow       ProofOfWork
	mempool   Mempool
	blocks    []Block
	evHandler func(v string, args ...any)
}

// New constructs the database and mines the genesis block. The genesis
// block's previous hash is the hash of the genesis pre-image, not of a real
// block.
func New(ctx context.Context, cfg Config) (*Database, error) {
	if cfg.POW == nil {
		return nil, errors.New("proof of work engine is required")
	}

	if cfg.Mempool == nil {
		return nil, errors.New("mempool is required")
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	genesisHash := signature.Hash(cfg.Genesis.PreImage)

	ev("database: New: mining genesis block: prevHash[%s]", genesisHash)

	nonce, err := cfg.POW.Search(ctx, 0, genesisHash, []Tx{})
	if err != nil {
		return nil, fmt.Errorf("mining genesis block: %w", err)
	}

	db := Database{
		genesis:   cfg.Genesis,
		pow:       cfg.POW,
		mempool:   cfg.Mempool,
		evHandler: ev,
	}

	db.blocks = append(db.blocks, Block{
		Index:         0,
		TimeStamp:     NewTimestamp(time.Now()),
		Transactions:  []Tx{},
		Nonce:         nonce,
		PrevBlockHash: genesisHash,
	})

	ev("database: New: genesis block added: nonce[%d]", nonce)

	return &db, nil
}

// Genesis returns a copy of the genesis settings.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// =============================================================================

// Submit adds the transaction to the end of the pool and returns the index
// of the block it's expected to be committed into. Another commit may land
// first, so the index is an estimate.
func (db *Database) Submit(tx Tx) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.mempool.Append(tx)

	return uint64(len(db.blocks))
}

// PrependReward places the mining reward transaction at the front of the
// pool so it's the first transaction of the next block.
func (db *Database) PrependReward(tx Tx) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.mempool.Prepend(tx)

	return uint64(len(db.blocks))
}

// WithdrawReward removes a reward transaction placed by PrependReward when
// the mining cycle that placed it fails.
func (db *Database) WithdrawReward(tx Tx) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.mempool.Delete(tx)
}

// Commit seals the pool into a new block. The pool is drained, the proof is
// verified against the drained transactions, and the block is appended, all
// under a single lock. On failure the pool is restored and the chain is left
// untouched.
func (db *Database) Commit(nonce uint64, prevHash string) (Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(db.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}

	index := uint64(len(db.blocks))
	latestHash := db.blocks[len(db.blocks)-1].Hash()

	db.evHandler("database: Commit: blk[%d]: check: previous hash does match latest block", index)

	if prevHash != latestHash {
		return Block{}, fmt.Errorf("%w: got %s, exp %s", ErrParentMismatch, prevHash, latestHash)
	}

	txs := db.mempool.Drain()

	db.evHandler("database: Commit: blk[%d]: check: nonce[%d] solves the proof of work: txs[%d]", index, nonce, len(txs))

	if !db.pow.IsValid(index, prevHash, txs, nonce) {
		db.mempool.Restore(txs)
		return Block{}, fmt.Errorf("%w: blk[%d] nonce[%d]", ErrInvalidProof, index, nonce)
	}

	block := Block{
		Index:         index,
		TimeStamp:     NewTimestamp(time.Now()),
		Transactions:  txs,
		Nonce:         nonce,
		PrevBlockHash: prevHash,
	}

	db.blocks = append(db.blocks, block)

	db.evHandler("database: Commit: blk[%d]: committed: hash[%s]", index, block.Hash())

	return block, nil
}

// =============================================================================

// LatestBlock returns the most recently appended block.
func (db *Database) LatestBlock() (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if len(db.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}

	return db.blocks[len(db.blocks)-1], nil
}

// HashOf returns the hash for the specified block.
func (db *Database) HashOf(block Block) string {
	return block.Hash()
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return uint64(len(db.blocks))
}

// CopyBlocks returns a copy of the chain. The slice is a snapshot, blocks
// committed later are not reflected in it.
func (db *Database) CopyBlocks() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	copy(blocks, db.blocks)

	return blocks
}

// CopyMempool returns a copy of the pending transactions.
func (db *Database) CopyMempool() []Tx {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.mempool.Copy()
}

// MempoolLength returns the number of pending transactions.
func (db *Database) MempoolLength() int {
	return db.mempool.Count()
}

// ValidateChain walks the chain and validates every block against its
// predecessor, including the genesis block's link to the pre-image.
func (db *Database) ValidateChain() error {
	return ValidateBlocks(db.CopyBlocks(), db.genesis, db.pow, db.evHandler)
}

// ValidateBlocks validates a chain of blocks that did not necessarily come
// from this node, such as a chain fetched from a remote node.
func ValidateBlocks(blocks []Block, gen genesis.Genesis, pow ProofOfWork, evHandler func(v string, args ...any)) error {
	if len(blocks) == 0 {
		return ErrEmptyLedger
	}

	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	first := blocks[0]
	if first.Index != 0 {
		return fmt.Errorf("genesis block has index %d", first.Index)
	}

	if exp := signature.Hash(gen.PreImage); first.PrevBlockHash != exp {
		return fmt.Errorf("%w: genesis got %s, exp %s", ErrParentMismatch, first.PrevBlockHash, exp)
	}

	if !pow.IsValid(0, first.PrevBlockHash, first.Transactions, first.Nonce) {
		return fmt.Errorf("%w: genesis nonce[%d]", ErrInvalidProof, first.Nonce)
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], pow, evHandler); err != nil {
			return err
		}
	}

	return nil
}
