// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// Mempool represents the ordered set of transactions waiting to be
// committed into the next block. Duplicates are allowed.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new, empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds a transaction to the end of the pool and returns the new
// number of transactions.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Prepend adds a transaction to the front of the pool and returns the new
// number of transactions.
func (mp *Mempool) Prepend(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]database.Tx, 0, len(mp.pool)+1)
	pool = append(pool, tx)
	mp.pool = append(pool, mp.pool...)

	return len(mp.pool)
}

// Delete removes the first transaction equal to the one specified. It
// reports whether a transaction was removed.
func (mp *Mempool) Delete(tx database.Tx) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for i, ptx := range mp.pool {
		if ptx == tx {
			mp.pool = append(mp.pool[:i:i], mp.pool[i+1:]...)
			return true
		}
	}

	return false
}

// Drain returns every transaction in the pool, in order, and leaves the
// pool empty.
func (mp *Mempool) Drain() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	txs := mp.pool
	mp.pool = nil

	if txs == nil {
		txs = []database.Tx{}
	}

	return txs
}

// Restore puts previously drained transactions back at the front of the
// pool, ahead of anything submitted since the drain.
func (mp *Mempool) Restore(txs []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	pool := make([]database.Tx, 0, len(txs)+len(mp.pool))
	pool = append(pool, txs...)
	mp.pool = append(pool, mp.pool...)
}

// Copy returns a copy of the transactions in the pool, in order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.Tx, len(mp.pool))
	copy(cpy, mp.pool)

	return cpy
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
