package state

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
)

// MineNewBlock runs one mining cycle. The reward transaction for this node is
// placed at the front of the mempool, a nonce is searched for the pool and the
// latest block's hash, and the pool is committed as the next block. The pool
// may be empty, a block with only the reward is still valid.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, time.Duration, error) {
	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	start := time.Now()

	reward := database.Tx{
		Amount:    database.Amount(s.genesis.MiningReward),
		Recipient: string(s.minerAccountID),
		Sender:    s.genesis.RewardSender,
	}

	s.evHandler("state: MineNewBlock: MINING: add reward: tx[%s]", reward)
	s.db.PrependReward(reward)

	for {
		block, err := s.mine(ctx)
		if err == nil {
			duration := time.Since(start)
			s.evHandler("state: MineNewBlock: MINING: completed: blk[%d]: duration[%v]", block.Index, duration)
			if s.observer != nil {
				s.observer(duration)
			}
			return block, duration, nil
		}

		// A transaction was submitted while the search was running so the
		// committed pool no longer matches the proof. Search again.
		if errors.Is(err, database.ErrInvalidProof) && ctx.Err() == nil {
			s.evHandler("state: MineNewBlock: MINING: mempool changed, searching again")
			continue
		}

		s.evHandler("state: MineNewBlock: MINING: withdraw reward: ERROR: %s", err)
		s.db.WithdrawReward(reward)

		return database.Block{}, time.Since(start), err
	}
}

// mine performs a single search and commit attempt.
func (s *State) mine(ctx context.Context) (database.Block, error) {
	latest, err := s.db.LatestBlock()
	if err != nil {
		return database.Block{}, err
	}

	index := s.db.Length()
	prevHash := latest.Hash()
	txs := s.db.CopyMempool()

	s.evHandler("state: MineNewBlock: MINING: perform POW: blk[%d]: txs[%d]", index, len(txs))

	// Attempt to find the nonce by solving the POW puzzle. This can be cancelled.
	nonce, err := s.pow.Search(ctx, index, prevHash, txs)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if err := ctx.Err(); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: commit: blk[%d]: nonce[%d]", index, nonce)

	return s.db.Commit(nonce, prevHash)
}
