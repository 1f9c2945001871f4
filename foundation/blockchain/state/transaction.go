package state

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/validate"
)

// SubmitTransaction accepts a transaction from a client for inclusion in the
// next block. It returns the index of the block the transaction is expected
// to land in. A submission missing a required field is rejected with a
// MissingFieldError and the mempool is left untouched.
func (s *State) SubmitTransaction(ntx database.NewTx) (uint64, error) {
	if err := validate.Check(ntx); err != nil {
		if fe := validate.GetFieldErrors(err); fe != nil {
			return 0, database.NewMissingFieldError(fe.Fields())
		}
		return 0, err
	}

	tx := ntx.ToTx()
	index := s.db.Submit(tx)

	s.evHandler("state: SubmitTransaction: tx[%s]: blk[%d]", tx, index)

	if s.autoMine && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return index, nil
}
