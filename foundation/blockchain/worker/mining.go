package worker

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// errCancelled stops the mining group when a cancel request arrives.
var errCancelled = errors.New("mining cancelled")

// miningOperations waits for start signals and runs one mining cycle per
// signal until shutdown.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if w.isShutdown() {
				continue
			}

			if n := w.state.QueryMempoolLength(); n == 0 {
				w.evHandler("worker: miningOperations: nothing to mine")
				continue
			}

			w.mineCycle()

			// Transactions that arrived during the cycle need a block too.
			if n := w.state.QueryMempoolLength(); n > 0 && !w.isShutdown() {
				w.evHandler("worker: miningOperations: resignal: txs[%d]", n)
				w.SignalStartMining()
			}

		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// mineCycle mines the current pool into a block. A cancel request stops the
// search, and the cycle does not return until the requester calls done so
// the requester can use the ledger first.
func (w *Worker) mineCycle() {
	w.evHandler("worker: mineCycle: started")
	defer w.evHandler("worker: mineCycle: completed")

	// A cancel left over from a cycle that already finished is stale.
	select {
	case wait := <-w.cancelMining:
		w.evHandler("worker: mineCycle: drained stale cancel")
		<-wait
	default:
	}

	var wait chan struct{}
	defer func() {
		if wait != nil {
			w.evHandler("worker: mineCycle: waiting on cancel requester")
			<-wait
		}
	}()

	g, ctx := errgroup.WithContext(context.Background())
	mined := make(chan struct{})

	g.Go(func() error {
		select {
		case wait = <-w.cancelMining:
			w.evHandler("worker: mineCycle: cancel requested")
			return errCancelled
		case <-mined:
			return nil
		}
	})

	g.Go(func() error {
		defer close(mined)

		block, duration, err := w.state.MineNewBlock(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.stats.cancelled.Add(1)
				return nil
			}
			w.stats.failed.Add(1)
			return err
		}

		w.stats.mined.Add(1)
		w.evHandler("worker: mineCycle: SOLVED: blk[%d]: txs[%d]: duration[%v]", block.Index, len(block.Transactions), duration)
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errCancelled) {
		w.evHandler("worker: mineCycle: ERROR: %s", err)
	}
}
