// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Chain returns the full chain and its length.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, length := h.State.RetrieveChain()

	resp := chain{
		Chain:  blocks,
		Length: length,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTransaction adds a new transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var ntx database.NewTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	index, err := h.State.SubmitTransaction(ntx)
	if err != nil {
		var mfe *database.MissingFieldError
		if errors.As(err, &mfe) {
			return errs.NewTrustedFields(err, http.StatusBadRequest, mfe.Fields)
		}
		return fmt.Errorf("submit transaction: %w", err)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", *ntx.Sender, "recipient", *ntx.Recipient, "amount", *ntx.Amount, "index", index)

	resp := submitted{
		Message: fmt.Sprintf("Transaction will be added to block %d", index),
		Index:   index,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Mine runs one mining cycle and returns the new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Stop any background mining cycle until this request is done with
	// the ledger.
	if h.State.Worker != nil {
		done := h.State.Worker.SignalCancelMining()
		defer done()
	}

	block, duration, err := h.State.MineNewBlock(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return errs.NewTrusted(err, http.StatusServiceUnavailable)
		}
		return fmt.Errorf("mine: %w", err)
	}

	h.Log.Infow("mined block", "traceid", v.TraceID, "index", block.Index, "nonce", block.Nonce, "txs", len(block.Transactions), "duration", duration.Round(time.Millisecond))

	resp := mined{
		Message:       "New block mined",
		Index:         block.Index,
		PrevBlockHash: block.PrevBlockHash,
		Nonce:         block.Nonce,
		Transactions:  block.Transactions,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.RetrieveMempool()

	txs := make([]tx, len(pool))
	for i, tran := range pool {
		txs[i] = tx{
			Sender:        tran.Sender,
			SenderName:    h.name(tran.Sender),
			Recipient:     tran.Recipient,
			RecipientName: h.name(tran.Recipient),
			Amount:        tran.Amount,
		}
	}

	return web.Respond(ctx, w, txs, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The connection has been hijacked, record the status for the logs.
	v.StatusCode = http.StatusSwitchingProtocols

	ch := h.Evts.Acquire(v.TraceID)
	defer func() {
		if dropped, err := h.Evts.Release(v.TraceID); err == nil && dropped > 0 {
			h.Log.Infow("websocket", "traceid", v.TraceID, "dropped", dropped)
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// name returns the name service entry for the account, empty when the
// account has no name.
func (h Handlers) name(account string) string {
	if h.NS == nil {
		return ""
	}

	name := h.NS.Lookup(database.AccountID(account))
	if name == account {
		return ""
	}
	return name
}
