// Package private maintains the group of handlers for operator access.
package private

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of operator endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return err
	}

	gen := h.State.RetrieveGenesis()
	miner := h.State.RetrieveMinerAccountID()

	var stats *worker.Stats
	if wrk, ok := h.State.Worker.(*worker.Worker); ok {
		s := wrk.Stats()
		stats = &s
	}

	status := struct {
		LatestBlockHash  string        `json:"latest_block_hash"`
		LatestBlockIndex uint64        `json:"latest_block_index"`
		ChainLength      uint64        `json:"chain_length"`
		Uncommitted      int           `json:"uncommitted"`
		Difficulty       string        `json:"difficulty"`
		MinerAccount     string        `json:"miner_account"`
		MinerName        string        `json:"miner_name"`
		AutoMine         bool          `json:"auto_mine"`
		Background       *worker.Stats `json:"background_mining,omitempty"`
	}{
		LatestBlockHash:  latest.Hash(),
		LatestBlockIndex: latest.Index,
		ChainLength:      h.State.QueryChainLength(),
		Uncommitted:      h.State.QueryMempoolLength(),
		Difficulty:       gen.Difficulty,
		MinerAccount:     string(miner),
		MinerName:        h.NS.Lookup(miner),
		AutoMine:         h.State.IsAutoMining(),
		Background:       stats,
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := strconv.ParseUint(web.Param(r, "from"), 10, 64)
	if err != nil {
		return errs.NewTrusted(errors.New("from must be a block index"), http.StatusBadRequest)
	}

	to, err := strconv.ParseUint(web.Param(r, "to"), 10, 64)
	if err != nil {
		return errs.NewTrusted(errors.New("to must be a block index"), http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from is greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// SignalMining asks the background worker to start a mining cycle.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.NewTrusted(errors.New("background mining is not running"), http.StatusConflict)
	}

	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signalled",
	}

	return web.Respond(ctx, w, resp, http.StatusAccepted)
}

// Validate walks the chain and verifies every link and proof.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.State.ValidateChain(); err != nil {
		return errs.NewTrusted(err, http.StatusConflict)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "chain is valid",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
