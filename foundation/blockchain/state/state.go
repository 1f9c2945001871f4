// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining() (done func())
}

// =============================================================================

// Config represents the configuration required to start
// the ledger node.
type Config struct {
	MinerAccountID database.AccountID
	Genesis        genesis.Genesis
	Workers        int
	AutoMine       bool
	EvHandler      EventHandler
}

// State manages the ledger database.
type State struct {
	minerAccountID database.AccountID
	autoMine       bool
	evHandler      EventHandler

	// Serializes mining cycles so only one reward sits in the pool.
	mineMu   sync.Mutex
	observer func(time.Duration)

	genesis genesis.Genesis
	pow     *pow.Engine
	db      *database.Database

	Worker Worker
}

// New constructs a new ledger for data management. The genesis block is
// mined before New returns, so the context bounds that first search.
func New(ctx context.Context, cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.MinerAccountID == "" {
		return nil, errors.New("miner account id is required")
	}

	// Construct the proof of work engine for the genesis difficulty.
	engine, err := pow.New(pow.Config{
		Target:    cfg.Genesis.Difficulty,
		Workers:   cfg.Workers,
		EvHandler: ev,
	})
	if err != nil {
		return nil, err
	}

	db, err := database.New(ctx, database.Config{
		Genesis:   cfg.Genesis,
		POW:       engine,
		Mempool:   mempool.New(),
		EvHandler: ev,
	})
	if err != nil {
		return nil, err
	}

	// Create the State to provide support for managing the ledger.
	state := State{
		minerAccountID: cfg.MinerAccountID,
		autoMine:       cfg.AutoMine,
		evHandler:      ev,

		genesis: cfg.Genesis,
		pow:     engine,
		db:      db,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// SetMiningObserver registers a function called with the duration of every
// mining cycle that commits a block, whether the cycle was started by a
// request or by the worker.
func (s *State) SetMiningObserver(fn func(duration time.Duration)) {
	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	s.observer = fn
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all ledger writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// IsAutoMining reports whether new transactions start a mining cycle.
func (s *State) IsAutoMining() bool {
	return s.autoMine
}

// ValidateChain walks the entire chain and verifies every link and proof.
func (s *State) ValidateChain() error {
	return s.db.ValidateChain()
}
