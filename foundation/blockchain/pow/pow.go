// Package pow implements the proof of work used to admit blocks into the
// chain. A nonce solves the puzzle when the SHA-256 hash of the block
// content joined with the nonce starts with the difficulty target.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"golang.org/x/sync/errgroup"
)

// checkInterval is how many attempts a search makes between checks of
// the context for cancellation.
const checkInterval = 1 << 10

// reportInterval is how many attempts a search makes between progress events.
const reportInterval = 1_000_000

// Config represents the configuration required to construct an engine.
type Config struct {
	Target    string
	Workers   int
	EvHandler func(v string, args ...any)
}

// Engine finds and verifies nonces for a difficulty target.
type Engine struct {
	target    string
	workers   int
	evHandler func(v string, args ...any)
}

// New constructs an engine for the specified target. The target must be
// made up of lowercase hex characters or no hash could ever match it.
func New(cfg Config) (*Engine, error) {
	for _, c := range cfg.Target {
		if !('0' <= c && c <= '9') && !('a' <= c && c <= 'f') {
			return nil, fmt.Errorf("difficulty target %q is not lowercase hex", cfg.Target)
		}
	}

	if len(cfg.Target) > sha256.Size*2 {
		return nil, fmt.Errorf("difficulty target %q is longer than a hash", cfg.Target)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	e := Engine{
		target:    cfg.Target,
		workers:   workers,
		evHandler: ev,
	}

	return &e, nil
}

// Target returns the difficulty target.
func (e *Engine) Target() string {
	return e.target
}

// IsValid reports whether the nonce solves the puzzle for the block content.
func (e *Engine) IsValid(index uint64, prevHash string, txs []database.Tx, nonce uint64) bool {
	s := newSolver(e.target, content(index, prevHash, txs))
	return s.solved(nonce)
}

// Search looks for the smallest nonce that solves the puzzle for the block
// content, scanning upward from zero. The search has no upper bound and only
// stops early when the context is cancelled.
func (e *Engine) Search(ctx context.Context, index uint64, prevHash string, txs []database.Tx) (uint64, error) {
	e.evHandler("pow: Search: MINING: started: blk[%d]: target[%s]: workers[%d]", index, e.target, e.workers)

	prefix := content(index, prevHash, txs)

	var nonce uint64
	var err error
	switch e.workers {
	case 1:
		nonce, err = e.search(ctx, prefix)
	default:
		nonce, err = e.searchParallel(ctx, prefix)
	}

	if err != nil {
		e.evHandler("pow: Search: MINING: CANCELLED: blk[%d]", index)
		return 0, err
	}

	e.evHandler("pow: Search: MINING: SOLVED: blk[%d]: nonce[%d]", index, nonce)

	return nonce, nil
}

// =============================================================================

// search scans the nonce space sequentially.
func (e *Engine) search(ctx context.Context, prefix string) (uint64, error) {
	s := newSolver(e.target, prefix)

	for nonce := uint64(0); ; nonce++ {
		if nonce%checkInterval == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if nonce > 0 && nonce%reportInterval == 0 {
			e.evHandler("pow: Search: MINING: attempts[%d]", nonce)
		}

		if s.solved(nonce) {
			return nonce, nil
		}
	}
}

// searchParallel stripes the nonce space across the workers. Worker w tries
// w, w+n, w+2n and so on. A worker stops once its next candidate is larger
// than the best nonce any worker has found, so the result is still the
// smallest solving nonce.
func (e *Engine) searchParallel(ctx context.Context, prefix string) (uint64, error) {
	const none = ^uint64(0)

	var best atomic.Uint64
	best.Store(none)

	g, ctx := errgroup.WithContext(ctx)
	stride := uint64(e.workers)

	for w := range e.workers {
		g.Go(func() error {
			s := newSolver(e.target, prefix)

			var attempts uint64
			for nonce := uint64(w); nonce < best.Load(); nonce += stride {
				attempts++
				if attempts%checkInterval == 0 && ctx.Err() != nil {
					return ctx.Err()
				}

				if w == 0 && attempts%reportInterval == 0 {
					e.evHandler("pow: Search: MINING: attempts[%d]", attempts*stride)
				}

				if !s.solved(nonce) {
					continue
				}

				for {
					cur := best.Load()
					if nonce >= cur || best.CompareAndSwap(cur, nonce) {
						return nil
					}
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}

	nonce := best.Load()
	if nonce == none {
		return 0, errors.New("nonce space exhausted")
	}

	return nonce, nil
}

// =============================================================================

// content joins the block fields that precede the nonce in the hashed text.
func content(index uint64, prevHash string, txs []database.Tx) string {
	return strconv.FormatUint(index, 10) + prevHash + database.TxsString(txs)
}

// solver hashes candidate nonces for a fixed content prefix, reusing its
// buffers between attempts.
type solver struct {
	target []byte
	buf    []byte
	n      int
	hexBuf []byte
}

func newSolver(target string, prefix string) *solver {
	return &solver{
		target: []byte(target),
		buf:    append(make([]byte, 0, len(prefix)+20), prefix...),
		n:      len(prefix),
		hexBuf: make([]byte, sha256.Size*2),
	}
}

// solved reports whether the nonce produces a hash starting with the target.
func (s *solver) solved(nonce uint64) bool {
	s.buf = strconv.AppendUint(s.buf[:s.n], nonce, 10)
	hash := sha256.Sum256(s.buf)

	// Only the bytes covering the target need to be hex encoded.
	k := len(s.target)
	hex.Encode(s.hexBuf, hash[:(k+1)/2])

	return string(s.hexBuf[:k]) == string(s.target)
}
