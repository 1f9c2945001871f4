// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Genesis mines the genesis block for a difficulty without starting a node.
// It shows how long a node will take to start at that difficulty.
func Genesis(ctx context.Context, w io.Writer, args []string, ev func(v string, args ...any)) error {
	gen := genesis.Default()
	if len(args) > 2 {
		gen.Difficulty = args[2]
	}

	engine, err := pow.New(pow.Config{
		Target:    gen.Difficulty,
		Workers:   runtime.NumCPU(),
		EvHandler: ev,
	})
	if err != nil {
		return err
	}

	prevHash := signature.Hash(gen.PreImage)

	start := time.Now()
	nonce, err := engine.Search(ctx, 0, prevHash, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Difficulty: %s\n", gen.Difficulty)
	fmt.Fprintf(w, "PrevHash:   %s\n", prevHash)
	fmt.Fprintf(w, "Nonce:      %d\n", nonce)
	fmt.Fprintf(w, "Duration:   %s\n", time.Since(start))

	return nil
}
