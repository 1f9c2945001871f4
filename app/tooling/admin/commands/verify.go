package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/go-resty/resty/v2"
)

// Verify fetches the chain from a node and validates every block locally.
func Verify(ctx context.Context, w io.Writer, args []string, ev func(v string, args ...any)) error {
	if len(args) < 3 {
		return errors.New("missing node url")
	}

	gen := genesis.Default()
	if len(args) > 3 {
		gen.Difficulty = args[3]
	}

	engine, err := pow.New(pow.Config{Target: gen.Difficulty})
	if err != nil {
		return err
	}

	var chain struct {
		Chain  []database.Block `json:"chain"`
		Length uint64           `json:"length"`
	}

	resp, err := resty.New().R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&chain).
		Get(args[2] + "/v1/blockchain")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("node responded with status %d", resp.StatusCode())
	}

	if uint64(len(chain.Chain)) != chain.Length {
		return fmt.Errorf("node reported length %d for %d blocks", chain.Length, len(chain.Chain))
	}

	if err := database.ValidateBlocks(chain.Chain, gen, engine, ev); err != nil {
		return err
	}

	latest := chain.Chain[len(chain.Chain)-1]
	fmt.Fprintf(w, "Chain is valid: %d blocks, latest hash %s\n", chain.Length, latest.Hash())

	return nil
}
