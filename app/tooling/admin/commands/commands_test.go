package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/powledger/app/tooling/admin/commands"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/stretchr/testify/require"
)

func noop(v string, args ...any) {}

func TestGenesis(t *testing.T) {
	var out bytes.Buffer
	err := commands.Genesis(context.Background(), &out, []string{"admin", "genesis", "00"}, noop)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Nonce:      436\n")
}

func TestVerify(t *testing.T) {
	engine, err := pow.New(pow.Config{Target: "0"})
	require.NoError(t, err)

	gen := genesis.Default()
	gen.Difficulty = "0"

	ctx := context.Background()
	db, err := database.New(ctx, database.Config{Genesis: gen, POW: engine, Mempool: mempool.New()})
	require.NoError(t, err)

	db.Submit(database.Tx{Sender: "alice", Recipient: "bob", Amount: 2.5})
	latest, err := db.LatestBlock()
	require.NoError(t, err)
	nonce, err := engine.Search(ctx, db.Length(), latest.Hash(), db.CopyMempool())
	require.NoError(t, err)
	_, err = db.Commit(nonce, latest.Hash())
	require.NoError(t, err)

	blocks := db.CopyBlocks()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"chain": blocks, "length": len(blocks)})
	}))
	defer srv.Close()

	var out bytes.Buffer
	err = commands.Verify(ctx, &out, []string{"admin", "verify", srv.URL, "0"}, noop)
	require.NoError(t, err)
	require.Contains(t, out.String(), blocks[1].Hash())

	err = commands.Verify(ctx, &out, []string{"admin", "verify", srv.URL, "00"}, noop)
	require.ErrorIs(t, err, database.ErrInvalidProof)
}
