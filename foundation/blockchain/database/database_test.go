package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const genesisHash = "181cfa3e85f3c2a7aa9fb74f992d0d061d3e4a6d7461792413aab3f97bd3da95"

func newDatabase(t *testing.T, target string) (*database.Database, *pow.Engine) {
	t.Helper()

	engine, err := pow.New(pow.Config{Target: target})
	if err != nil {
		t.Fatalf("Should be able to construct the proof of work engine: %v", err)
	}

	gen := genesis.Default()
	gen.Difficulty = target

	db, err := database.New(context.Background(), database.Config{
		Genesis: gen,
		POW:     engine,
		Mempool: mempool.New(),
	})
	if err != nil {
		t.Fatalf("Should be able to construct the database: %v", err)
	}

	return db, engine
}

// mine finds the nonce for the current pool and commits it.
func mine(t *testing.T, db *database.Database, engine *pow.Engine) database.Block {
	t.Helper()

	latest, err := db.LatestBlock()
	if err != nil {
		t.Fatalf("Should be able to get the latest block: %v", err)
	}

	prevHash := latest.Hash()
	nonce, err := engine.Search(context.Background(), db.Length(), prevHash, db.CopyMempool())
	if err != nil {
		t.Fatalf("Should be able to find a nonce: %v", err)
	}

	block, err := db.Commit(nonce, prevHash)
	if err != nil {
		t.Fatalf("Should be able to commit the block: %v", err)
	}

	return block
}

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a ledger from the genesis block.")
	{
		t.Logf("\tTest 0:\tWhen using a difficulty target of \"0\".")
		{
			db1, _ := newDatabase(t, "0")
			db2, _ := newDatabase(t, "0")

			if db1.Length() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould have exactly one block, got %d.", failed, db1.Length())
			}
			t.Logf("\t%s\tTest 0:\tShould have exactly one block.", success)

			gen, _ := db1.LatestBlock()
			if gen.Index != 0 || gen.PrevBlockHash != genesisHash || len(gen.Transactions) != 0 || gen.Transactions == nil {
				t.Fatalf("\t%s\tTest 0:\tShould have the genesis fields: %+v", failed, gen)
			}
			t.Logf("\t%s\tTest 0:\tShould have the genesis fields.", success)

			if gen.Nonce != 12 {
				t.Fatalf("\t%s\tTest 0:\tShould have the smallest solving nonce 12, got %d.", failed, gen.Nonce)
			}
			t.Logf("\t%s\tTest 0:\tShould have the smallest solving nonce.", success)

			other, _ := db2.LatestBlock()
			if other.Nonce != gen.Nonce || other.PrevBlockHash != gen.PrevBlockHash {
				t.Fatalf("\t%s\tTest 0:\tShould mine the same genesis every time.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould mine the same genesis every time.", success)

			if err := db1.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the chain.", success)
		}
	}
}

func Test_Commit(t *testing.T) {
	t.Log("Given the need to commit blocks into the ledger.")
	{
		t.Logf("\tTest 0:\tWhen mining two blocks in a row.")
		{
			db, engine := newDatabase(t, "0")

			tx := database.Tx{Sender: "alice", Recipient: "bob", Amount: 5}
			if idx := db.Submit(tx); idx != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould expect the transaction in block 1, got %d.", failed, idx)
			}
			t.Logf("\t%s\tTest 0:\tShould expect the transaction in block 1.", success)

			reward := database.Tx{Sender: "0", Recipient: "miner", Amount: 1}
			db.PrependReward(reward)

			blk1 := mine(t, db, engine)
			if blk1.Index != 1 || len(blk1.Transactions) != 2 || blk1.Transactions[0] != reward || blk1.Transactions[1] != tx {
				t.Fatalf("\t%s\tTest 0:\tShould commit the reward followed by the pool: %+v", failed, blk1)
			}
			t.Logf("\t%s\tTest 0:\tShould commit the reward followed by the pool.", success)

			if db.MempoolLength() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the pool empty, got %d.", failed, db.MempoolLength())
			}
			t.Logf("\t%s\tTest 0:\tShould leave the pool empty.", success)

			db.PrependReward(reward)
			blk2 := mine(t, db, engine)
			if blk2.Index != 2 || blk2.PrevBlockHash != blk1.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould link block 2 to the hash of block 1.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould link block 2 to the hash of block 1.", success)

			blocks := db.CopyBlocks()
			for i := 1; i < len(blocks); i++ {
				if blocks[i].Index != uint64(i) || blocks[i].PrevBlockHash != blocks[i-1].Hash() {
					t.Fatalf("\t%s\tTest 0:\tShould keep every block linked to its predecessor at %d.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould keep every block linked to its predecessor.", success)

			if err := db.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the chain.", success)

			again := db.CopyBlocks()
			if len(again) != len(blocks) || again[2].Hash() != blocks[2].Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould return the same chain when nothing changed.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould return the same chain when nothing changed.", success)
		}

		t.Logf("\tTest 1:\tWhen committing with a nonce that does not solve the puzzle.")
		{
			db, engine := newDatabase(t, "00")

			tx := database.Tx{Sender: "alice", Recipient: "bob", Amount: 5}
			db.Submit(tx)

			latest, _ := db.LatestBlock()
			prevHash := latest.Hash()

			var bad uint64
			for engine.IsValid(1, prevHash, []database.Tx{tx}, bad) {
				bad++
			}

			_, err := db.Commit(bad, prevHash)
			if !errors.Is(err, database.ErrInvalidProof) {
				t.Fatalf("\t%s\tTest 1:\tShould get an invalid proof error, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get an invalid proof error.", success)

			pool := db.CopyMempool()
			if db.Length() != 1 || len(pool) != 1 || pool[0] != tx {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain and pool unchanged.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the chain and pool unchanged.", success)
		}

		t.Logf("\tTest 2:\tWhen committing against a hash that isn't the latest block.")
		{
			db, _ := newDatabase(t, "0")

			tx := database.Tx{Sender: "alice", Recipient: "bob", Amount: 5}
			db.Submit(tx)

			_, err := db.Commit(0, genesisHash)
			if !errors.Is(err, database.ErrParentMismatch) {
				t.Fatalf("\t%s\tTest 2:\tShould get a parent mismatch error, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get a parent mismatch error.", success)

			if db.Length() != 1 || db.MempoolLength() != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould leave the chain and pool unchanged.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould leave the chain and pool unchanged.", success)
		}

		t.Logf("\tTest 3:\tWhen a mining reward is withdrawn.")
		{
			db, _ := newDatabase(t, "0")

			reward := database.Tx{Sender: "0", Recipient: "miner", Amount: 1}
			db.Submit(database.Tx{Sender: "alice", Recipient: "bob", Amount: 5})
			db.PrependReward(reward)

			if !db.WithdrawReward(reward) || db.MempoolLength() != 1 {
				t.Fatalf("\t%s\tTest 3:\tShould remove only the reward.", failed)
			}
			t.Logf("\t%s\tTest 3:\tShould remove only the reward.", success)
		}
	}
}

func Test_BlockHash(t *testing.T) {
	t.Log("Given the need to hash a block.")
	{
		t.Logf("\tTest 0:\tWhen using a known block.")
		{
			blk := database.Block{
				Index:     1,
				TimeStamp: 1700000000.5,
				Transactions: []database.Tx{
					{Amount: 1, Recipient: "miner", Sender: "0"},
					{Amount: 5, Recipient: "bob", Sender: "alice"},
				},
				Nonce:         7,
				PrevBlockHash: genesisHash,
			}

			const exp = "7cbf8352cad4b1ee25118d111ccd3578bb04db1b903029d5ab62853a7793d30b"
			if got := blk.Hash(); got != exp {
				t.Logf("\t%s\tTest 0:\tgot: %s", failed, got)
				t.Logf("\t%s\tTest 0:\texp: %s", failed, exp)
				t.Fatalf("\t%s\tTest 0:\tShould get back the known hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the known hash.", success)

			const expTxs = "[{'amount': 1, 'recipient': 'miner', 'sender': '0'}, {'amount': 5, 'recipient': 'bob', 'sender': 'alice'}]"
			if got := database.TxsString(blk.Transactions); got != expTxs {
				t.Fatalf("\t%s\tTest 0:\tShould get back the transaction text, got %s.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the transaction text.", success)

			if got := database.TxsString(nil); got != "[]" {
				t.Fatalf("\t%s\tTest 0:\tShould get back [] for no transactions, got %s.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould get back [] for no transactions.", success)
		}
	}
}

func Test_Timestamp(t *testing.T) {
	t.Log("Given the need to keep block timestamps.")
	{
		t.Logf("\tTest 0:\tWhen round tripping a timestamp.")
		{
			ts := database.Timestamp(1700000000.5)
			if got := database.NewTimestamp(ts.Time()); got != ts {
				t.Fatalf("\t%s\tTest 0:\tShould get back the same timestamp, got %v.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the same timestamp.", success)

			data, _ := database.Timestamp(1700000000).MarshalJSON()
			if string(data) != "1700000000.0" {
				t.Fatalf("\t%s\tTest 0:\tShould always write a fraction, got %s.", failed, data)
			}
			t.Logf("\t%s\tTest 0:\tShould always write a fraction.", success)
		}
	}
}

func Test_MissingFieldError(t *testing.T) {
	t.Log("Given the need to report missing transaction fields.")
	{
		t.Logf("\tTest 0:\tWhen two fields are missing.")
		{
			var err error = database.NewMissingFieldError(map[string]string{"sender": "required", "amount": "required"})

			if err.Error() != "missing fields: amount, sender" {
				t.Fatalf("\t%s\tTest 0:\tShould list the fields in order, got %q.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould list the fields in order.", success)

			if !database.IsMissingFieldError(errors.Join(errors.New("wrapped"), err)) {
				t.Fatalf("\t%s\tTest 0:\tShould find the error when wrapped.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould find the error when wrapped.", success)
		}
	}
}

func Test_ValidateBlocks(t *testing.T) {
	t.Log("Given the need to validate a chain that came from somewhere else.")
	{
		db, engine := newDatabase(t, "0")
		db.Submit(database.Tx{Sender: "alice", Recipient: "bob", Amount: 5})
		mine(t, db, engine)

		gen := db.Genesis()

		t.Logf("\tTest 0:\tWhen the chain is untouched.")
		{
			if err := database.ValidateBlocks(db.CopyBlocks(), gen, engine, nil); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate the chain : %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate the chain.", success)
		}

		t.Logf("\tTest 1:\tWhen a block points at the wrong parent.")
		{
			blocks := db.CopyBlocks()
			blocks[1].PrevBlockHash = genesisHash

			if err := database.ValidateBlocks(blocks, gen, engine, nil); !errors.Is(err, database.ErrParentMismatch) {
				t.Fatalf("\t%s\tTest 1:\tShould report a parent mismatch : %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould report a parent mismatch.", success)

			if err := db.ValidateChain(); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould leave the stored chain intact : %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the stored chain intact.", success)
		}

		t.Logf("\tTest 2:\tWhen there are no blocks.")
		{
			if err := database.ValidateBlocks(nil, gen, engine, nil); !errors.Is(err, database.ErrEmptyLedger) {
				t.Fatalf("\t%s\tTest 2:\tShould report an empty ledger : %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould report an empty ledger.", success)
		}
	}
}
