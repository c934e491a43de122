// Opencoin epoch driver.
//
// Usage:
//
//	opencoin-settle --batch=txs.json   Settle one epoch against the stored pool
//	opencoin-settle --help             Show help
//
// The pool snapshot lives in a Badger database under the data directory.
// The batch file is a JSON array of transactions. Accepted transaction
// hashes and the new pool commitment are printed to stdout; the updated
// snapshot is written back.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opencoin-tech/opencoin/config"
	"github.com/opencoin-tech/opencoin/internal/log"
	"github.com/opencoin-tech/opencoin/internal/settle"
	"github.com/opencoin-tech/opencoin/internal/storage"
	"github.com/opencoin-tech/opencoin/internal/utxo"
	"github.com/opencoin-tech/opencoin/pkg/crypto"
	"github.com/opencoin-tech/opencoin/pkg/tx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, flags, err := config.Load()
	if err != nil {
		return err
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}

	if flags.BatchFile == "" {
		return fmt.Errorf("no batch file given (use --batch=<file>)")
	}

	batch, err := readBatch(flags.BatchFile)
	if err != nil {
		return err
	}

	db, err := storage.NewBadger(cfg.UTXODir())
	if err != nil {
		return err
	}
	defer db.Close()

	store := utxo.NewStore(db)
	pool, err := store.Load()
	if err != nil {
		return err
	}
	log.Info().Int("pool_size", pool.Len()).Int("candidates", len(batch)).Msg("pool loaded")

	handler := settle.New(pool, crypto.SchnorrVerifier{})
	accepted := handler.Settle(batch)

	next := handler.PoolSnapshot()
	if err := store.Replace(next); err != nil {
		return fmt.Errorf("persist pool: %w", err)
	}

	for _, t := range accepted {
		fmt.Println(t.Hash())
	}
	fmt.Printf("accepted %d/%d, pool commitment %s\n",
		len(accepted), len(batch), utxo.Commitment(next))
	return nil
}

// readBatch decodes a JSON array of candidate transactions.
func readBatch(path string) ([]*tx.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var batch []*tx.Transaction
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return batch, nil
}
