package utxo

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/opencoin-tech/opencoin/internal/storage"
	"github.com/opencoin-tech/opencoin/pkg/tx"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// prefixUTXO keys persisted pool entries: u/<txid><index> -> Output JSON.
var prefixUTXO = []byte("u/")

// Store persists pool snapshots in a storage.DB. It is the durable form of
// a Pool: Load materializes the current snapshot, Replace writes a new one
// after settlement.
type Store struct {
	db storage.DB
}

// NewStore creates a new UTXO store backed by the given database.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// utxoKey builds a storage key for an outpoint: "u/" + txid(32) + index(4).
func utxoKey(op types.Outpoint) []byte {
	key := make([]byte, len(prefixUTXO)+types.HashSize+4)
	copy(key, prefixUTXO)
	copy(key[len(prefixUTXO):], op.TxID[:])
	binary.BigEndian.PutUint32(key[len(prefixUTXO)+types.HashSize:], op.Index)
	return key
}

// parseKey recovers the outpoint from a storage key.
func parseKey(key []byte) (types.Outpoint, error) {
	if len(key) != len(prefixUTXO)+types.HashSize+4 {
		return types.Outpoint{}, fmt.Errorf("malformed utxo key: %d bytes", len(key))
	}
	var op types.Outpoint
	copy(op.TxID[:], key[len(prefixUTXO):len(prefixUTXO)+types.HashSize])
	op.Index = binary.BigEndian.Uint32(key[len(prefixUTXO)+types.HashSize:])
	return op, nil
}

// Get retrieves a persisted output by its outpoint.
func (s *Store) Get(op types.Outpoint) (tx.Output, error) {
	data, err := s.db.Get(utxoKey(op))
	if err != nil {
		return tx.Output{}, fmt.Errorf("utxo get: %w", err)
	}
	var out tx.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return tx.Output{}, fmt.Errorf("utxo unmarshal: %w", err)
	}
	return out, nil
}

// Put persists one output under its outpoint.
func (s *Store) Put(op types.Outpoint, out tx.Output) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("utxo marshal: %w", err)
	}
	if err := s.db.Put(utxoKey(op), data); err != nil {
		return fmt.Errorf("utxo put: %w", err)
	}
	return nil
}

// Delete removes a persisted output.
func (s *Store) Delete(op types.Outpoint) error {
	if err := s.db.Delete(utxoKey(op)); err != nil {
		return fmt.Errorf("utxo delete: %w", err)
	}
	return nil
}

// Has checks if an output is persisted for the given outpoint.
func (s *Store) Has(op types.Outpoint) (bool, error) {
	return s.db.Has(utxoKey(op))
}

// Load materializes the persisted snapshot into a fresh in-memory pool.
func (s *Store) Load() (*Pool, error) {
	pool := NewPool()
	err := s.db.ForEach(prefixUTXO, func(key, value []byte) error {
		op, err := parseKey(key)
		if err != nil {
			return err
		}
		var out tx.Output
		if err := json.Unmarshal(value, &out); err != nil {
			return fmt.Errorf("utxo unmarshal: %w", err)
		}
		pool.Insert(op, out)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	return pool, nil
}

// Replace overwrites the persisted snapshot with the pool's current contents.
func (s *Store) Replace(pool *Pool) error {
	// Collect stale keys first; deleting while iterating is undefined for
	// some backends.
	var stale [][]byte
	err := s.db.ForEach(prefixUTXO, func(key, _ []byte) error {
		k := make([]byte, len(key))
		copy(k, key)
		stale = append(stale, k)
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan pool prefix: %w", err)
	}
	for _, key := range stale {
		if err := s.db.Delete(key); err != nil {
			return fmt.Errorf("delete stale utxo: %w", err)
		}
	}

	return pool.ForEach(func(op types.Outpoint, out tx.Output) error {
		return s.Put(op, out)
	})
}
