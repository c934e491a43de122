// Package settle implements per-epoch transaction settlement against the
// unspent-output pool.
//
// A Handler owns one pool. Each epoch it receives an unordered batch of
// candidate transactions, validates each against the live pool, resolves
// double spends between siblings in the batch by processing order, and
// commits the accepted set.
package settle

import (
	"github.com/rs/zerolog"

	"github.com/opencoin-tech/opencoin/internal/log"
	"github.com/opencoin-tech/opencoin/internal/utxo"
	"github.com/opencoin-tech/opencoin/pkg/crypto"
	"github.com/opencoin-tech/opencoin/pkg/tx"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// Handler validates transactions and settles epoch batches.
// It exclusively owns its pool; no other component may mutate it.
type Handler struct {
	pool     *utxo.Pool
	verifier crypto.Verifier
	logger   zerolog.Logger
}

// New creates a handler from a pool snapshot. The snapshot is cloned, so
// later mutation of the caller's pool cannot affect the handler (and vice
// versa). The verifier checks input signatures; pass crypto.SchnorrVerifier{}
// for the standard scheme.
func New(snapshot *utxo.Pool, verifier crypto.Verifier) *Handler {
	return &Handler{
		pool:     snapshot.Clone(),
		verifier: verifier,
		logger:   log.Settle,
	}
}

// Validate reports whether the transaction could be accepted against the
// handler's current pool. It is a pure predicate: the pool is never
// mutated, and a malformed transaction is simply invalid, never an error.
func (h *Handler) Validate(transaction *tx.Transaction) bool {
	return h.validate(transaction) == nil
}

// validate runs the full check chain and reports the first failure.
func (h *Handler) validate(transaction *tx.Transaction) error {
	_, err := transaction.ValidateWithUTXOs(poolProvider{h.pool}, h.verifier)
	if err != nil {
		h.logger.Debug().Err(err).Msg("transaction rejected")
	}
	return err
}

// Settle processes one epoch: it validates each candidate in the supplied
// order against the live pool, commits the ones that pass, and returns the
// accepted set.
//
// Conflict resolution is first-valid-wins: once an accepted candidate
// consumes an outpoint, any later sibling claiming the same outpoint fails
// the existence check and is dropped. This greedy policy does not maximize
// the count or value of the accepted set; it is the settlement contract,
// and reordering the batch can change the outcome when conflicts exist.
// Invalid candidates are dropped silently. A transaction supplied twice is
// accepted at most once.
func (h *Handler) Settle(batch []*tx.Transaction) []*tx.Transaction {
	accepted := make([]*tx.Transaction, 0, len(batch))
	seen := make(map[types.Hash]bool, len(batch))

	for _, transaction := range batch {
		if transaction == nil {
			continue
		}
		hash := transaction.Hash()
		if seen[hash] {
			continue
		}
		if err := h.validate(transaction); err != nil {
			continue
		}

		h.commit(transaction, hash)
		seen[hash] = true
		accepted = append(accepted, transaction)
	}

	h.logger.Info().
		Int("candidates", len(batch)).
		Int("accepted", len(accepted)).
		Int("pool_size", h.pool.Len()).
		Msg("epoch settled")

	return accepted
}

// commit applies an accepted transaction to the pool: every claimed
// outpoint is removed, then one new entry is inserted per declared output,
// keyed by the transaction's hash and the output's position. Subsequent
// candidates in the same batch observe the updated pool.
func (h *Handler) commit(transaction *tx.Transaction, hash types.Hash) {
	for _, in := range transaction.Inputs {
		h.pool.Remove(in.PrevOut)
	}
	for i, out := range transaction.Outputs {
		h.pool.Insert(types.Outpoint{TxID: hash, Index: uint32(i)}, out)
	}
}

// PoolSnapshot returns an independent copy of the handler's current pool.
// Mutating the copy has no effect on the handler.
func (h *Handler) PoolSnapshot() *utxo.Pool {
	return h.pool.Clone()
}

// poolProvider adapts utxo.Pool to tx.UTXOProvider.
type poolProvider struct {
	pool *utxo.Pool
}

// GetUTXO returns the value and owner key for a given outpoint.
func (p poolProvider) GetUTXO(op types.Outpoint) (uint64, []byte, error) {
	out, ok := p.pool.Lookup(op)
	if !ok {
		return 0, nil, tx.ErrInputNotFound
	}
	return out.Value, out.PubKey, nil
}

// HasUTXO returns whether the outpoint exists in the pool.
func (p poolProvider) HasUTXO(op types.Outpoint) bool {
	return p.pool.Contains(op)
}
