// Package utxo manages the unspent transaction output pool.
package utxo

import (
	"github.com/opencoin-tech/opencoin/pkg/tx"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// Pool is the authoritative mapping of currently spendable outputs.
// Every key present denotes an output produced by some transaction and not
// yet spent. The pool carries no locking: it is exclusively owned by a
// single settlement handler (or a caller building a snapshot for one).
type Pool struct {
	entries map[types.Outpoint]tx.Output
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{
		entries: make(map[types.Outpoint]tx.Output),
	}
}

// Contains reports whether the outpoint is a current key.
func (p *Pool) Contains(op types.Outpoint) bool {
	_, ok := p.entries[op]
	return ok
}

// Lookup returns the output associated with the outpoint.
// The second return value is false when the outpoint is not in the pool.
func (p *Pool) Lookup(op types.Outpoint) (tx.Output, bool) {
	out, ok := p.entries[op]
	return out, ok
}

// Insert adds or overwrites the mapping for the outpoint. Uniqueness is the
// caller's concern: outpoints are derived from distinct transaction hashes
// and indices, so a well-formed caller never collides.
func (p *Pool) Insert(op types.Outpoint, out tx.Output) {
	p.entries[op] = out
}

// Remove deletes the mapping for the outpoint. Removing an absent outpoint
// is a no-op.
func (p *Pool) Remove(op types.Outpoint) {
	delete(p.entries, op)
}

// Len returns the number of unspent outputs in the pool.
func (p *Pool) Len() int {
	return len(p.entries)
}

// Clone produces an independent copy of the pool. The copy shares no
// mutable state with the source: output pubkey bytes are copied too.
func (p *Pool) Clone() *Pool {
	c := &Pool{
		entries: make(map[types.Outpoint]tx.Output, len(p.entries)),
	}
	for op, out := range p.entries {
		dup := tx.Output{Value: out.Value}
		if out.PubKey != nil {
			dup.PubKey = make([]byte, len(out.PubKey))
			copy(dup.PubKey, out.PubKey)
		}
		c.entries[op] = dup
	}
	return c
}

// ForEach calls fn for every entry in the pool, in arbitrary order.
// Return a non-nil error from fn to stop iteration early.
func (p *Pool) ForEach(fn func(op types.Outpoint, out tx.Output) error) error {
	for op, out := range p.entries {
		if err := fn(op, out); err != nil {
			return err
		}
	}
	return nil
}

// Outpoints returns all current keys, in arbitrary order.
func (p *Pool) Outpoints() []types.Outpoint {
	ops := make([]types.Outpoint, 0, len(p.entries))
	for op := range p.entries {
		ops = append(ops, op)
	}
	return ops
}
