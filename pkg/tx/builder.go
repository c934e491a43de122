package tx

import (
	"fmt"

	"github.com/opencoin-tech/opencoin/pkg/crypto"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// Builder constructs transactions incrementally.
type Builder struct {
	tx *Transaction
}

// NewBuilder creates a new transaction builder.
func NewBuilder() *Builder {
	return &Builder{
		tx: &Transaction{Version: 1},
	}
}

// AddInput adds an input claiming a previous output.
func (b *Builder) AddInput(prevOut types.Outpoint) *Builder {
	b.tx.Inputs = append(b.tx.Inputs, Input{PrevOut: prevOut})
	return b
}

// AddOutput adds an output paying value to the given public key.
func (b *Builder) AddOutput(value uint64, pubKey []byte) *Builder {
	b.tx.Outputs = append(b.tx.Outputs, Output{Value: value, PubKey: pubKey})
	return b
}

// Sign signs every input with the provided private key. Each input gets
// its own signature over its per-input payload (single-key spending).
// Outputs must not change after signing or the signatures become invalid.
func (b *Builder) Sign(key *crypto.PrivateKey) error {
	for i := range b.tx.Inputs {
		payload := b.tx.SigningPayload(i)
		sig, err := key.Sign(payload[:])
		if err != nil {
			return fmt.Errorf("sign input %d: %w", i, err)
		}
		b.tx.Inputs[i].Signature = sig
	}
	return nil
}

// SignMulti signs each input with the key that owns its outpoint.
// signers maps each input's outpoint to the private key that can spend it.
func (b *Builder) SignMulti(signers map[types.Outpoint]*crypto.PrivateKey) error {
	for i := range b.tx.Inputs {
		key, ok := signers[b.tx.Inputs[i].PrevOut]
		if !ok {
			return fmt.Errorf("no signer for input %d outpoint", i)
		}
		payload := b.tx.SigningPayload(i)
		sig, err := key.Sign(payload[:])
		if err != nil {
			return fmt.Errorf("sign input %d: %w", i, err)
		}
		b.tx.Inputs[i].Signature = sig
	}
	return nil
}

// Build returns the constructed transaction.
// Does NOT validate; call tx.Validate() separately.
func (b *Builder) Build() *Transaction {
	return b.tx
}
