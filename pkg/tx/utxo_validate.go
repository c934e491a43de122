package tx

import (
	"errors"
	"fmt"
	"math"

	"github.com/opencoin-tech/opencoin/pkg/crypto"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// UTXO-aware validation errors.
var (
	ErrInputNotFound = errors.New("input UTXO not found")
	ErrCorruptUTXO   = errors.New("referenced UTXO has no owner or zero value")
	ErrInvalidSig    = errors.New("invalid signature")
	ErrInputOverflow = errors.New("input values overflow")
	ErrValueCreated  = errors.New("outputs exceed inputs")
)

// UTXOProvider provides read-only access to the unspent-output pool
// for validation.
type UTXOProvider interface {
	GetUTXO(outpoint types.Outpoint) (value uint64, pubKey []byte, err error)
	HasUTXO(outpoint types.Outpoint) bool
}

// ValidateWithUTXOs performs full validation of a transaction against the
// pool. It checks that every claimed outpoint exists, that the referenced
// output is well formed, that each input's signature authorizes its signing
// payload under the referenced output's key, and that inputs >= outputs.
// Returns the implicit fee (inputs - outputs). The pool is never mutated.
func (tx *Transaction) ValidateWithUTXOs(provider UTXOProvider, verifier crypto.Verifier) (uint64, error) {
	// Structural validation first (shape, duplicates, output values).
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	var totalInput uint64
	for i, in := range tx.Inputs {
		if !provider.HasUTXO(in.PrevOut) {
			return 0, fmt.Errorf("input %d (%s): %w", i, in.PrevOut, ErrInputNotFound)
		}

		value, pubKey, err := provider.GetUTXO(in.PrevOut)
		if err != nil {
			return 0, fmt.Errorf("input %d: %w", i, err)
		}

		// A pool entry with no owner or zero value is corrupt and must
		// not be spendable.
		if len(pubKey) == 0 || value == 0 {
			return 0, fmt.Errorf("input %d (%s): %w", i, in.PrevOut, ErrCorruptUTXO)
		}

		// The signature must authorize this input's payload under the
		// key named by the output being spent.
		payload := tx.SigningPayload(i)
		if !verifier.Verify(payload[:], in.Signature, pubKey) {
			return 0, fmt.Errorf("input %d: %w", i, ErrInvalidSig)
		}

		if totalInput > math.MaxUint64-value {
			return 0, fmt.Errorf("input %d: %w", i, ErrInputOverflow)
		}
		totalInput += value
	}

	totalOutput, err := tx.TotalOutputValue()
	if err != nil {
		return 0, fmt.Errorf("output overflow: %w", err)
	}
	if totalInput < totalOutput {
		return 0, fmt.Errorf("%w: inputs=%d outputs=%d", ErrValueCreated, totalInput, totalOutput)
	}

	// The surplus is an implicit fee. Where it goes is not accounted here.
	return totalInput - totalOutput, nil
}
