package tx

import (
	"errors"
	"fmt"
	"math"

	"github.com/opencoin-tech/opencoin/pkg/types"
)

// Validation errors.
var (
	ErrNilTransaction = errors.New("nil transaction")
	ErrDuplicateInput = errors.New("duplicate input")
	ErrMissingPrevOut = errors.New("input missing previous outpoint")
	ErrMissingSig     = errors.New("input missing signature")
	ErrMissingPubKey  = errors.New("output missing public key")
	ErrZeroOutput     = errors.New("output value is zero")
	ErrOutputOverflow = errors.New("output values overflow")
)

// Validate checks transaction structure and basic rules.
// This does NOT check UTXO existence or signatures (those require the
// unspent-output pool, see ValidateWithUTXOs).
func (tx *Transaction) Validate() error {
	if tx == nil {
		return ErrNilTransaction
	}

	// Check for duplicate inputs: two inputs of the same transaction must
	// not claim the same prior output.
	seen := make(map[types.Outpoint]bool, len(tx.Inputs))
	for i, in := range tx.Inputs {
		if seen[in.PrevOut] {
			return fmt.Errorf("input %d: %w", i, ErrDuplicateInput)
		}
		seen[in.PrevOut] = true
	}

	// Validate inputs reference a real outpoint and carry a signature.
	for i, in := range tx.Inputs {
		if in.PrevOut.IsZero() {
			return fmt.Errorf("input %d: %w", i, ErrMissingPrevOut)
		}
		if len(in.Signature) == 0 {
			return fmt.Errorf("input %d: %w", i, ErrMissingSig)
		}
	}

	// Validate outputs: owner present, value strictly positive, no overflow.
	var totalOutput uint64
	for i, out := range tx.Outputs {
		if len(out.PubKey) == 0 {
			return fmt.Errorf("output %d: %w", i, ErrMissingPubKey)
		}
		if out.Value == 0 {
			return fmt.Errorf("output %d: %w", i, ErrZeroOutput)
		}
		if totalOutput > math.MaxUint64-out.Value {
			return fmt.Errorf("output %d: %w", i, ErrOutputOverflow)
		}
		totalOutput += out.Value
	}

	return nil
}
