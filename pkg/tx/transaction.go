// Package tx defines transaction types and validation.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/opencoin-tech/opencoin/pkg/crypto"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// Transaction moves value from existing unspent outputs to new outputs.
// A transaction is immutable once handed to the settlement handler.
type Transaction struct {
	Version uint32   `json:"version"`
	Inputs  []Input  `json:"inputs"`
	Outputs []Output `json:"outputs"`
}

// Input references a UTXO being spent and carries the spender's
// authorization: a Schnorr signature over the input's signing payload,
// valid under the public key stored in the referenced output.
type Input struct {
	PrevOut   types.Outpoint `json:"prevout"`
	Signature []byte         `json:"signature"`
}

// Output assigns value to an owner. The PubKey is the compressed public
// key whose signature authorizes a future spend of this output.
type Output struct {
	Value  uint64 `json:"value"`
	PubKey []byte `json:"pubkey"`
}

// inputJSON is the JSON representation of Input with a hex-encoded signature.
type inputJSON struct {
	PrevOut   types.Outpoint `json:"prevout"`
	Signature *string        `json:"signature"`
}

// MarshalJSON encodes the input with a hex-encoded signature.
func (in Input) MarshalJSON() ([]byte, error) {
	j := inputJSON{PrevOut: in.PrevOut}
	if in.Signature != nil {
		s := hex.EncodeToString(in.Signature)
		j.Signature = &s
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes an input with a hex-encoded signature.
func (in *Input) UnmarshalJSON(data []byte) error {
	var j inputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	in.PrevOut = j.PrevOut
	if j.Signature != nil {
		b, err := hex.DecodeString(*j.Signature)
		if err != nil {
			return err
		}
		in.Signature = b
	}
	return nil
}

// outputJSON is the JSON representation of Output with a hex-encoded pubkey.
type outputJSON struct {
	Value  uint64  `json:"value"`
	PubKey *string `json:"pubkey"`
}

// MarshalJSON encodes the output with a hex-encoded public key.
func (out Output) MarshalJSON() ([]byte, error) {
	j := outputJSON{Value: out.Value}
	if out.PubKey != nil {
		p := hex.EncodeToString(out.PubKey)
		j.PubKey = &p
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes an output with a hex-encoded public key.
func (out *Output) UnmarshalJSON(data []byte) error {
	var j outputJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	out.Value = j.Value
	if j.PubKey != nil {
		b, err := hex.DecodeString(*j.PubKey)
		if err != nil {
			return err
		}
		out.PubKey = b
	}
	return nil
}

// Hash computes the transaction ID (BLAKE3 hash of the serialized signing data).
// Signatures are excluded so the ID is stable before and after signing.
func (tx *Transaction) Hash() types.Hash {
	return crypto.Hash(tx.signingBytes())
}

// signingBytes returns the canonical byte representation hashed into the
// transaction ID.
// Format: version(4) | input_count(4) | [prevout(36)]... | output_count(4) | [value(8) + pubkey_len(4) + pubkey]...
func (tx *Transaction) signingBytes() []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint32(buf, tx.Version)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = append(buf, in.PrevOut.TxID[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = appendOutput(buf, out)
	}

	return buf
}

// SigningPayload returns the 32-byte digest an input's owner must sign to
// authorize spending. It commits to the input's own outpoint and to every
// declared output, so a signature cannot be replayed against a transaction
// that pays someone else.
// Format: prevout(36) | output_count(4) | [value(8) + pubkey_len(4) + pubkey]...
func (tx *Transaction) SigningPayload(i int) types.Hash {
	if i < 0 || i >= len(tx.Inputs) {
		return types.Hash{}
	}

	var buf []byte
	in := tx.Inputs[i]
	buf = append(buf, in.PrevOut.TxID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, in.PrevOut.Index)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		buf = appendOutput(buf, out)
	}

	return crypto.Hash(buf)
}

// appendOutput serializes one output: value(8) | pubkey_len(4) | pubkey.
func appendOutput(buf []byte, out Output) []byte {
	buf = binary.LittleEndian.AppendUint64(buf, out.Value)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(out.PubKey)))
	buf = append(buf, out.PubKey...)
	return buf
}

// TotalOutputValue returns the sum of all output values.
// Returns an error if the sum overflows uint64.
func (tx *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range tx.Outputs {
		if total > math.MaxUint64-out.Value {
			return 0, ErrOutputOverflow
		}
		total += out.Value
	}
	return total, nil
}
