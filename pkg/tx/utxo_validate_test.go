package tx

import (
	"errors"
	"testing"

	"github.com/opencoin-tech/opencoin/pkg/crypto"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// fakeProvider is a map-backed UTXOProvider for validation tests.
type fakeProvider struct {
	utxos map[types.Outpoint]Output
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{utxos: make(map[types.Outpoint]Output)}
}

func (p *fakeProvider) GetUTXO(op types.Outpoint) (uint64, []byte, error) {
	out, ok := p.utxos[op]
	if !ok {
		return 0, nil, ErrInputNotFound
	}
	return out.Value, out.PubKey, nil
}

func (p *fakeProvider) HasUTXO(op types.Outpoint) bool {
	_, ok := p.utxos[op]
	return ok
}

// fund places one spendable output in the provider and returns its outpoint.
func (p *fakeProvider) fund(txid byte, index uint32, value uint64, pubKey []byte) types.Outpoint {
	op := types.Outpoint{TxID: types.Hash{txid}, Index: index}
	p.utxos[op] = Output{Value: value, PubKey: pubKey}
	return op
}

func TestValidateWithUTXOs_Valid(t *testing.T) {
	key := testKey(t)
	provider := newFakeProvider()
	op := provider.fund(0x01, 0, 1000, key.PublicKey())

	b := NewBuilder().AddInput(op).AddOutput(900, key.PublicKey())
	if err := b.Sign(key); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	fee, err := b.Build().ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if err != nil {
		t.Fatalf("ValidateWithUTXOs() error: %v", err)
	}
	if fee != 100 {
		t.Errorf("fee = %d, want 100", fee)
	}
}

func TestValidateWithUTXOs_InputNotFound(t *testing.T) {
	key := testKey(t)
	provider := newFakeProvider()

	b := NewBuilder().
		AddInput(types.Outpoint{TxID: types.Hash{0x99}, Index: 0}).
		AddOutput(1, key.PublicKey())
	if err := b.Sign(key); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	_, err := b.Build().ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if !errors.Is(err, ErrInputNotFound) {
		t.Errorf("expected ErrInputNotFound, got: %v", err)
	}
}

func TestValidateWithUTXOs_CorruptUTXO(t *testing.T) {
	key := testKey(t)
	provider := newFakeProvider()

	// An entry with no owner must not be spendable.
	op := provider.fund(0x01, 0, 1000, nil)

	b := NewBuilder().AddInput(op).AddOutput(1, key.PublicKey())
	if err := b.Sign(key); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	_, err := b.Build().ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if !errors.Is(err, ErrCorruptUTXO) {
		t.Errorf("expected ErrCorruptUTXO, got: %v", err)
	}

	// Same for a zero-value entry.
	provider2 := newFakeProvider()
	op2 := provider2.fund(0x02, 0, 0, key.PublicKey())
	b2 := NewBuilder().AddInput(op2).AddOutput(1, key.PublicKey())
	if err := b2.Sign(key); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	_, err = b2.Build().ValidateWithUTXOs(provider2, crypto.SchnorrVerifier{})
	if !errors.Is(err, ErrCorruptUTXO) {
		t.Errorf("expected ErrCorruptUTXO, got: %v", err)
	}
}

func TestValidateWithUTXOs_WrongSigner(t *testing.T) {
	owner := testKey(t)
	thief := testKey(t)
	provider := newFakeProvider()
	op := provider.fund(0x01, 0, 1000, owner.PublicKey())

	// Values balance, but the signature is from the wrong key.
	b := NewBuilder().AddInput(op).AddOutput(1000, thief.PublicKey())
	if err := b.Sign(thief); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	_, err := b.Build().ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if !errors.Is(err, ErrInvalidSig) {
		t.Errorf("expected ErrInvalidSig, got: %v", err)
	}
}

func TestValidateWithUTXOs_TamperedOutputs(t *testing.T) {
	key := testKey(t)
	provider := newFakeProvider()
	op := provider.fund(0x01, 0, 1000, key.PublicKey())

	b := NewBuilder().AddInput(op).AddOutput(900, key.PublicKey())
	if err := b.Sign(key); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	transaction := b.Build()

	// Redirect the payment after signing. The payload commits to the
	// outputs, so the signature must no longer verify.
	transaction.Outputs[0].Value = 1

	_, err := transaction.ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if !errors.Is(err, ErrInvalidSig) {
		t.Errorf("expected ErrInvalidSig, got: %v", err)
	}
}

func TestValidateWithUTXOs_ValueCreated(t *testing.T) {
	key := testKey(t)
	provider := newFakeProvider()
	op := provider.fund(0x01, 0, 100, key.PublicKey())

	b := NewBuilder().AddInput(op).AddOutput(101, key.PublicKey())
	if err := b.Sign(key); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	_, err := b.Build().ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if !errors.Is(err, ErrValueCreated) {
		t.Errorf("expected ErrValueCreated, got: %v", err)
	}
}

func TestValidateWithUTXOs_ExactBalance(t *testing.T) {
	key := testKey(t)
	provider := newFakeProvider()
	op := provider.fund(0x01, 0, 100, key.PublicKey())

	b := NewBuilder().AddInput(op).AddOutput(100, key.PublicKey())
	if err := b.Sign(key); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	fee, err := b.Build().ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if err != nil {
		t.Fatalf("exact balance should be valid: %v", err)
	}
	if fee != 0 {
		t.Errorf("fee = %d, want 0", fee)
	}
}

func TestValidateWithUTXOs_MultiInput(t *testing.T) {
	alice := testKey(t)
	bob := testKey(t)
	provider := newFakeProvider()
	opA := provider.fund(0x01, 0, 60, alice.PublicKey())
	opB := provider.fund(0x02, 1, 40, bob.PublicKey())

	b := NewBuilder().AddInput(opA).AddInput(opB).AddOutput(95, alice.PublicKey())
	err := b.SignMulti(map[types.Outpoint]*crypto.PrivateKey{
		opA: alice,
		opB: bob,
	})
	if err != nil {
		t.Fatalf("SignMulti() error: %v", err)
	}

	fee, err := b.Build().ValidateWithUTXOs(provider, crypto.SchnorrVerifier{})
	if err != nil {
		t.Fatalf("ValidateWithUTXOs() error: %v", err)
	}
	if fee != 5 {
		t.Errorf("fee = %d, want 5", fee)
	}
}
