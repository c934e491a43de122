package utxo

import "testing"

func TestCommitment_EmptyPool(t *testing.T) {
	if !Commitment(NewPool()).IsZero() {
		t.Error("empty pool should commit to the zero hash")
	}
}

func TestCommitment_InsertOrderIrrelevant(t *testing.T) {
	a := NewPool()
	a.Insert(makeOutpoint("tx1", 0), makeOutput(10))
	a.Insert(makeOutpoint("tx2", 0), makeOutput(20))
	a.Insert(makeOutpoint("tx3", 0), makeOutput(30))

	b := NewPool()
	b.Insert(makeOutpoint("tx3", 0), makeOutput(30))
	b.Insert(makeOutpoint("tx1", 0), makeOutput(10))
	b.Insert(makeOutpoint("tx2", 0), makeOutput(20))

	if Commitment(a) != Commitment(b) {
		t.Error("pools with the same entries should commit to the same hash")
	}
}

func TestCommitment_SensitiveToContents(t *testing.T) {
	a := NewPool()
	a.Insert(makeOutpoint("tx1", 0), makeOutput(10))

	b := NewPool()
	b.Insert(makeOutpoint("tx1", 0), makeOutput(11))

	if Commitment(a) == Commitment(b) {
		t.Error("changing an entry's value should change the commitment")
	}

	c := NewPool()
	c.Insert(makeOutpoint("tx1", 1), makeOutput(10))
	if Commitment(a) == Commitment(c) {
		t.Error("changing an outpoint should change the commitment")
	}
}

func TestCommitment_SingleEntry(t *testing.T) {
	p := NewPool()
	p.Insert(makeOutpoint("tx1", 0), makeOutput(10))
	if Commitment(p).IsZero() {
		t.Error("non-empty pool should not commit to the zero hash")
	}
}
