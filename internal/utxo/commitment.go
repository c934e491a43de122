package utxo

import (
	"encoding/binary"
	"sort"

	"github.com/opencoin-tech/opencoin/pkg/crypto"
	"github.com/opencoin-tech/opencoin/pkg/tx"
	"github.com/opencoin-tech/opencoin/pkg/types"
)

// Commitment computes a merkle root over the pool's contents.
// Each entry is hashed deterministically, the hashes are sorted, and a
// merkle tree is built from them. Returns a zero hash for an empty pool.
// Two pools with the same entries always commit to the same hash, so the
// commitment can be used to verify a persisted snapshot.
func Commitment(pool *Pool) types.Hash {
	hashes := make([]types.Hash, 0, pool.Len())
	pool.ForEach(func(op types.Outpoint, out tx.Output) error {
		hashes = append(hashes, hashEntry(op, out))
		return nil
	})

	if len(hashes) == 0 {
		return types.Hash{}
	}

	// Sort for deterministic ordering (map iteration order varies).
	sort.Slice(hashes, func(i, j int) bool {
		return hashLess(hashes[i], hashes[j])
	})

	return merkleRoot(hashes)
}

// hashEntry produces a deterministic BLAKE3 hash of one pool entry.
// Format: txid(32) | index(4) | value(8) | pubkey
func hashEntry(op types.Outpoint, out tx.Output) types.Hash {
	var buf []byte
	buf = append(buf, op.TxID[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, op.Index)
	buf = binary.LittleEndian.AppendUint64(buf, out.Value)
	buf = append(buf, out.PubKey...)
	return crypto.Hash(buf)
}

func hashLess(a, b types.Hash) bool {
	for i := 0; i < types.HashSize; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// merkleRoot builds a merkle tree over the hashes: pairwise hash,
// duplicating the last element if the level has odd length, until one
// hash remains.
func merkleRoot(hashes []types.Hash) types.Hash {
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([]types.Hash, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}
		next := make([]types.Hash, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next[i/2] = crypto.HashConcat(level[i], level[i+1])
		}
		level = next
	}

	return level[0]
}
