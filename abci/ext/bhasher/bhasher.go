// Package bhasher implements the block-hash accumulator: a SHA-256 digest
// over the ordered sequence of transaction hashes seen within one block,
// used by the extended application's TxKeeper to derive app_hash at commit.
package bhasher

import (
	"crypto/sha256"
	"errors"
)

// ErrDuplicateHash is returned by WriteHash when the same hash has already
// been recorded within this block. Tendermint never redelivers the same tx
// within one block; seeing a duplicate means the keeper or the network is
// misbehaving, and the accumulator refuses to silently continue.
var ErrDuplicateHash = errors.New("bhasher: duplicate tx hash in block")

// BlockHasher accumulates tx hashes across one block and derives the final
// block hash from their ordered concatenation.
type BlockHasher struct {
	hashes []string
	seen   map[string]struct{}
}

// NewBlockHasher returns an empty accumulator, ready for one block.
func NewBlockHasher() *BlockHasher {
	return &BlockHasher{seen: make(map[string]struct{})}
}

// WriteTx hashes tx with SHA-256, appends the hash to the ordered list, and
// returns it. Returns ErrDuplicateHash if the resulting hash was already
// recorded in this block.
func (b *BlockHasher) WriteTx(tx []byte) ([]byte, error) {
	sum := sha256.Sum256(tx)
	hash := sum[:]
	if err := b.WriteHash(hash); err != nil {
		return nil, err
	}
	return hash, nil
}

// WriteHash appends a precomputed hash, used by init_chain to seed the
// accumulator with the genesis app_hash. Returns ErrDuplicateHash if h was
// already recorded.
func (b *BlockHasher) WriteHash(h []byte) error {
	key := string(h)
	if _, dup := b.seen[key]; dup {
		return ErrDuplicateHash
	}
	if b.seen == nil {
		b.seen = make(map[string]struct{})
	}
	b.seen[key] = struct{}{}
	b.hashes = append(b.hashes, key)
	return nil
}

// Sum returns SHA-256 of the ordered concatenation of recorded hashes,
// optionally prefixed.
func (b *BlockHasher) Sum(prefix []byte) []byte {
	hasher := sha256.New()
	if len(prefix) > 0 {
		hasher.Write(prefix)
	}
	for _, h := range b.hashes {
		hasher.Write([]byte(h))
	}
	return hasher.Sum(nil)
}

// Len reports how many hashes have been recorded so far in this block.
func (b *BlockHasher) Len() int {
	return len(b.hashes)
}
