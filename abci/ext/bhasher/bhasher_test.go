package bhasher

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTx_AccumulatesInOrder(t *testing.T) {
	bh := NewBlockHasher()
	h1, err := bh.WriteTx([]byte("tx1"))
	require.NoError(t, err)
	h2, err := bh.WriteTx([]byte("tx2"))
	require.NoError(t, err)

	want := sha256.New()
	want.Write(h1)
	want.Write(h2)
	assert.Equal(t, want.Sum(nil), bh.Sum(nil))
	assert.Equal(t, 2, bh.Len())
}

func TestWriteHash_DuplicateRejected(t *testing.T) {
	bh := NewBlockHasher()
	_, err := bh.WriteTx([]byte("same"))
	require.NoError(t, err)
	_, err = bh.WriteTx([]byte("same"))
	assert.ErrorIs(t, err, ErrDuplicateHash)
	assert.Equal(t, 1, bh.Len(), "the rejected duplicate must not be recorded")
}

func TestWriteHash_SeedsGenesisHash(t *testing.T) {
	bh := NewBlockHasher()
	genesis := sha256.Sum256([]byte("genesis"))
	require.NoError(t, bh.WriteHash(genesis[:]))
	assert.Equal(t, 1, bh.Len())

	err := bh.WriteHash(genesis[:])
	assert.ErrorIs(t, err, ErrDuplicateHash)
}

func TestSum_EmptyAccumulatorMatchesPrefixOnlyHash(t *testing.T) {
	bh := NewBlockHasher()
	want := sha256.Sum256([]byte("prefix"))
	assert.Equal(t, want[:], bh.Sum([]byte("prefix")))
}
