package wire

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("TEST"),
		make([]byte, 1000),
		[]byte{0x00},
	}

	for _, payload := range cases {
		var d Decoder
		d.Feed(Encode(payload))
		got, ok, err := d.Next()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, payload, got)
	}
}

func TestDecoder_MultipleFramesPerReceive(t *testing.T) {
	var d Decoder
	d.Feed(append(Encode([]byte("a")), Encode([]byte("bb"))...))

	first, ok, err := d.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("a"), first)

	second, ok, err := d.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("bb"), second)

	_, ok, err = d.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecoder_SplitAcrossReceives(t *testing.T) {
	frame := Encode([]byte("hello world"))

	for split := 0; split <= len(frame); split++ {
		var d Decoder
		d.Feed(frame[:split])
		payload, ok, err := d.Next()
		require.NoError(t, err)
		if split < len(frame) {
			assert.False(t, ok, "split=%d should not yet produce a frame", split)
			d.Feed(frame[split:])
			payload, ok, err = d.Next()
			require.NoError(t, err)
		}
		require.True(t, ok)
		assert.Equal(t, []byte("hello world"), payload)
	}
}

func TestDecoder_TrailingPartialHeader(t *testing.T) {
	var d Decoder
	// A single byte with the continuation bit set, but no follow-up byte.
	d.Feed([]byte{0x80})
	_, ok, err := d.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	d.Feed([]byte{0x00}) // completes a two-byte varint header, length 0
	_, ok, err = d.Next()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecoder_MalformedVarintAborts(t *testing.T) {
	var d Decoder
	// 11 continuation bytes, none terminating: cannot be a valid varint.
	junk := make([]byte, 11)
	for i := range junk {
		junk[i] = 0x80
	}
	d.Feed(junk)
	_, _, err := d.Next()
	assert.ErrorIs(t, err, ErrMalformedVarint)
}

func TestDecoder_ZeroLengthPayloadIsLegal(t *testing.T) {
	var d Decoder
	d.Feed(Encode(nil))
	payload, ok, err := d.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, payload)
}

func TestDecoder_ArbitrarySegmentation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	payloads := [][]byte{[]byte("TX0"), []byte("TX1"), []byte("TX2"), {}, []byte("flush-marker")}

	var all []byte
	for _, p := range payloads {
		all = append(all, Encode(p)...)
	}

	var d Decoder
	var got [][]byte
	for len(all) > 0 {
		n := 1 + r.Intn(3)
		if n > len(all) {
			n = len(all)
		}
		d.Feed(all[:n])
		all = all[n:]
		for {
			payload, ok, err := d.Next()
			require.NoError(t, err)
			if !ok {
				break
			}
			got = append(got, payload)
		}
	}
	require.Len(t, got, len(payloads))
	for i, p := range payloads {
		assert.Equal(t, p, got[i])
	}
}
