package codec_test

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/wallet/codec"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

func TestEncodeLengthPrefixedString(t *testing.T) {
	b, err := codec.EncodeLengthPrefixedString("AI")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 'A', 'I'}, b)

	b, err = codec.EncodeLengthPrefixedString("")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)

	// multi-byte runes count in bytes, not characters
	b, err = codec.EncodeLengthPrefixedString("é")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0x00, 0xc3, 0xa9}, b)
}

func TestLengthLimit(t *testing.T) {
	require.NoError(t, codec.CheckLength(codec.MaxStringLength))

	err := codec.CheckLength(codec.MaxStringLength + 1)
	require.Error(t, err)
	assert.True(t, failure.Is(err, failure.KindEncoding))
}

func TestConcat(t *testing.T) {
	assert.Equal(t, []byte{1, 2, 3, 4}, codec.Concat([]byte{1}, nil, []byte{2, 3}, []byte{4}))
	assert.Empty(t, codec.Concat())
}

func TestEncoder(t *testing.T) {
	b, err := codec.NewEncoder().
		U8(33).
		String("n").
		U16(500).
		None().
		Bool(true).
		Bool(false).
		Bytes()
	require.NoError(t, err)

	assert.Equal(t, []byte{
		33,
		1, 0, 0, 0, 'n',
		0xf4, 0x01,
		0,
		1,
		0,
	}, b)
}

func TestEncoderMatchesBorshDecoder(t *testing.T) {
	b, err := codec.NewEncoder().String("AI Gen").U16(42).Bool(true).Bytes()
	require.NoError(t, err)

	dec := bin.NewBorshDecoder(b)

	n, err := dec.ReadUint32(bin.LE)
	require.NoError(t, err)
	s, err := dec.ReadNBytes(int(n))
	require.NoError(t, err)
	assert.Equal(t, "AI Gen", string(s))

	fee, err := dec.ReadUint16(bin.LE)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), fee)

	mutable, err := dec.ReadBool()
	require.NoError(t, err)
	assert.True(t, mutable)
	assert.Zero(t, dec.Remaining())
}
