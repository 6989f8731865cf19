package voxsec

import (
	"testing"

	"github.com/arloliu/voxsec/archive"
	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/section"
	"github.com/stretchr/testify/require"
)

func createTestInput(t *testing.T) section.Input {
	t.Helper()

	indices := make([]uint32, format.SectionBlockCount)
	for i := range indices {
		indices[i] = uint32(i % 3)
	}
	packed, err := encoding.NewBitPacker(nil).Pack(indices, 4)
	require.NoError(t, err)

	return section.Input{
		Blocks:       packed,
		BlockLight:   make([]byte, format.LightBufferSize),
		SkyLight:     make([]byte, format.LightBufferSize),
		BitsPerBlock: 4,
		Palette:      []uint32{5, 9, 200},
	}
}

func TestNewSection(t *testing.T) {
	s, err := NewSection(section.Pos{X: 1}, createTestInput(t))
	require.NoError(t, err)
	require.False(t, s.IsDecoded())
	require.NoError(t, s.Decode())

	b, err := s.GetBlock(2, 0, 0)
	require.NoError(t, err)
	require.Equal(t, Block{Type: 12, Variant: 8}, b)
}

func TestArchiveRoundTrip(t *testing.T) {
	enc, err := NewArchiveEncoder()
	require.NoError(t, err)

	pos := section.Pos{X: -4, Y: 2, Z: 8}
	data, err := enc.Encode(pos, createTestInput(t))
	require.NoError(t, err)

	h, err := archive.ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionS2, h.Flag.CompressionType())
	require.True(t, h.Flag.IsLittleEndian())

	opened, err := OpenArchive(data)
	require.NoError(t, err)
	require.False(t, opened.IsDecoded())
	require.Equal(t, pos, opened.Position())

	decoded, err := DecodeArchive(data)
	require.NoError(t, err)
	require.True(t, decoded.IsDecoded())

	b, err := decoded.GetBlock(1, 0, 0)
	require.NoError(t, err)
	require.Equal(t, encoding.AssembleBlock(9), b)
}

func TestNewArchiveEncoder_OverridesDefaults(t *testing.T) {
	enc, err := NewArchiveEncoder(archive.WithBigEndian(), archive.WithCompression(format.CompressionNone))
	require.NoError(t, err)

	data, err := enc.Encode(section.Pos{}, createTestInput(t))
	require.NoError(t, err)

	h, err := archive.ParseHeader(data)
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, h.Flag.CompressionType())
	require.True(t, h.Flag.IsBigEndian())
}

func TestDecodeArchive_Errors(t *testing.T) {
	_, err := DecodeArchive([]byte{1, 2, 3})
	require.ErrorIs(t, err, errs.ErrInvalidHeader)

	enc, err := NewArchiveEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(section.Pos{}, createTestInput(t))
	require.NoError(t, err)

	_, err = OpenArchive(data[:len(data)-1])
	require.ErrorIs(t, err, errs.ErrInvalidPayload)
}
