package encoding

import (
	"encoding/binary"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/arloliu/voxsec/endian"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/stretchr/testify/require"
)

// refValue extracts value i straight from big-endian words, independently of the unpacker.
func refValue(buf []byte, i, bits int) uint32 {
	var v uint32
	for k := 0; k < bits; k++ {
		g := i*bits + k
		w := binary.BigEndian.Uint64(buf[(g/64)*8:])
		v |= uint32((w>>(g%64))&1) << k
	}

	return v
}

func randomIndices(rng *rand.Rand, count, bits int) []uint32 {
	out := make([]uint32, count)
	for i := range out {
		out[i] = uint32(rng.Int63n(int64(1) << bits))
	}

	return out
}

func TestRequiredBlockBytes(t *testing.T) {
	tests := []struct {
		count, bits, want int
	}{
		{4096, 1, 512},
		{4096, 4, 2048},
		{4096, 5, 2560},
		{4096, 13, 6656},
		{4096, 14, 7168},
		{4096, 32, 16384},
		{3, 5, 8},
		{0, 4, 0},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, RequiredBlockBytes(tt.count, tt.bits), "count=%d bits=%d", tt.count, tt.bits)
	}
}

func TestBitUnpacker_KnownWords(t *testing.T) {
	// 16 nibbles 0..15 packed LSB first form the word 0xFEDCBA9876543210.
	word := []byte{0xFE, 0xDC, 0xBA, 0x98, 0x76, 0x54, 0x32, 0x10}
	buf := make([]byte, 0, 2048)
	for len(buf) < 2048 {
		buf = append(buf, word...)
	}

	u := NewBitUnpacker(endian.GetBigEndianEngine())
	got, err := u.Unpack(buf, format.SectionBlockCount, 4)
	require.NoError(t, err)
	require.Len(t, got, format.SectionBlockCount)
	for i, v := range got {
		require.Equal(t, uint32(i%16), v, "index %d", i)
	}
}

func TestBitUnpacker_DoesNotMutateInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := randomIndices(rng, format.SectionBlockCount, 6)
	packed, err := NewBitPacker(nil).Pack(values, 6)
	require.NoError(t, err)

	snapshot := append([]byte(nil), packed...)
	_, err = NewBitUnpacker(nil).Unpack(packed, format.SectionBlockCount, 6)
	require.NoError(t, err)
	require.Equal(t, snapshot, packed)
}

func TestBitPacker_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for bits := 1; bits <= 16; bits++ {
		values := randomIndices(rng, format.SectionBlockCount, bits)

		packed, err := NewBitPacker(endian.GetBigEndianEngine()).Pack(values, bits)
		require.NoError(t, err, "bits=%d", bits)
		require.Len(t, packed, RequiredBlockBytes(format.SectionBlockCount, bits))

		got, err := NewBitUnpacker(endian.GetBigEndianEngine()).Unpack(packed, format.SectionBlockCount, bits)
		require.NoError(t, err, "bits=%d", bits)
		require.Equal(t, values, got, "bits=%d", bits)
	}
}

func TestBitPacker_MatchesReferenceLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, bits := range []int{3, 5, 7, 13, 17, 32} {
		values := randomIndices(rng, 300, bits)
		packed, err := NewBitPacker(nil).Pack(values, bits)
		require.NoError(t, err)

		for i, v := range values {
			require.Equal(t, v, refValue(packed, i, bits), "bits=%d index=%d", bits, i)
		}
	}
}

func TestBitPacker_LittleEndianWire(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := randomIndices(rng, format.SectionBlockCount, 9)
	le := endian.GetLittleEndianEngine()

	packed, err := NewBitPacker(le).Pack(values, 9)
	require.NoError(t, err)

	got, err := NewBitUnpacker(le).Unpack(packed, format.SectionBlockCount, 9)
	require.NoError(t, err)
	require.Equal(t, values, got)

	bePacked, err := NewBitPacker(nil).Pack(values, 9)
	require.NoError(t, err)
	require.NotEqual(t, bePacked, packed, "wire order must change the byte layout")
}

func TestBitUnpacker_MalformedLength(t *testing.T) {
	u := NewBitUnpacker(nil)

	t.Run("one byte short", func(t *testing.T) {
		buf := make([]byte, RequiredBlockBytes(format.SectionBlockCount, 4)-1)
		_, err := u.Unpack(buf, format.SectionBlockCount, 4)
		require.ErrorIs(t, err, errs.ErrMalformedBuffer)

		kind, ok := errs.KindOf(err)
		require.True(t, ok)
		require.Equal(t, errs.KindMalformedBuffer, kind)
	})

	t.Run("one word too long", func(t *testing.T) {
		buf := make([]byte, RequiredBlockBytes(format.SectionBlockCount, 4)+8)
		_, err := u.Unpack(buf, format.SectionBlockCount, 4)
		require.ErrorIs(t, err, errs.ErrMalformedBuffer)
	})
}

func TestBitUnpacker_InvalidBits(t *testing.T) {
	u := NewBitUnpacker(nil)
	for _, bits := range []int{0, -1, 33} {
		_, err := u.Unpack(nil, format.SectionBlockCount, bits)
		require.ErrorIs(t, err, errs.ErrInvalidBitsPerBlock, "bits=%d", bits)
	}
}

func TestBitUnpacker_ThirtyTwoBits(t *testing.T) {
	values := []uint32{0, 1, 0xFFFFFFFF, 0x80000000, 0x12345678}
	packed, err := NewBitPacker(nil).Pack(values, 32)
	require.NoError(t, err)

	got, err := NewBitUnpacker(nil).Unpack(packed, len(values), 32)
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestBitPacker_ValueOutOfRange(t *testing.T) {
	_, err := NewBitPacker(nil).Pack([]uint32{1, 2, 8}, 3)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	var de *errs.DecodeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, errs.KindValueOutOfRange, de.Kind)
}

func TestBitUnpacker_ConcurrentUse(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	values := randomIndices(rng, format.SectionBlockCount, 12)
	packed, err := NewBitPacker(nil).Pack(values, 12)
	require.NoError(t, err)

	u := NewBitUnpacker(nil)
	done := make(chan []uint32, 8)
	for i := 0; i < 8; i++ {
		go func() {
			got, err := u.Unpack(packed, format.SectionBlockCount, 12)
			if err != nil {
				done <- nil
				return
			}
			done <- got
		}()
	}
	for i := 0; i < 8; i++ {
		require.Equal(t, values, <-done)
	}
}

func BenchmarkBitUnpacker_Unpack(b *testing.B) {
	for _, bits := range []int{4, 8, 14} {
		rng := rand.New(rand.NewSource(1))
		values := randomIndices(rng, format.SectionBlockCount, bits)
		packed, _ := NewBitPacker(nil).Pack(values, bits)
		u := NewBitUnpacker(nil)
		dst := make([]uint32, format.SectionBlockCount)

		b.Run("bits="+strconv.Itoa(bits), func(b *testing.B) {
			b.SetBytes(int64(len(packed)))
			for b.Loop() {
				_ = u.UnpackTo(dst, packed, bits)
			}
		})
	}
}
