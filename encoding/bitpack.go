package encoding

import (
	"github.com/arloliu/voxsec/endian"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/internal/pool"
)

const wordBits = endian.WordSize * 8

// RequiredBlockBytes returns the exact buffer length, in bytes, holding count values of
// the given bit width packed into whole 64-bit words.
func RequiredBlockBytes(count, bits int) int {
	if count <= 0 || bits <= 0 {
		return 0
	}

	words := (count*bits + wordBits - 1) / wordBits

	return words * endian.WordSize
}

// ValidateBitsPerBlock checks that bits is a supported packed index width.
func ValidateBitsPerBlock(bits int) error {
	if bits < format.MinBitsPerBlock || bits > format.MaxBitsPerBlock {
		return errs.New(errs.KindInvalidBitsPerBlock, "%d not in [%d,%d]",
			bits, format.MinBitsPerBlock, format.MaxBitsPerBlock)
	}

	return nil
}

// BitUnpacker extracts fixed-width palette indices from packed 64-bit words.
type BitUnpacker struct {
	wire endian.EndianEngine
}

// NewBitUnpacker creates an unpacker for words stored in the given wire byte order.
// A nil engine selects big-endian words.
func NewBitUnpacker(wire endian.EndianEngine) *BitUnpacker {
	if wire == nil {
		wire = endian.GetBigEndianEngine()
	}

	return &BitUnpacker{wire: wire}
}

// Unpack decodes count values of width bits from buf.
//
// buf is never modified. Its length must be exactly RequiredBlockBytes(count, bits).
//
// Returns:
//   - []uint32: count values, each < 2^bits
//   - error: KindInvalidBitsPerBlock or KindMalformedBuffer
func (u *BitUnpacker) Unpack(buf []byte, count, bits int) ([]uint32, error) {
	out := make([]uint32, count)
	if err := u.UnpackTo(out, buf, bits); err != nil {
		return nil, err
	}

	return out, nil
}

// UnpackTo decodes len(dst) values of width bits from buf into dst.
//
// The words are normalized on a pooled scratch copy; bits are then consumed byte by byte,
// least-significant bit first, and shifted into an accumulator at the current bit
// position. Every bits-th bit completes one value.
func (u *BitUnpacker) UnpackTo(dst []uint32, buf []byte, bits int) error {
	if err := ValidateBitsPerBlock(bits); err != nil {
		return err
	}

	count := len(dst)
	if want := RequiredBlockBytes(count, bits); len(buf) != want {
		return errs.New(errs.KindMalformedBuffer,
			"got %d bytes, want %d for %d values at %d bits", len(buf), want, count, bits)
	}
	if count == 0 {
		return nil
	}

	scratch, cleanup := pool.GetByteSlice(len(buf))
	defer cleanup()
	copy(scratch, buf)
	endian.ToLittleEndianWords(scratch, u.wire)

	var (
		acc    uint32
		bitPos int
		n      int
	)
	for _, b := range scratch {
		for j := 0; j < 8; j++ {
			acc |= uint32((b>>j)&0x01) << bitPos
			bitPos++
			if bitPos < bits {
				continue
			}

			dst[n] = acc
			n++
			acc, bitPos = 0, 0
			if n == count {
				return nil
			}
		}
	}

	return errs.New(errs.KindStructuralMismatch, "unpacked %d of %d values", n, count)
}

// BitPacker is the inverse of BitUnpacker.
type BitPacker struct {
	wire endian.EndianEngine
}

// NewBitPacker creates a packer producing words in the given wire byte order.
// A nil engine selects big-endian words.
func NewBitPacker(wire endian.EndianEngine) *BitPacker {
	if wire == nil {
		wire = endian.GetBigEndianEngine()
	}

	return &BitPacker{wire: wire}
}

// Pack encodes values at width bits into RequiredBlockBytes(len(values), bits) bytes.
//
// Returns:
//   - []byte: Packed words in the packer's wire order
//   - error: KindInvalidBitsPerBlock, or KindValueOutOfRange if a value needs more than bits bits
func (p *BitPacker) Pack(values []uint32, bits int) ([]byte, error) {
	if err := ValidateBitsPerBlock(bits); err != nil {
		return nil, err
	}

	var limit uint64 = 1 << bits
	out := make([]byte, RequiredBlockBytes(len(values), bits))
	bitPos := 0
	for i, v := range values {
		if uint64(v) >= limit {
			return nil, errs.New(errs.KindValueOutOfRange, "value %d at %d needs more than %d bits", v, i, bits)
		}
		for j := 0; j < bits; j++ {
			if (v>>j)&0x01 == 1 {
				out[bitPos>>3] |= 1 << (bitPos & 7)
			}
			bitPos++
		}
	}

	endian.FromLittleEndianWords(out, p.wire)

	return out, nil
}
