package archive

import (
	"github.com/arloliu/voxsec/endian"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
)

// Flag is the packed leading 4 bytes of the header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is the sky light flag, 1 means a sky light buffer follows the block light.
	// Bit 1 is endianness flag, 0 means little-endian, 1 means big-endian.
	// Bit 2-3 are reserved for future use, must be set to 0.
	// Bit 4-15 are the magic number MagicSectionV1Opt.
	Options uint16

	// BitsPerBlock is the packed index width of the block words.
	BitsPerBlock uint8
	// Compression is the format.CompressionType of the payload.
	Compression uint8
}

var validCompressions = map[uint8]struct{}{
	uint8(format.CompressionNone): {},
	uint8(format.CompressionZstd): {},
	uint8(format.CompressionS2):   {},
	uint8(format.CompressionLZ4):  {},
}

// NewFlag creates a flag with the magic number, little-endian byte order and no compression.
func NewFlag() Flag {
	flag := Flag{
		Options:     MagicSectionV1Opt,
		Compression: uint8(format.CompressionNone),
	}
	flag.WithLittleEndian()

	return flag
}

// HasSkyLight returns whether the payload carries a sky light buffer.
func (f Flag) HasSkyLight() bool {
	return (f.Options & SkyLightMask) != 0
}

// SetSkyLight sets or clears the sky light bit.
func (f *Flag) SetSkyLight(present bool) {
	if present {
		f.Options |= SkyLightMask
	} else {
		f.Options &^= SkyLightMask
	}
}

// IsLittleEndian returns whether header fields are little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether header fields are big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &^= EndiannessMask
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// MagicNumber returns the magic number from the Options field.
func (f Flag) MagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// CompressionType returns the payload compression.
func (f Flag) CompressionType() format.CompressionType {
	return format.CompressionType(f.Compression)
}

// Validate checks magic, reserved bits, bit width and compression.
func (f Flag) Validate() error {
	if f.MagicNumber() != MagicSectionV1Opt {
		return errs.New(errs.KindInvalidHeader, "bad magic 0x%04X", f.MagicNumber())
	}
	if f.Options&ReservedBitsMask != 0 {
		return errs.New(errs.KindInvalidHeader, "reserved option bits set: 0x%04X", f.Options)
	}
	if f.BitsPerBlock < format.MinBitsPerBlock || f.BitsPerBlock > format.MaxBitsPerBlock {
		return errs.New(errs.KindInvalidHeader, "bits per block %d not in [%d,%d]",
			f.BitsPerBlock, format.MinBitsPerBlock, format.MaxBitsPerBlock)
	}
	if _, ok := validCompressions[f.Compression]; !ok {
		return errs.New(errs.KindUnsupportedCompression, "compression %d", f.Compression)
	}

	return nil
}

// EndianEngine returns the byte order of header fields and palette entries.
func (f Flag) EndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
