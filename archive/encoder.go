package archive

import (
	"math"

	"github.com/arloliu/voxsec/compress"
	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/internal/hash"
	"github.com/arloliu/voxsec/internal/options"
	"github.com/arloliu/voxsec/internal/pool"
	"github.com/arloliu/voxsec/section"
)

// Encoder writes section records. An Encoder is immutable after construction and safe
// for concurrent use.
type Encoder struct {
	flag  Flag
	codec compress.Codec
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithCompression selects the payload compression. The default is no compression.
func WithCompression(compression format.CompressionType) EncoderOption {
	return options.New(func(e *Encoder) error {
		codec, err := compress.GetCodec(compression)
		if err != nil {
			return err
		}
		e.codec = codec
		e.flag.Compression = uint8(compression)

		return nil
	})
}

// WithLittleEndian writes header fields and palette entries little-endian (the default).
func WithLittleEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.WithLittleEndian()
	})
}

// WithBigEndian writes header fields and palette entries big-endian.
func WithBigEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.WithBigEndian()
	})
}

// NewEncoder creates an Encoder.
//
// Returns:
//   - *Encoder: Configured encoder
//   - error: KindUnsupportedCompression for an unknown compression type
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{
		flag:  NewFlag(),
		codec: compress.NewNoOpCompressor(),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Encode writes one record for the raw buffers of a section.
//
// The input must satisfy section.Input.Validate and carry exactly the block bytes its
// bit width requires, so every record written can be decoded.
//
// Returns:
//   - []byte: The record, owned by the caller
//   - error: The validation error of the input, KindMalformedBuffer, or a compression error
func (e *Encoder) Encode(pos section.Pos, in section.Input) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if want := encoding.RequiredBlockBytes(format.SectionBlockCount, in.BitsPerBlock); len(in.Blocks) != want {
		return nil, errs.New(errs.KindMalformedBuffer, "got %d block bytes, want %d at %d bits", len(in.Blocks), want, in.BitsPerBlock)
	}
	if uint64(len(in.Palette)) > math.MaxUint32 {
		return nil, errs.New(errs.KindInvalidPayload, "palette has %d entries", len(in.Palette))
	}

	flag := e.flag
	flag.BitsPerBlock = uint8(in.BitsPerBlock)
	flag.SetSkyLight(in.SkyLight != nil)
	engine := flag.EndianEngine()

	buf := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(buf)
	buf.Grow(len(in.Palette)*PaletteEntrySize + 2*format.LightBufferSize + len(in.Blocks))

	for _, id := range in.Palette {
		buf.B = engine.AppendUint32(buf.B, id)
	}
	buf.MustWrite(in.BlockLight)
	if in.SkyLight != nil {
		buf.MustWrite(in.SkyLight)
	}
	buf.MustWrite(in.Blocks)

	payload := buf.Bytes()
	stored, err := e.codec.Compress(payload)
	if err != nil {
		return nil, err
	}
	if uint64(len(stored)) > math.MaxUint32 {
		return nil, errs.New(errs.KindInvalidPayload, "payload of %d bytes", len(stored))
	}

	header := Header{
		Flag:       flag,
		X:          pos.X,
		Y:          pos.Y,
		Z:          pos.Z,
		PaletteLen: uint32(len(in.Palette)),
		PayloadLen: uint32(len(stored)),
		Checksum:   hash.Checksum(payload),
	}

	out := make([]byte, 0, HeaderSize+len(stored))
	out = append(out, header.Bytes()...)
	out = append(out, stored...)

	return out, nil
}

// EncodeSection writes a record for a section in any state: raw buffers of an undecoded
// section are stored as is, a decoded section is re-packed first.
func (e *Encoder) EncodeSection(s *section.Section) ([]byte, error) {
	in, err := s.Export()
	if err != nil {
		return nil, err
	}

	return e.Encode(s.Position(), in)
}
