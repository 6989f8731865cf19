package archive

import (
	"bytes"

	"github.com/arloliu/voxsec/compress"
	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/internal/hash"
	"github.com/arloliu/voxsec/section"
)

// Record is one decoded section record: a position and the raw decoder inputs.
type Record struct {
	Pos   section.Pos
	Input section.Input
}

// Section builds an undecoded section from the record.
func (r Record) Section(opts ...section.Option) (*section.Section, error) {
	return section.New(r.Pos, r.Input, opts...)
}

// Decoder reads one section record.
type Decoder struct {
	header Header
	data   []byte
}

// NewDecoder parses and validates the header of a record.
//
// The record is not copied; it must not be modified until Decode returns.
//
// Returns:
//   - *Decoder: Decoder for the record
//   - error: KindInvalidHeader, KindUnsupportedCompression, or KindInvalidPayload when the
//     record length disagrees with the header
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if got := len(data) - HeaderSize; uint64(got) != uint64(header.PayloadLen) {
		return nil, errs.New(errs.KindInvalidPayload, "payload is %d bytes, header says %d", got, header.PayloadLen)
	}

	return &Decoder{header: header, data: data}, nil
}

// Header returns the parsed header.
func (d *Decoder) Header() Header {
	return d.header
}

// Decode decompresses the payload, verifies its checksum and splits it into the record.
//
// The returned record owns its buffers.
//
// Returns:
//   - Record: Position and raw decoder inputs
//   - error: KindChecksumMismatch, KindInvalidPayload, or a decompression error
func (d *Decoder) Decode() (Record, error) {
	codec, err := compress.GetCodec(d.header.Flag.CompressionType())
	if err != nil {
		return Record{}, err
	}

	stored := d.data[HeaderSize:]
	payload, err := codec.Decompress(stored)
	if err != nil {
		return Record{}, errs.New(errs.KindInvalidPayload, "%v", err)
	}
	if d.header.Flag.CompressionType() == format.CompressionNone {
		payload = bytes.Clone(payload)
	}

	if sum := hash.Checksum(payload); sum != d.header.Checksum {
		return Record{}, errs.New(errs.KindChecksumMismatch, "got %016x, header says %016x", sum, d.header.Checksum)
	}

	in, err := d.split(payload)
	if err != nil {
		return Record{}, err
	}

	return Record{Pos: d.header.Pos(), Input: in}, nil
}

func (d *Decoder) split(payload []byte) (section.Input, error) {
	h := d.header
	bits := int(h.Flag.BitsPerBlock)

	paletteBytes := uint64(h.PaletteLen) * PaletteEntrySize
	lightBytes := uint64(format.LightBufferSize)
	if h.Flag.HasSkyLight() {
		lightBytes *= 2
	}
	blockBytes := uint64(encoding.RequiredBlockBytes(format.SectionBlockCount, bits))

	if want := paletteBytes + lightBytes + blockBytes; uint64(len(payload)) != want {
		return section.Input{}, errs.New(errs.KindInvalidPayload, "payload is %d bytes, want %d", len(payload), want)
	}

	var palette []uint32
	if h.PaletteLen > 0 {
		engine := h.Flag.EndianEngine()
		palette = make([]uint32, h.PaletteLen)
		for i := range palette {
			palette[i] = engine.Uint32(payload[i*PaletteEntrySize:])
		}
	}

	off := int(paletteBytes)
	next := func(n int) []byte {
		b := payload[off : off+n : off+n]
		off += n

		return b
	}

	in := section.Input{
		BitsPerBlock: bits,
		Palette:      palette,
		BlockLight:   next(format.LightBufferSize),
	}
	if h.Flag.HasSkyLight() {
		in.SkyLight = next(format.LightBufferSize)
	}
	in.Blocks = next(int(blockBytes))

	return in, nil
}
