package archive

import (
	"encoding/binary"

	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/section"
)

// Header is the fixed-size header at the start of a section record.
type Header struct {
	// Flag is a packed field for options, bit width and compression.
	Flag Flag // byte offset 0-3
	// X, Y, Z is the section position.
	X, Y, Z int32 // byte offset 4-15
	// PaletteLen is the number of palette entries in the payload.
	PaletteLen uint32 // byte offset 16-19
	// PayloadLen is the stored, possibly compressed, payload size.
	PayloadLen uint32 // byte offset 20-23
	// Checksum is the xxHash64 of the uncompressed payload.
	Checksum uint64 // byte offset 24-31
}

// Pos returns the section position carried by the header.
func (h *Header) Pos() section.Pos {
	return section.Pos{X: h.X, Y: h.Y, Z: h.Z}
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 32 bytes)
//
// Returns:
//   - error: KindInvalidHeader if data is not 32 bytes, or flag validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.New(errs.KindInvalidHeader, "header is %d bytes, want %d", len(data), HeaderSize)
	}

	// Options decides the byte order of everything else, so it is always little-endian.
	h.Flag.Options = binary.LittleEndian.Uint16(data[0:2])
	h.Flag.BitsPerBlock = data[2]
	h.Flag.Compression = data[3]

	engine := h.Flag.EndianEngine()
	h.X = int32(engine.Uint32(data[4:8]))
	h.Y = int32(engine.Uint32(data[8:12]))
	h.Z = int32(engine.Uint32(data[12:16]))
	h.PaletteLen = engine.Uint32(data[16:20])
	h.PayloadLen = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	return h.Flag.Validate()
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Flag.EndianEngine()

	binary.LittleEndian.PutUint16(b[0:2], h.Flag.Options)
	b[2] = h.Flag.BitsPerBlock
	b[3] = h.Flag.Compression
	engine.PutUint32(b[4:8], uint32(h.X))
	engine.PutUint32(b[8:12], uint32(h.Y))
	engine.PutUint32(b[12:16], uint32(h.Z))
	engine.PutUint32(b[16:20], h.PaletteLen)
	engine.PutUint32(b[20:24], h.PayloadLen)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// ParseHeader parses a Header from the start of data.
//
// Returns:
//   - Header: Parsed header struct
//   - error: KindInvalidHeader if data is shorter than 32 bytes, or flag validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.New(errs.KindInvalidHeader, "record is %d bytes, shorter than the header", len(data))
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}

// PeekPos reads the section position from a record header without touching the payload.
func PeekPos(data []byte) (section.Pos, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return section.Pos{}, err
	}

	return h.Pos(), nil
}
