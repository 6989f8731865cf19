// Package voxsec decodes bit-packed voxel sections into queryable block grids.
//
// A section is a 16×16×16 cube of blocks delivered as compact buffers: palette indices
// packed into 64-bit words, nibble-packed block and sky light, and an optional palette.
// Decoding is explicit and may run on a background goroutine while other goroutines
// already query blocks; those readers block until the grid is ready.
//
// # Core Features
//
//   - Variable-width index unpacking (1 to 32 bits per block) over big-endian words
//   - Palette indirection, or direct global block ids with an empty palette
//   - Lazy decode with a reader gate: no torn reads, no hangs after a failed decode
//   - Typed errors with a discriminated kind (errs.DecodeError)
//   - Checksummed, optionally compressed section records (archive package)
//   - SQLite or in-memory record stores, a bounded decode pool, and an event bus
//
// # Basic Usage
//
// Building and decoding a section from loader buffers:
//
//	import "github.com/arloliu/voxsec"
//
//	s, _ := voxsec.NewSection(section.Pos{X: 0, Y: 4, Z: 0}, section.Input{
//	    Blocks:       packed,
//	    BlockLight:   blockLight,
//	    SkyLight:     skyLight,
//	    BitsPerBlock: 4,
//	    Palette:      palette,
//	})
//
//	go s.Decode()
//	b, err := s.GetBlock(3, 2, 1)
//
// Round-tripping through an archive record:
//
//	enc, _ := voxsec.NewArchiveEncoder(archive.WithCompression(format.CompressionZstd))
//	data, _ := enc.Encode(s.Position(), input)
//
//	restored, _ := voxsec.DecodeArchive(data)
//
// # Package Structure
//
// This package provides top-level wrappers for the most common use cases. For fine
// grained control use the section, archive, store, worker and event packages directly.
package voxsec

import (
	"github.com/arloliu/voxsec/archive"
	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/section"
)

// Block is a resolved block value.
type Block = encoding.Block

var defaultArchiveOptions = []archive.EncoderOption{
	archive.WithLittleEndian(),
	archive.WithCompression(format.CompressionS2),
}

// NewSection creates an undecoded section from deep copies of the loader buffers.
//
// Parameters:
//   - pos: Section coordinate in the world grid
//   - in: Raw buffers; an input without blocks builds an all-air placeholder
//   - opts: section.WithWireOrder, section.WithLogger
//
// Returns:
//   - *section.Section: The section, decoded only for placeholders
//   - error: KindInvalidBitsPerBlock or KindInvalidLightLength
func NewSection(pos section.Pos, in section.Input, opts ...section.Option) (*section.Section, error) {
	return section.New(pos, in, opts...)
}

// NewArchiveEncoder creates a record encoder.
//
// Without options it writes little-endian headers and S2 compressed payloads; options
// are applied after those defaults.
func NewArchiveEncoder(opts ...archive.EncoderOption) (*archive.Encoder, error) {
	all := append(append([]archive.EncoderOption{}, defaultArchiveOptions...), opts...)

	return archive.NewEncoder(all...)
}

// OpenArchive verifies a record and builds an undecoded section from it.
func OpenArchive(data []byte, opts ...section.Option) (*section.Section, error) {
	dec, err := archive.NewDecoder(data)
	if err != nil {
		return nil, err
	}
	rec, err := dec.Decode()
	if err != nil {
		return nil, err
	}

	return rec.Section(opts...)
}

// DecodeArchive opens a record and decodes the section immediately.
func DecodeArchive(data []byte, opts ...section.Option) (*section.Section, error) {
	s, err := OpenArchive(data, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Decode(); err != nil {
		return nil, err
	}

	return s, nil
}
