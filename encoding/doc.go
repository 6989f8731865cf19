// Package encoding implements the low-level codecs that turn a section's compact buffers
// into resolved blocks.
//
// A raw section carries four inputs: a buffer of packed palette indices, a block light
// buffer, an optional sky light buffer and a palette. This package provides one codec
// per input, each usable on its own:
//
//   - BitUnpacker / BitPacker: fixed-width palette indices packed least-significant-bit
//     first into 64-bit words, stored on the wire as big-endian words by default
//   - Palette: maps a palette index to a global block id, or passes it through when the
//     palette is empty (direct mode)
//   - UnpackLight / PackLight: one nibble per block, two blocks per byte
//   - AssembleBlock: splits a global block id into type (high bits) and variant (low 4 bits)
//
// # Packed Index Layout
//
// For count values of width bits the buffer holds exactly
// RequiredBlockBytes(count, bits) bytes, i.e. ceil(count*bits/64) whole words.
// Values are contiguous: a value may start in one word and end in the next.
//
//	word 0 (after normalization to little-endian):
//	  bit 0            bit b-1 | bit b        bit 2b-1 | ...
//	  [ value 0             ]  [ value 1           ]
//
// # Light Layout
//
// For byte i of a light buffer, light value 2i is the high nibble kept in place
// (b & 0xF0) and light value 2i+1 is the low nibble (b & 0x0F):
//
//	0xAB -> 0xA0, 0x0B
//
// # Thread Safety
//
// BitUnpacker and BitPacker are immutable after construction and safe for concurrent use.
// The free functions in this package keep no state.
package encoding
