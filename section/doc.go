// Package section decodes one 16×16×16 voxel section from its compact wire buffers into a
// directly queryable block grid.
//
// # Overview
//
// A Section is built from raw buffers supplied by a loader:
//
//   - Blocks: 4096 palette indices packed at BitsPerBlock bits each into 64-bit words
//   - BlockLight: 2048 bytes, one nibble per block
//   - SkyLight: 2048 bytes, optional
//   - Palette: local index to global block id table; empty means direct ids
//
// Construction only copies and validates the buffers. Decoding runs when Decode is called,
// typically on a background worker, while any number of goroutines may already be calling
// GetBlock. Readers block until the decode outcome is known and then return without ever
// observing a partially built grid.
//
// # State
//
// A Section is always in exactly one of two states: it owns its raw buffers (undecoded), or
// it owns the decoded grid. Decode computes the whole grid before taking the section lock,
// then swaps raw for decoded and releases the raw buffers in a single step.
//
// A failed decode is terminal for the section: raw buffers are kept, IsDecoded stays false,
// and Decode, GetBlock and the other accessors return the same error.
//
// # Example
//
//	s, err := section.New(section.Pos{X: 1, Y: 4, Z: -2}, section.Input{
//	    Blocks:       packed,
//	    BlockLight:   blockLight,
//	    BitsPerBlock: 4,
//	    Palette:      []uint32{0, 16, 32},
//	})
//	if err != nil {
//	    return err
//	}
//
//	go s.Decode()
//
//	b, err := s.GetBlock(0, 0, 0) // blocks until Decode finishes
//
// # Coordinates
//
// Local coordinates are in [0,16) on every axis. The flat grid index is y*256 + z*16 + x.
// Coordinates are never clamped.
package section
