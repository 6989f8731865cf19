package section

import (
	"bytes"
	"slices"

	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/endian"
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/arloliu/voxsec/internal/pool"
)

// Input holds the raw buffers a loader hands to New.
type Input struct {
	// Blocks holds 4096 palette indices packed into 64-bit words. A nil or empty buffer
	// builds an all-air placeholder section.
	Blocks []byte
	// BlockLight must be exactly 2048 bytes.
	BlockLight []byte
	// SkyLight is nil or exactly 2048 bytes.
	SkyLight []byte
	// BitsPerBlock is the packed index width, 1 to 32.
	BitsPerBlock int
	// Palette maps indices to global block ids. Empty means indices are global ids.
	Palette []uint32
}

// Clone returns a deep copy of the input.
func (in Input) Clone() Input {
	return Input{
		Blocks:       bytes.Clone(in.Blocks),
		BlockLight:   bytes.Clone(in.BlockLight),
		SkyLight:     bytes.Clone(in.SkyLight),
		BitsPerBlock: in.BitsPerBlock,
		Palette:      slices.Clone(in.Palette),
	}
}

// Validate checks the construction contract of a non-placeholder input.
func (in Input) Validate() error {
	if err := encoding.ValidateBitsPerBlock(in.BitsPerBlock); err != nil {
		return err
	}
	if err := encoding.ValidateLightBuffer(in.BlockLight, false); err != nil {
		return err
	}

	return encoding.ValidateLightBuffer(in.SkyLight, true)
}

// rawBuffers is the undecoded state. It is never mutated after construction, so decode
// may read it without the section lock.
type rawBuffers struct {
	blocks     []byte
	blockLight []byte
	skyLight   []byte
	bits       int
	palette    encoding.Palette
}

func newRawBuffers(in Input) *rawBuffers {
	c := in.Clone()

	return &rawBuffers{
		blocks:     c.Blocks,
		blockLight: c.BlockLight,
		skyLight:   c.SkyLight,
		bits:       c.BitsPerBlock,
		palette:    c.Palette,
	}
}

func (r *rawBuffers) clone() *rawBuffers {
	return newRawBuffers(r.input())
}

func (r *rawBuffers) input() Input {
	return Input{
		Blocks:       r.blocks,
		BlockLight:   r.blockLight,
		SkyLight:     r.skyLight,
		BitsPerBlock: r.bits,
		Palette:      r.palette,
	}
}

// decode builds a complete grid. Nothing is published until every stream has been
// produced and checked.
func (r *rawBuffers) decode(wire endian.EndianEngine) (*decodedGrid, error) {
	indices, cleanup := pool.GetUint32Slice(format.SectionBlockCount)
	defer cleanup()

	if err := encoding.NewBitUnpacker(wire).UnpackTo(indices, r.blocks, r.bits); err != nil {
		return nil, err
	}
	if err := checkStream("block index", len(indices)); err != nil {
		return nil, err
	}

	grid := &decodedGrid{
		blocks:     make([]encoding.Block, format.SectionBlockCount),
		blockLight: make([]uint8, format.SectionBlockCount),
	}
	if err := encoding.ResolveBlocks(grid.blocks, indices, r.palette); err != nil {
		return nil, err
	}

	if err := encoding.UnpackLightTo(grid.blockLight, r.blockLight); err != nil {
		return nil, err
	}
	if err := checkStream("block light", len(grid.blockLight)); err != nil {
		return nil, err
	}

	if r.skyLight != nil {
		grid.skyLight = make([]uint8, format.SectionBlockCount)
		if err := encoding.UnpackLightTo(grid.skyLight, r.skyLight); err != nil {
			return nil, err
		}
		if err := checkStream("sky light", len(grid.skyLight)); err != nil {
			return nil, err
		}
	}

	return grid, nil
}

func checkStream(name string, n int) error {
	if n != format.SectionBlockCount {
		return errs.New(errs.KindStructuralMismatch, "%s stream has %d values, want %d", name, n, format.SectionBlockCount)
	}

	return nil
}

// decodedGrid is the decoded state. It is immutable once published.
type decodedGrid struct {
	blocks     []encoding.Block
	blockLight []uint8
	skyLight   []uint8 // nil when the section has no sky light
}

// placeholderGrid returns an all-air grid. Light buffers, when present, are still unpacked.
func placeholderGrid(in Input) (*decodedGrid, error) {
	if err := encoding.ValidateLightBuffer(in.BlockLight, true); err != nil {
		return nil, err
	}
	if err := encoding.ValidateLightBuffer(in.SkyLight, true); err != nil {
		return nil, err
	}

	grid := &decodedGrid{
		blocks:     make([]encoding.Block, format.SectionBlockCount),
		blockLight: make([]uint8, format.SectionBlockCount),
	}
	if in.BlockLight != nil {
		if err := encoding.UnpackLightTo(grid.blockLight, in.BlockLight); err != nil {
			return nil, err
		}
	}
	if in.SkyLight != nil {
		grid.skyLight = make([]uint8, format.SectionBlockCount)
		if err := encoding.UnpackLightTo(grid.skyLight, in.SkyLight); err != nil {
			return nil, err
		}
	}

	return grid, nil
}

func (g *decodedGrid) clone() *decodedGrid {
	return &decodedGrid{
		blocks:     slices.Clone(g.blocks),
		blockLight: slices.Clone(g.blockLight),
		skyLight:   slices.Clone(g.skyLight),
	}
}
