package section

import (
	"math/bits"

	"github.com/arloliu/voxsec/encoding"
	"github.com/arloliu/voxsec/endian"
)

// Export returns raw buffers that rebuild this section.
//
// An undecoded section returns a copy of its own raw buffers. A decoded section is
// re-packed: the palette lists the distinct global ids in first-seen order and the
// index width is the smallest that addresses it, with a minimum of one bit. A section
// whose decode failed returns the decode error.
func (s *Section) Export() (Input, error) {
	s.mu.Lock()
	err := s.gate.err
	raw := s.raw
	s.mu.Unlock()

	if err != nil {
		return Input{}, err
	}
	if raw != nil {
		return raw.input().Clone(), nil
	}

	grid, err := s.await()
	if err != nil {
		return Input{}, err
	}

	return grid.repack(s.cfg.wire)
}

func (g *decodedGrid) repack(wire endian.EndianEngine) (Input, error) {
	var (
		palette []uint32
		lookup  = make(map[uint32]uint32)
		indices = make([]uint32, len(g.blocks))
	)
	for i, b := range g.blocks {
		id := b.GlobalID()
		idx, ok := lookup[id]
		if !ok {
			idx = uint32(len(palette))
			lookup[id] = idx
			palette = append(palette, id)
		}
		indices[i] = idx
	}

	width := max(bits.Len(uint(len(palette)-1)), 1)
	packed, err := encoding.NewBitPacker(wire).Pack(indices, width)
	if err != nil {
		return Input{}, err
	}

	blockLight, err := encoding.PackLight(g.blockLight)
	if err != nil {
		return Input{}, err
	}

	in := Input{
		Blocks:       packed,
		BlockLight:   blockLight,
		BitsPerBlock: width,
		Palette:      palette,
	}
	if g.skyLight != nil {
		if in.SkyLight, err = encoding.PackLight(g.skyLight); err != nil {
			return Input{}, err
		}
	}

	return in, nil
}
