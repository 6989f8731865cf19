package encoding

import (
	"slices"

	"github.com/arloliu/voxsec/errs"
)

// Palette maps local palette indices to global block ids.
//
// An empty palette is the direct mode: indices already are global block ids.
type Palette []uint32

// IsDirect reports whether the palette passes indices through unchanged.
func (p Palette) IsDirect() bool {
	return len(p) == 0
}

// Resolve returns the global block id for index.
//
// Returns an error of kind KindPaletteIndexOutOfRange when the palette is not empty
// and index has no entry.
func (p Palette) Resolve(index uint32) (uint32, error) {
	if len(p) == 0 {
		return index, nil
	}
	if uint64(index) >= uint64(len(p)) {
		return 0, errs.New(errs.KindPaletteIndexOutOfRange, "index %d, palette size %d", index, len(p))
	}

	return p[index], nil
}

// Clone returns an independent copy of the palette.
func (p Palette) Clone() Palette {
	return slices.Clone(p)
}

// ResolveBlocks resolves every index through the palette and assembles the blocks into dst.
//
// dst and indices must have the same length.
func ResolveBlocks(dst []Block, indices []uint32, p Palette) error {
	if len(dst) != len(indices) {
		return errs.New(errs.KindStructuralMismatch, "%d indices for %d blocks", len(indices), len(dst))
	}

	for i, idx := range indices {
		id, err := p.Resolve(idx)
		if err != nil {
			return err
		}
		dst[i] = AssembleBlock(id)
	}

	return nil
}
