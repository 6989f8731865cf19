package encoding

import (
	"testing"

	"github.com/arloliu/voxsec/errs"
	"github.com/stretchr/testify/require"
)

func TestPalette_Identity(t *testing.T) {
	var p Palette
	require.True(t, p.IsDirect())

	for _, i := range []uint32{0, 1, 15, 16, 200, 4095, 1 << 20} {
		got, err := p.Resolve(i)
		require.NoError(t, err)
		require.Equal(t, i, got)
	}
}

func TestPalette_Indirection(t *testing.T) {
	p := Palette{5, 9, 12}
	require.False(t, p.IsDirect())

	tests := []struct {
		index uint32
		want  uint32
	}{
		{0, 5},
		{1, 9},
		{2, 12},
	}
	for _, tt := range tests {
		got, err := p.Resolve(tt.index)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}

	_, err := p.Resolve(3)
	require.ErrorIs(t, err, errs.ErrPaletteIndexOutOfRange)
}

func TestPalette_Clone(t *testing.T) {
	p := Palette{1, 2, 3}
	c := p.Clone()
	c[0] = 99

	require.Equal(t, uint32(1), p[0], "clone must not share memory")
	require.Nil(t, Palette(nil).Clone())
}

func TestResolveBlocks(t *testing.T) {
	p := Palette{16, 200, 33}
	dst := make([]Block, 4)

	err := ResolveBlocks(dst, []uint32{0, 1, 2, 1}, p)
	require.NoError(t, err)
	require.Equal(t, []Block{{1, 0}, {12, 8}, {2, 1}, {12, 8}}, dst)

	err = ResolveBlocks(dst, []uint32{0, 1, 2, 3}, p)
	require.ErrorIs(t, err, errs.ErrPaletteIndexOutOfRange)

	err = ResolveBlocks(dst, []uint32{0}, p)
	require.ErrorIs(t, err, errs.ErrStructuralMismatch)
}
