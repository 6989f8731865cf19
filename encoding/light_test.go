package encoding

import (
	"testing"

	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/stretchr/testify/require"
)

func TestUnpackLight_Split(t *testing.T) {
	buf := make([]byte, format.LightBufferSize)
	buf[0] = 0xAB
	buf[1000] = 0xAB
	buf[2047] = 0x5F

	got, err := UnpackLight(buf)
	require.NoError(t, err)
	require.Len(t, got, format.SectionBlockCount)

	require.Equal(t, uint8(0xA0), got[0])
	require.Equal(t, uint8(0x0B), got[1])
	require.Equal(t, uint8(0xA0), got[2000])
	require.Equal(t, uint8(0x0B), got[2001])
	require.Equal(t, uint8(0x50), got[4094])
	require.Equal(t, uint8(0x0F), got[4095])
	require.Equal(t, uint8(0), got[2])
}

func TestUnpackLight_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 2047, 2049, 4096} {
		_, err := UnpackLight(make([]byte, n))
		require.ErrorIs(t, err, errs.ErrInvalidLightLength, "len=%d", n)
	}
}

func TestUnpackLightTo_WrongDestination(t *testing.T) {
	err := UnpackLightTo(make([]uint8, 10), make([]byte, format.LightBufferSize))
	require.ErrorIs(t, err, errs.ErrStructuralMismatch)
}

func TestPackLight_RoundTrip(t *testing.T) {
	buf := make([]byte, format.LightBufferSize)
	for i := range buf {
		buf[i] = byte(i*7 + 3)
	}

	values, err := UnpackLight(buf)
	require.NoError(t, err)

	packed, err := PackLight(values)
	require.NoError(t, err)
	require.Equal(t, buf, packed)

	_, err = PackLight(values[:10])
	require.ErrorIs(t, err, errs.ErrStructuralMismatch)
}

func TestValidateLightBuffer(t *testing.T) {
	require.NoError(t, ValidateLightBuffer(nil, true))
	require.ErrorIs(t, ValidateLightBuffer(nil, false), errs.ErrInvalidLightLength)
	require.NoError(t, ValidateLightBuffer(make([]byte, format.LightBufferSize), false))
	require.ErrorIs(t, ValidateLightBuffer(make([]byte, 10), true), errs.ErrInvalidLightLength)
}
