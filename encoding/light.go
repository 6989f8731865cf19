package encoding

import (
	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
)

// UnpackLight expands a 2048-byte nibble buffer into 4096 light values.
func UnpackLight(buf []byte) ([]uint8, error) {
	out := make([]uint8, format.SectionBlockCount)
	if err := UnpackLightTo(out, buf); err != nil {
		return nil, err
	}

	return out, nil
}

// UnpackLightTo expands buf into dst. For byte i, dst[2i] is the high nibble kept in
// place (b & 0xF0) and dst[2i+1] is the low nibble (b & 0x0F).
func UnpackLightTo(dst []uint8, buf []byte) error {
	if len(buf) != format.LightBufferSize {
		return errs.New(errs.KindInvalidLightLength, "got %d bytes, want %d", len(buf), format.LightBufferSize)
	}
	if len(dst) != 2*len(buf) {
		return errs.New(errs.KindStructuralMismatch, "light destination holds %d values, want %d", len(dst), 2*len(buf))
	}

	for i, b := range buf {
		dst[2*i] = b & 0xF0
		dst[2*i+1] = b & 0x0F
	}

	return nil
}

// PackLight is the inverse of UnpackLight. Bits outside the nibble each value occupies
// are dropped.
func PackLight(values []uint8) ([]byte, error) {
	if len(values) != format.SectionBlockCount {
		return nil, errs.New(errs.KindStructuralMismatch, "got %d light values, want %d", len(values), format.SectionBlockCount)
	}

	out := make([]byte, format.LightBufferSize)
	for i := range out {
		out[i] = values[2*i]&0xF0 | values[2*i+1]&0x0F
	}

	return out, nil
}

// ValidateLightBuffer checks a raw light buffer length. A nil buffer is accepted only
// when optional is true.
func ValidateLightBuffer(buf []byte, optional bool) error {
	if buf == nil && optional {
		return nil
	}
	if len(buf) != format.LightBufferSize {
		return errs.New(errs.KindInvalidLightLength, "got %d bytes, want %d", len(buf), format.LightBufferSize)
	}

	return nil
}
