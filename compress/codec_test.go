package compress

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/arloliu/voxsec/errs"
	"github.com/arloliu/voxsec/format"
	"github.com/stretchr/testify/require"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"Zstd": NewZstdCompressor(),
		"S2":   NewS2Compressor(),
		"LZ4":  NewLZ4Compressor(),
	}
}

// sectionLikePayload mimics an archive payload: a small palette, full sky light, dark
// block light and a mostly uniform packed block stream.
func sectionLikePayload() []byte {
	rng := rand.New(rand.NewSource(1))
	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 0, 0, 16, 0, 0, 0, 32, 0, 0, 0})
	buf.Write(make([]byte, format.LightBufferSize))
	buf.Write(bytes.Repeat([]byte{0xFF}, format.LightBufferSize))
	blocks := make([]byte, 2048)
	for i := range blocks {
		if rng.Intn(10) == 0 {
			blocks[i] = byte(rng.Intn(256))
		} else {
			blocks[i] = 0x11
		}
	}
	buf.Write(blocks)

	return buf.Bytes()
}

func TestGetCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		codec, err := GetCodec(ct)
		require.NoError(t, err, ct.String())
		require.NotNil(t, codec)

		created, err := CreateCodec(ct)
		require.NoError(t, err, ct.String())
		require.IsType(t, codec, created)
	}

	_, err := GetCodec(format.CompressionType(0x7F))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = CreateCodec(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestNoOpCompressor_SharesInput(t *testing.T) {
	data := []byte{1, 2, 3}
	codec := NewNoOpCompressor()

	out, err := codec.Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])

	out, err = codec.Decompress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

// ===================================
// All codecs
// ===================================

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Nil(t, decompressed)

			compressed, err = codec.Compress([]byte{})
			require.NoError(t, err)
			decompressed, err = codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"single_byte", []byte{0x42}},
		{"light_buffer", bytes.Repeat([]byte{0xAB}, format.LightBufferSize)},
		{"section_payload", sectionLikePayload()},
		{"all_air", make([]byte, 64*1024)},
		{"pseudo_random", func() []byte {
			data := make([]byte, 4096)
			for i := range data {
				data[i] = byte((i*7 + i*i) % 256)
			}

			return data
		}()},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotNil(t, compressed)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecs_CompressUniformSection(t *testing.T) {
	original := make([]byte, 16*1024)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(original)
			require.NoError(t, err)

			if codecName == "NoOp" {
				require.Len(t, compressed, len(original))
			} else {
				require.Less(t, len(compressed), len(original)/10)
			}
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := []struct {
		name string
		data []byte
	}{
		{"random_bytes", []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"text_as_compressed", []byte("this is not compressed data")},
	}

	for codecName, codec := range getAllCodecs() {
		if codecName == "NoOp" {
			continue
		}
		t.Run(codecName, func(t *testing.T) {
			for _, input := range invalidInputs {
				_, err := codec.Decompress(input.data)
				require.Error(t, err, input.name)
			}
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	const numGoroutines = 16
	payload := sectionLikePayload()

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			done := make(chan error, numGoroutines*2)
			for range numGoroutines {
				go func() {
					_, err := codec.Compress(payload)
					done <- err
				}()
				go func() {
					out, err := codec.Decompress(compressed)
					if err == nil && !bytes.Equal(payload, out) {
						err = fmt.Errorf("data mismatch")
					}
					done <- err
				}()
			}

			for range numGoroutines * 2 {
				require.NoError(t, <-done)
			}
		})
	}
}

func BenchmarkCodecs_SectionPayload(b *testing.B) {
	payload := sectionLikePayload()

	for name, codec := range getAllCodecs() {
		compressed, _ := codec.Compress(payload)

		b.Run(name+"/compress", func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			for b.Loop() {
				_, _ = codec.Compress(payload)
			}
		})
		b.Run(name+"/decompress", func(b *testing.B) {
			b.SetBytes(int64(len(payload)))
			for b.Loop() {
				_, _ = codec.Decompress(compressed)
			}
		})
	}
}
