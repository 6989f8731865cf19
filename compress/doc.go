// Package compress provides the payload codecs used by section archives.
//
// An archived section payload is dominated by packed block words and nibble light
// arrays. Both are highly repetitive for typical terrain (large runs of air, stone, or
// full sky light), so a general purpose compressor applied to the whole payload
// recovers most of the remaining redundancy.
//
// # Codecs
//
//   - None (format.CompressionNone): payload stored as is
//   - Zstd (format.CompressionZstd): best ratio, for cold storage
//   - S2 (format.CompressionS2): fast, good ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// Zstd is implemented with github.com/klauspost/compress/zstd by default. Building with
// the gozstd tag and cgo enabled switches to github.com/valyala/gozstd:
//
//	go build -tags gozstd ./...
//
// Both produce standard zstd frames, so archives written by one can be read by the other.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(payload)
//
// All codecs are stateless values backed by pooled encoders and are safe for
// concurrent use.
package compress
