package compress

// ZstdCompressor compresses payloads with Zstandard.
//
// Zstd gives the best ratio of the built-in codecs and suits sections that are
// written once and read rarely, such as saved regions.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec at the default level.
//
// Example:
//
//	codec := NewZstdCompressor()
//	stored, err := codec.Compress(payload)
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
