package format

import "strings"

// Section geometry. A section is a 16×16×16 cube addressed as y*256 + z*16 + x.
const (
	SectionEdge       = 16                                      // blocks per section axis
	SectionBlockCount = SectionEdge * SectionEdge * SectionEdge // 4096 blocks per section
	LightBufferSize   = SectionBlockCount / 2                   // one nibble per block, 2048 bytes

	MinBitsPerBlock = 1  // narrowest packed palette index
	MaxBitsPerBlock = 32 // widest packed palette index
)

type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-insensitive name ("none", "zstd", "s2", "lz4")
// to its CompressionType. An empty name means no compression.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch strings.ToLower(name) {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
