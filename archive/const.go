package archive

const (
	// Bit masks of the Options field
	SkyLightMask     = 0x0001 // Mask for sky light bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicSectionV1Opt identifies version 1 of the section record format.
	MagicSectionV1Opt = 0x5EC0
)

const (
	HeaderSize       = 32 // fixed header size in bytes
	PaletteEntrySize = 4  // bytes per palette entry
)
