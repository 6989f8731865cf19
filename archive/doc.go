// Package archive stores the raw decoder inputs of one section in a compact,
// checksummed record.
//
// # Record Layout
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Header (32 bytes, fixed)                                 │
//	│  - Flag (4 bytes): options, bits per block, compression  │
//	│  - Position (12 bytes): X, Y, Z int32                    │
//	│  - PaletteLen (4 bytes)                                  │
//	│  - PayloadLen (4 bytes): stored payload size             │
//	│  - Checksum (8 bytes): xxHash64 of uncompressed payload  │
//	├──────────────────────────────────────────────────────────┤
//	│ Payload (PayloadLen bytes, possibly compressed)          │
//	│  - Palette (PaletteLen × 4 bytes)                        │
//	│  - Block light (2048 bytes)                              │
//	│  - Sky light (2048 bytes, only with the sky light flag)  │
//	│  - Packed block words (remaining bytes)                  │
//	└──────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field        | Type   | Description
//	-------|--------------|--------|---------------------------------------------
//	0-1    | Options      | uint16 | Always little-endian, see below
//	2      | BitsPerBlock | uint8  | Packed index width, 1 to 32
//	3      | Compression  | uint8  | format.CompressionType of the payload
//	4-15   | X, Y, Z      | int32  | Section position
//	16-19  | PaletteLen   | uint32 | Palette entries
//	20-23  | PayloadLen   | uint32 | Stored payload bytes
//	24-31  | Checksum     | uint64 | xxHash64 of the uncompressed payload
//
// Options bits:
//
//	Bit 0:    sky light present
//	Bit 1:    header and palette byte order (0 little-endian, 1 big-endian)
//	Bits 2-3: reserved, must be 0
//	Bits 4-15: magic number 0x5EC0
//
// The header byte order only applies to header fields and palette entries. Packed block
// words are stored exactly as the section received them, in their own wire order.
//
// # Usage
//
//	enc, err := archive.NewEncoder(archive.WithCompression(format.CompressionZstd))
//	data, err := enc.Encode(pos, input)
//
//	dec, err := archive.NewDecoder(data)
//	rec, err := dec.Decode()
//	s, err := rec.Section()
package archive
