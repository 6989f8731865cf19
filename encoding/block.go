package encoding

import "strconv"

// Block is a resolved block value.
type Block struct {
	Type    uint32 // global id >> 4
	Variant uint8  // global id & 0xF
}

// AssembleBlock splits a global block id into its type and variant.
func AssembleBlock(id uint32) Block {
	return Block{Type: id >> 4, Variant: uint8(id & 0xF)}
}

// GlobalID recombines the block into its global id.
func (b Block) GlobalID() uint32 {
	return b.Type<<4 | uint32(b.Variant&0xF)
}

// IsAir reports whether the block is air (type 0).
func (b Block) IsAir() bool {
	return b.Type == 0
}

func (b Block) String() string {
	return strconv.FormatUint(uint64(b.Type), 10) + ":" + strconv.FormatUint(uint64(b.Variant), 10)
}
