// Package endian provides byte order utilities for section buffers and archive headers.
//
// This package extends Go's standard encoding/binary package by combining
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine interface,
// and adds the word normalization step used before bit unpacking.
//
// # Basic Usage
//
// Packed block data is stored on the wire as big-endian 64-bit words:
//
//	import "github.com/arloliu/voxsec/endian"
//
//	wire := endian.GetBigEndianEngine()
//	unpacker := encoding.NewBitUnpacker(wire)
//
// Before bits are walked least-significant first, every word is rewritten into
// little-endian order so that byte 0 of a word holds its lowest 8 bits:
//
//	n := endian.ToLittleEndianWords(buf, wire)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless. ToLittleEndianWords
// mutates its argument and must not race with other users of the same buffer.
package endian

import "encoding/binary"

// WordSize is the size in bytes of a packed block word.
const WordSize = 8

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// IsBigEndian reports whether the engine is the big-endian engine.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ToLittleEndianWords rewrites every whole 64-bit word of buf, in place, from the wire
// byte order into little-endian order.
//
// For a big-endian wire this reverses the bytes of each word; for a little-endian wire the
// buffer is left untouched. The conversion is explicit and independent of the host byte
// order. Trailing bytes that do not form a whole word are not touched.
//
// Parameters:
//   - buf: Buffer to normalize in place
//   - wire: Byte order the words were written in
//
// Returns:
//   - int: Number of whole words in buf
func ToLittleEndianWords(buf []byte, wire EndianEngine) int {
	words := len(buf) / WordSize
	if wire == nil || !IsBigEndian(wire) {
		return words
	}

	for i := 0; i < words; i++ {
		w := buf[i*WordSize : (i+1)*WordSize]
		binary.LittleEndian.PutUint64(w, wire.Uint64(w))
	}

	return words
}

// FromLittleEndianWords is the inverse of ToLittleEndianWords: it rewrites every whole
// little-endian 64-bit word of buf into the wire byte order.
func FromLittleEndianWords(buf []byte, wire EndianEngine) int {
	words := len(buf) / WordSize
	if wire == nil || !IsBigEndian(wire) {
		return words
	}

	for i := 0; i < words; i++ {
		w := buf[i*WordSize : (i+1)*WordSize]
		wire.PutUint64(w, binary.LittleEndian.Uint64(w))
	}

	return words
}
