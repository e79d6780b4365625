package blend

import (
	"encoding/binary"
	"math"
)

// Endianness is the byte order a .blend file was saved with. It is read once
// from the file header (byte offset 8) and threaded through every primitive
// decode afterwards.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) order() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// The primitive decoders below read fixed-width integers and floats out of a
// byte slice. Endianness is ignored for 8-bit types, same as the SDNA format
// itself does not distinguish byte order for single-byte values.

func parseU8(b []byte) uint8   { return b[0] }
func parseI8(b []byte) int8    { return int8(b[0]) }
func parseU16(b []byte, e Endianness) uint16 { return e.order().Uint16(b) }
func parseI16(b []byte, e Endianness) int16  { return int16(e.order().Uint16(b)) }
func parseU32(b []byte, e Endianness) uint32 { return e.order().Uint32(b) }
func parseI32(b []byte, e Endianness) int32  { return int32(e.order().Uint32(b)) }
func parseU64(b []byte, e Endianness) uint64 { return e.order().Uint64(b) }
func parseI64(b []byte, e Endianness) int64  { return int64(e.order().Uint64(b)) }
func parseF32(b []byte, e Endianness) float32 {
	return math.Float32frombits(e.order().Uint32(b))
}
func parseF64(b []byte, e Endianness) float64 {
	return math.Float64frombits(e.order().Uint64(b))
}

// parsePointer reads a pointer-sized (4 or 8 byte) address and widens it to
// uint64 regardless of the file's native pointer width, per invariant 1 of
// spec.md (every pointer's size equals header.PointerSize).
func parsePointer(b []byte, pointerSize int, e Endianness) uint64 {
	if pointerSize == 4 {
		return uint64(parseU32(b, e))
	}
	return parseU64(b, e)
}

// blenderPrimitive is the capability design notes §9 asks for: "a type T is a
// blend primitive iff it has a canonical SDNA name and a fixed parse
// function". size and blenderNames are fixed per T; parse is supplied by each
// typed accessor in getters.go rather than derived from T, since Go generics
// can't recover a canonical name from a type parameter alone the way a Rust
// trait impl can. blenderNames holds more than one entry only where SDNA
// itself admits more than one spelling for the same width (e.g. a 4-byte
// unsigned field may be declared "long" or "ulong").
type blenderPrimitive[T any] struct {
	blenderNames []string
	size         int
	parse        func([]byte, Endianness) T
}
