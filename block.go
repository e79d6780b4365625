package blend

import (
	"bytes"

	"github.com/pkg/errors"
)

// blockCodeSize and blockFixedSize make up the fixed part of a block record
// before its variable-length payload: 4-byte code, 4-byte size, a
// pointer-sized old address, 4-byte SDNA index, 4-byte count.
const (
	blockCodeSize  = 4
	blockFixedSize = 4 + 4 + 4 // size + dna index + count, pointer size added separately
)

// BlockData is the raw payload of a block plus how many repeated structs it
// represents. count is always 1 for a PrincipalBlock; for a SubsidiaryBlock
// it may be any positive integer (an array, a primitive blob, or a single
// struct whose real type is supplied by whoever points at it).
type BlockData struct {
	Bytes []byte
	Count int
}

// Block is the tagged union spec.md §3 describes. Only PrincipalBlock,
// SubsidiaryBlock and GlobalBlock carry addressable data; RendBlock and
// TestBlock are carried for completeness but never resolved against.
type Block interface {
	isBlock()
	blockData() (BlockData, bool)
}

// PrincipalBlock is a root object: its 2-byte Code plus DNAIndex fully
// determine its type, and Data.Count is always 1.
type PrincipalBlock struct {
	Code          [2]byte
	MemoryAddress uint64
	DNAIndex      int
	Data          BlockData
}

// SubsidiaryBlock is a "DATA" block. Its DNAIndex is only trusted when it
// is at or above the primitive threshold (see the type-resolution table,
// §4.8); otherwise the pointing field's own type_index wins.
type SubsidiaryBlock struct {
	MemoryAddress uint64
	DNAIndex      int
	Data          BlockData
}

// GlobalBlock is the "GLOB" block — Blender's global scene settings.
type GlobalBlock struct {
	MemoryAddress uint64
	DNAIndex      int
	Data          BlockData
}

// RendBlock ("REND") and TestBlock ("TEST") are carried but never
// interpreted; Blender writes render/thumbnail info into them that this
// runtime has no use for.
type RendBlock struct{}
type TestBlock struct{}

func (PrincipalBlock) isBlock()   {}
func (SubsidiaryBlock) isBlock()  {}
func (GlobalBlock) isBlock()      {}
func (RendBlock) isBlock()        {}
func (TestBlock) isBlock()        {}

func (b PrincipalBlock) blockData() (BlockData, bool)  { return b.Data, true }
func (b SubsidiaryBlock) blockData() (BlockData, bool) { return b.Data, true }
func (b GlobalBlock) blockData() (BlockData, bool)     { return b.Data, true }
func (RendBlock) blockData() (BlockData, bool)         { return BlockData{}, false }
func (TestBlock) blockData() (BlockData, bool)         { return BlockData{}, false }

// blockAddress returns a block's preserved memory address, if it has one.
func blockAddress(b Block) (uint64, bool) {
	switch v := b.(type) {
	case PrincipalBlock:
		return v.MemoryAddress, true
	case SubsidiaryBlock:
		return v.MemoryAddress, true
	case GlobalBlock:
		return v.MemoryAddress, true
	default:
		return 0, false
	}
}

// parseBlocks reads the linear block stream following the file header, up
// to and including the "ENDB" terminator. It returns every block except the
// DNA1 one, which is decoded and returned separately (spec.md §3: "Dna(Dna)
// ... removed from the block list after parse and stored alongside it").
func parseBlocks(data []byte, header FileHeader) ([]Block, Dna, error) {
	var (
		blocks     []Block
		dna        *Dna
		dnaWasLast bool
	)

	for {
		if bytes.HasPrefix(data, []byte("ENDB")) {
			break
		}

		pointerSize := header.PointerSize
		need := blockCodeSize + blockFixedSize + pointerSize
		if len(data) < need {
			return nil, Dna{}, errors.Wrapf(ErrNotEnoughData, "block header needs %d bytes, got %d", need, len(data))
		}

		var code [4]byte
		copy(code[:], data[:blockCodeSize])
		rest := data[blockCodeSize:]

		size := parseU32(rest[:4], header.Endianness)
		rest = rest[4:]

		address := parsePointer(rest[:pointerSize], pointerSize, header.Endianness)
		rest = rest[pointerSize:]
		if address == 0 {
			return nil, Dna{}, ErrInvalidMemoryAddress
		}

		dnaIndex := parseU32(rest[:4], header.Endianness)
		rest = rest[4:]

		count := parseU32(rest[:4], header.Endianness)
		rest = rest[4:]

		if uint64(len(rest)) < uint64(size) {
			return nil, Dna{}, errors.Wrapf(ErrNotEnoughData, "block %q announces %d bytes, only %d remain", code, size, len(rest))
		}
		payload := rest[:size]
		data = rest[size:]

		dnaWasLast = false

		switch {
		case code == [4]byte{'R', 'E', 'N', 'D'}:
			blocks = append(blocks, RendBlock{})
		case code == [4]byte{'T', 'E', 'S', 'T'}:
			blocks = append(blocks, TestBlock{})
		case code == [4]byte{'G', 'L', 'O', 'B'}:
			blocks = append(blocks, GlobalBlock{
				MemoryAddress: address,
				DNAIndex:      int(dnaIndex),
				Data:          BlockData{Bytes: payload, Count: int(count)},
			})
		case code == [4]byte{'D', 'A', 'T', 'A'}:
			blocks = append(blocks, SubsidiaryBlock{
				MemoryAddress: address,
				DNAIndex:      int(dnaIndex),
				Data:          BlockData{Bytes: payload, Count: int(count)},
			})
		case code == [4]byte{'D', 'N', 'A', '1'}:
			parsed, err := parseDna(payload, header.Endianness)
			if err != nil {
				return nil, Dna{}, err
			}
			dna = &parsed
			dnaWasLast = true
		case code[2] == 0 && code[3] == 0:
			if count != 1 {
				return nil, Dna{}, errors.Wrapf(ErrUnsupportedCountOnPrincipalBlock, "block %q has count %d", code[:2], count)
			}
			blocks = append(blocks, PrincipalBlock{
				Code:          [2]byte{code[0], code[1]},
				MemoryAddress: address,
				DNAIndex:      int(dnaIndex),
				Data:          BlockData{Bytes: payload, Count: 1},
			})
		default:
			return nil, Dna{}, errors.Wrapf(ErrUnknownBlockCode, "code %q", code)
		}
	}

	if dna == nil || !dnaWasLast {
		return nil, Dna{}, ErrNoDnaBlockFound
	}

	return blocks, *dna, nil
}
