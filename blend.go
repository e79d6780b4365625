package blend

import (
	"bufio"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// RawBlend is the fully parsed but uninterpreted contents of a .blend file:
// its header, every block (except DNA1, which is split out), and the SDNA
// type catalog.
type RawBlend struct {
	Header FileHeader
	Blocks []Block
	Dna    Dna
}

// Blend is a parsed .blend file together with the indexes a traversal needs:
// a memory-address lookup for resolving pointers, a type-index lookup for
// resolving non-primitive Value fields, and a cache of generated field
// templates so walking the same struct type twice doesn't re-parse its SDNA
// field names. None of this is mutated after New returns except the
// template cache, which is safe for concurrent read-only traversal (spec.md
// §5: "multiple read-only traversals may run concurrently").
type Blend struct {
	raw RawBlend

	addressIndex     map[uint64]int
	typeIndexToIndex map[int]int
	templateCache    sync.Map // int (struct index) -> *FieldTemplates
}

// New parses a complete .blend file from r. It reads the entire stream into
// memory: the block framer needs random access to slice each block's payload
// out of the trailing bytes, and .blend files are not streamed in practice
// (spec.md §6, Non-goals: no incremental/streaming parse).
func New(r io.Reader) (*Blend, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, errors.Wrap(err, "blend: reading input")
	}

	header, rest, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	blocks, dna, err := parseBlocks(rest, header)
	if err != nil {
		return nil, err
	}

	b := &Blend{
		raw: RawBlend{
			Header: header,
			Blocks: blocks,
			Dna:    dna,
		},
	}
	b.buildIndexes()
	return b, nil
}

func (b *Blend) buildIndexes() {
	b.addressIndex = make(map[uint64]int, len(b.raw.Blocks))
	for i, blk := range b.raw.Blocks {
		if addr, ok := blockAddress(blk); ok {
			b.addressIndex[addr] = i
		}
	}

	b.typeIndexToIndex = make(map[int]int, len(b.raw.Dna.Structs))
	for i, s := range b.raw.Dna.Structs {
		if _, exists := b.typeIndexToIndex[s.TypeIndex]; !exists {
			b.typeIndexToIndex[s.TypeIndex] = i
		}
	}
}

// Header returns the parsed file header.
func (b *Blend) Header() FileHeader { return b.raw.Header }

// Dna returns the parsed SDNA type catalog.
func (b *Blend) Dna() Dna { return b.raw.Dna }

// blockByAddress resolves a preserved memory address to its block and index,
// if any block in the file was stored at that address.
func (b *Blend) blockByAddress(addr uint64) (Block, int, bool) {
	i, ok := b.addressIndex[addr]
	if !ok {
		return nil, 0, false
	}
	return b.raw.Blocks[i], i, true
}

// structIndexByTypeIndex finds the index into Dna.Structs whose own
// TypeIndex matches typeIndex — used for inline (non-pointer) Value-struct
// field access, ListBase heads and inline struct arrays. The §4.8
// resolution table (resolveSubsidiaryType) does its own lookup with
// findStructIndexByTypeIndex.
func (b *Blend) structIndexByTypeIndex(typeIndex int) (int, bool) {
	i, ok := b.typeIndexToIndex[typeIndex]
	return i, ok
}

// fieldTemplatesFor returns (and caches) the FieldTemplates for the struct
// at the given index into Dna.Structs.
func (b *Blend) fieldTemplatesFor(structIndex int) *FieldTemplates {
	if cached, ok := b.templateCache.Load(structIndex); ok {
		return cached.(*FieldTemplates)
	}
	tmpl := generateFields(b.raw.Dna.Structs[structIndex], &b.raw.Dna, b.raw.Header.PointerSize)
	actual, _ := b.templateCache.LoadOrStore(structIndex, tmpl)
	return actual.(*FieldTemplates)
}

// RootInstances returns every Principal root block as an Instance, plus the
// single GLOB block if the file has one. Blender's own tooling treats GLOB
// as a root object in all but name (design notes, Open Question 3:
// included here rather than silently dropped, as the reference
// implementation this runtime is modeled on does).
func (b *Blend) RootInstances() []Instance {
	var out []Instance
	for i, blk := range b.raw.Blocks {
		switch v := blk.(type) {
		case PrincipalBlock:
			out = append(out, b.instanceForPrincipal(i, v))
		case GlobalBlock:
			out = append(out, b.instanceForGlobal(i, v))
		}
	}
	return out
}

// InstancesWithCode returns every Principal root block whose 2-byte code
// matches, plus, when code is "GL", the GLOB block (spec.md §7: GLOB's
// type name is reachable through the same lookup used for Principal codes).
func (b *Blend) InstancesWithCode(code [2]byte) []Instance {
	var out []Instance
	for i, blk := range b.raw.Blocks {
		switch v := blk.(type) {
		case PrincipalBlock:
			if v.Code == code {
				out = append(out, b.instanceForPrincipal(i, v))
			}
		case GlobalBlock:
			if code == [2]byte{'G', 'L'} {
				out = append(out, b.instanceForGlobal(i, v))
			}
		}
	}
	return out
}

func (b *Blend) instanceForPrincipal(blockIndex int, blk PrincipalBlock) Instance {
	return b.newInstance(blockIndex, blk.DNAIndex, blk.Data)
}

func (b *Blend) instanceForGlobal(blockIndex int, blk GlobalBlock) Instance {
	return b.newInstance(blockIndex, blk.DNAIndex, blk.Data)
}

func (b *Blend) newInstance(blockIndex, structIndex int, data BlockData) Instance {
	s := b.raw.Dna.Structs[structIndex]
	typeName := b.raw.Dna.Types[s.TypeIndex].Name
	return Instance{
		blend:      b,
		structIdx:  structIndex,
		typeName:   typeName,
		data:       data.Bytes,
		count:      data.Count,
		blockIndex: blockIndex,
		fields:     b.fieldTemplatesFor(structIndex),
	}
}
