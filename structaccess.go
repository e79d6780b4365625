package blend

import (
	"fmt"
	"iter"
)

// Get resolves a struct-typed field to the Instance it describes: either an
// inline struct embedded directly in this instance's bytes (a plain Value
// field), or the single struct a pointer field (indirection depth 1) leads
// to. Use GetIter/GetVec instead for anything that can hold more than one
// record — a ListBase, a ValueArray of structs, or a pointer into a block
// whose count is greater than 1.
func (i Instance) Get(name string) Instance {
	tmpl, raw := i.expectField(name)

	switch v := tmpl.Info.(type) {
	case FieldValue:
		if tmpl.IsPrimitive {
			panic(fmt.Sprintf("blend: %s.%s is a primitive, use the typed Get*/Get*Vec accessors", i.typeName, name))
		}
		structIdx, ok := i.blend.structIndexByTypeIndex(tmpl.TypeIndex)
		if !ok {
			panic(fmt.Sprintf("blend: %s.%s: type %q has no resolvable struct layout", i.typeName, name, tmpl.TypeName))
		}
		return i.blend.newInstance(i.blockIndex, structIdx, BlockData{Bytes: raw, Count: 1})

	case FieldPointer:
		if v.IndirectionCount != 1 {
			panic(fmt.Sprintf("blend: %s.%s: Get only supports single-indirection pointers, use GetIter", i.typeName, name))
		}
		block, blockIdx, _, ok := i.resolvePointer(raw)
		if !ok {
			panic(fmt.Sprintf("blend: %s.%s: null or dangling pointer", i.typeName, name))
		}
		switch b := block.(type) {
		case SubsidiaryBlock:
			if b.Data.Count != 1 {
				panic(fmt.Sprintf("blend: %s.%s: target block holds %d records, use GetIter/GetVec", i.typeName, name, b.Data.Count))
			}
			structIdx, ok := resolveSubsidiaryType(&i.blend.raw.Dna, tmpl, b.DNAIndex)
			if !ok {
				panic(fmt.Sprintf("blend: %s.%s: target block has no resolvable struct type", i.typeName, name))
			}
			return i.blend.newInstance(blockIdx, structIdx, b.Data)
		case PrincipalBlock:
			return i.blend.newInstance(blockIdx, b.DNAIndex, b.Data)
		case GlobalBlock:
			return i.blend.newInstance(blockIdx, b.DNAIndex, b.Data)
		default:
			panic(fmt.Sprintf("blend: %s.%s: pointer resolves to a block with no data", i.typeName, name))
		}

	default:
		panic(fmt.Sprintf("blend: %s.%s is not struct-typed (got %T)", i.typeName, name, tmpl.Info))
	}
}

// GetVec eagerly collects GetIter into a slice. Prefer GetIter for large
// lists (e.g. a mesh's vertex array) to avoid holding every Instance at once.
func (i Instance) GetVec(name string) []Instance {
	var out []Instance
	for inst := range i.GetIter(name) {
		out = append(out, inst)
	}
	return out
}

// GetIter returns a lazy sequence over a field that may hold more than one
// record: a ListBase (intrusive linked list), a ValueArray of inline
// structs, a pointer into a block with count > 1, or an array of pointers.
// Each Instance is produced only as the caller's range loop asks for it,
// matching the file's own "parse nothing until asked" design (spec.md §5).
func (i Instance) GetIter(name string) iter.Seq[Instance] {
	tmpl, raw := i.expectField(name)

	return func(yield func(Instance) bool) {
		switch v := tmpl.Info.(type) {
		case FieldValue:
			if tmpl.TypeName != "ListBase" || tmpl.IsPrimitive {
				panic(fmt.Sprintf("blend: %s.%s is a plain struct field, use Get", i.typeName, name))
			}
			i.iterListBase(tmpl, raw, yield)

		case FieldValueArray:
			i.iterValueArray(tmpl, raw, yield)

		case FieldPointer:
			i.iterPointer(tmpl, raw, v.IndirectionCount, yield)

		case FieldPointerArray:
			i.iterPointerArray(tmpl, raw, v, yield)

		default:
			panic(fmt.Sprintf("blend: %s.%s is not iterable (got %T)", i.typeName, name, tmpl.Info))
		}
	}
}

// isValidIfPresent is like IsValid but returns false instead of panicking
// when the field doesn't exist on this instance's current type — used by
// the ListBase "Link fallback" below, which deliberately probes a field
// that may or may not be there.
func (i Instance) isValidIfPresent(name string) bool {
	if _, ok := i.fields.Get(name); !ok {
		return false
	}
	return i.IsValid(name)
}

// iterListBase walks an intrusive doubly-linked list headed by a ListBase
// struct (first/last void* fields). It yields the current instance and
// stops once it has yielded the one whose address equals the list's "last"
// pointer, advancing via "next" otherwise. Blender links most lists through
// a generic "Link" struct (next/prev only) rather than the caller's real
// element type; when the resolved instance doesn't itself carry a "next"
// field, it's unwrapped through its first declared field — typically the
// payload pointer embedding the real struct at the same address — until one
// does (spec.md §4.8, the "Link fallback").
func (i Instance) iterListBase(tmpl FieldTemplate, raw []byte, yield func(Instance) bool) {
	structIdx, ok := i.blend.structIndexByTypeIndex(tmpl.TypeIndex)
	if !ok {
		panic(fmt.Sprintf("blend: ListBase type %q has no resolvable struct layout", tmpl.TypeName))
	}
	listBase := i.blend.newInstance(i.blockIndex, structIdx, BlockData{Bytes: raw, Count: 1})
	if !listBase.isValidIfPresent("first") {
		return
	}
	lastAddr := listBase.peekPointer("last")

	cur := listBase.Get("first")
	for {
		// Unwrap only while "next" isn't a field NAME on the resolved type
		// at all — that's the opaque-Link case. A "next" field that exists
		// but is null/dangling is a real, valid end of the list and must
		// not trigger a further unwrap.
		resolved := cur
		for {
			if _, ok := resolved.fields.Get("next"); ok {
				break
			}
			name, _, ok := resolved.fields.first()
			if !ok {
				return
			}
			resolved = resolved.Get(name)
		}

		if !yield(resolved) {
			return
		}
		if resolved.MemoryAddress() == lastAddr {
			return
		}
		if !resolved.isValidIfPresent("next") {
			return
		}
		cur = resolved.Get("next")
	}
}

// iterValueArray yields each element of an inline array of structs, e.g.
// "MVert vertices[4]". Primitive ValueArrays are handled by the Get*Vec
// accessors in getters.go instead.
func (i Instance) iterValueArray(tmpl FieldTemplate, raw []byte, yield func(Instance) bool) {
	if tmpl.IsPrimitive {
		panic(fmt.Sprintf("blend: %s is a primitive array, use the typed Get*Vec accessors", tmpl.TypeName))
	}
	structIdx, ok := i.blend.structIndexByTypeIndex(tmpl.TypeIndex)
	if !ok {
		panic(fmt.Sprintf("blend: type %q has no resolvable struct layout", tmpl.TypeName))
	}
	elemSize := i.blend.raw.Dna.Types[i.blend.raw.Dna.Structs[structIdx].TypeIndex].BytesLen
	if elemSize == 0 {
		return
	}
	for off := 0; off+elemSize <= len(raw); off += elemSize {
		inst := i.blend.newInstance(i.blockIndex, structIdx, BlockData{Bytes: raw[off : off+elemSize], Count: 1})
		if !yield(inst) {
			return
		}
	}
}

// iterPointer yields the record(s) a pointer field leads to: every repeated
// struct packed into a Subsidiary block's data for a single-indirection
// pointer, or every further-resolved target for a double-indirection one
// (an array of pointers stored in a block, e.g. Mesh.mat).
func (i Instance) iterPointer(tmpl FieldTemplate, raw []byte, indirection int, yield func(Instance) bool) {
	block, blockIdx, _, ok := i.resolvePointer(raw)
	if !ok {
		return
	}

	switch indirection {
	case 1:
		i.yieldStructRecords(tmpl, block, blockIdx, yield)
	case 2:
		data, has := block.blockData()
		if !has {
			return
		}
		ps := i.blend.raw.Header.PointerSize
		e := i.endianness()
		for off := 0; off+ps <= len(data.Bytes); off += ps {
			addr := parsePointer(data.Bytes[off:off+ps], ps, e)
			if addr == 0 {
				continue
			}
			elemBlock, elemIdx, ok := i.blend.blockByAddress(addr)
			if !ok {
				continue
			}
			if !i.yieldStructRecords(tmpl, elemBlock, elemIdx, yield) {
				return
			}
		}
	default:
		panic(fmt.Sprintf("blend: unsupported pointer indirection depth %d", indirection))
	}
}

// iterPointerArray yields the resolved target of each pointer stored inline
// in a fixed-size pointer array field, e.g. "*mtex[18]". Null and dangling
// entries are skipped rather than treated as errors — Blender leaves these
// slots legitimately empty.
func (i Instance) iterPointerArray(tmpl FieldTemplate, raw []byte, info FieldPointerArray, yield func(Instance) bool) {
	if info.IndirectionCount != 1 {
		panic(fmt.Sprintf("blend: unsupported pointer array indirection depth %d", info.IndirectionCount))
	}
	ps := i.blend.raw.Header.PointerSize
	e := i.endianness()
	for idx := 0; idx < info.Len; idx++ {
		off := idx * ps
		addr := parsePointer(raw[off:off+ps], ps, e)
		if addr == 0 {
			continue
		}
		block, blockIdx, ok := i.blend.blockByAddress(addr)
		if !ok {
			continue
		}
		if !i.yieldStructRecords(tmpl, block, blockIdx, yield) {
			return
		}
	}
}

// yieldStructRecords yields every record packed into block's data as an
// instance of the type field's pointer resolves to (§4.8), stopping early
// (and reporting so to the caller) if yield asks to stop.
func (i Instance) yieldStructRecords(field FieldTemplate, block Block, blockIdx int, yield func(Instance) bool) bool {
	switch b := block.(type) {
	case SubsidiaryBlock:
		structIdx, ok := resolveSubsidiaryType(&i.blend.raw.Dna, field, b.DNAIndex)
		if !ok {
			panic(fmt.Sprintf("blend: %s.%s target block has no resolvable struct type", i.typeName, field.TypeName))
		}
		elemSize := i.blend.raw.Dna.Types[i.blend.raw.Dna.Structs[structIdx].TypeIndex].BytesLen
		if elemSize == 0 {
			return true
		}
		for k := 0; k < b.Data.Count; k++ {
			start := k * elemSize
			if start+elemSize > len(b.Data.Bytes) {
				break
			}
			inst := i.blend.newInstance(blockIdx, structIdx, BlockData{Bytes: b.Data.Bytes[start : start+elemSize], Count: 1})
			if !yield(inst) {
				return false
			}
		}
		return true
	case PrincipalBlock:
		return yield(i.blend.newInstance(blockIdx, b.DNAIndex, b.Data))
	case GlobalBlock:
		return yield(i.blend.newInstance(blockIdx, b.DNAIndex, b.Data))
	default:
		return true
	}
}
