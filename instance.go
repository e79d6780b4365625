package blend

import "fmt"

// Instance is a lazy, dynamically-typed view over one struct record's worth
// of bytes somewhere inside a Blend. It never copies or reinterprets data
// up front: field access walks into `data` on demand, using the template
// generated for its struct type. Accessor methods below are deliberately
// panic-happy — IsValid is the one pre-check callers are expected to make
// before touching a field that might be absent or null (spec.md §7); a
// missing field name, a type mismatch, or resolving a dangling pointer are
// all contract violations, not recoverable errors.
type Instance struct {
	blend     *Blend
	structIdx int
	typeName  string
	data      []byte
	// count is the number of repeated records living back-to-back in data
	// (a Subsidiary block's Data.Count); 1 for anything reached as a single
	// struct rather than an array of them.
	count int
	// blockIndex identifies the block this instance's bytes were sliced
	// from, so Code/MemoryAddress can consult it directly.
	blockIndex int
	fields     *FieldTemplates
}

// TypeName returns the SDNA struct name this instance was resolved against,
// e.g. "Object" or "Mesh".
func (i Instance) TypeName() string { return i.typeName }

// FieldNames returns this instance's field names in declaration order.
func (i Instance) FieldNames() []string { return i.fields.Names() }

// Code returns the 2-character block code and whether this instance backs a
// Principal root block; Subsidiary- and Global-backed instances have no
// code of their own.
func (i Instance) Code() (string, bool) {
	if p, ok := i.blend.raw.Blocks[i.blockIndex].(PrincipalBlock); ok {
		return string(p.Code[:]), true
	}
	return "", false
}

// MemoryAddress returns the preserved old memory address of the block this
// instance's data came from.
func (i Instance) MemoryAddress() uint64 {
	addr, _ := blockAddress(i.blend.raw.Blocks[i.blockIndex])
	return addr
}

// expectField looks up a field's template and the slice of i.data it owns.
// It panics if the field doesn't exist on this instance's type: callers are
// expected to know the schema of the type they're traversing, exactly as
// the original Rust runtime's expect_field does.
func (i Instance) expectField(name string) (FieldTemplate, []byte) {
	tmpl, ok := i.fields.Get(name)
	if !ok {
		panic(fmt.Sprintf("blend: %s has no field %q", i.typeName, name))
	}
	return tmpl, i.data[tmpl.DataStart : tmpl.DataStart+tmpl.DataLen]
}

// IsValid reports whether a field can be safely accessed: for pointer
// fields, whether the pointer is non-null and resolves to a known block;
// for plain value fields, always true since the bytes are already in hand.
// This is the only pre-check the runtime offers (spec.md §7) — traversal
// code is expected to call it before GetIter/Get on anything that might be
// a dangling or null link.
func (i Instance) IsValid(name string) bool {
	tmpl, raw := i.expectField(name)

	switch tmpl.Info.(type) {
	case FieldPointer, FieldFnPointer:
		addr := parsePointer(raw, i.blend.raw.Header.PointerSize, i.blend.raw.Header.Endianness)
		if addr == 0 {
			return false
		}
		_, _, ok := i.blend.blockByAddress(addr)
		return ok

	case FieldPointerArray:
		ps := i.blend.raw.Header.PointerSize
		for off := 0; off+ps <= len(raw); off += ps {
			addr := parsePointer(raw[off:off+ps], ps, i.blend.raw.Header.Endianness)
			if addr == 0 {
				continue
			}
			if _, _, ok := i.blend.blockByAddress(addr); !ok {
				return false
			}
		}
		return true

	default:
		return true
	}
}

// resolvePointer reads a single pointer-sized value out of raw and resolves
// it to the block it points at. ok is false for a null pointer or one that
// doesn't match any block's preserved address.
func (i Instance) resolvePointer(raw []byte) (block Block, blockIdx int, addr uint64, ok bool) {
	ps := i.blend.raw.Header.PointerSize
	addr = parsePointer(raw[:ps], ps, i.blend.raw.Header.Endianness)
	if addr == 0 {
		return nil, 0, 0, false
	}
	block, blockIdx, ok = i.blend.blockByAddress(addr)
	return block, blockIdx, addr, ok
}
