package blend

import (
	"bytes"
	"fmt"
	"slices"
)

// The typed getters below all follow the same shape: look up the field,
// confirm it's a primitive value of the expected width AND the expected
// canonical SDNA type name, and decode it with the instance's endianness.
// They panic on a type mismatch rather than returning an error — wrong-type
// field access is a programming error, not a data error, under this
// runtime's panic-happy contract (spec.md §7, seed test S5: "get_i32 on a
// float field aborts"), matching the original's get_value/BlendPrimitive
// match guard (`field.is_primitive && field.type_name == blender_type_name`).

func (i Instance) endianness() Endianness { return i.blend.raw.Header.Endianness }

func (i Instance) requirePrimitive(name string, wantLen int, wantTypeNames ...string) []byte {
	tmpl, raw := i.expectField(name)
	if _, ok := tmpl.Info.(FieldValue); !ok || !tmpl.IsPrimitive {
		panic(fmt.Sprintf("blend: %s.%s is not a primitive value (got %T)", i.typeName, name, tmpl.Info))
	}
	if !slices.Contains(wantTypeNames, tmpl.TypeName) {
		panic(fmt.Sprintf("blend: %s.%s has SDNA type %q, expected one of %v", i.typeName, name, tmpl.TypeName, wantTypeNames))
	}
	if len(raw) != wantLen {
		panic(fmt.Sprintf("blend: %s.%s is %d bytes, expected %d", i.typeName, name, len(raw), wantLen))
	}
	return raw
}

// getPrimitive applies a blenderPrimitive[T]'s canonical-name/size contract
// before decoding, wiring the capability type declared in primitive.go into
// every scalar accessor instead of leaving it unreferenced.
func getPrimitive[T any](i Instance, name string, p blenderPrimitive[T]) T {
	raw := i.requirePrimitive(name, p.size, p.blenderNames...)
	return p.parse(raw, i.endianness())
}

var (
	u8Primitive  = blenderPrimitive[uint8]{blenderNames: []string{"char"}, size: 1, parse: func(b []byte, _ Endianness) uint8 { return parseU8(b) }}
	i8Primitive  = blenderPrimitive[int8]{blenderNames: []string{"char"}, size: 1, parse: func(b []byte, _ Endianness) int8 { return parseI8(b) }}
	u16Primitive = blenderPrimitive[uint16]{blenderNames: []string{"ushort"}, size: 2, parse: parseU16}
	i16Primitive = blenderPrimitive[int16]{blenderNames: []string{"short"}, size: 2, parse: parseI16}
	u32Primitive = blenderPrimitive[uint32]{blenderNames: []string{"long", "ulong"}, size: 4, parse: parseU32}
	i32Primitive = blenderPrimitive[int32]{blenderNames: []string{"int"}, size: 4, parse: parseI32}
	f32Primitive = blenderPrimitive[float32]{blenderNames: []string{"float"}, size: 4, parse: parseF32}
	u64Primitive = blenderPrimitive[uint64]{blenderNames: []string{"uint64_t"}, size: 8, parse: parseU64}
	i64Primitive = blenderPrimitive[int64]{blenderNames: []string{"int64_t"}, size: 8, parse: parseI64}
	f64Primitive = blenderPrimitive[float64]{blenderNames: []string{"double"}, size: 8, parse: parseF64}
)

func (i Instance) GetU8(name string) uint8    { return getPrimitive(i, name, u8Primitive) }
func (i Instance) GetI8(name string) int8     { return getPrimitive(i, name, i8Primitive) }
func (i Instance) GetU16(name string) uint16  { return getPrimitive(i, name, u16Primitive) }
func (i Instance) GetI16(name string) int16   { return getPrimitive(i, name, i16Primitive) }
func (i Instance) GetU32(name string) uint32  { return getPrimitive(i, name, u32Primitive) }
func (i Instance) GetI32(name string) int32   { return getPrimitive(i, name, i32Primitive) }
func (i Instance) GetF32(name string) float32 { return getPrimitive(i, name, f32Primitive) }
func (i Instance) GetU64(name string) uint64  { return getPrimitive(i, name, u64Primitive) }
func (i Instance) GetI64(name string) int64   { return getPrimitive(i, name, i64Primitive) }
func (i Instance) GetF64(name string) float64 { return getPrimitive(i, name, f64Primitive) }

// GetString reads a char field as a NUL-terminated C string: either a fixed
// "char name[66]"-style ValueArray (Blender's usual name-buffer idiom,
// anything after the first NUL is padding, not content) or a bare
// non-array "char" Value field, which the original runtime also accepts
// (`FieldInfo::Value | FieldInfo::ValueArray` in get_string).
func (i Instance) GetString(name string) string {
	tmpl, raw := i.expectField(name)
	switch tmpl.Info.(type) {
	case FieldValueArray, FieldValue:
		if tmpl.TypeName != "char" {
			panic(fmt.Sprintf("blend: %s.%s is not a char field (got %T of %s)", i.typeName, name, tmpl.Info, tmpl.TypeName))
		}
	default:
		panic(fmt.Sprintf("blend: %s.%s is not a char field (got %T)", i.typeName, name, tmpl.Info))
	}
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		return string(raw[:idx])
	}
	return string(raw)
}

// vecBytes returns the raw bytes backing a fixed array field, or the raw
// bytes of a blob a single pointer field points at — the two shapes
// spec.md §4.7 describes for "array of primitive" access (an inline
// ValueArray, or a Pointer{1} into a packed Subsidiary blob) — after
// checking the element type's canonical SDNA name against wantTypeNames,
// the same guard the scalar getters apply.
func (i Instance) vecBytes(name string, wantTypeNames ...string) ([]byte, bool) {
	tmpl, raw := i.expectField(name)
	switch tmpl.Info.(type) {
	case FieldValueArray:
		if !slices.Contains(wantTypeNames, tmpl.TypeName) {
			panic(fmt.Sprintf("blend: %s.%s has element SDNA type %q, expected one of %v", i.typeName, name, tmpl.TypeName, wantTypeNames))
		}
		return raw, true
	case FieldPointer:
		if !slices.Contains(wantTypeNames, tmpl.TypeName) {
			panic(fmt.Sprintf("blend: %s.%s has element SDNA type %q, expected one of %v", i.typeName, name, tmpl.TypeName, wantTypeNames))
		}
		block, _, _, ok := i.resolvePointer(raw)
		if !ok {
			return nil, false
		}
		data, hasData := block.blockData()
		if !hasData {
			return nil, false
		}
		return data.Bytes, true
	default:
		panic(fmt.Sprintf("blend: %s.%s is not a primitive array (got %T)", i.typeName, name, tmpl.Info))
	}
}

func (i Instance) GetU8Vec(name string) []uint8 {
	raw, ok := i.vecBytes(name, "char")
	if !ok {
		return nil
	}
	out := make([]uint8, len(raw))
	copy(out, raw)
	return out
}

func (i Instance) GetI8Vec(name string) []int8 {
	raw, ok := i.vecBytes(name, "char")
	if !ok {
		return nil
	}
	out := make([]int8, len(raw))
	for k, b := range raw {
		out[k] = int8(b)
	}
	return out
}

func (i Instance) GetU16Vec(name string) []uint16  { return primitiveVec(i, name, u16Primitive) }
func (i Instance) GetI16Vec(name string) []int16   { return primitiveVec(i, name, i16Primitive) }
func (i Instance) GetU32Vec(name string) []uint32  { return primitiveVec(i, name, u32Primitive) }
func (i Instance) GetI32Vec(name string) []int32   { return primitiveVec(i, name, i32Primitive) }
func (i Instance) GetF32Vec(name string) []float32 { return primitiveVec(i, name, f32Primitive) }
func (i Instance) GetU64Vec(name string) []uint64  { return primitiveVec(i, name, u64Primitive) }
func (i Instance) GetI64Vec(name string) []int64   { return primitiveVec(i, name, i64Primitive) }
func (i Instance) GetF64Vec(name string) []float64 { return primitiveVec(i, name, f64Primitive) }

func primitiveVec[T any](i Instance, name string, p blenderPrimitive[T]) []T {
	raw, ok := i.vecBytes(name, p.blenderNames...)
	if !ok {
		return nil
	}
	n := len(raw) / p.size
	out := make([]T, n)
	e := i.endianness()
	for k := 0; k < n; k++ {
		out[k] = p.parse(raw[k*p.size:k*p.size+p.size], e)
	}
	return out
}
