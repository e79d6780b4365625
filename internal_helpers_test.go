package blend

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// Synthetic byte-buffer builders used across this package's tests, in the
// same spirit as the teacher's reader_test.go header()/rawHeader() helpers:
// no real .blend fixtures exist in this repository, so tests construct the
// minimal byte shapes each layer expects by hand.

func order(e Endianness) binary.ByteOrder {
	return e.order()
}

func putU16(buf *bytes.Buffer, v uint16, e Endianness) {
	b := make([]byte, 2)
	order(e).PutUint16(b, v)
	buf.Write(b)
}

func putU32(buf *bytes.Buffer, v uint32, e Endianness) {
	b := make([]byte, 4)
	order(e).PutUint32(b, v)
	buf.Write(b)
}

func putU64(buf *bytes.Buffer, v uint64, e Endianness) {
	b := make([]byte, 8)
	order(e).PutUint64(b, v)
	buf.Write(b)
}

func putPointer(buf *bytes.Buffer, v uint64, pointerSize int, e Endianness) {
	if pointerSize == 4 {
		putU32(buf, uint32(v), e)
		return
	}
	putU64(buf, v, e)
}

func putF32(buf *bytes.Buffer, v float32, e Endianness) {
	putU32(buf, math.Float32bits(v), e)
}

// buildHeader returns a 12-byte file header for the given pointer size (4
// or 8) and endianness.
func buildHeader(pointerSize int, e Endianness) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	if pointerSize == 4 {
		buf.WriteByte('_')
	} else {
		buf.WriteByte('-')
	}
	if e == BigEndian {
		buf.WriteByte('V')
	} else {
		buf.WriteByte('v')
	}
	buf.WriteString("280")
	return buf.Bytes()
}

func pad4Bytes(n int) []byte {
	return make([]byte, pad4(n))
}

// cStringSection encodes a NAME/TYPE-shaped section: tag, u32 count, each
// string NUL-terminated, padded to a 4-byte boundary.
func cStringSection(tag string, strs []string, e Endianness) []byte {
	var buf bytes.Buffer
	buf.WriteString(tag)
	putU32(&buf, uint32(len(strs)), e)
	consumed := 0
	for _, s := range strs {
		buf.WriteString(s)
		buf.WriteByte(0)
		consumed += len(s) + 1
	}
	buf.Write(pad4Bytes(consumed))
	return buf.Bytes()
}

func tlenSection(sizes []int, e Endianness) []byte {
	var buf bytes.Buffer
	buf.WriteString("TLEN")
	for _, s := range sizes {
		putU16(&buf, uint16(s), e)
	}
	buf.Write(pad4Bytes(len(sizes) * 2))
	return buf.Bytes()
}

func strcSection(structs []DnaStruct, e Endianness) []byte {
	var buf bytes.Buffer
	buf.WriteString("STRC")
	putU32(&buf, uint32(len(structs)), e)
	for _, s := range structs {
		putU16(&buf, uint16(s.TypeIndex), e)
		putU16(&buf, uint16(len(s.Fields)), e)
		for _, f := range s.Fields {
			putU16(&buf, uint16(f.TypeIndex), e)
			putU16(&buf, uint16(f.NameIndex), e)
		}
	}
	return buf.Bytes()
}

// primitiveTypeCatalog returns the 12 reserved primitive type names and
// sizes SDNA always begins its type table with.
func primitiveTypeCatalog() ([]string, []int) {
	names := []string{"char", "uchar", "short", "ushort", "int", "long", "ulong", "float", "double", "int64_t", "uint64_t", "void"}
	sizes := []int{1, 1, 2, 2, 4, 4, 4, 4, 8, 8, 8, 0}
	return names, sizes
}

// buildDna assembles a full DNA1 payload (the "SDNA" tag plus NAME, TYPE,
// TLEN and STRC sections) from a name table, a list of non-primitive type
// names/sizes appended after the primitive catalog, and a list of structs.
func buildDna(names []string, extraTypeNames []string, extraTypeSizes []int, structs []DnaStruct, e Endianness) []byte {
	primNames, primSizes := primitiveTypeCatalog()
	allTypeNames := append(append([]string{}, primNames...), extraTypeNames...)
	allSizes := append(append([]int{}, primSizes...), extraTypeSizes...)

	var buf bytes.Buffer
	buf.WriteString("SDNA")
	buf.Write(cStringSection("NAME", names, e))
	buf.Write(cStringSection("TYPE", allTypeNames, e))
	buf.Write(tlenSection(allSizes, e))
	buf.Write(strcSection(structs, e))
	return buf.Bytes()
}

// blockRecord encodes one block: code, size, address, dna index, count,
// then the payload itself.
func blockRecord(code [4]byte, address uint64, dnaIndex, count uint32, payload []byte, pointerSize int, e Endianness) []byte {
	var buf bytes.Buffer
	buf.Write(code[:])
	putU32(&buf, uint32(len(payload)), e)
	putPointer(&buf, address, pointerSize, e)
	putU32(&buf, dnaIndex, e)
	putU32(&buf, count, e)
	buf.Write(payload)
	return buf.Bytes()
}

func endBlock() []byte {
	return []byte("ENDB")
}

// buildGettersScenario assembles a byte stream exercising the typed scalar
// getters, GetString, struct/pointer/pointer-array/double-pointer access,
// and IsValid: three "Camera" root objects (for scalar and type-mismatch
// checks), a "Curve" pointing at a packed-float blob (S6-style), a
// "MatHolder" with a pointer array at the Cameras, a "DoublePtr" with a
// pointer-to-pointer-array at the Cameras, an "Id" with both a char
// value-array and a bare char value, and a "Mesh" pointing at a two-record
// block of "MVert" structs (the Mesh.mvert[*].co shape of seed test S6).
// Shared across getters_test.go, instance_test.go and structaccess_test.go.
func buildGettersScenario(t *testing.T) []byte {
	t.Helper()
	e := LittleEndian
	ps := 8

	names := []string{
		"lens", "clip", "*widths", "*cams[3]", "**layers",
		"name[8]", "initial", "co[3]", "*verts",
	}
	structs := []DnaStruct{
		{TypeIndex: 12, Fields: []DnaField{{TypeIndex: 7, NameIndex: 0}, {TypeIndex: 4, NameIndex: 1}}}, // Camera
		{TypeIndex: 13, Fields: []DnaField{{TypeIndex: 7, NameIndex: 2}}},                               // Curve
		{TypeIndex: 14, Fields: []DnaField{{TypeIndex: 12, NameIndex: 3}}},                              // MatHolder
		{TypeIndex: 15, Fields: []DnaField{{TypeIndex: 12, NameIndex: 4}}},                              // DoublePtr
		{TypeIndex: 16, Fields: []DnaField{{TypeIndex: 0, NameIndex: 5}, {TypeIndex: 0, NameIndex: 6}}}, // Id
		{TypeIndex: 17, Fields: []DnaField{{TypeIndex: 7, NameIndex: 7}}},                               // MVert
		{TypeIndex: 18, Fields: []DnaField{{TypeIndex: 17, NameIndex: 8}}},                              // Mesh
	}
	dnaPayload := buildDna(names,
		[]string{"Camera", "Curve", "MatHolder", "DoublePtr", "Id", "MVert", "Mesh"},
		[]int{8, 8, 24, 8, 9, 12, 8},
		structs, e)

	camera := func(lens float32, clip int32) []byte {
		var b bytes.Buffer
		putF32(&b, lens, e)
		putU32(&b, uint32(clip), e)
		return b.Bytes()
	}
	singlePointer := func(addr uint64) []byte {
		var b bytes.Buffer
		putPointer(&b, addr, ps, e)
		return b.Bytes()
	}
	threePointers := func(a, b2, c uint64) []byte {
		var b bytes.Buffer
		putPointer(&b, a, ps, e)
		putPointer(&b, b2, ps, e)
		putPointer(&b, c, ps, e)
		return b.Bytes()
	}
	floatBlob := func(vs ...float32) []byte {
		var b bytes.Buffer
		for _, v := range vs {
			putF32(&b, v, e)
		}
		return b.Bytes()
	}

	var buf bytes.Buffer
	buf.Write(buildHeader(ps, e))

	buf.Write(blockRecord([4]byte{'C', 'A', 0, 0}, 0x100, 0, 1, camera(1.5, 42), ps, e))
	buf.Write(blockRecord([4]byte{'C', 'A', 0, 0}, 0x200, 0, 1, camera(2.5, 7), ps, e))
	buf.Write(blockRecord([4]byte{'C', 'A', 0, 0}, 0x300, 0, 1, camera(3.5, 9), ps, e))

	buf.Write(blockRecord([4]byte{'C', 'U', 0, 0}, 0x400, 1, 1, singlePointer(0x500), ps, e))
	buf.Write(blockRecord([4]byte{'D', 'A', 'T', 'A'}, 0x500, 0, 1, floatBlob(1, 2, 3), ps, e))

	buf.Write(blockRecord([4]byte{'M', 'H', 0, 0}, 0x600, 2, 1, threePointers(0x100, 0x200, 0x300), ps, e))

	buf.Write(blockRecord([4]byte{'D', 'P', 0, 0}, 0x700, 3, 1, singlePointer(0x800), ps, e))
	buf.Write(blockRecord([4]byte{'D', 'A', 'T', 'A'}, 0x800, 0, 1, func() []byte {
		var b bytes.Buffer
		putPointer(&b, 0x100, ps, e)
		putPointer(&b, 0x200, ps, e)
		return b.Bytes()
	}(), ps, e))

	idPayload := func() []byte {
		var b bytes.Buffer
		b.WriteString("Suzanne")
		b.WriteByte(0)
		b.WriteByte('S')
		return b.Bytes()
	}()
	buf.Write(blockRecord([4]byte{'I', 'D', 0, 0}, 0x900, 4, 1, idPayload, ps, e))

	buf.Write(blockRecord([4]byte{'M', 'E', 0, 0}, 0xA00, 6, 1, singlePointer(0xB00), ps, e))
	buf.Write(blockRecord([4]byte{'D', 'A', 'T', 'A'}, 0xB00, 5, 2, floatBlob(1, 2, 3, 4, 5, 6), ps, e))

	buf.Write(blockRecord([4]byte{'C', 'U', 0, 0}, 0xC00, 1, 1, singlePointer(0), ps, e))
	buf.Write(blockRecord([4]byte{'C', 'U', 0, 0}, 0xD00, 1, 1, singlePointer(0xFFFF), ps, e))
	buf.Write(blockRecord([4]byte{'M', 'H', 0, 0}, 0xE00, 2, 1, threePointers(0x100, 0, 0x300), ps, e))

	buf.Write(blockRecord([4]byte{'D', 'N', 'A', '1'}, 0xF00, 0, 1, dnaPayload, ps, e))
	buf.Write(endBlock())

	return buf.Bytes()
}
