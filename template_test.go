package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDna() *Dna {
	primNames, primSizes := primitiveTypeCatalog()
	types := make([]DnaType, len(primNames))
	for i := range primNames {
		types[i] = DnaType{Name: primNames[i], BytesLen: primSizes[i]}
	}
	types = append(types, DnaType{Name: "Base", BytesLen: 24}) // index 12: int(4) + ptr(8) + float[3](12)
	names := []string{"a", "*next", "co[3]"}

	return &Dna{
		Names: names,
		Types: types,
		Structs: []DnaStruct{
			{
				TypeIndex: 12,
				Fields: []DnaField{
					{TypeIndex: 4, NameIndex: 0},  // int a
					{TypeIndex: 12, NameIndex: 1}, // Base *next
					{TypeIndex: 7, NameIndex: 2},  // float co[3]
				},
			},
		},
	}
}

func TestGenerateFields_offsetsAndLengths(t *testing.T) {
	dna := baseDna()
	templates := generateFields(dna.Structs[0], dna, 8)

	a, ok := templates.Get("a")
	require.True(t, ok)
	assert.Equal(t, 0, a.DataStart)
	assert.Equal(t, 4, a.DataLen)
	assert.True(t, a.IsPrimitive)

	next, ok := templates.Get("next")
	require.True(t, ok)
	assert.Equal(t, 4, next.DataStart)
	assert.Equal(t, 8, next.DataLen) // pointer size, not Base's own size
	assert.IsType(t, FieldPointer{}, next.Info)

	co, ok := templates.Get("co")
	require.True(t, ok)
	assert.Equal(t, 12, co.DataStart)
	assert.Equal(t, 12, co.DataLen) // 3 floats * 4 bytes
	assert.Equal(t, []string{"a", "next", "co"}, templates.Names())
}

func TestGenerateFields_panicsOnInconsistentSize(t *testing.T) {
	dna := baseDna()
	dna.Types[12] = DnaType{Name: "Base", BytesLen: 99} // now wrong

	assert.Panics(t, func() {
		generateFields(dna.Structs[0], dna, 8)
	})
}

// dnaWithStructIndexSpace builds a Dna whose Structs slice has entries at
// every index up to and including the real "Base" struct at index 12, so
// block dna_index values on both sides of the primitive threshold can be
// exercised: the SDNA format's block-header "dna_index" indexes directly
// into Dna.Structs, which is a different namespace than DnaField.TypeIndex
// (an index into Dna.Types) — §4.8's table compares the former against the
// same threshold as the latter, which is the quirk being tested here.
func dnaWithStructIndexSpace() *Dna {
	dna := baseDna()
	padded := make([]DnaStruct, primitiveTypeThreshold)
	for i := range padded {
		padded[i] = DnaStruct{TypeIndex: 0} // dummy, primitively typed
	}
	dna.Structs = append(padded, dna.Structs[0]) // Base now lives at index 12
	return dna
}

func TestResolveSubsidiaryType(t *testing.T) {
	dna := dnaWithStructIndexSpace()
	field := FieldTemplate{TypeIndex: 12} // non-primitive field type, matches Base

	// block's own dna_index (12) already names a non-primitive struct: trust it.
	idx, ok := resolveSubsidiaryType(dna, field, 12)
	require.True(t, ok)
	assert.Equal(t, 12, idx)

	// block's own dna_index (0) is primitive: fall back to looking up a
	// struct whose own TypeIndex matches the field's type_index.
	idx, ok = resolveSubsidiaryType(dna, field, 0)
	require.True(t, ok)
	assert.Equal(t, 12, idx)

	// neither the field nor the block names a resolvable struct: opaque.
	opaqueField := FieldTemplate{TypeIndex: 4}
	_, ok = resolveSubsidiaryType(dna, opaqueField, 0)
	assert.False(t, ok)
}
