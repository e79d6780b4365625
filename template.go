package blend

import "fmt"

// FieldTemplate describes how to interpret one field of a struct against
// the still-raw bytes of an Instance: its structural kind, its SDNA type,
// and where its bytes live within the owning struct.
type FieldTemplate struct {
	Info FieldInfo
	// TypeIndex is this field's type, as an index into Dna.Types.
	TypeIndex int
	// TypeName is TypeIndex resolved to a name, cached here since it's
	// consulted on essentially every access (typed getters, pretty-printing).
	TypeName string
	// DataStart/DataLen locate this field's bytes within the owning
	// Instance's data: fields are laid out back-to-back with no padding
	// (design notes §9), so DataStart is just the running sum of prior
	// fields' DataLen.
	DataStart int
	DataLen   int
	// IsPrimitive is true when TypeIndex falls in the first 12 reserved
	// primitive slots of Dna.Types.
	IsPrimitive bool
}

// FieldTemplates is the ordered field-name -> FieldTemplate map spec.md
// calls out as an invariant (field insertion order must be preserved). Go
// has no ordered map in the standard library and none of the example
// pack's dependency surface offers one (see DESIGN.md), so this pairs a
// slice (for order) with a map (for O(1) lookup) — the same shape the
// pack's other binary-format tools reach for when they need declaration
// order preserved alongside name lookup.
type FieldTemplates struct {
	order  []string
	byName map[string]FieldTemplate
}

func newFieldTemplates(n int) *FieldTemplates {
	return &FieldTemplates{
		order:  make([]string, 0, n),
		byName: make(map[string]FieldTemplate, n),
	}
}

func (t *FieldTemplates) insert(name string, tmpl FieldTemplate) {
	if _, exists := t.byName[name]; !exists {
		t.order = append(t.order, name)
	}
	t.byName[name] = tmpl
}

// Get returns the template for a field by name, and whether it exists.
func (t *FieldTemplates) Get(name string) (FieldTemplate, bool) {
	tmpl, ok := t.byName[name]
	return tmpl, ok
}

// Names returns field names in declaration order.
func (t *FieldTemplates) Names() []string {
	return t.order
}

// Len returns the number of fields.
func (t *FieldTemplates) Len() int {
	return len(t.order)
}

// first returns the first field, used by the ListBase "link fallback" to
// dereference a wrapper field when "next" isn't present at the current
// type (spec.md §4.8).
func (t *FieldTemplates) first() (string, FieldTemplate, bool) {
	if len(t.order) == 0 {
		return "", FieldTemplate{}, false
	}
	name := t.order[0]
	return name, t.byName[name], true
}

// generateFields walks a struct's fields in declaration order and computes
// their offsets and structural kinds. It panics if the SDNA is internally
// inconsistent (field lengths don't sum to the type's reported size) —
// this is a fatal contract violation (spec.md invariant 2), not a
// recoverable error, since it can only mean the file's own type catalog
// contradicts itself.
func generateFields(dnaStruct DnaStruct, dna *Dna, pointerSize int) *FieldTemplates {
	templates := newFieldTemplates(len(dnaStruct.Fields))
	dataStart := 0

	for _, field := range dnaStruct.Fields {
		fieldType := dna.Types[field.TypeIndex]
		rawName := dna.Names[field.NameIndex]
		isPrimitive := field.TypeIndex < primitiveTypeThreshold

		name, info, err := ParseFieldName(rawName)
		if err != nil {
			panic(fmt.Sprintf("blend: field name %q could not be parsed: %v", rawName, err))
		}

		var dataLen int
		switch v := info.(type) {
		case FieldPointer:
			dataLen = pointerSize
		case FieldFnPointer:
			dataLen = pointerSize
		case FieldPointerArray:
			dataLen = pointerSize * v.Len
		case FieldValueArray:
			dataLen = fieldType.BytesLen * v.Len
		case FieldValue:
			dataLen = fieldType.BytesLen
		default:
			panic(fmt.Sprintf("blend: unhandled FieldInfo %T", info))
		}

		templates.insert(name, FieldTemplate{
			Info:        info,
			TypeIndex:   field.TypeIndex,
			TypeName:    fieldType.Name,
			DataStart:   dataStart,
			DataLen:     dataLen,
			IsPrimitive: isPrimitive,
		})

		dataStart += dataLen
	}

	dnaType := dna.Types[dnaStruct.TypeIndex]
	if dataStart != dnaType.BytesLen {
		panic(fmt.Sprintf(
			"blend: %s: field lengths sum to %d bytes but the type reports %d (%v)",
			dnaType.Name, dataStart, dnaType.BytesLen, ErrInconsistentSDNA,
		))
	}

	return templates
}

// resolveSubsidiaryType implements the type-resolution table of spec.md
// §4.8: when following a pointer into a Subsidiary ("DATA") block, the
// block's own dna_index is trusted whenever it is at or above the primitive
// threshold; otherwise the pointing field's type_index is used instead, and
// if neither is at or above the threshold the block is an opaque primitive
// blob (no struct type at all, ok == false). It returns an index into
// Dna.Structs, leaving field-template generation (and caching) to the caller.
func resolveSubsidiaryType(dna *Dna, field FieldTemplate, blockDnaIndex int) (structIndex int, ok bool) {
	if field.TypeIndex >= primitiveTypeThreshold {
		if blockDnaIndex >= primitiveTypeThreshold {
			return blockDnaIndex, true
		}
		return findStructIndexByTypeIndex(dna, field.TypeIndex)
	}

	if blockDnaIndex >= primitiveTypeThreshold {
		return blockDnaIndex, true
	}
	return 0, false
}

func findStructIndexByTypeIndex(dna *Dna, typeIndex int) (int, bool) {
	for i, s := range dna.Structs {
		if s.TypeIndex == typeIndex {
			return i, true
		}
	}
	return 0, false
}
