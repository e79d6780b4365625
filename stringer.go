package blend

import (
	"fmt"
	"strings"
)

// String renders an Instance one level deep: every field name with a short
// description of its value, but without recursing into nested structs or
// lists (doing so naively can cycle forever — Blender data is full of
// back-references — and the original runtime this is adapted from guards
// its recursive printer with a seen-addresses set for exactly that reason;
// this runtime instead stops at depth 1 and leaves deeper traversal to
// GetIter/Get, which is what most callers want anyway).
func (i Instance) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", i.typeName)
	for _, name := range i.fields.Names() {
		tmpl, _ := i.fields.Get(name)
		fmt.Fprintf(&b, "    %s: %s\n", name, i.describeField(name, tmpl))
	}
	b.WriteString("}")
	return b.String()
}

func (i Instance) describeField(name string, tmpl FieldTemplate) string {
	switch v := tmpl.Info.(type) {
	case FieldValue:
		if tmpl.IsPrimitive {
			return i.describePrimitive(name, tmpl)
		}
		return fmt.Sprintf("<%s>", tmpl.TypeName)

	case FieldValueArray:
		if tmpl.IsPrimitive && tmpl.TypeName == "char" {
			return fmt.Sprintf("%q", i.GetString(name))
		}
		if tmpl.IsPrimitive {
			return fmt.Sprintf("<%d x %s>", v.Len, tmpl.TypeName)
		}
		return fmt.Sprintf("<%d x %s>", v.Len, tmpl.TypeName)

	case FieldPointer:
		if !i.isValidIfPresent(name) {
			return "<nil>"
		}
		return fmt.Sprintf("*%s @ 0x%x", tmpl.TypeName, i.peekPointer(name))

	case FieldPointerArray:
		return fmt.Sprintf("<%d x *%s>", v.Len, tmpl.TypeName)

	case FieldFnPointer:
		return "<function pointer>"

	default:
		return "<?>"
	}
}

func (i Instance) peekPointer(name string) uint64 {
	_, raw := i.expectField(name)
	return parsePointer(raw, i.blend.raw.Header.PointerSize, i.endianness())
}

// describePrimitive decodes a scalar field directly from its raw bytes
// rather than going through the typed Get*/canonical-name-checked
// accessors: the debug printer walks every field on an instance regardless
// of its SDNA type name (including ones like "uchar" that have no single
// canonical typed getter, per the original runtime's own "unknown
// primitive" gap in its Display impl, `runtime.rs:164`), so it must not be
// able to panic on a legitimately-typed field the way the strict getters
// are specified to.
func (i Instance) describePrimitive(name string, tmpl FieldTemplate) string {
	_, raw := i.expectField(name)
	e := i.endianness()
	switch tmpl.TypeName {
	case "char":
		return fmt.Sprintf("%d", parseI8(raw))
	case "uchar":
		return fmt.Sprintf("%d", parseU8(raw))
	case "short":
		return fmt.Sprintf("%d", parseI16(raw, e))
	case "ushort":
		return fmt.Sprintf("%d", parseU16(raw, e))
	case "int":
		return fmt.Sprintf("%d", parseI32(raw, e))
	case "long", "ulong":
		return fmt.Sprintf("%d", parseU32(raw, e))
	case "float":
		return fmt.Sprintf("%g", parseF32(raw, e))
	case "double":
		return fmt.Sprintf("%g", parseF64(raw, e))
	case "int64_t":
		return fmt.Sprintf("%d", parseI64(raw, e))
	case "uint64_t":
		return fmt.Sprintf("%d", parseU64(raw, e))
	default:
		return fmt.Sprintf("<%s>", tmpl.TypeName)
	}
}
