package blend

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FieldInfo is the structural kind of an SDNA field, independent of its
// named type: a plain value, an array of values, a pointer (at some
// indirection depth), an array of pointers, or a function pointer. It is a
// closed set, modeled as a marker interface implemented by the five structs
// below rather than reflecting Go's own type system into SDNA identifiers
// (design notes §9).
type FieldInfo interface {
	isFieldInfo()
}

// FieldValue is a plain, non-array field: a primitive or an inline struct.
type FieldValue struct{}

// FieldValueArray is a fixed-size array of values, possibly multi-dimensional
// (e.g. "co[3]" or "mat[4][4]"). Len is the product of Dimensions.
type FieldValueArray struct {
	Len        int
	Dimensions []int
}

// FieldPointer is a pointer field. IndirectionCount is the number of leading
// asterisks in the SDNA name ("*next" -> 1, "**matrices" -> 2).
type FieldPointer struct {
	IndirectionCount int
}

// FieldPointerArray is an inline array of pointers ("*poly[4]").
type FieldPointerArray struct {
	IndirectionCount int
	Len              int
	Dimensions       []int
}

// FieldFnPointer is a C function pointer field, e.g. "(*poin)()". Blend files
// never have anything meaningful behind these; the parameter list is
// discarded entirely.
type FieldFnPointer struct{}

func (FieldValue) isFieldInfo()        {}
func (FieldValueArray) isFieldInfo()   {}
func (FieldPointer) isFieldInfo()      {}
func (FieldPointerArray) isFieldInfo() {}
func (FieldFnPointer) isFieldInfo()    {}

// ParseFieldName parses a raw SDNA field-name string — e.g. "*name",
// "**mat", "uv[2]", "co[3][3]", "(*poin)()" — into the clean identifier and
// its structural FieldInfo. It is meant to run once per struct, at field
// template generation time (template.go), not on every field access.
func ParseFieldName(raw string) (string, FieldInfo, error) {
	if strings.HasPrefix(raw, "(*") {
		return parseFnPointerName(raw)
	}

	rest := raw
	indirection := 0
	for len(rest) > 0 && rest[0] == '*' {
		indirection++
		rest = rest[1:]
	}

	name, dims, err := splitArrayDimensions(rest)
	if err != nil {
		return "", nil, err
	}

	switch {
	case indirection > 0 && len(dims) > 0:
		return name, FieldPointerArray{
			IndirectionCount: indirection,
			Len:              product(dims),
			Dimensions:       dims,
		}, nil
	case indirection > 0:
		return name, FieldPointer{IndirectionCount: indirection}, nil
	case len(dims) > 0:
		return name, FieldValueArray{Len: product(dims), Dimensions: dims}, nil
	default:
		return name, FieldValue{}, nil
	}
}

func parseFnPointerName(raw string) (string, FieldInfo, error) {
	rest := raw[len("(*"):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return "", nil, errors.Wrapf(ErrInvalidFieldName, "%q: unterminated function pointer name", raw)
	}
	name := rest[:end]
	afterName := rest[end+1:]
	if !strings.HasPrefix(afterName, "(") || !strings.HasSuffix(afterName, ")") {
		return "", nil, errors.Wrapf(ErrInvalidFieldName, "%q: malformed function pointer parameter list", raw)
	}
	return name, FieldFnPointer{}, nil
}

// splitArrayDimensions splits a name like "mat[4][4]" into "mat" and
// [4, 4]. A name with no "[" returns a nil dimension slice.
func splitArrayDimensions(s string) (string, []int, error) {
	idx := strings.IndexByte(s, '[')
	if idx < 0 {
		return s, nil, nil
	}

	name := s[:idx]
	rest := s[idx:]
	var dims []int
	for len(rest) > 0 {
		if rest[0] != '[' {
			return "", nil, errors.Wrapf(ErrInvalidFieldName, "%q: malformed array dimensions", s)
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, errors.Wrapf(ErrInvalidFieldName, "%q: unterminated array dimension", s)
		}
		n, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, errors.Wrapf(ErrInvalidFieldName, "%q: array size %q is not numeric", s, rest[1:end])
		}
		dims = append(dims, n)
		rest = rest[end+1:]
	}

	return name, dims, nil
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}
