package blend

import (
	"bytes"

	"github.com/pkg/errors"
)

// DnaType is one entry in the SDNA type table: a name ("int", "ListBase",
// "Object", ...) and its size in bytes as Blender's compiler recorded it.
// The first 12 entries are always primitives, by SDNA convention.
type DnaType struct {
	Name     string
	BytesLen int
}

// primitiveTypeThreshold is the number of reserved primitive type slots at
// the front of Dna.Types: char, uchar, short, ushort, int, long, ulong,
// float, double, int64_t, uint64_t, void.
const primitiveTypeThreshold = 12

// DnaField is one field of a DnaStruct: indices into Dna.Types and Dna.Names
// rather than inline strings, exactly as the file encodes them.
type DnaField struct {
	TypeIndex int
	NameIndex int
}

// DnaStruct is one struct layout: the index of its own type (in Dna.Types)
// and its fields in declaration order.
type DnaStruct struct {
	TypeIndex int
	Fields    []DnaField
}

// Dna is the parsed "DNA1" block: Blender's self-description of every
// struct layout, type and field name it knew about when the file was saved.
type Dna struct {
	Names   []string
	Types   []DnaType
	Structs []DnaStruct
}

// parseDna parses the payload of a "DNA1" block (the tag "SDNA" and its four
// fixed sub-sections: NAME, TYPE, TLEN, STRC).
func parseDna(data []byte, endianness Endianness) (Dna, error) {
	data, err := expectTag(data, "SDNA")
	if err != nil {
		return Dna{}, err
	}

	names, data, err := readCStringSection(data, "NAME", endianness)
	if err != nil {
		return Dna{}, err
	}

	typeNames, data, err := readCStringSection(data, "TYPE", endianness)
	if err != nil {
		return Dna{}, err
	}

	types, data, err := readTypeLengths(data, typeNames, endianness)
	if err != nil {
		return Dna{}, err
	}

	structs, _, err := readStructs(data, endianness)
	if err != nil {
		return Dna{}, err
	}

	return Dna{Names: names, Types: types, Structs: structs}, nil
}

func expectTag(data []byte, tag string) ([]byte, error) {
	if !bytes.HasPrefix(data, []byte(tag)) {
		return nil, errors.Wrapf(ErrMalformedSDNA, "expected tag %q", tag)
	}
	return data[len(tag):], nil
}

func pad4(n int) int {
	if rem := n % 4; rem != 0 {
		return 4 - rem
	}
	return 0
}

// readCStringSection reads a 4-byte tag, a u32 count, then that many
// NUL-terminated strings, padded with zero bytes to the next 4-byte
// boundary (spec.md §4.4/§6).
func readCStringSection(data []byte, tag string, endianness Endianness) ([]string, []byte, error) {
	data, err := expectTag(data, tag)
	if err != nil {
		return nil, nil, err
	}
	if len(data) < 4 {
		return nil, nil, errors.Wrapf(ErrMalformedSDNA, "truncated %s count", tag)
	}
	count := int(parseU32(data[:4], endianness))
	data = data[4:]

	strs := make([]string, count)
	consumed := 0
	for i := 0; i < count; i++ {
		idx := bytes.IndexByte(data, 0)
		if idx < 0 {
			return nil, nil, errors.Wrapf(ErrMalformedSDNA, "unterminated string in %s section", tag)
		}
		strs[i] = string(data[:idx])
		data = data[idx+1:]
		consumed += idx + 1
	}

	pad := pad4(consumed)
	if len(data) < pad {
		return nil, nil, errors.Wrapf(ErrMalformedSDNA, "truncated padding after %s section", tag)
	}
	data = data[pad:]

	return strs, data, nil
}

// readTypeLengths reads the "TLEN" section (one u16 size per type name
// already collected from TYPE) and zips it with typeNames into DnaType.
func readTypeLengths(data []byte, typeNames []string, endianness Endianness) ([]DnaType, []byte, error) {
	data, err := expectTag(data, "TLEN")
	if err != nil {
		return nil, nil, err
	}

	m := len(typeNames)
	need := m * 2
	if len(data) < need {
		return nil, nil, errors.Wrap(ErrMalformedSDNA, "truncated TLEN section")
	}

	types := make([]DnaType, m)
	for i := 0; i < m; i++ {
		size := parseU16(data[i*2:i*2+2], endianness)
		types[i] = DnaType{Name: typeNames[i], BytesLen: int(size)}
	}
	data = data[need:]

	pad := pad4(need)
	if len(data) < pad {
		return nil, nil, errors.Wrap(ErrMalformedSDNA, "truncated padding after TLEN section")
	}
	data = data[pad:]

	return types, data, nil
}

// readStructs reads the "STRC" section: a u32 count k, then k records of
// (u16 type_index, u16 field_count, field_count x (u16 field_type_index,
// u16 field_name_index)).
func readStructs(data []byte, endianness Endianness) ([]DnaStruct, []byte, error) {
	data, err := expectTag(data, "STRC")
	if err != nil {
		return nil, nil, err
	}
	if len(data) < 4 {
		return nil, nil, errors.Wrap(ErrMalformedSDNA, "truncated STRC count")
	}
	k := int(parseU32(data[:4], endianness))
	data = data[4:]

	structs := make([]DnaStruct, k)
	for i := 0; i < k; i++ {
		if len(data) < 4 {
			return nil, nil, errors.Wrap(ErrMalformedSDNA, "truncated struct record")
		}
		typeIndex := parseU16(data[0:2], endianness)
		fieldCount := parseU16(data[2:4], endianness)
		data = data[4:]

		fields := make([]DnaField, fieldCount)
		for f := 0; f < int(fieldCount); f++ {
			if len(data) < 4 {
				return nil, nil, errors.Wrap(ErrMalformedSDNA, "truncated struct field record")
			}
			fields[f] = DnaField{
				TypeIndex: int(parseU16(data[0:2], endianness)),
				NameIndex: int(parseU16(data[2:4], endianness)),
			}
			data = data[4:]
		}

		structs[i] = DnaStruct{TypeIndex: int(typeIndex), Fields: fields}
	}

	return structs, data, nil
}
