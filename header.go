package blend

import "github.com/pkg/errors"

// magic is the fixed identifier every uncompressed .blend file starts with.
const magic = "BLENDER"

// headerSize is the fixed size, in bytes, of the file header.
const headerSize = 12

// FileHeader is the first 12 bytes of a .blend file: it fixes the pointer
// width and byte order used to decode everything that follows, plus the
// Blender version the file was saved from.
type FileHeader struct {
	// PointerSize is 4 or 8, decoded from the '_'/'-' marker byte.
	PointerSize int
	Endianness  Endianness
	// Version is the 3 ASCII digits following the endianness byte, e.g.
	// "280" for Blender 2.80. Kept as raw bytes: it's a display value, not
	// something this package parses into a number.
	Version [3]byte
}

// parseHeader reads and validates the fixed 12-byte file header. byte order
// cannot be known before this returns, so every decode after it (including
// errors.Wrap'ing a truncated read) uses only raw byte indexing.
func parseHeader(data []byte) (FileHeader, []byte, error) {
	if len(data) < headerSize {
		return FileHeader{}, nil, errors.Wrapf(ErrNotEnoughData, "header needs %d bytes, got %d", headerSize, len(data))
	}

	if string(data[:len(magic)]) != magic {
		return FileHeader{}, nil, ErrCompressedFileNotSupported
	}
	rest := data[len(magic):]

	var pointerSize int
	switch rest[0] {
	case '_':
		pointerSize = 4
	case '-':
		pointerSize = 8
	default:
		return FileHeader{}, nil, errors.Wrapf(ErrNotEnoughData, "unrecognized pointer size marker %q", rest[0])
	}

	var endianness Endianness
	switch rest[1] {
	case 'v':
		endianness = LittleEndian
	case 'V':
		endianness = BigEndian
	default:
		return FileHeader{}, nil, errors.Wrapf(ErrNotEnoughData, "unrecognized endianness marker %q", rest[1])
	}

	header := FileHeader{
		PointerSize: pointerSize,
		Endianness:  endianness,
		Version:     [3]byte{rest[2], rest[3], rest[4]},
	}

	return header, data[headerSize:], nil
}
