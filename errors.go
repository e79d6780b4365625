package blend

import "github.com/pkg/errors"

// Sentinel errors returned from New/decode. Wrap with errors.Wrap/Wrapf for
// context; callers match the underlying kind with errors.Is.
var (
	// ErrCompressedFileNotSupported is returned when the input doesn't start
	// with the "BLENDER" magic. The file may be gzip-compressed; decompressing
	// it is the caller's responsibility, not this package's.
	ErrCompressedFileNotSupported = errors.New("blend: file does not start with the BLENDER magic (it may be gzip-compressed)")

	// ErrNotEnoughData is returned when the input ends before a record that
	// was announced (by a prior length field, or by the fixed header size)
	// finishes. The header parser also returns it, wrapped, when the
	// pointer-size or endianness marker byte is not recognized.
	ErrNotEnoughData = errors.New("blend: not enough data to finish parsing")

	// ErrUnknownBlockCode is returned for a block code that is neither a root
	// code, "DATA", "GLOB", "REND", "TEST", "DNA1", nor the "ENDB" terminator.
	ErrUnknownBlockCode = errors.New("blend: unknown block code")

	// ErrUnsupportedCountOnPrincipalBlock is returned when a principal (root)
	// block reports a count other than 1.
	ErrUnsupportedCountOnPrincipalBlock = errors.New("blend: principal block has count != 1")

	// ErrInvalidMemoryAddress is returned when a block's old memory address is
	// zero; zero is reserved to mean "null pointer" and can't identify a block.
	ErrInvalidMemoryAddress = errors.New("blend: block has a zero memory address")

	// ErrNoDnaBlockFound is returned when the block stream ends without a
	// DNA1 block immediately preceding ENDB.
	ErrNoDnaBlockFound = errors.New("blend: no DNA1 block found before ENDB")

	// ErrMalformedSDNA is returned when the DNA1 payload doesn't match the
	// fixed NAME/TYPE/TLEN/STRC layout (missing tag, truncated section, ...).
	ErrMalformedSDNA = errors.New("blend: malformed SDNA block")

	// ErrInvalidFieldName is returned by the field-name parser for a name
	// string it cannot make sense of (e.g. a non-numeric array size).
	ErrInvalidFieldName = errors.New("blend: invalid field name")

	// ErrInconsistentSDNA describes a struct whose field lengths don't sum to
	// its reported byte size — the file's SDNA contradicts itself. It is not
	// returned: generateFields panics and includes it in the panic message.
	ErrInconsistentSDNA = errors.New("blend: struct field lengths do not sum to the type's reported size")
)
