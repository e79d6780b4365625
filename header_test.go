package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	cases := []struct {
		name        string
		pointerSize int
		endianness  Endianness
	}{
		{"64-bit little endian", 8, LittleEndian},
		{"32-bit little endian", 4, LittleEndian},
		{"64-bit big endian", 8, BigEndian},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := buildHeader(tc.pointerSize, tc.endianness)
			header, rest, err := parseHeader(data)
			require.NoError(t, err)
			assert.Equal(t, tc.pointerSize, header.PointerSize)
			assert.Equal(t, tc.endianness, header.Endianness)
			assert.Equal(t, [3]byte{'2', '8', '0'}, header.Version)
			assert.Empty(t, rest)
		})
	}
}

func TestParseHeader_invalidMagic(t *testing.T) {
	data := append([]byte("NOTBLEND"), buildHeader(8, LittleEndian)[7:]...)
	_, _, err := parseHeader(data)
	require.ErrorIs(t, err, ErrCompressedFileNotSupported)
}

func TestParseHeader_truncated(t *testing.T) {
	data := buildHeader(8, LittleEndian)
	_, _, err := parseHeader(data[:6])
	require.ErrorIs(t, err, ErrNotEnoughData)
}

func TestParseHeader_unrecognizedPointerMarker(t *testing.T) {
	data := buildHeader(8, LittleEndian)
	data[7] = '?'
	_, _, err := parseHeader(data)
	require.Error(t, err)
}

func TestParseHeader_unrecognizedEndiannessMarker(t *testing.T) {
	data := buildHeader(8, LittleEndian)
	data[8] = '?'
	_, _, err := parseHeader(data)
	require.Error(t, err)
}
