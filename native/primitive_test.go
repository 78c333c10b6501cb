package native

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadVarUintSmall(t *testing.T) {
	v, rest, err := ReadVarUint([]byte{0x01, 0xff})
	require.NoError(t, err)
	require.Equal(t, uint64(1), v)
	require.Equal(t, []byte{0xff}, rest)
}

func TestReadVarUintMultiByte(t *testing.T) {
	// 300 = 0b1_0010_1100 -> low 7 bits 0b0101100=0x2c with continuation,
	// then remaining 0b10 = 2.
	v, rest, err := ReadVarUint([]byte{0xac, 0x02})
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
	require.Empty(t, rest)
}

func TestReadVarUintTruncated(t *testing.T) {
	_, _, err := ReadVarUint([]byte{0x80})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrLength))
}

func TestReadVarUintTenthByteOverflow(t *testing.T) {
	// Nine continuation bytes then a tenth with its continuation bit set:
	// an eleventh byte would be needed, so this is an overflow, not a
	// truncation.
	input := make([]byte, 10)
	for i := 0; i < 9; i++ {
		input[i] = 0x80
	}
	input[9] = 0x80
	_, _, err := ReadVarUint(input)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOverflow))
}

func TestReadVarUintTenthByteTooLarge(t *testing.T) {
	input := make([]byte, 10)
	for i := 0; i < 9; i++ {
		input[i] = 0x80
	}
	input[9] = 0x02 // must be 0 or 1
	_, _, err := ReadVarUint(input)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrOverflow))
}

func TestReadVarUintMaxTenthByte(t *testing.T) {
	input := make([]byte, 10)
	for i := 0; i < 9; i++ {
		input[i] = 0xff
	}
	input[9] = 0x01
	v, rest, err := ReadVarUint(input)
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), v)
	require.Empty(t, rest)
}

func TestReadVarStringRejectsInvalidUtf8(t *testing.T) {
	buf := newBuf().varuint(1).raw(0xff).bytes()
	_, _, err := ReadVarString(buf)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUtf8Decode))
}

func TestReadVarStringRoundTrip(t *testing.T) {
	buf := newBuf().varstring("hello").bytes()
	s, rest, err := ReadVarString(buf)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Empty(t, rest)
}

func TestOffsetRangeConvention(t *testing.T) {
	buf := newBuf().u64(2).u64(2).u64(5).bytes()
	offsets, rest, err := ReadOffsets(buf, 3)
	require.NoError(t, err)
	require.Empty(t, rest)

	s, e, ok := offsetRange(offsets, 0)
	require.True(t, ok)
	require.Equal(t, 0, s)
	require.Equal(t, 2, e)

	s, e, ok = offsetRange(offsets, 1)
	require.True(t, ok)
	require.Equal(t, 2, s)
	require.Equal(t, 2, e)

	s, e, ok = offsetRange(offsets, 2)
	require.True(t, ok)
	require.Equal(t, 2, s)
	require.Equal(t, 5, e)
}
