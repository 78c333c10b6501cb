package native

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColArrayComposesElementReader(t *testing.T) {
	buf := newBuf()
	buf.varuint(1)
	buf.varuint(2)
	buf.varstring("xs")
	buf.varstring("Array(UInt32)")
	buf.u64(2).u64(3)
	buf.u32(10).u32(20).u32(30)

	block, _, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)

	rows, err := ColArray[uint32](block.Marks[0], (*Mark).GetU32)
	require.NoError(t, err)
	require.Equal(t, [][]uint32{{10, 20}, {30}}, rows)
}

func TestColMapComposesKeyValueReaders(t *testing.T) {
	buf := newBuf()
	buf.varuint(1)
	buf.varuint(1)
	buf.varstring("m")
	buf.varstring("Map(String, UInt32)")
	buf.u64(2)
	buf.varstring("a").varstring("b")
	buf.u32(1).u32(2)

	block, _, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)

	rows, err := ColMap[string, uint32](block.Marks[0], (*Mark).GetStr, (*Mark).GetU32)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []MapEntry[string, uint32]{{Key: "a", Val: 1}, {Key: "b", Val: 2}}, rows[0])
}

func TestColLowCardinalityResolvesDictionary(t *testing.T) {
	buf := newBuf()
	buf.varuint(1)
	buf.varuint(3)
	buf.varstring("tag")
	buf.varstring("LowCardinality(String)")
	buf.u64(1)
	buf.u64(1 << 8)
	buf.u64(2)
	buf.varstring("red").varstring("blue")
	buf.u64(3)
	buf.u8(0).u8(1).u8(0)

	block, _, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)

	vals, present, err := ColLowCardinality[string](block.Marks[0], (*Mark).GetStr)
	require.NoError(t, err)
	require.Equal(t, []bool{true, true, true}, present)
	require.Equal(t, []string{"red", "blue", "red"}, vals)
}

func TestColUsizeWidensUInt16(t *testing.T) {
	buf := newBuf()
	buf.varuint(1)
	buf.varuint(1)
	buf.varstring("n")
	buf.varstring("UInt16")
	buf.u16(500)

	block, _, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)

	vals, present, err := ColUsize(block.Marks[0])
	require.NoError(t, err)
	require.Equal(t, []bool{true}, present)
	require.Equal(t, []uint64{500}, vals)
}
