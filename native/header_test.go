package native

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecodeJSONWireOrder pins the two-loop JSON header layout: every
// path's scalar header fields (version, max/total types, type text,
// variant version) are read for ALL paths before any path's recursive
// type header is decoded. A column whose header has non-zero width
// (LowCardinality here) after a column with a zero-width header catches
// any regression that interleaves the two loops.
func TestDecodeJSONWireOrder(t *testing.T) {
	buf := newBuf()
	buf.varuint(1) // numCols
	buf.varuint(2) // numRows

	buf.varstring("doc")
	buf.varstring("JSON")

	// --- header ---
	buf.u64(0)     // version
	buf.varuint(0) // legacy path count, ignored
	buf.varuint(2) // numPaths
	buf.varstring("a")
	buf.varstring("b")
	// scalar metadata, path "a" then path "b", both before any recursive header
	buf.u64(0).varuint(1).varuint(1).varstring("UInt32").u64(0)
	buf.u64(0).varuint(1).varuint(1).varstring("LowCardinality(String)").u64(0)
	// recursive headers, same order: "a" (UInt32, zero bytes), "b" (LC version word)
	buf.u64(1)

	// --- payload ---
	// path "a": row0 present, row1 absent
	buf.u8(0).u8(255)
	buf.u32(7) // one present row

	// path "b": row0 absent, row1 present
	buf.u8(255).u8(0)
	buf.u64(1 << 8) // flags: UInt8 indices, global dictionary present
	buf.u64(1)
	buf.varstring("hey")
	buf.u64(1)
	buf.u8(0)

	buf.raw(make([]byte, 2*8)...) // shared-data trailer, numRows*8 bytes

	block, rest, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)
	require.Empty(t, rest)

	mark := block.Marks[0]
	require.Equal(t, MJSON, mark.Kind)
	require.Equal(t, []string{"a", "b"}, mark.Paths)

	pathA := mark.ColumnHeaders[0]
	require.Equal(t, byte(0), pathA.Discriminators[0])
	require.Equal(t, byte(255), pathA.Discriminators[1])
	v, ok, err := pathA.Mark.GetU32(pathA.Offsets[0])
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint32(7), v)

	pathB := mark.ColumnHeaders[1]
	require.Equal(t, byte(255), pathB.Discriminators[0])
	require.Equal(t, byte(0), pathB.Discriminators[1])
	s, ok, err := pathB.Mark.GetStr(pathB.Offsets[1])
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hey", s)
}

func TestDecodeDynamicHeaderSortsAndAppendsSharedVariant(t *testing.T) {
	buf := newBuf()
	buf.varuint(1)
	buf.varuint(1)
	buf.varstring("v")
	buf.varstring("Dynamic")

	buf.u64(0) // version (not 1, so no legacy count follows)
	buf.varuint(2)
	buf.varstring("UInt8")
	buf.varstring("String")
	// sorted order across {"SharedVariant","String","UInt8"}: SharedVariant, String, UInt8
	buf.u64(0) // variant mode word
	// each child header: SharedVariant consumes 0 header bytes, String HEmpty, UInt8 HEmpty.

	// payload: one row, discriminator selects which sorted child holds it.
	// sorted index: 0=SharedVariant,1=String,2=UInt8 -> pick UInt8 (index 2)
	buf.varuint(2) // varuint discriminator
	buf.u8(9)       // UInt8 payload value for that one row

	block, rest, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)
	require.Empty(t, rest)

	mark := block.Marks[0]
	require.Equal(t, MDynamic, mark.Kind)
	require.Equal(t, uint64(2), mark.DiscriminatorsVar[0])
	v, ok := mark.Columns[2].Data.Uint8(mark.DOffsets[0])
	require.True(t, ok)
	require.Equal(t, uint8(9), v)
}
