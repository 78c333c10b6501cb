package native

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTwoColumnBlock(t *testing.T) *ParsedBlock {
	t.Helper()
	buf := newBuf()
	buf.varuint(2)
	buf.varuint(2)
	buf.varstring("id").varstring("UInt32")
	buf.u32(1).u32(2)
	buf.varstring("name").varstring("String")
	buf.varstring("alice").varstring("bob")
	block, rest, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)
	require.Empty(t, rest)
	return block
}

func TestBlocksIteratorFlattensRows(t *testing.T) {
	b1 := buildTwoColumnBlock(t)
	b2 := buildTwoColumnBlock(t)
	it := NewBlocksIterator([]*ParsedBlock{b1, b2})

	var seen []string
	for {
		row, ok := it.Next()
		if !ok {
			break
		}
		v, err := row.GetByName("name")
		require.NoError(t, err)
		s, ok, err := row.Block.Marks[row.Block.ColumnIndex("name")].GetStr(v.Row)
		require.NoError(t, err)
		require.True(t, ok)
		seen = append(seen, s)
	}
	require.Equal(t, []string{"alice", "bob", "alice", "bob"}, seen)
}

func TestReorderBringsNamedColumnsFirst(t *testing.T) {
	block := buildTwoColumnBlock(t)
	reordered, err := block.Reorder([]string{"name"})
	require.NoError(t, err)
	require.Equal(t, []string{"name", "id"}, reordered.ColumnNames)

	s, ok, err := reordered.Marks[0].GetStr(0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", s)
}

func TestReorderMissingColumnReportsInvalidOrder(t *testing.T) {
	block := buildTwoColumnBlock(t)
	_, err := block.Reorder([]string{"missing"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidColumnOrder))
}

func TestReorderPreservesRelativeOrderOfUnlistedColumns(t *testing.T) {
	buf := newBuf()
	buf.varuint(3)
	buf.varuint(1)
	buf.varstring("a").varstring("UInt8").u8(1)
	buf.varstring("b").varstring("UInt8").u8(2)
	buf.varstring("c").varstring("UInt8").u8(3)
	block, _, err := DecodeBlock(buf.bytes())
	require.NoError(t, err)

	reordered, err := block.Reorder([]string{"c"})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "b"}, reordered.ColumnNames)
}
