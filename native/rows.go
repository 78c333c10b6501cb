package native

import "sort"

// BlockRow is a cheap handle into one row of one decoded block: it carries
// no copied data, only the block pointer and a row index.
type BlockRow struct {
	Block *ParsedBlock
	Row   int
}

// Get resolves column colIdx at this row into a Value.
func (r BlockRow) Get(colIdx int) (Value, error) {
	if colIdx < 0 || colIdx >= len(r.Block.Marks) {
		return Value{}, errIndexOutOfBounds(colIdx, "column")
	}
	return r.Block.Marks[colIdx].Get(r.Row)
}

// GetByName resolves a column by name at this row.
func (r BlockRow) GetByName(name string) (Value, error) {
	idx := r.Block.ColumnIndex(name)
	if idx < 0 {
		return Value{}, errInvalidColumnOrder([]string{name})
	}
	return r.Get(idx)
}

// BlocksIterator flattens a sequence of blocks into a single row stream,
// advancing block-by-block once the current block's rows are exhausted.
type BlocksIterator struct {
	blocks []*ParsedBlock
	bi, ri int
}

func NewBlocksIterator(blocks []*ParsedBlock) *BlocksIterator {
	return &BlocksIterator{blocks: blocks}
}

// Next returns the next row and true, or a zero BlockRow and false once
// every block is exhausted.
func (it *BlocksIterator) Next() (BlockRow, bool) {
	for it.bi < len(it.blocks) {
		b := it.blocks[it.bi]
		if it.ri < b.NumRows {
			row := BlockRow{Block: b, Row: it.ri}
			it.ri++
			return row, true
		}
		it.bi++
		it.ri = 0
	}
	return BlockRow{}, false
}

// Reorder returns a new ParsedBlock (sharing the same underlying Marks)
// whose columns are rearranged so that the names in order come first, in
// that order; every other column keeps its original relative position,
// appended after. Every name in order must name an existing column, else
// ErrInvalidColumnOrder names the ones that don't.
func (b *ParsedBlock) Reorder(order []string) (*ParsedBlock, error) {
	orderIndex := make(map[string]int, len(order))
	for i, name := range order {
		orderIndex[name] = i
	}

	var missing []string
	for _, name := range order {
		if b.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errInvalidColumnOrder(missing)
	}

	numCols := len(b.ColumnNames)
	type keyedCol struct {
		key int
		idx int
	}
	keys := make([]keyedCol, numCols)
	for i, name := range b.ColumnNames {
		if oi, ok := orderIndex[name]; ok {
			keys[i] = keyedCol{key: oi, idx: i}
		} else {
			// Unordered columns sort after every ordered one, and keep
			// their original relative order among themselves.
			keys[i] = keyedCol{key: numCols + i, idx: i}
		}
	}
	sort.SliceStable(keys, func(a, c int) bool { return keys[a].key < keys[c].key })

	out := &ParsedBlock{
		ColumnNames: make([]string, numCols),
		ColumnTypes: make([]*Type, numCols),
		Marks:       make([]*Mark, numCols),
		NumRows:     b.NumRows,
	}
	for newPos, k := range keys {
		out.ColumnNames[newPos] = b.ColumnNames[k.idx]
		out.ColumnTypes[newPos] = b.ColumnTypes[k.idx]
		out.Marks[newPos] = b.Marks[k.idx]
	}
	return out, nil
}
