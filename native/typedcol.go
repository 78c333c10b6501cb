package native

// ColReader reads row i of mark m into a T, reporting presence the same
// way the typed accessors do (false for null/absent, not an error).
// Primitive readers compose into array/map/low-cardinality iterators this
// way rather than each composite re-implementing element access from
// scratch.
type ColReader[T any] func(m *Mark, row int) (T, bool, error)

// Read materializes every row of m through read into a values slice and a
// parallel presence slice (false marks a null or out-of-range row).
func Read[T any](m *Mark, read ColReader[T]) ([]T, []bool, error) {
	vals := make([]T, m.NumRows)
	present := make([]bool, m.NumRows)
	for i := 0; i < m.NumRows; i++ {
		v, ok, err := read(m, i)
		if err != nil {
			return nil, nil, err
		}
		vals[i] = v
		present[i] = ok
	}
	return vals, present, nil
}

func ColStr(m *Mark) ([]string, []bool, error)   { return Read(m, (*Mark).GetStr) }
func ColBool(m *Mark) ([]bool, []bool, error)     { return Read(m, (*Mark).GetBool) }
func ColU32(m *Mark) ([]uint32, []bool, error)    { return Read(m, (*Mark).GetU32) }
func ColI64(m *Mark) ([]int64, []bool, error)     { return Read(m, (*Mark).GetI64) }
func ColF64(m *Mark) ([]float64, []bool, error)   { return Read(m, (*Mark).GetF64) }

// ColUsize widens whichever unsigned integer width a column actually
// stores to a uint64, for callers that only want a length or counter and
// don't care about the exact wire width (named after the closest Go
// equivalent of the original client's pervasive usize-typed row counts).
func ColUsize(m *Mark) ([]uint64, []bool, error) {
	return Read(m, func(mk *Mark, row int) (uint64, bool, error) {
		rmk, present := resolveNullable(mk, row)
		if !present {
			return 0, false, nil
		}
		switch rmk.Kind {
		case MUInt8:
			v, ok := rmk.Data.Uint8(row)
			return uint64(v), ok, nil
		case MUInt16:
			v, ok := rmk.Data.Uint16(row)
			return uint64(v), ok, nil
		case MUInt32:
			v, ok := rmk.Data.Uint32(row)
			return uint64(v), ok, nil
		case MUInt64:
			return rmk.Data.Uint64(row)
		default:
			return 0, false, errMismatchedType(markKindName(rmk.Kind), "unsigned integer")
		}
	})
}

// ColArray composes an element reader over an Array column into a
// row-major [][]T, driven by the same offset ranges ArrayRange exposes.
func ColArray[T any](m *Mark, readElem ColReader[T]) ([][]T, error) {
	out := make([][]T, m.NumRows)
	for i := 0; i < m.NumRows; i++ {
		elems, start, end, ok, err := m.ArrayRange(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		row := make([]T, 0, end-start)
		for j := start; j < end; j++ {
			v, present, err := readElem(elems, j)
			if err != nil {
				return nil, err
			}
			if present {
				row = append(row, v)
			}
		}
		out[i] = row
	}
	return out, nil
}

// MapEntry is one key/value pair materialized from a Map row.
type MapEntry[K, V any] struct {
	Key K
	Val V
}

// ColMap composes key and value readers over a Map column into a row-major
// slice of entries.
func ColMap[K, V any](m *Mark, readKey ColReader[K], readVal ColReader[V]) ([][]MapEntry[K, V], error) {
	out := make([][]MapEntry[K, V], m.NumRows)
	for i := 0; i < m.NumRows; i++ {
		keys, vals, start, end, ok, err := m.GetMap(i)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		row := make([]MapEntry[K, V], 0, end-start)
		for j := start; j < end; j++ {
			k, kok, err := readKey(keys, j)
			if err != nil {
				return nil, err
			}
			v, vok, err := readVal(vals, j)
			if err != nil {
				return nil, err
			}
			if kok && vok {
				row = append(row, MapEntry[K, V]{Key: k, Val: v})
			}
		}
		out[i] = row
	}
	return out, nil
}

// ColLowCardinality composes a dictionary-value reader over an LC column's
// indices, resolving each row's dictionary entry by index.
func ColLowCardinality[T any](m *Mark, readDict ColReader[T]) ([]T, []bool, error) {
	if m.Kind != MLowCardinality {
		return nil, nil, errMismatchedType(markKindName(m.Kind), "LowCardinality")
	}
	dict := m.AdditionalKeys
	if dict == nil {
		dict = m.GlobalDictionary
	}
	vals := make([]T, m.NumRows)
	present := make([]bool, m.NumRows)
	for i := 0; i < m.NumRows; i++ {
		idx, ok := lcIndex(m, i)
		if !ok {
			continue
		}
		if m.IsNullable && idx == 0 {
			continue
		}
		if dict == nil {
			continue
		}
		v, dok, err := readDict(dict, int(idx))
		if err != nil {
			return nil, nil, err
		}
		vals[i] = v
		present[i] = dok
	}
	return vals, present, nil
}
