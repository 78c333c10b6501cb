package native

// MarkKind tags the decoded shape of a column payload. One variant per
// primitive type plus one per composite.
type MarkKind int

const (
	MBool MarkKind = iota
	MInt8
	MInt16
	MInt32
	MInt64
	MInt128
	MInt256
	MUInt8
	MUInt16
	MUInt32
	MUInt64
	MUInt128
	MUInt256
	MFloat32
	MFloat64
	MBFloat16
	MString
	MFixedString
	MUUID
	MDate
	MDate32
	MDateTime
	MDateTime64
	MIPv4
	MIPv6
	MDecimal32
	MDecimal64
	MDecimal128
	MDecimal256
	MEnum8
	MEnum16
	MNullable
	MArray
	MTuple
	MMap
	MVariant
	MLowCardinality
	MNested
	MDynamic
	MJSON
	MEmpty
)

// Mark is a decoded column payload: a zero-copy view for fixed-width
// primitives, or a tree of nested marks for composites. Fixed-width data and
// offsets columns borrow from the buffer the block was decoded from; String
// rows (dictionary strings included) are copied into Go strings during decode.
type Mark struct {
	Kind    MarkKind
	NumRows int

	// Fixed-width primitives, Decimal*, FixedString, Enum8/16.
	Data ByteView

	// FixedString: element width; element access right-trims trailing NUL.
	FixedSize int

	// String: one UTF-8-validated string per row, copied out of the input.
	Strings []string

	// DateTime / DateTime64
	TZ        string
	Precision int // DateTime64 only

	// Decimal32/64/128/256 scale (the 'S' in Decimal(P,S))
	DecimalScale int

	// Enum8/16: sorted by Discriminant ascending for O(log V) lookup.
	EnumVariants []EnumVariant

	// Nullable: mask[i] == 1 means row i is null. Inner is decoded for
	// every row, including null ones.
	Mask  []byte
	Inner *Mark

	// Array/Map: offsets column of cumulative end-indexes per row,
	// offsets[-1] implicitly 0. Nested keeps its offsets in ArrayOfTuples.
	Offsets ByteView
	Values  *Mark // Array element mark; Map value mark
	Keys    *Mark // Map key mark

	// Tuple
	Elems []*Mark

	// LowCardinality
	IsNullable       bool
	Indices          *Mark // width-tagged unsigned index column
	GlobalDictionary *Mark
	AdditionalKeys   *Mark

	// Variant: discriminators[i] == 255 means null; VOffsets[i] is row i's
	// position within Types[discriminators[i]].
	Discriminators []byte
	VOffsets       []int
	Types          []*Mark

	// Dynamic: like Variant, but discriminators are varuint and the child
	// type list is the sorted, SharedVariant-appended list from the header.
	DiscriminatorsVar []uint64
	DOffsets          []int
	Columns           []*Mark

	// Nested: isomorphic to Array(Tuple(...)) with parallel column names.
	ColNames      []string
	ArrayOfTuples *Mark

	// JSON: each path's discriminators/offsets/mark live on its
	// JSONColumnHeader, filled in during payload decode.
	Paths         []string
	ColumnHeaders []*JSONColumnHeader
}

// sortedVariants returns a copy of variants sorted by Discriminant
// ascending, so Enum lookups can binary-search.
func sortedVariants(variants []EnumVariant) []EnumVariant {
	out := make([]EnumVariant, len(variants))
	copy(out, variants)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Discriminant > out[j].Discriminant; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func markKindForType(k TypeKind) MarkKind {
	switch k {
	case KBool:
		return MBool
	case KInt8:
		return MInt8
	case KInt16:
		return MInt16
	case KInt32:
		return MInt32
	case KInt64:
		return MInt64
	case KInt128:
		return MInt128
	case KInt256:
		return MInt256
	case KUInt8:
		return MUInt8
	case KUInt16:
		return MUInt16
	case KUInt32:
		return MUInt32
	case KUInt64:
		return MUInt64
	case KUInt128:
		return MUInt128
	case KUInt256:
		return MUInt256
	case KFloat32:
		return MFloat32
	case KFloat64:
		return MFloat64
	case KBFloat16:
		return MBFloat16
	case KFixedString:
		return MFixedString
	case KUUID:
		return MUUID
	case KDate:
		return MDate
	case KDate32:
		return MDate32
	case KDateTime:
		return MDateTime
	case KDateTime64:
		return MDateTime64
	case KIPv4:
		return MIPv4
	case KIPv6:
		return MIPv6
	case KDecimal32:
		return MDecimal32
	case KDecimal64:
		return MDecimal64
	case KDecimal128:
		return MDecimal128
	case KDecimal256:
		return MDecimal256
	case KEnum8:
		return MEnum8
	case KEnum16:
		return MEnum16
	default:
		return MEmpty
	}
}
