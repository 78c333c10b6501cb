package native

import "fmt"

// decodePayload dispatches on Type to partition bytes into a Mark. h is
// the TypeHeader produced for t by decodeHeader (may be nil for types that
// never consult it, e.g. scalar LowCardinality dictionaries decoded
// without a surrounding composite header).
func decodePayload(t *Type, h *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	switch t.Kind {
	case KString:
		return decodeStringPayload(numRows, input)
	case KArray:
		return decodeArray(t.Elem, headerInner(h), numRows, input)
	case KTuple:
		return decodeTuple(t.Children, headerChildren(h), numRows, input)
	case KMap:
		return decodeMap(t, h, numRows, input)
	case KNullable:
		return decodeNullable(t, h, numRows, input)
	case KVariant:
		return decodeVariant(t, h, numRows, input)
	case KLowCardinality:
		return decodeLowCardinality(t, numRows, input)
	case KDynamic:
		return decodeDynamic(h, numRows, input)
	case KJSON:
		return decodeJSON(h, numRows, input)
	case KNested:
		return decodeNested(t, h, numRows, input)
	case KPoint:
		return decodeTuple(
			[]*Type{{Kind: KFloat64}, {Kind: KFloat64}},
			[]*TypeHeader{{Kind: HEmpty}, {Kind: HEmpty}},
			numRows, input)
	case KRing, KLineString:
		return decodeArray(&Type{Kind: KPoint}, headerInner(h), numRows, input)
	case KPolygon:
		return decodeArray(&Type{Kind: KRing}, headerInner(h), numRows, input)
	case KMultiLineString:
		return decodeArray(&Type{Kind: KLineString}, headerInner(h), numRows, input)
	case KMultiPolygon:
		return decodeArray(&Type{Kind: KPolygon}, headerInner(h), numRows, input)
	case KSharedVariant:
		return &Mark{Kind: MEmpty, NumRows: numRows}, input, nil
	}

	return decodeFixedWidth(t, numRows, input)
}

func headerInner(h *TypeHeader) *TypeHeader {
	if h == nil {
		return nil
	}
	return h.Inner
}

func headerChildren(h *TypeHeader) []*TypeHeader {
	if h == nil {
		return nil
	}
	return h.Children
}

func orUTC(tz string) string {
	if tz == "" {
		return "UTC"
	}
	return tz
}

func decodeFixedWidth(t *Type, numRows int, input []byte) (*Mark, []byte, error) {
	size, ok := t.Size()
	if !ok {
		return nil, nil, errParse(fmt.Sprintf("type kind %d has no fixed-width payload decoder", t.Kind))
	}
	need := numRows * size
	if len(input) < need {
		return nil, nil, errLength(need)
	}
	data, err := NewByteView(input[:need], size)
	if err != nil {
		return nil, nil, err
	}
	rest := input[need:]
	m := &Mark{Kind: markKindForType(t.Kind), NumRows: numRows, Data: data}
	switch t.Kind {
	case KDecimal32, KDecimal64, KDecimal128, KDecimal256:
		m.DecimalScale = t.Scale
	case KDateTime:
		m.TZ = orUTC(t.TimeZone)
	case KDateTime64:
		m.TZ = orUTC(t.TimeZone)
		m.Precision = t.DateTimePrecision
	case KEnum8, KEnum16:
		m.EnumVariants = sortedVariants(t.Variants)
	case KFixedString:
		m.FixedSize = t.FixedSize
	}
	return m, rest, nil
}

func decodeStringPayload(numRows int, input []byte) (*Mark, []byte, error) {
	strs := make([]string, numRows)
	rest := input
	for i := 0; i < numRows; i++ {
		s, r, err := ReadVarString(rest)
		if err != nil {
			return nil, nil, err
		}
		strs[i] = s
		rest = r
	}
	return &Mark{Kind: MString, NumRows: numRows, Strings: strs}, rest, nil
}

func decodeArray(elemType *Type, elemHeader *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	offsets, rest, err := ReadOffsets(input, numRows)
	if err != nil {
		return nil, nil, err
	}
	n := lastOffsetOrZero(offsets, numRows)
	values, rest, err := decodePayload(elemType, elemHeader, n, rest)
	if err != nil {
		return nil, nil, err
	}
	return &Mark{Kind: MArray, NumRows: numRows, Offsets: offsets, Values: values}, rest, nil
}

func decodeTuple(children []*Type, childHeaders []*TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	elems := make([]*Mark, len(children))
	rest := input
	for i, c := range children {
		var ch *TypeHeader
		if i < len(childHeaders) {
			ch = childHeaders[i]
		}
		m, r, err := decodePayload(c, ch, numRows, rest)
		if err != nil {
			return nil, nil, err
		}
		elems[i] = m
		rest = r
	}
	return &Mark{Kind: MTuple, NumRows: numRows, Elems: elems}, rest, nil
}

func decodeMap(t *Type, h *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	offsets, rest, err := ReadOffsets(input, numRows)
	if err != nil {
		return nil, nil, err
	}
	n := lastOffsetOrZero(offsets, numRows)
	var keyHeader, valHeader *TypeHeader
	if h != nil {
		keyHeader, valHeader = h.Key, h.Value
	}
	keys, rest, err := decodePayload(t.Key, keyHeader, n, rest)
	if err != nil {
		return nil, nil, err
	}
	vals, rest, err := decodePayload(t.Value, valHeader, n, rest)
	if err != nil {
		return nil, nil, err
	}
	return &Mark{Kind: MMap, NumRows: numRows, Offsets: offsets, Keys: keys, Values: vals}, rest, nil
}

func decodeNullable(t *Type, h *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	if len(input) < numRows {
		return nil, nil, errLength(numRows)
	}
	mask := input[:numRows]
	rest := input[numRows:]
	inner, rest, err := decodePayload(t.Elem, h, numRows, rest)
	if err != nil {
		return nil, nil, err
	}
	return &Mark{Kind: MNullable, NumRows: numRows, Mask: mask, Inner: inner}, rest, nil
}

// variantNullDiscriminant is the discriminator byte value reserved for null
// in a Variant column.
const variantNullDiscriminant = 255

func decodeVariant(t *Type, h *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	if len(input) < numRows {
		return nil, nil, errLength(numRows)
	}
	discs := input[:numRows]
	rest := input[numRows:]

	counts := make([]int, 256)
	offsets := make([]int, numRows)
	for i, d := range discs {
		offsets[i] = counts[d]
		if d != variantNullDiscriminant {
			counts[d]++
		}
	}

	var childHeaders []*TypeHeader
	if h != nil {
		childHeaders = h.Children
	}
	types := make([]*Mark, len(t.Children))
	for i, c := range t.Children {
		var ch *TypeHeader
		if i < len(childHeaders) {
			ch = childHeaders[i]
		}
		m, r, err := decodePayload(c, ch, counts[i], rest)
		if err != nil {
			return nil, nil, err
		}
		types[i] = m
		rest = r
	}
	return &Mark{Kind: MVariant, NumRows: numRows, Discriminators: discs, VOffsets: offsets, Types: types}, rest, nil
}

func decodeDynamic(h *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	counts := make([]int, len(h.DynamicTypes))
	discs := make([]uint64, numRows)
	offs := make([]int, numRows)
	rest := input
	for i := 0; i < numRows; i++ {
		d, r, err := ReadVarUint(rest)
		if err != nil {
			return nil, nil, err
		}
		rest = r
		if int(d) >= len(counts) {
			return nil, nil, errCorrupted(fmt.Sprintf("dynamic discriminator %d out of range for %d types", d, len(counts)))
		}
		discs[i] = d
		offs[i] = counts[d]
		counts[d]++
	}

	columns := make([]*Mark, len(h.DynamicTypes))
	for i, dt := range h.DynamicTypes {
		if dt.Kind == KSharedVariant {
			columns[i] = &Mark{Kind: MEmpty}
			continue
		}
		var ch *TypeHeader
		if i < len(h.DynamicHeaders) {
			ch = h.DynamicHeaders[i]
		}
		m, r, err := decodePayload(dt, ch, counts[i], rest)
		if err != nil {
			return nil, nil, err
		}
		columns[i] = m
		rest = r
	}
	return &Mark{Kind: MDynamic, NumRows: numRows, DiscriminatorsVar: discs, DOffsets: offs, Columns: columns}, rest, nil
}

// jsonDiscriminatorAbsent is the per-row byte marking a JSON path column's
// value as absent for that row.
const jsonDiscriminatorAbsent = 255

func decodeJSON(h *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	rest := input
	for _, ch := range h.ColHeaders {
		if len(rest) < numRows {
			return nil, nil, errLength(numRows)
		}
		discs := rest[:numRows]
		rest = rest[numRows:]

		count := 0
		offsets := make([]int, numRows)
		for i, d := range discs {
			if d == jsonDiscriminatorAbsent {
				continue
			}
			offsets[i] = count
			count++
		}

		m, r, err := decodePayload(ch.Type, ch.Header, count, rest)
		if err != nil {
			return nil, nil, err
		}
		ch.Discriminators = discs
		ch.Offsets = offsets
		ch.Mark = m
		rest = r
	}

	trailer := numRows * 8
	if len(rest) < trailer {
		return nil, nil, errLength(trailer)
	}
	rest = rest[trailer:]

	return &Mark{Kind: MJSON, NumRows: numRows, Paths: h.Paths, ColumnHeaders: h.ColHeaders}, rest, nil
}

func decodeNested(t *Type, h *TypeHeader, numRows int, input []byte) (*Mark, []byte, error) {
	fieldTypes := make([]*Type, len(t.Fields))
	colNames := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fieldTypes[i] = f.Type
		colNames[i] = f.Name
	}
	var fieldHeaders []*TypeHeader
	if h != nil {
		fieldHeaders = h.FieldHeaders
	}
	tupleType := &Type{Kind: KTuple, Children: fieldTypes}
	tupleHeader := &TypeHeader{Kind: HTuple, Children: fieldHeaders}

	arr, rest, err := decodeArray(tupleType, tupleHeader, numRows, input)
	if err != nil {
		return nil, nil, err
	}
	return &Mark{Kind: MNested, NumRows: numRows, ColNames: colNames, ArrayOfTuples: arr}, rest, nil
}

// LowCardinality flags word bits.
const (
	lcIndexTypeMask          = 0xff
	lcNeedGlobalDictionary   = 1 << 8
	lcHasAdditionalKeys      = 1 << 9
	lcNeedUpdateDictionary   = 1 << 10
)

func decodeLowCardinality(t *Type, numRows int, input []byte) (*Mark, []byte, error) {
	inner := t.Elem
	isNullable := inner.Kind == KNullable
	baseInner := inner
	if isNullable {
		baseInner = inner.Elem
	}

	if numRows == 0 {
		return &Mark{Kind: MLowCardinality, NumRows: 0, IsNullable: isNullable}, input, nil
	}

	flags, rest, err := ReadUint64LE(input)
	if err != nil {
		return nil, nil, err
	}

	var idxKind TypeKind
	switch flags & lcIndexTypeMask {
	case 0:
		idxKind = KUInt8
	case 1:
		idxKind = KUInt16
	case 2:
		idxKind = KUInt32
	case 3:
		idxKind = KUInt64
	default:
		return nil, nil, errParse(fmt.Sprintf("unknown LowCardinality index type byte %d", flags&lcIndexTypeMask))
	}
	_ = lcNeedUpdateDictionary // acknowledged, not acted on: purely advisory

	var globalDict *Mark
	if flags&lcNeedGlobalDictionary != 0 {
		n, r, err := ReadUint64LE(rest)
		if err != nil {
			return nil, nil, err
		}
		gd, r2, err := decodePayload(baseInner, nil, int(n), r)
		if err != nil {
			return nil, nil, err
		}
		globalDict = gd
		rest = r2
	}

	var additionalKeys *Mark
	if flags&lcHasAdditionalKeys != 0 {
		n, r, err := ReadUint64LE(rest)
		if err != nil {
			return nil, nil, err
		}
		ak, r2, err := decodePayload(baseInner, nil, int(n), r)
		if err != nil {
			return nil, nil, err
		}
		additionalKeys = ak
		rest = r2
	}

	rowsHere, rest, err := ReadUint64LE(rest)
	if err != nil {
		return nil, nil, err
	}
	if int(rowsHere) != numRows {
		return nil, nil, errParse(fmt.Sprintf("LowCardinality rows mismatch: header says %d, block says %d", rowsHere, numRows))
	}

	indices, rest, err := decodePayload(&Type{Kind: idxKind}, nil, numRows, rest)
	if err != nil {
		return nil, nil, err
	}

	return &Mark{
		Kind: MLowCardinality, NumRows: numRows, IsNullable: isNullable,
		Indices: indices, GlobalDictionary: globalDict, AdditionalKeys: additionalKeys,
	}, rest, nil
}
