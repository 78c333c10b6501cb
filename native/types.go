package native

import (
	"fmt"
	"strings"
)

// TypeKind tags the closed set of ClickHouse Native types. Dispatch is
// always on this small integer tag, never on Go runtime type identity.
type TypeKind int

const (
	KBool TypeKind = iota
	KInt8
	KInt16
	KInt32
	KInt64
	KInt128
	KInt256
	KUInt8
	KUInt16
	KUInt32
	KUInt64
	KUInt128
	KUInt256
	KFloat32
	KFloat64
	KBFloat16
	KString
	KFixedString
	KUUID
	KDate
	KDate32
	KDateTime
	KDateTime64
	KIPv4
	KIPv6
	KDecimal32
	KDecimal64
	KDecimal128
	KDecimal256
	KEnum8
	KEnum16
	KNullable
	KArray
	KTuple
	KMap
	KVariant
	KLowCardinality
	KNested
	KDynamic
	KJSON
	KPoint
	KRing
	KPolygon
	KMultiPolygon
	KLineString
	KMultiLineString
	// KSharedVariant is a synthetic sentinel appended to a Dynamic column's
	// sorted type list. It must never appear in a stream-declared type
	// signature; its payload is always empty.
	KSharedVariant
)

// EnumVariant is one (name, discriminant) pair of an Enum8/Enum16 variant
// table. Discriminant holds the full signed int8/int16 range.
type EnumVariant struct {
	Name         string
	Discriminant int32
}

// Field is one named child of a Nested type.
type Field struct {
	Name string
	Type *Type
}

// Type is a tagged recursive tree over the closed set of ClickHouse types.
// Leaf types carry their own parameters; composite types carry child types
// and/or named fields.
type Type struct {
	Kind TypeKind

	// FixedString
	FixedSize int

	// Decimal{32,64,128,256}
	Precision int
	Scale     int

	// DateTime64
	DateTimePrecision int
	// DateTime / DateTime64 IANA zone name; "" means UTC.
	TimeZone string

	// Enum8 / Enum16, in declaration order; the payload decoder gives the
	// Mark a copy sorted by Discriminant.
	Variants []EnumVariant

	// Nullable(Elem), Array(Elem), LowCardinality(Elem)
	Elem *Type

	// Tuple(Children...), Variant(Children...)
	Children []*Type

	// Map(Key, Value)
	Key   *Type
	Value *Type

	// Nested(Fields...)
	Fields []Field
}

// Size returns the fixed on-wire byte width of t, or false if t has no
// fixed width (String and every composite/variable-width type).
func (t *Type) Size() (int, bool) {
	switch t.Kind {
	case KBool, KInt8, KUInt8, KEnum8:
		return 1, true
	case KInt16, KUInt16, KDate, KEnum16, KBFloat16:
		return 2, true
	case KInt32, KUInt32, KFloat32, KDate32, KDateTime, KIPv4, KDecimal32:
		return 4, true
	case KInt64, KUInt64, KFloat64, KDateTime64, KDecimal64:
		return 8, true
	case KInt128, KUInt128, KUUID, KIPv6, KDecimal128:
		return 16, true
	case KInt256, KUInt256, KDecimal256:
		return 32, true
	case KFixedString:
		return t.FixedSize, true
	default:
		return 0, false
	}
}

var simpleTypeNames = map[TypeKind]string{
	KBool: "Bool", KInt8: "Int8", KInt16: "Int16", KInt32: "Int32", KInt64: "Int64",
	KInt128: "Int128", KInt256: "Int256", KUInt8: "UInt8", KUInt16: "UInt16",
	KUInt32: "UInt32", KUInt64: "UInt64", KUInt128: "UInt128", KUInt256: "UInt256",
	KFloat32: "Float32", KFloat64: "Float64", KBFloat16: "BFloat16", KString: "String",
	KUUID: "UUID", KDate: "Date", KDate32: "Date32", KIPv4: "IPv4", KIPv6: "IPv6",
	KDynamic: "Dynamic", KJSON: "JSON",
	KPoint: "Point", KRing: "Ring", KPolygon: "Polygon", KMultiPolygon: "MultiPolygon",
	KLineString: "LineString", KMultiLineString: "MultiLineString",
}

// String renders t back to ClickHouse type-signature text that ParseType
// parses to an equal Type. A DateTime or DateTime64 declared without a zone
// renders with the 'UTC' zone the parser fills in, so that text is not the
// input verbatim.
func (t *Type) String() string {
	if name, ok := simpleTypeNames[t.Kind]; ok {
		return name
	}
	switch t.Kind {
	case KFixedString:
		return fmt.Sprintf("FixedString(%d)", t.FixedSize)
	case KDecimal32, KDecimal64, KDecimal128, KDecimal256:
		return fmt.Sprintf("Decimal(%d, %d)", t.Precision, t.Scale)
	case KDateTime:
		if t.TimeZone == "" {
			return "DateTime"
		}
		return fmt.Sprintf("DateTime('%s')", t.TimeZone)
	case KDateTime64:
		if t.TimeZone == "" {
			return fmt.Sprintf("DateTime64(%d)", t.DateTimePrecision)
		}
		return fmt.Sprintf("DateTime64(%d, '%s')", t.DateTimePrecision, t.TimeZone)
	case KEnum8:
		return renderEnum("Enum8", t.Variants)
	case KEnum16:
		return renderEnum("Enum16", t.Variants)
	case KNullable:
		return fmt.Sprintf("Nullable(%s)", t.Elem)
	case KLowCardinality:
		return fmt.Sprintf("LowCardinality(%s)", t.Elem)
	case KArray:
		return fmt.Sprintf("Array(%s)", t.Elem)
	case KMap:
		return fmt.Sprintf("Map(%s, %s)", t.Key, t.Value)
	case KTuple:
		return fmt.Sprintf("Tuple(%s)", joinTypes(t.Children))
	case KVariant:
		return fmt.Sprintf("Variant(%s)", joinTypes(t.Children))
	case KNested:
		return fmt.Sprintf("Nested(%s)", joinFields(t.Fields))
	default:
		return "Unknown"
	}
}

func joinTypes(types []*Type) string {
	parts := make([]string, len(types))
	for i, ty := range types {
		parts[i] = ty.String()
	}
	return strings.Join(parts, ", ")
}

func joinFields(fields []Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + " " + f.Type.String()
	}
	return strings.Join(parts, ", ")
}

func renderEnum(kw string, variants []EnumVariant) string {
	parts := make([]string, len(variants))
	for i, v := range variants {
		parts[i] = fmt.Sprintf("'%s' = %d", v.Name, v.Discriminant)
	}
	return fmt.Sprintf("%s(%s)", kw, strings.Join(parts, ", "))
}
