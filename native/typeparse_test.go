package native

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTypeSimpleKeywords(t *testing.T) {
	cases := map[string]TypeKind{
		"UInt8": KUInt8, "Int8": KInt8, "UInt256": KUInt256, "Int256": KInt256,
		"UInt128": KUInt128, "Int128": KInt128, "Float64": KFloat64,
		"Float32": KFloat32, "String": KString, "UUID": KUUID, "IPv4": KIPv4,
		"IPv6": KIPv6, "Date": KDate, "Date32": KDate32, "Bool": KBool,
		"Point": KPoint, "Ring": KRing, "Polygon": KPolygon,
		"MultiPolygon": KMultiPolygon, "LineString": KLineString,
		"MultiLineString": KMultiLineString, "Dynamic": KDynamic, "JSON": KJSON,
	}
	for text, kind := range cases {
		ty, err := ParseType(text)
		require.NoError(t, err, text)
		require.Equal(t, kind, ty.Kind, text)
	}
}

func TestParseTypePrefixCollisionOrder(t *testing.T) {
	// Int128 must not be misparsed as a truncated Int match, and Date32
	// must not be swallowed by a naive Date prefix check.
	ty, err := ParseType("Int128")
	require.NoError(t, err)
	require.Equal(t, KInt128, ty.Kind)

	ty, err = ParseType("Date32")
	require.NoError(t, err)
	require.Equal(t, KDate32, ty.Kind)
}

func TestParseTypeFixedString(t *testing.T) {
	ty, err := ParseType("FixedString(16)")
	require.NoError(t, err)
	require.Equal(t, KFixedString, ty.Kind)
	require.Equal(t, 16, ty.FixedSize)
}

func TestParseTypeNullableArray(t *testing.T) {
	ty, err := ParseType("Array(Nullable(String))")
	require.NoError(t, err)
	require.Equal(t, KArray, ty.Kind)
	require.Equal(t, KNullable, ty.Elem.Kind)
	require.Equal(t, KString, ty.Elem.Elem.Kind)
}

func TestParseTypeMap(t *testing.T) {
	ty, err := ParseType("Map(String, UInt32)")
	require.NoError(t, err)
	require.Equal(t, KMap, ty.Kind)
	require.Equal(t, KString, ty.Key.Kind)
	require.Equal(t, KUInt32, ty.Value.Kind)
}

func TestParseTypeTupleAndVariant(t *testing.T) {
	ty, err := ParseType("Tuple(UInt8, String, Array(UInt8))")
	require.NoError(t, err)
	require.Equal(t, KTuple, ty.Kind)
	require.Len(t, ty.Children, 3)
	require.Equal(t, KArray, ty.Children[2].Kind)

	vt, err := ParseType("Variant(UInt8, String)")
	require.NoError(t, err)
	require.Equal(t, KVariant, vt.Kind)
	require.Len(t, vt.Children, 2)
}

func TestParseTypeDecimalBoundaries(t *testing.T) {
	cases := []struct {
		text string
		kind TypeKind
	}{
		{"Decimal(1, 0)", KDecimal32},
		{"Decimal(9, 2)", KDecimal32},
		{"Decimal(10, 2)", KDecimal64},
		{"Decimal(18, 2)", KDecimal64},
		{"Decimal(19, 4)", KDecimal128},
		{"Decimal(38, 4)", KDecimal128},
		{"Decimal(39, 4)", KDecimal256},
		{"Decimal(76, 4)", KDecimal256},
	}
	for _, c := range cases {
		ty, err := ParseType(c.text)
		require.NoError(t, err, c.text)
		require.Equal(t, c.kind, ty.Kind, c.text)
	}

	_, err := ParseType("Decimal(0, 0)")
	require.Error(t, err)
	_, err = ParseType("Decimal(77, 0)")
	require.Error(t, err)
}

func TestParseTypeDateTime64WithTimezone(t *testing.T) {
	ty, err := ParseType("DateTime64(3, 'UTC')")
	require.NoError(t, err)
	require.Equal(t, KDateTime64, ty.Kind)
	require.Equal(t, 3, ty.DateTimePrecision)
	require.Equal(t, "UTC", ty.TimeZone)

	ty, err = ParseType("DateTime64(6)")
	require.NoError(t, err)
	require.Equal(t, KDateTime64, ty.Kind)
	require.Equal(t, 6, ty.DateTimePrecision)
}

func TestParseTypeDateTimeWithTimezone(t *testing.T) {
	ty, err := ParseType("DateTime('Europe/Moscow')")
	require.NoError(t, err)
	require.Equal(t, KDateTime, ty.Kind)
	require.Equal(t, "Europe/Moscow", ty.TimeZone)
}

func TestParseTypeEnum(t *testing.T) {
	ty, err := ParseType("Enum8('a' = 1, 'b' = 2)")
	require.NoError(t, err)
	require.Equal(t, KEnum8, ty.Kind)
	require.Len(t, ty.Variants, 2)
	require.Equal(t, "a", ty.Variants[0].Name)
	require.Equal(t, int32(1), ty.Variants[0].Discriminant)
}

func TestParseTypeNested(t *testing.T) {
	ty, err := ParseType("Nested(a UInt8, b String)")
	require.NoError(t, err)
	require.Equal(t, KNested, ty.Kind)
	require.Len(t, ty.Fields, 2)
	require.Equal(t, "a", ty.Fields[0].Name)
	require.Equal(t, KUInt8, ty.Fields[0].Type.Kind)
	require.Equal(t, "b", ty.Fields[1].Name)
	require.Equal(t, KString, ty.Fields[1].Type.Kind)
}

func TestParseTypeLowCardinality(t *testing.T) {
	ty, err := ParseType("LowCardinality(String)")
	require.NoError(t, err)
	require.Equal(t, KLowCardinality, ty.Kind)
	require.Equal(t, KString, ty.Elem.Kind)
}

func TestParseTypeRoundTrip(t *testing.T) {
	cases := []string{
		"UInt32", "Nullable(String)", "Array(UInt8)", "Map(String, UInt32)",
		"FixedString(4)", "DateTime64(3, 'UTC')",
	}
	for _, text := range cases {
		ty, err := ParseType(text)
		require.NoError(t, err, text)
		require.Equal(t, text, ty.String(), text)
	}
}

func TestParseTypeRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseType("UInt32garbage")
	require.Error(t, err)
}
