package native

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecimal32Conversion(t *testing.T) {
	require.Equal(t, "123.45", decimal32(12345, 2).String())
	require.Equal(t, "-1.50", decimal32(-150, 2).String())
}

func TestDecimal64Conversion(t *testing.T) {
	require.Equal(t, "1000000.000001", decimal64(1000000000001, 6).String())
}

func TestInt128ToBigIntPositive(t *testing.T) {
	v := int128ToBigInt(12345, 0)
	require.Equal(t, "12345", v.String())
}

func TestInt128ToBigIntNegative(t *testing.T) {
	// -1 in two's complement 128-bit is all bits set.
	v := int128ToBigInt(^uint64(0), ^uint64(0))
	require.Equal(t, "-1", v.String())
}

func TestDecimal128ConversionNegative(t *testing.T) {
	// raw = -1 at scale 2 -> -0.01
	d, err := decimal128(^uint64(0), ^uint64(0), 2)
	require.NoError(t, err)
	require.Equal(t, "-0.01", d.String())
}

func TestDecimal128RejectsImplausibleScale(t *testing.T) {
	_, err := decimal128(1, 0, 400)
	require.Error(t, err)
}
