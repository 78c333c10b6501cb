package native

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// decimal32 converts a raw signed 32-bit storage value at scale S into a
// decimal.Decimal via direct scale-as-exponent construction, no arithmetic
// division.
func decimal32(raw int32, scale int) decimal.Decimal {
	return decimal.New(int64(raw), int32(-scale))
}

func decimal64(raw int64, scale int) decimal.Decimal {
	return decimal.New(raw, int32(-scale))
}

// decimal128 converts a raw signed 128-bit storage value (two little-endian
// u64 halves) at scale S. An implausible scale is signaled as an error
// rather than silently saturating.
func decimal128(lo, hi uint64, scale int) (decimal.Decimal, error) {
	raw := int128ToBigInt(lo, hi)
	if scale < -350 || scale > 350 {
		// decimal.Decimal's exponent is an int32 in practice bounded by
		// usable range; a Decimal(P,S) with P<=38 never approaches this,
		// so this only guards against corrupted input.
		return decimal.Decimal{}, errValueOutOfRange("Decimal128", "decimal.Decimal", raw.String())
	}
	return decimal.NewFromBigInt(raw, int32(-scale)), nil
}

// int128ToBigInt reinterprets two little-endian u64 halves as a signed
// 128-bit two's-complement integer.
func int128ToBigInt(lo, hi uint64) *big.Int {
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	var loBig big.Int
	loBig.SetUint64(lo)
	v.Or(v, &loBig)
	if int64(hi) < 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), 128)
		v.Sub(v, mod)
	}
	return v
}

// Decimal256 has no typed accessor; callers needing the raw bytes use
// Mark.Data directly. 256-bit arithmetic conversion is out of scope.
