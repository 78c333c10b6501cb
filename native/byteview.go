package native

import (
	"encoding/binary"
	"math"
)

// ByteView is a length-checked, read-only window over fixed-width
// little-endian records inside a borrowed byte slice. It never copies the
// underlying bytes; every accessor indexes straight into the slice it was
// built from, which must outlive the view.
type ByteView struct {
	data     []byte
	elemSize int
}

// NewByteView wraps data as a sequence of elemSize-byte little-endian
// records. len(data) must be a multiple of elemSize.
func NewByteView(data []byte, elemSize int) (ByteView, error) {
	if elemSize <= 0 {
		return ByteView{}, errCorrupted("byte view element size must be positive")
	}
	if len(data)%elemSize != 0 {
		return ByteView{}, errLength(elemSize - len(data)%elemSize)
	}
	return ByteView{data: data, elemSize: elemSize}, nil
}

// Len returns the number of elemSize-byte records in the view.
func (v ByteView) Len() int {
	if v.elemSize == 0 {
		return 0
	}
	return len(v.data) / v.elemSize
}

// ElemSize returns the record width in bytes.
func (v ByteView) ElemSize() int { return v.elemSize }

// Bytes returns the raw backing bytes of the view.
func (v ByteView) Bytes() []byte { return v.data }

// At returns the raw bytes of record i, or false if i is out of range.
func (v ByteView) At(i int) ([]byte, bool) {
	if i < 0 || i >= v.Len() {
		return nil, false
	}
	off := i * v.elemSize
	return v.data[off : off+v.elemSize], true
}

func (v ByteView) Uint8(i int) (uint8, bool) {
	b, ok := v.At(i)
	if !ok {
		return 0, false
	}
	return b[0], true
}

func (v ByteView) Uint16(i int) (uint16, bool) {
	b, ok := v.At(i)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint16(b), true
}

func (v ByteView) Uint32(i int) (uint32, bool) {
	b, ok := v.At(i)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (v ByteView) Uint64(i int) (uint64, bool) {
	b, ok := v.At(i)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (v ByteView) Int8(i int) (int8, bool) {
	b, ok := v.Uint8(i)
	return int8(b), ok
}

func (v ByteView) Int16(i int) (int16, bool) {
	b, ok := v.Uint16(i)
	return int16(b), ok
}

func (v ByteView) Int32(i int) (int32, bool) {
	b, ok := v.Uint32(i)
	return int32(b), ok
}

func (v ByteView) Int64(i int) (int64, bool) {
	b, ok := v.Uint64(i)
	return int64(b), ok
}

func (v ByteView) Float32(i int) (float32, bool) {
	b, ok := v.Uint32(i)
	if !ok {
		return 0, false
	}
	return math.Float32frombits(b), true
}

func (v ByteView) Float64(i int) (float64, bool) {
	b, ok := v.Uint64(i)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(b), true
}

// Uint128 returns the first and second 64-bit little-endian halves of a
// 16-byte record, named for the Decimal128 layout, which stores the low half
// first. UUID stores the high half first, so its accessor takes the pair the
// other way round.
func (v ByteView) Uint128(i int) (lo, hi uint64, ok bool) {
	b, ok := v.At(i)
	if !ok {
		return 0, 0, false
	}
	return binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]), true
}

// Bytes256 returns the raw 32-byte little-endian record (Int256/UInt256/Decimal256).
func (v ByteView) Bytes256(i int) ([]byte, bool) {
	return v.At(i)
}
