package native

import (
	"encoding/binary"
	"math"
)

// bufBuilder assembles raw Native-format bytes for fixtures without
// resorting to binary blobs checked into the tree, matching the encoder
// side of the format this package only ever decodes.
type bufBuilder struct {
	buf []byte
}

func newBuf() *bufBuilder { return &bufBuilder{} }

func (b *bufBuilder) bytes() []byte { return b.buf }

func (b *bufBuilder) varuint(v uint64) *bufBuilder {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b.buf = append(b.buf, c|0x80)
			continue
		}
		b.buf = append(b.buf, c)
		return b
	}
}

func (b *bufBuilder) varstring(s string) *bufBuilder {
	b.varuint(uint64(len(s)))
	b.buf = append(b.buf, s...)
	return b
}

func (b *bufBuilder) raw(bs ...byte) *bufBuilder {
	b.buf = append(b.buf, bs...)
	return b
}

func (b *bufBuilder) u8(v uint8) *bufBuilder { return b.raw(v) }

func (b *bufBuilder) u16(v uint16) *bufBuilder {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return b.raw(tmp[:]...)
}

func (b *bufBuilder) u32(v uint32) *bufBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.raw(tmp[:]...)
}

func (b *bufBuilder) u64(v uint64) *bufBuilder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.raw(tmp[:]...)
}

func (b *bufBuilder) i8(v int8) *bufBuilder   { return b.u8(uint8(v)) }
func (b *bufBuilder) i16(v int16) *bufBuilder { return b.u16(uint16(v)) }
func (b *bufBuilder) i32(v int32) *bufBuilder { return b.u32(uint32(v)) }
func (b *bufBuilder) i64(v int64) *bufBuilder { return b.u64(uint64(v)) }

func (b *bufBuilder) f64(v float64) *bufBuilder { return b.u64(math.Float64bits(v)) }

// column writes a varstring name, varstring type signature, then whatever
// header+payload bytes the caller already assembled for that column.
func (b *bufBuilder) column(name, typeText string, body func(b *bufBuilder)) *bufBuilder {
	b.varstring(name)
	b.varstring(typeText)
	body(b)
	return b
}

func (b *bufBuilder) block(numRows int, cols func(b *bufBuilder), numCols int) *bufBuilder {
	b.varuint(uint64(numCols))
	b.varuint(uint64(numRows))
	cols(b)
	return b
}
