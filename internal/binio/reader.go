package binio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader decodes primitives from an in-memory buffer.
type Reader struct {
	data []byte
	off  int
	err  error
}

// NewReader returns a Reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Err returns the first decode error, if any.
func (r *Reader) Err() error { return r.err }

// Offset returns the position of the next unread byte.
func (r *Reader) Offset() int { return r.off }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.off }

// Fail records err unless an earlier error is already pending.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.Remaining() < n {
		r.err = truncated(r.off, n)
		return nil
	}
	p := r.data[r.off : r.off+n]
	r.off += n
	return p
}

// Raw returns the next n bytes. The slice aliases the underlying buffer.
func (r *Reader) Raw(n int) []byte {
	return r.next(n)
}

func (r *Reader) Byte() byte {
	p := r.next(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (r *Reader) Bool() bool { return r.Byte() != 0 }

func (r *Reader) Uint16() uint16 {
	p := r.next(2)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(p)
}

func (r *Reader) Uint32() uint32 {
	p := r.next(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (r *Reader) Int32() int32 { return int32(r.Uint32()) }

func (r *Reader) Int64() int64 {
	p := r.next(8)
	if p == nil {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(p))
}

func (r *Reader) Float32() float32 { return math.Float32frombits(r.Uint32()) }

func (r *Reader) Float64() float64 { return math.Float64frombits(uint64(r.Int64())) }

// Count reads an int32 collection length. Every element takes at least one
// byte, so a count larger than the remaining data is reported as truncation
// before anything gets allocated for it.
func (r *Reader) Count() int {
	at := r.off
	n := r.Int32()
	if r.err != nil {
		return 0
	}
	if n < 0 {
		r.err = fmt.Errorf("count %d at offset %d: %w", n, at, ErrBadLength)
		return 0
	}
	if int(n) > r.Remaining() {
		r.err = truncated(r.off, int(n))
		return 0
	}
	return int(n)
}

// Uvarint reads a 7-bit encoded uint32.
func (r *Reader) Uvarint() uint32 {
	at := r.off
	var v uint32
	for i := 0; i < maxVarintLen; i++ {
		b := r.Byte()
		if r.err != nil {
			return 0
		}
		if i == maxVarintLen-1 && b > 0x0f {
			r.err = fmt.Errorf("varint at offset %d overflows 32 bits: %w", at, ErrBadLength)
			return 0
		}
		v |= uint32(b&0x7f) << (7 * i)
		if b < 0x80 {
			return v
		}
	}
	r.err = fmt.Errorf("varint at offset %d is too long: %w", at, ErrBadLength)
	return 0
}

// String reads a 7-bit length-prefixed string.
func (r *Reader) String() string {
	n := r.Uvarint()
	if r.err != nil {
		return ""
	}
	if n > math.MaxInt32 {
		r.err = ErrBadLength
		return ""
	}
	p := r.next(int(n))
	if p == nil {
		return ""
	}
	return string(p)
}
