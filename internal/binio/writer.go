package binio

import (
	"encoding/binary"
	"io"
	"math"
)

// Writer encodes primitives onto an io.Writer.
type Writer struct {
	w   io.Writer
	buf [8]byte
	n   int64
	err error
}

// NewWriter returns a Writer emitting onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error { return w.err }

// Written returns the number of bytes emitted so far.
func (w *Writer) Written() int64 { return w.n }

// Raw writes p verbatim.
func (w *Writer) Raw(p []byte) {
	if w.err != nil {
		return
	}
	n, err := w.w.Write(p)
	w.n += int64(n)
	w.err = err
}

func (w *Writer) Byte(b byte) {
	w.buf[0] = b
	w.Raw(w.buf[:1])
}

func (w *Writer) Bool(v bool) {
	if v {
		w.Byte(1)
		return
	}
	w.Byte(0)
}

func (w *Writer) Uint16(v uint16) {
	binary.LittleEndian.PutUint16(w.buf[:2], v)
	w.Raw(w.buf[:2])
}

func (w *Writer) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(w.buf[:4], v)
	w.Raw(w.buf[:4])
}

func (w *Writer) Int32(v int32) { w.Uint32(uint32(v)) }

func (w *Writer) Int64(v int64) {
	binary.LittleEndian.PutUint64(w.buf[:8], uint64(v))
	w.Raw(w.buf[:8])
}

func (w *Writer) Float32(v float32) { w.Uint32(math.Float32bits(v)) }

func (w *Writer) Float64(v float64) { w.Int64(int64(math.Float64bits(v))) }

// Count writes a collection length as an int32.
func (w *Writer) Count(n int) {
	if w.err == nil && (n < 0 || n > math.MaxInt32) {
		w.err = ErrBadLength
		return
	}
	w.Int32(int32(n))
}

// Uvarint writes v using the 7-bit encoding (low groups first, high bit set
// on every byte but the last).
func (w *Writer) Uvarint(v uint32) {
	var tmp [maxVarintLen]byte
	i := 0
	for v >= 0x80 {
		tmp[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	tmp[i] = byte(v)
	w.Raw(tmp[:i+1])
}

// String writes s as a 7-bit encoded byte length followed by its bytes.
func (w *Writer) String(s string) {
	if w.err == nil && len(s) > math.MaxInt32 {
		w.err = ErrBadLength
		return
	}
	w.Uvarint(uint32(len(s)))
	if w.err != nil {
		return
	}
	n, err := io.WriteString(w.w, s)
	w.n += int64(n)
	w.err = err
}
