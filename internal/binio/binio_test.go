package binio

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestUvarintEncoding(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		want  []byte
	}{
		{name: "zero", value: 0, want: []byte{0x00}},
		{name: "single byte max", value: 127, want: []byte{0x7f}},
		{name: "two bytes min", value: 128, want: []byte{0x80, 0x01}},
		{name: "three hundred", value: 300, want: []byte{0xac, 0x02}},
		{name: "max uint32", value: math.MaxUint32, want: []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter(&buf)
			w.Uvarint(tt.value)
			if err := w.Err(); err != nil {
				t.Fatalf("Uvarint failed: %v", err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Errorf("encoding = % x, want % x", buf.Bytes(), tt.want)
			}

			r := NewReader(buf.Bytes())
			if got := r.Uvarint(); got != tt.value || r.Err() != nil {
				t.Errorf("decoded %d (err %v), want %d", got, r.Err(), tt.value)
			}
		})
	}
}

func TestPrimitives(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Raw([]byte("TWEAVE"))
	w.Int32(-2)
	w.Byte(3)
	w.Bool(true)
	w.Uint16(0xfe01)
	w.Int64(math.MinInt64)
	w.Float32(1.5)
	w.Float64(-0.25)
	w.String("Terraria.Main")
	w.String("")
	w.Count(7)
	if err := w.Err(); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if int(w.Written()) != buf.Len() {
		t.Errorf("Written() = %d, buffer holds %d", w.Written(), buf.Len())
	}

	// int32 is little-endian two's complement
	if got := buf.Bytes()[6:10]; !bytes.Equal(got, []byte{0xfe, 0xff, 0xff, 0xff}) {
		t.Errorf("int32 bytes = % x", got)
	}

	r := NewReader(buf.Bytes())
	if got := string(r.Raw(6)); got != "TWEAVE" {
		t.Errorf("Raw = %q", got)
	}
	if got := r.Int32(); got != -2 {
		t.Errorf("Int32 = %d", got)
	}
	if got := r.Byte(); got != 3 {
		t.Errorf("Byte = %d", got)
	}
	if got := r.Bool(); !got {
		t.Errorf("Bool = %v", got)
	}
	if got := r.Uint16(); got != 0xfe01 {
		t.Errorf("Uint16 = %#x", got)
	}
	if got := r.Int64(); got != math.MinInt64 {
		t.Errorf("Int64 = %d", got)
	}
	if got := r.Float32(); got != 1.5 {
		t.Errorf("Float32 = %v", got)
	}
	if got := r.Float64(); got != -0.25 {
		t.Errorf("Float64 = %v", got)
	}
	if got := r.String(); got != "Terraria.Main" {
		t.Errorf("String = %q", got)
	}
	if got := r.String(); got != "" {
		t.Errorf("empty String = %q", got)
	}
	if got := r.Count(); got != 0 || !errors.Is(r.Err(), ErrTruncated) {
		// a count of 7 with nothing behind it cannot be satisfied
		t.Errorf("Count = %d, err = %v, want truncation", got, r.Err())
	}
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(r *Reader)
		want error
	}{
		{
			name: "short int32",
			data: []byte{1, 2},
			read: func(r *Reader) { r.Int32() },
			want: ErrTruncated,
		},
		{
			name: "string longer than data",
			data: []byte{0x05, 'a', 'b'},
			read: func(r *Reader) { _ = r.String() },
			want: ErrTruncated,
		},
		{
			name: "negative count",
			data: []byte{0xff, 0xff, 0xff, 0xff},
			read: func(r *Reader) { r.Count() },
			want: ErrBadLength,
		},
		{
			name: "varint overflow",
			data: []byte{0xff, 0xff, 0xff, 0xff, 0x7f},
			read: func(r *Reader) { r.Uvarint() },
			want: ErrBadLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.data)
			tt.read(r)
			if !errors.Is(r.Err(), tt.want) {
				t.Errorf("err = %v, want %v", r.Err(), tt.want)
			}
		})
	}
}

func TestReaderStickyError(t *testing.T) {
	r := NewReader([]byte{1})
	r.Int32()
	first := r.Err()
	if first == nil {
		t.Fatal("expected an error")
	}
	if got := r.Byte(); got != 0 {
		t.Errorf("Byte after error = %d, want 0", got)
	}
	if r.Err() != first {
		t.Errorf("error changed from %v to %v", first, r.Err())
	}
	if r.Offset() != 0 {
		t.Errorf("Offset = %d, want 0", r.Offset())
	}
}
