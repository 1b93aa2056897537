package patch

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/Steviegt6/TerraWeave/internal/binio"
	"github.com/Steviegt6/TerraWeave/internal/fsx"
)

// Magic opens every container.
const Magic = "TWEAVE"

// Write encodes records as a container:
//
//	6 bytes  "TWEAVE"
//	int32    record count
//	records  byte tag, then the record payload
func Write(w io.Writer, records []Record) error {
	bw := binio.NewWriter(w)
	bw.Raw([]byte(Magic))
	bw.Count(len(records))
	for _, rec := range records {
		bw.Byte(byte(rec.Kind()))
		rec.encode(bw)
	}
	return bw.Err()
}

// Read decodes a container. The magic is checked before anything else, and
// an unknown tag, a short read or leftover bytes reject the whole container.
func Read(data []byte) ([]Record, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}

	r := binio.NewReader(data[len(Magic):])
	n := r.Count()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("record count: %w", err)
	}

	records := make([]Record, 0, n)
	for i := range n {
		kind := Kind(r.Byte())
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("record %d of %d: %w", i, n, err)
		}
		rec, err := decodeRecord(kind, r)
		if err != nil {
			return nil, fmt.Errorf("record %d of %d: %w", i, n, err)
		}
		records = append(records, rec)
	}

	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%d bytes: %w", r.Remaining(), ErrTrailingData)
	}
	return records, nil
}

// ReadFile loads the container at path.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch: %w", err)
	}
	return Read(data)
}

// WriteFile writes records to path through a temporary sibling file.
func WriteFile(path string, records []Record) error {
	var buf bytes.Buffer
	if err := Write(&buf, records); err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	return fsx.WriteFile(path, buf.Bytes(), 0o644)
}
