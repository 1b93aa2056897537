package image

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Steviegt6/TerraWeave/internal/binio"
	"github.com/Steviegt6/TerraWeave/internal/fsx"
)

// Magic opens every binary image file.
const Magic = "TWIMG\x00"

var (
	// ErrBadMagic is returned when a binary image does not start with Magic.
	ErrBadMagic = errors.New("not a TerraWeave image")

	// ErrTrailingData is returned when bytes follow the last type.
	ErrTrailingData = errors.New("trailing data after image")
)

// Open loads the image at path. Files ending in .yaml or .yml are read as
// YAML documents, anything else as a binary image.
func Open(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	var im *Image
	if isYAML(path) {
		im, err = DecodeYAML(data)
	} else {
		im, err = Decode(data)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return im, nil
}

// Save writes im to path in the format chosen by its extension. The file is
// written to a temporary sibling first and renamed into place.
func (im *Image) Save(path string) error {
	var buf bytes.Buffer
	var err error
	if isYAML(path) {
		err = im.EncodeYAML(&buf)
	} else {
		err = im.Encode(&buf)
	}
	if err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	return fsx.WriteFile(path, buf.Bytes(), 0o644)
}

// Encode writes im in the binary image format:
//
//	6 bytes  "TWIMG\0"
//	string   name
//	16 bytes MVID
//	int32    top-level type count, then that many type descriptions
func (im *Image) Encode(w io.Writer) error {
	bw := binio.NewWriter(w)
	bw.Raw([]byte(Magic))
	bw.String(im.Name)
	bw.Raw(im.MVID[:])
	bw.Count(len(im.types))
	for _, t := range im.types {
		EncodeType(bw, t)
	}
	return bw.Err()
}

// Decode parses a binary image.
func Decode(data []byte) (*Image, error) {
	r := binio.NewReader(data)
	if string(r.Raw(len(Magic))) != Magic {
		return nil, ErrBadMagic
	}

	im := New(r.String())
	if id, err := uuid.FromBytes(r.Raw(16)); err == nil {
		im.MVID = id
	}

	n := r.Count()
	for i := 0; i < n && r.Err() == nil; i++ {
		t := DecodeType(r)
		if t == nil {
			break
		}
		if err := im.AddType(t); err != nil {
			return nil, err
		}
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, fmt.Errorf("%d bytes: %w", r.Remaining(), ErrTrailingData)
	}
	return im, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
