// Package patch defines the records a .tweave container carries, their
// binary encoding, and how each one is replayed onto a baseline image.
package patch

import (
	"errors"
	"fmt"

	"github.com/Steviegt6/TerraWeave/internal/binio"
	"github.com/Steviegt6/TerraWeave/internal/image"
)

var (
	// ErrBadMagic is returned when a container does not start with Magic.
	ErrBadMagic = errors.New("not a TerraWeave patch")

	// ErrUnknownRecord is returned for a record tag this version does not
	// know. The whole container is rejected.
	ErrUnknownRecord = errors.New("unknown record type")

	// ErrTruncated is returned when the container ends inside a record.
	ErrTruncated = binio.ErrTruncated

	// ErrTrailingData is returned when bytes follow the last record.
	ErrTrailingData = errors.New("trailing data after last record")

	// ErrTypeNotFound is returned when a declaring type is missing from the
	// baseline.
	ErrTypeNotFound = errors.New("type not found")

	// ErrMethodNotFound is returned when a patched method is missing from the
	// baseline.
	ErrMethodNotFound = errors.New("method not found")

	// ErrTypeExists is returned when an injected type is already present.
	ErrTypeExists = errors.New("type already exists")

	// ErrChangeOutOfRange is returned when a method change points outside
	// the live instruction list.
	ErrChangeOutOfRange = errors.New("change index out of range")
)

// Kind is the one-byte tag in front of every record.
type Kind byte

const (
	KindTypeInject       Kind = 1
	KindNestedTypeInject Kind = 2
	KindMethodModify     Kind = 3
)

func (k Kind) String() string {
	switch k {
	case KindTypeInject:
		return "TypeInject"
	case KindNestedTypeInject:
		return "NestedTypeInject"
	case KindMethodModify:
		return "MethodModify"
	}
	return fmt.Sprintf("Kind(%d)", byte(k))
}

// Record is one edit carried by a container. The set of implementations is
// closed: TypeInject, NestedTypeInject and MethodModify.
type Record interface {
	Kind() Kind

	// Target names what the record creates or changes.
	Target() string

	// Apply replays the record onto im.
	Apply(im *image.Image) error

	encode(w *binio.Writer)
}

func decodeRecord(kind Kind, r *binio.Reader) (Record, error) {
	var rec Record
	switch kind {
	case KindTypeInject:
		rec = decodeTypeInject(r)
	case KindNestedTypeInject:
		rec = decodeNestedTypeInject(r)
	case KindMethodModify:
		rec = decodeMethodModify(r)
	default:
		return nil, fmt.Errorf("tag %d: %w", byte(kind), ErrUnknownRecord)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ApplyAll replays records onto im in order. The first failure stops the
// run; the returned error names the record's position and kind. im is left
// partially patched in that case and should be discarded.
func ApplyAll(im *image.Image, records []Record) error {
	for i, rec := range records {
		if err := rec.Apply(im); err != nil {
			return fmt.Errorf("record %d (%s %s): %w", i, rec.Kind(), rec.Target(), err)
		}
	}
	return nil
}
