// Package binio reads and writes the little-endian primitives shared by the
// image and patch formats.
//
// Strings are written the way .NET's BinaryWriter writes them: a 7-bit
// encoded byte length followed by UTF-8 bytes. Both Writer and Reader keep
// the first error they hit and turn every later call into a no-op, so codecs
// can emit a whole structure and check Err once at the end.
package binio

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when the data ends before a value is complete.
	ErrTruncated = errors.New("unexpected end of data")

	// ErrBadLength is returned for negative or oversized length prefixes.
	ErrBadLength = errors.New("invalid length prefix")
)

// maxVarintLen is the longest 7-bit encoding of a uint32.
const maxVarintLen = 5

func truncated(off, want int) error {
	return fmt.Errorf("reading %d bytes at offset %d: %w", want, off, ErrTruncated)
}
