// Package geotiv reads and writes multi-layer GeoTIFF rasters: chained
// image file directories with uncompressed 8-bit strips and per-layer
// geospatial metadata.
package geotiv

import (
	"errors"

	"github.com/robert-malhotra/go-geotiv/internal/binary"
)

// Error taxonomy. Every failure surfaced by the codec matches exactly one
// of these with errors.Is; recoverable tolerances (unknown description
// tokens, missing optional tags) are not errors.
var (
	// ErrTruncatedInput reports a stream that ended before an expected field.
	ErrTruncatedInput = binary.ErrTruncated
	// ErrBadHeader reports a byte-order marker or magic number mismatch.
	ErrBadHeader = errors.New("bad TIFF header")
	// ErrMalformedLayer reports a missing or inconsistent mandatory tag:
	// zero dimensions, absent strip arrays, mismatched strip array lengths,
	// or a strip byte-count sum that disagrees with the pixel dimensions.
	ErrMalformedLayer = errors.New("malformed layer")
	// ErrUnsupportedFormat reports sample layouts the codec does not model;
	// only 8 bits per sample is supported.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrInvalidMetadata reports unusable geospatial metadata, such as a
	// non-positive pixel resolution.
	ErrInvalidMetadata = errors.New("invalid geospatial metadata")
	// ErrEmptyCollection reports a collection with zero layers, on either
	// a read result or a write input.
	ErrEmptyCollection = errors.New("collection has no layers")
	// ErrIO reports a failure opening, reading, or writing the underlying
	// file.
	ErrIO = errors.New("file I/O failure")
)
