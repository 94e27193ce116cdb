// Package binary provides low-level binary I/O operations for TIFF file
// parsing and writing.
package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrTruncated is returned when the underlying stream ends before an
// expected field could be read in full.
var ErrTruncated = errors.New("truncated input")

// Reader provides methods for reading fixed-width TIFF fields from an
// io.ReaderAt at a tracked position. The byte order is fixed once per file
// by the header marker and applies to every field read through the Reader.
type Reader struct {
	r     io.ReaderAt
	order binary.ByteOrder
	pos   int64
}

// NewReader creates a binary reader with the given byte order.
func NewReader(r io.ReaderAt, order binary.ByteOrder) *Reader {
	return &Reader{r: r, order: order}
}

// At returns a new reader positioned at the given offset.
// The new reader shares the underlying io.ReaderAt but has independent position.
func (r *Reader) At(offset int64) *Reader {
	return &Reader{r: r.r, order: r.order, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int64 {
	return r.pos
}

// ByteOrder returns the configured byte order.
func (r *Reader) ByteOrder() binary.ByteOrder {
	return r.order
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int64) {
	r.pos += n
}

// ReadBytes reads exactly n bytes from the current position.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	m, err := r.r.ReadAt(buf, r.pos)
	if m < n {
		if err == nil || err == io.EOF {
			err = ErrTruncated
		}
		return nil, fmt.Errorf("reading %d bytes at offset %d: %w", n, r.pos, err)
	}
	r.pos += int64(n)
	return buf, nil
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	buf, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads an unsigned 16-bit integer.
func (r *Reader) ReadUint16() (uint16, error) {
	buf, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(buf), nil
}

// ReadUint32 reads an unsigned 32-bit integer.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(buf), nil
}

// ReadUint64 reads an unsigned 64-bit integer.
func (r *Reader) ReadUint64() (uint64, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(buf), nil
}

// ReadFloat64 reads an IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	bits, err := r.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}
