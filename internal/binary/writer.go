package binary

import (
	"encoding/binary"
	"math"
)

// Writer accumulates TIFF output in a growable buffer. Output is always
// little-endian: the encoder never emits big-endian files, an asymmetry
// inherited from the reference design and kept deliberately.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty output buffer.
func NewWriter() *Writer {
	return &Writer{}
}

// NewWriterSize creates an output buffer with capacity for n bytes.
func NewWriterSize(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the accumulated output. The slice is owned by the Writer
// until no further writes happen.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteUint8 appends an unsigned 8-bit integer.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteUint16 appends an unsigned 16-bit integer.
func (w *Writer) WriteUint16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends an unsigned 32-bit integer.
func (w *Writer) WriteUint32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteUint64 appends an unsigned 64-bit integer.
func (w *Writer) WriteUint64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteFloat64 appends an IEEE-754 double.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

// WriteString appends the string bytes followed by a NUL terminator.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) {
	if n <= 0 {
		return
	}
	w.buf = append(w.buf, make([]byte, n)...)
}
