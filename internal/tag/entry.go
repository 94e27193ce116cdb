package tag

import (
	stdbinary "encoding/binary"
	"fmt"

	"github.com/robert-malhotra/go-geotiv/internal/binary"
)

// Entry is one 12-byte directory entry as it appears on the wire.
// ValueOffset holds either the value itself or an absolute file offset to
// the value data, depending on type and count.
type Entry struct {
	Tag         uint16
	Type        uint16
	Count       uint32
	ValueOffset uint32
}

// Directory is one parsed IFD: its entries in file order plus the offset of
// the next directory in the chain (0 terminates the chain).
type Directory struct {
	Offset  uint32 // where this directory lived in the file
	Entries []Entry
	Next    uint32
}

// Find returns the entry with the given tag id, if present.
func (d *Directory) Find(id uint16) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Tag == id {
			return e, true
		}
	}
	return Entry{}, false
}

// ReadDirectory parses the directory at the given file offset.
func ReadDirectory(r *binary.Reader, offset uint32) (*Directory, error) {
	dr := r.At(int64(offset))
	n, err := dr.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("directory entry count: %w", err)
	}
	d := &Directory{Offset: offset, Entries: make([]Entry, 0, n)}
	for i := 0; i < int(n); i++ {
		var e Entry
		if e.Tag, err = dr.ReadUint16(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if e.Type, err = dr.ReadUint16(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if e.Count, err = dr.ReadUint32(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if e.ValueOffset, err = dr.ReadUint32(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		d.Entries = append(d.Entries, e)
	}
	if d.Next, err = dr.ReadUint32(); err != nil {
		return nil, fmt.Errorf("next directory pointer: %w", err)
	}
	return d, nil
}

// PutEntry appends one 12-byte entry to the output buffer.
func PutEntry(w *binary.Writer, e Entry) {
	w.WriteUint16(e.Tag)
	w.WriteUint16(e.Type)
	w.WriteUint32(e.Count)
	w.WriteUint32(e.ValueOffset)
}

// inlineShort extracts the SHORT packed into the given half of the 4-byte
// value field. The field was read as a uint32 in file byte order, so the
// first SHORT is the low half on little-endian files and the high half on
// big-endian files.
func inlineShort(r *binary.Reader, raw uint32, index int) uint32 {
	little := r.ByteOrder() == stdbinary.ByteOrder(stdbinary.LittleEndian)
	if (index == 0) == little {
		return raw & 0xFFFF
	}
	return raw >> 16
}

// DecodeShorts resolves a SHORT entry to its values. Counts of 1 and 2 are
// packed into the value field; larger counts live at the value offset.
func DecodeShorts(r *binary.Reader, e Entry) ([]uint32, error) {
	switch e.Count {
	case 0:
		return nil, nil
	case 1:
		return []uint32{inlineShort(r, e.ValueOffset, 0)}, nil
	case 2:
		return []uint32{
			inlineShort(r, e.ValueOffset, 0),
			inlineShort(r, e.ValueOffset, 1),
		}, nil
	}
	vr := r.At(int64(e.ValueOffset))
	out := make([]uint32, 0, e.Count)
	for i := uint32(0); i < e.Count; i++ {
		v, err := vr.ReadUint16()
		if err != nil {
			return nil, fmt.Errorf("tag %d SHORT[%d]: %w", e.Tag, i, err)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

// DecodeLongs resolves an entry via the LONG rule: a single value is the
// 4-byte field itself, more values live at the value offset. The declared
// type is not consulted; custom tags are resolved through this rule
// regardless of their declared type width.
func DecodeLongs(r *binary.Reader, e Entry) ([]uint32, error) {
	switch e.Count {
	case 0:
		return nil, nil
	case 1:
		return []uint32{e.ValueOffset}, nil
	}
	vr := r.At(int64(e.ValueOffset))
	out := make([]uint32, 0, e.Count)
	for i := uint32(0); i < e.Count; i++ {
		v, err := vr.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("tag %d LONG[%d]: %w", e.Tag, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeASCII resolves an ASCII entry. The value field is always an offset
// to count bytes of text. A trailing NUL is guaranteed present in the
// returned value's source: if the file omitted it, one is supplied.
func DecodeASCII(r *binary.Reader, e Entry) (string, error) {
	if e.Count == 0 {
		return "", nil
	}
	buf, err := r.At(int64(e.ValueOffset)).ReadBytes(int(e.Count))
	if err != nil {
		return "", fmt.Errorf("tag %d ASCII: %w", e.Tag, err)
	}
	if buf[len(buf)-1] != 0 {
		buf = append(buf, 0)
	}
	// expose up to the first NUL
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf[:len(buf)-1]), nil
}

// DecodeDoubles resolves a DOUBLE entry: count 8-byte IEEE-754 values at
// the value offset, never inlined.
func DecodeDoubles(r *binary.Reader, e Entry) ([]float64, error) {
	if e.Count == 0 {
		return nil, nil
	}
	vr := r.At(int64(e.ValueOffset))
	out := make([]float64, 0, e.Count)
	for i := uint32(0); i < e.Count; i++ {
		v, err := vr.ReadFloat64()
		if err != nil {
			return nil, fmt.Errorf("tag %d DOUBLE[%d]: %w", e.Tag, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Uints resolves a SHORT or LONG entry to its values, dispatching on the
// declared type. Entries of any other type resolve to nothing rather than
// erroring.
func Uints(r *binary.Reader, e Entry) ([]uint32, error) {
	switch e.Type {
	case TypeShort:
		return DecodeShorts(r, e)
	case TypeLong:
		return DecodeLongs(r, e)
	}
	return nil, nil
}
