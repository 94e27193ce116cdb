package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestReaderReadUint16(t *testing.T) {
	data := []byte{0x02, 0x01, 0xFF, 0xFF}

	r := NewReader(bytes.NewReader(data), binary.LittleEndian)
	v, err := r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("expected 0x0102, got 0x%04x", v)
	}

	r = NewReader(bytes.NewReader(data), binary.BigEndian)
	v, err = r.ReadUint16()
	if err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if v != 0x0201 {
		t.Errorf("expected 0x0201, got 0x%04x", v)
	}
}

func TestReaderReadUint32(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(0x12345678))
	binary.Write(&buf, binary.LittleEndian, uint32(0xDEADBEEF))

	r := NewReader(bytes.NewReader(buf.Bytes()), binary.LittleEndian)

	v, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0x12345678 {
		t.Errorf("expected 0x12345678, got 0x%08x", v)
	}

	v, err = r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if v != 0xDEADBEEF {
		t.Errorf("expected 0xDEADBEEF, got 0x%08x", v)
	}
}

func TestReaderReadFloat64(t *testing.T) {
	tests := []struct {
		name  string
		order binary.ByteOrder
		value float64
	}{
		{"little-endian", binary.LittleEndian, 1.5},
		{"big-endian", binary.BigEndian, -47.25},
		{"zero", binary.LittleEndian, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			binary.Write(&buf, tt.order, math.Float64bits(tt.value))

			r := NewReader(bytes.NewReader(buf.Bytes()), tt.order)
			v, err := r.ReadFloat64()
			if err != nil {
				t.Fatalf("ReadFloat64 failed: %v", err)
			}
			if v != tt.value {
				t.Errorf("expected %v, got %v", tt.value, v)
			}
		})
	}
}

func TestReaderAt(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(bytes.NewReader(data), binary.LittleEndian)

	r2 := r.At(3)
	v, err := r2.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x03 {
		t.Errorf("expected 0x03, got 0x%02x", v)
	}

	// The parent reader's position is unaffected.
	v, err = r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x00 {
		t.Errorf("expected 0x00, got 0x%02x", v)
	}
}

func TestReaderSkip(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0x03, 0x04}
	r := NewReader(bytes.NewReader(data), binary.LittleEndian)

	r.Skip(2)
	v, err := r.ReadUint8()
	if err != nil {
		t.Fatalf("ReadUint8 failed: %v", err)
	}
	if v != 0x02 {
		t.Errorf("expected 0x02, got 0x%02x", v)
	}
}

func TestReaderTruncated(t *testing.T) {
	data := []byte{0x01, 0x02}

	tests := []struct {
		name string
		read func(r *Reader) error
	}{
		{"uint32 past end", func(r *Reader) error { _, err := r.ReadUint32(); return err }},
		{"uint64 past end", func(r *Reader) error { _, err := r.ReadUint64(); return err }},
		{"bytes past end", func(r *Reader) error { _, err := r.At(10).ReadBytes(4); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(bytes.NewReader(data), binary.LittleEndian)
			err := tt.read(r)
			if !errors.Is(err, ErrTruncated) {
				t.Errorf("expected ErrTruncated, got %v", err)
			}
		})
	}
}

func TestReaderPosTracking(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	r := NewReader(bytes.NewReader(data), binary.LittleEndian)

	if _, err := r.ReadUint16(); err != nil {
		t.Fatalf("ReadUint16 failed: %v", err)
	}
	if r.Pos() != 2 {
		t.Errorf("expected pos 2, got %d", r.Pos())
	}
	if _, err := r.ReadUint32(); err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if r.Pos() != 6 {
		t.Errorf("expected pos 6, got %d", r.Pos())
	}
}
