package geotiv

import (
	"bytes"
	stdbinary "encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/robert-malhotra/go-geotiv/internal/binary"
	"github.com/robert-malhotra/go-geotiv/internal/tag"
)

const tiffMagic = 42

// ReadFile decodes the GeoTIFF at path. The file handle is scoped to this
// call and released on every exit path.
func ReadFile(path string) (*RasterCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, errors.Join(ErrIO, err))
	}
	defer f.Close()
	rc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return rc, nil
}

// DecodeBytes decodes an in-memory GeoTIFF.
func DecodeBytes(data []byte) (*RasterCollection, error) {
	return Decode(bytes.NewReader(data))
}

// Decode walks the directory chain starting at the header's first-directory
// offset and reconstructs one Layer per directory. It is a pure transform:
// on failure it returns nil and no partially-decoded collection.
func Decode(src io.ReaderAt) (*RasterCollection, error) {
	probe := binary.NewReader(src, stdbinary.LittleEndian)
	marker, err := probe.ReadBytes(2)
	if err != nil {
		return nil, fmt.Errorf("byte-order marker: %w", err)
	}
	var order stdbinary.ByteOrder
	switch string(marker) {
	case "II":
		order = stdbinary.LittleEndian
	case "MM":
		order = stdbinary.BigEndian
	default:
		return nil, fmt.Errorf("%w: byte-order marker %q", ErrBadHeader, marker)
	}

	r := binary.NewReader(src, order).At(2)
	magic, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("magic number: %w", err)
	}
	if magic != tiffMagic {
		return nil, fmt.Errorf("%w: magic number %d", ErrBadHeader, magic)
	}
	next, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("first directory offset: %w", err)
	}

	rc := &RasterCollection{}
	for index := 0; next != 0; index++ {
		dir, err := tag.ReadDirectory(r, next)
		if err != nil {
			return nil, fmt.Errorf("directory %d at offset %d: %w", index, next, err)
		}
		layer, err := decodeLayer(r, dir)
		if err != nil {
			return nil, fmt.Errorf("directory %d at offset %d: %w", index, next, err)
		}
		if index == 0 {
			// The first directory supplies the collection-level defaults.
			rc.CRS = layer.CRS
			rc.Datum = layer.Datum
			rc.Shift = layer.Shift
			rc.Resolution = layer.Resolution
		}
		rc.Layers = append(rc.Layers, layer)
		next = dir.Next
	}
	if len(rc.Layers) == 0 {
		return nil, fmt.Errorf("%w: directory chain is empty", ErrEmptyCollection)
	}
	return rc, nil
}

// dirUint resolves a numeric tag to its first value, or 0 when the tag is
// absent.
func dirUint(r *binary.Reader, dir *tag.Directory, id uint16) (uint32, error) {
	e, ok := dir.Find(id)
	if !ok {
		return 0, nil
	}
	vals, err := tag.Uints(r, e)
	if err != nil || len(vals) == 0 {
		return 0, err
	}
	return vals[0], nil
}

// dirUints resolves a numeric tag to all its values, or nil when absent.
func dirUints(r *binary.Reader, dir *tag.Directory, id uint16) ([]uint32, error) {
	e, ok := dir.Find(id)
	if !ok {
		return nil, nil
	}
	return tag.Uints(r, e)
}

func decodeLayer(r *binary.Reader, dir *tag.Directory) (Layer, error) {
	l := Layer{IFDOffset: dir.Offset}

	var err error
	if l.Width, err = dirUint(r, dir, tag.ImageWidth); err != nil {
		return l, err
	}
	if l.Height, err = dirUint(r, dir, tag.ImageLength); err != nil {
		return l, err
	}
	if l.Width == 0 || l.Height == 0 {
		return l, fmt.Errorf("%w: invalid or missing image dimensions", ErrMalformedLayer)
	}

	if l.SamplesPerPixel, err = dirUint(r, dir, tag.SamplesPerPixel); err != nil {
		return l, err
	}
	if l.SamplesPerPixel == 0 {
		l.SamplesPerPixel = 1
	}
	if l.PlanarConfig, err = dirUint(r, dir, tag.PlanarConfiguration); err != nil {
		return l, err
	}
	if l.PlanarConfig == 0 {
		l.PlanarConfig = 1
	}
	bits, err := dirUint(r, dir, tag.BitsPerSample)
	if err != nil {
		return l, err
	}
	if bits == 0 {
		bits = 1
	}
	if bits != 8 {
		return l, fmt.Errorf("%w: %d bits per sample, want 8", ErrUnsupportedFormat, bits)
	}

	if l.StripOffsets, err = dirUints(r, dir, tag.StripOffsets); err != nil {
		return l, err
	}
	if l.StripByteCounts, err = dirUints(r, dir, tag.StripByteCounts); err != nil {
		return l, err
	}
	if len(l.StripOffsets) == 0 || len(l.StripByteCounts) == 0 {
		return l, fmt.Errorf("%w: missing strip data", ErrMalformedLayer)
	}
	if len(l.StripOffsets) != len(l.StripByteCounts) {
		return l, fmt.Errorf("%w: %d strip offsets vs %d byte counts",
			ErrMalformedLayer, len(l.StripOffsets), len(l.StripByteCounts))
	}

	var total uint64
	for _, c := range l.StripByteCounts {
		total += uint64(c)
	}
	expected := uint64(l.Width) * uint64(l.Height) * uint64(l.SamplesPerPixel)
	if total != expected {
		return l, fmt.Errorf("%w: strip byte count sum %d, expected %d",
			ErrMalformedLayer, total, expected)
	}

	pix := make([]byte, 0, total)
	for i := range l.StripOffsets {
		strip, err := r.At(int64(l.StripOffsets[i])).ReadBytes(int(l.StripByteCounts[i]))
		if err != nil {
			return l, fmt.Errorf("strip %d: %w", i, err)
		}
		pix = append(pix, strip...)
	}

	// Geospatial metadata, decoded independently for every directory.
	l.CRS = WGS
	l.Datum = DefaultDatum
	if e, ok := dir.Find(tag.ImageDescription); ok && e.Type == tag.TypeASCII {
		text, err := tag.DecodeASCII(r, e)
		if err != nil {
			return l, err
		}
		l.ImageDescription = text
		d := parseDescription(text)
		if d.hasCRS {
			l.CRS = d.crs
		}
		if d.hasDatum {
			l.Datum = d.datum
		}
		if d.hasShift {
			l.Shift = d.shift
		}
	}

	l.Resolution = 1.0
	if e, ok := dir.Find(tag.ModelPixelScale); ok && e.Type == tag.TypeDouble {
		scales, err := tag.DecodeDoubles(r, e)
		if err != nil {
			return l, err
		}
		if len(scales) >= 2 {
			l.Resolution = scales[0]
		}
	}
	if l.Resolution <= 0 {
		return l, fmt.Errorf("%w: pixel resolution %g", ErrInvalidMetadata, l.Resolution)
	}

	for _, e := range dir.Entries {
		if e.Tag < tag.CustomBase {
			continue
		}
		values, err := tag.DecodeLongs(r, e)
		if err != nil {
			return l, fmt.Errorf("custom tag %d: %w", e.Tag, err)
		}
		l.SetCustomTag(e.Tag, values)
	}

	l.Grid = materializeGrid(pix, l.Width, l.Height, l.SamplesPerPixel, l.PlanarConfig)
	return l, nil
}

// materializeGrid turns the reassembled pixel buffer into a 2-D grid.
// Chunky layout takes every samplesPerPixel-th byte as the representative
// sample; planar layout takes the first plane in sequence. Either way only
// the first sample channel survives.
func materializeGrid(pix []byte, width, height, samples, planar uint32) Grid {
	g := NewGrid(int(height), int(width))
	if planar == 1 {
		idx := 0
		for row := 0; row < int(height); row++ {
			for col := 0; col < int(width); col++ {
				g.Set(row, col, pix[idx])
				idx += int(samples)
			}
		}
		return g
	}
	idx := 0
	for row := 0; row < int(height); row++ {
		for col := 0; col < int(width); col++ {
			g.Set(row, col, pix[idx])
			idx++
		}
	}
	return g
}
