package geotiv

import "fmt"

// CRS identifies the coordinate flavor a layer was authored in. The codec's
// pixel and byte logic is flavor-agnostic; the flavor matters only where a
// local shift is converted to world coordinates for the tie-point block.
type CRS int

const (
	// WGS is the geographic WGS84 flavor (EPSG:4326).
	WGS CRS = iota
	// ENU is the local east-north-up flavor anchored at a datum.
	ENU
)

func (c CRS) String() string {
	switch c {
	case WGS:
		return "WGS"
	case ENU:
		return "ENU"
	}
	return fmt.Sprintf("CRS(%d)", int(c))
}

// ParseCRS maps the flavor spellings accepted in ImageDescription text.
func ParseCRS(s string) (CRS, error) {
	switch s {
	case "ENU":
		return ENU, nil
	case "WGS", "WGS84", "EPSG:4326":
		return WGS, nil
	}
	return WGS, fmt.Errorf("unknown CRS %q", s)
}

// Datum is the geodetic reference point anchoring a layer's local frame.
type Datum struct {
	Lat float64
	Lon float64
	Alt float64
}

// IsSet reports whether any component is non-zero. An all-zero datum is
// treated as "not supplied".
func (d Datum) IsSet() bool {
	return d != Datum{}
}

// DefaultDatum is substituted when a decoded ImageDescription carries no
// usable DATUM, so a successfully-read layer always has a set datum. Callers
// that need to detect the substitution can compare against it.
var DefaultDatum = Datum{Lat: 0.001, Lon: 0.001, Alt: 1.0}

// Shift places a layer within its local frame: an east/north/up offset from
// the datum plus a yaw rotation.
type Shift struct {
	X   float64
	Y   float64
	Z   float64
	Yaw float64
}

// IsSet reports whether any component is non-zero.
func (s Shift) IsSet() bool {
	return s != Shift{}
}

// Grid is a row-major 2-D array of 8-bit samples, one entry per pixel.
type Grid struct {
	rows, cols int
	data       []uint8
}

// NewGrid creates a zero-filled grid with the given dimensions.
func NewGrid(rows, cols int) Grid {
	if rows < 0 || cols < 0 {
		rows, cols = 0, 0
	}
	return Grid{rows: rows, cols: cols, data: make([]uint8, rows*cols)}
}

// Rows returns the number of pixel rows.
func (g Grid) Rows() int { return g.rows }

// Cols returns the number of pixel columns.
func (g Grid) Cols() int { return g.cols }

// At returns the sample at (row, col).
func (g Grid) At(row, col int) uint8 {
	return g.data[row*g.cols+col]
}

// Set stores the sample at (row, col).
func (g Grid) Set(row, col int, v uint8) {
	g.data[row*g.cols+col] = v
}

// Pixels returns the backing row-major sample slice.
func (g Grid) Pixels() []uint8 { return g.data }

// Layer is the in-memory form of one image file directory: the raster grid
// plus the metadata that directory carried.
//
// Multi-sample pixels narrow to their first channel on decode, and the
// encoder replicates the single channel across SamplesPerPixel. This is a
// known narrowing of the format, not a full multi-band model.
type Layer struct {
	// IFDOffset records where in the source file this layer's directory
	// lived. The decoder sets it; the encoder ignores it.
	IFDOffset uint32

	Width  uint32
	Height uint32
	// SamplesPerPixel is the channel count per pixel; 0 means the default
	// of 1.
	SamplesPerPixel uint32
	// PlanarConfig is 1 for chunky (samples of one pixel contiguous) or 2
	// for planar (one sample plane at a time); 0 means the default of 1.
	PlanarConfig uint32

	// StripOffsets and StripByteCounts are parallel descriptors of the
	// contiguous pixel-byte ranges backing the grid, as read from the file.
	// The encoder recomputes them.
	StripOffsets    []uint32
	StripByteCounts []uint32

	CRS        CRS
	Datum      Datum
	Shift      Shift
	Resolution float64 // map units per pixel

	// ImageDescription is free-text metadata. When empty at encode time a
	// description is synthesized from the structured fields above.
	ImageDescription string

	// CustomTags maps application-defined tag ids (>= 50000) to their
	// values. Encoded in ascending tag-id order.
	CustomTags map[uint16][]uint32

	Grid Grid
}

// SetCustomTag records an application-defined tag on the layer.
func (l *Layer) SetCustomTag(id uint16, values []uint32) {
	if l.CustomTags == nil {
		l.CustomTags = make(map[uint16][]uint32)
	}
	l.CustomTags[id] = values
}

// RasterCollection is an ordered sequence of layers plus the file-level
// defaults populated from the first directory on read. The encoder treats
// per-layer fields as authoritative and falls back to these only where a
// layer left a value unset.
type RasterCollection struct {
	Layers []Layer

	CRS        CRS
	Datum      Datum
	Shift      Shift
	Resolution float64
}
