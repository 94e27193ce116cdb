// Package tag implements the TIFF tag directory codec: the fixed-size entry
// table of an image file directory (IFD) and the typed resolution of entry
// values, including the inline-vs-offset rule for values that fit in the
// 4-byte value field.
package tag

// Field types carried by directory entries. The set is closed: every entry
// this codec emits or resolves is one of these four.
const (
	TypeASCII  uint16 = 2
	TypeShort  uint16 = 3
	TypeLong   uint16 = 4
	TypeDouble uint16 = 12
)

// Baseline TIFF tags.
const (
	ImageWidth                uint16 = 256
	ImageLength               uint16 = 257
	BitsPerSample             uint16 = 258
	Compression               uint16 = 259
	PhotometricInterpretation uint16 = 262
	ImageDescription          uint16 = 270
	StripOffsets              uint16 = 273
	SamplesPerPixel           uint16 = 277
	RowsPerStrip              uint16 = 278
	StripByteCounts           uint16 = 279
	PlanarConfiguration       uint16 = 284
)

// GeoTIFF tags.
const (
	ModelPixelScale uint16 = 33550
	ModelTiepoint   uint16 = 33922
	GeoKeyDirectory uint16 = 34735
)

// CustomBase is the first tag id of the private range reserved for
// application-defined tags.
const CustomBase uint16 = 50000

// EntrySize is the wire size of one directory entry.
const EntrySize = 12

// DirectorySize returns the wire size of a directory with n entries:
// a 16-bit entry count, n fixed entries, and the 32-bit next-IFD pointer.
func DirectorySize(n int) uint32 {
	return 2 + uint32(n)*EntrySize + 4
}
