package geotiv

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/robert-malhotra/go-geotiv/internal/binary"
	"github.com/robert-malhotra/go-geotiv/internal/layout"
	"github.com/robert-malhotra/go-geotiv/internal/tag"
)

const (
	headerSize        = 8
	scaleBlockSize    = 24 // 3 doubles: X, Y, Z pixel scale
	geoKeyBlockSize   = 40 // 4-SHORT header plus 4 key entries of 4 SHORTs
	geoKeyShortCount  = 20
	tiepointBlockSize = 48 // 6 doubles: pixel I,J,K and world X,Y,Z
	// structuralEntries is the entry count every directory carries before
	// custom tags: the ten structural tags plus description, pixel scale,
	// geokey directory and tie-point.
	structuralEntries = 14
)

// layerPlan is the resolved per-layer state of the layout pass: the
// flattened strip, the effective metadata after collection-default
// fallback, and the file offsets of every section the layer owns.
type layerPlan struct {
	width, height uint32
	samples       uint32
	planar        uint32
	strip         []byte

	desc       string
	datum      Datum
	shift      Shift
	resolution float64

	custom    map[uint16][]uint32
	customIDs []uint16 // ascending

	stripOffset    uint32
	ifdOffset      uint32
	descOffset     uint32
	scaleOffset    uint32
	geoKeyOffset   uint32
	tiepointOffset uint32
	customOffset   uint32
}

// Encode serializes the collection into a complete little-endian GeoTIFF.
// The byte layout is computed in full before any byte is emitted, so a
// failure never produces partial output. Layer dimensions come from each
// layer's Grid; a layer whose Datum, Shift or Resolution is unset inherits
// the collection-level value.
func Encode(rc *RasterCollection) ([]byte, error) {
	if rc == nil || len(rc.Layers) == 0 {
		return nil, fmt.Errorf("%w: nothing to encode", ErrEmptyCollection)
	}

	plans := make([]layerPlan, len(rc.Layers))
	for i := range rc.Layers {
		p, err := planLayer(&rc.Layers[i], rc)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		plans[i] = p
	}

	// Section order is fixed: strips, directories, then each layer's
	// variable-length blocks in their fixed sub-order.
	plan := layout.New(headerSize)
	for i := range plans {
		plans[i].stripOffset = plan.ReserveTagged(uint32(len(plans[i].strip)), "strip")
	}
	for i := range plans {
		n := structuralEntries + len(plans[i].customIDs)
		plans[i].ifdOffset = plan.ReserveTagged(tag.DirectorySize(n), "ifd")
	}
	for i := range plans {
		p := &plans[i]
		p.descOffset = plan.ReserveTagged(uint32(len(p.desc))+1, "desc")
		p.scaleOffset = plan.ReserveTagged(scaleBlockSize, "scale")
		p.geoKeyOffset = plan.ReserveTagged(geoKeyBlockSize, "geokeys")
		p.tiepointOffset = plan.ReserveTagged(tiepointBlockSize, "tiepoint")
		var overflow uint32
		for _, id := range p.customIDs {
			if n := len(p.custom[id]); n > 1 {
				overflow += uint32(n) * 4
			}
		}
		p.customOffset = plan.ReserveTagged(overflow, "custom")
	}

	w := binary.NewWriterSize(int(plan.Total()))
	w.WriteUint8('I')
	w.WriteUint8('I')
	w.WriteUint16(tiffMagic)
	w.WriteUint32(plans[0].ifdOffset)

	for i := range plans {
		w.WriteBytes(plans[i].strip)
	}
	for i := range plans {
		next := uint32(0)
		if i+1 < len(plans) {
			next = plans[i+1].ifdOffset
		}
		emitDirectory(w, &plans[i], next)
	}
	for i := range plans {
		emitBlocks(w, &plans[i])
	}

	if w.Len() != int(plan.Total()) {
		return nil, fmt.Errorf("internal error: wrote %d bytes, planned %d", w.Len(), plan.Total())
	}
	return w.Bytes(), nil
}

// WriteFile encodes the collection and writes it to path. A convenience
// collaborator around Encode; the file is only touched after encoding
// succeeded in full.
func WriteFile(rc *RasterCollection, path string) error {
	data, err := Encode(rc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %q: %w", path, errors.Join(ErrIO, err))
	}
	return nil
}

func planLayer(l *Layer, rc *RasterCollection) (layerPlan, error) {
	p := layerPlan{
		width:  uint32(l.Grid.Cols()),
		height: uint32(l.Grid.Rows()),
	}
	if p.width == 0 || p.height == 0 {
		return p, fmt.Errorf("%w: empty grid", ErrMalformedLayer)
	}
	p.samples = l.SamplesPerPixel
	if p.samples == 0 {
		p.samples = 1
	}
	p.planar = l.PlanarConfig
	if p.planar == 0 {
		p.planar = 1
	}

	// Flatten to a chunky strip, replicating the single decoded channel
	// across all samples.
	p.strip = make([]byte, int(p.width)*int(p.height)*int(p.samples))
	idx := 0
	for row := 0; row < int(p.height); row++ {
		for col := 0; col < int(p.width); col++ {
			v := l.Grid.At(row, col)
			for s := uint32(0); s < p.samples; s++ {
				p.strip[idx] = v
				idx++
			}
		}
	}

	p.datum = l.Datum
	if !p.datum.IsSet() {
		p.datum = rc.Datum
	}
	p.shift = l.Shift
	if !p.shift.IsSet() {
		p.shift = rc.Shift
	}
	p.resolution = l.Resolution
	if p.resolution == 0 {
		p.resolution = rc.Resolution
	}
	if p.resolution == 0 {
		p.resolution = 1.0
	}

	p.desc = l.ImageDescription
	if p.desc == "" {
		p.desc = synthesizeDescription(p.datum, p.shift)
	}

	p.custom = l.CustomTags
	p.customIDs = slices.Sorted(maps.Keys(l.CustomTags))
	return p, nil
}

func emitDirectory(w *binary.Writer, p *layerPlan, next uint32) {
	w.WriteUint16(uint16(structuralEntries + len(p.customIDs)))

	short := func(id uint16, v uint32) {
		tag.PutEntry(w, tag.Entry{Tag: id, Type: tag.TypeShort, Count: 1, ValueOffset: v})
	}
	long := func(id uint16, v uint32) {
		tag.PutEntry(w, tag.Entry{Tag: id, Type: tag.TypeLong, Count: 1, ValueOffset: v})
	}

	long(tag.ImageWidth, p.width)
	long(tag.ImageLength, p.height)
	short(tag.BitsPerSample, 8)
	short(tag.Compression, 1)               // uncompressed
	short(tag.PhotometricInterpretation, 1) // BlackIsZero
	tag.PutEntry(w, tag.Entry{
		Tag: tag.ImageDescription, Type: tag.TypeASCII,
		Count: uint32(len(p.desc)) + 1, ValueOffset: p.descOffset,
	})
	long(tag.StripOffsets, p.stripOffset)
	short(tag.SamplesPerPixel, p.samples)
	long(tag.RowsPerStrip, p.height) // whole layer is one strip
	long(tag.StripByteCounts, uint32(len(p.strip)))
	short(tag.PlanarConfiguration, p.planar)
	tag.PutEntry(w, tag.Entry{
		Tag: tag.ModelPixelScale, Type: tag.TypeDouble,
		Count: 3, ValueOffset: p.scaleOffset,
	})
	tag.PutEntry(w, tag.Entry{
		Tag: tag.GeoKeyDirectory, Type: tag.TypeShort,
		Count: geoKeyShortCount, ValueOffset: p.geoKeyOffset,
	})
	tag.PutEntry(w, tag.Entry{
		Tag: tag.ModelTiepoint, Type: tag.TypeDouble,
		Count: 6, ValueOffset: p.tiepointOffset,
	})

	// Custom tags, ascending id. Single values are inlined; arrays point
	// into the layer's overflow section.
	overflowPos := p.customOffset
	for _, id := range p.customIDs {
		values := p.custom[id]
		e := tag.Entry{Tag: id, Type: tag.TypeLong, Count: uint32(len(values))}
		if len(values) == 1 {
			e.ValueOffset = values[0]
		} else {
			e.ValueOffset = overflowPos
			overflowPos += uint32(len(values)) * 4
		}
		tag.PutEntry(w, e)
	}

	w.WriteUint32(next)
}

func emitBlocks(w *binary.Writer, p *layerPlan) {
	w.WriteString(p.desc)

	w.WriteFloat64(p.resolution) // X scale
	w.WriteFloat64(p.resolution) // Y scale
	w.WriteFloat64(0)            // Z scale

	// GeoKey directory: version header then the fixed WGS84 key set.
	w.WriteUint16(1) // KeyDirectoryVersion
	w.WriteUint16(1) // KeyRevision
	w.WriteUint16(0) // MinorRevision
	w.WriteUint16(4) // NumberOfKeys
	geoKey := func(id, value uint16) {
		w.WriteUint16(id)
		w.WriteUint16(0) // value held in this entry
		w.WriteUint16(1)
		w.WriteUint16(value)
	}
	geoKey(1024, 2)    // GTModelType: geographic
	geoKey(1025, 1)    // GTRasterType: pixel is area
	geoKey(2048, 4326) // GeographicType: EPSG:4326
	geoKey(2054, 9102) // GeogAngularUnits: degree

	// Tie-point: image center pixel anchored to the WGS84 position of the
	// layer's local shift.
	lat, lon, alt := enuToWGS(p.shift.X, p.shift.Y, p.shift.Z, p.datum)
	w.WriteFloat64(float64(p.width) / 2)
	w.WriteFloat64(float64(p.height) / 2)
	w.WriteFloat64(0)
	w.WriteFloat64(lon)
	w.WriteFloat64(lat)
	w.WriteFloat64(alt)

	for _, id := range p.customIDs {
		values := p.custom[id]
		if len(values) <= 1 {
			continue
		}
		for _, v := range values {
			w.WriteUint32(v)
		}
	}
}
