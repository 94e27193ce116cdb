package geotiv

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Global string properties ride in the private custom-tag range, one tag
// per key, the tag id derived from a hash of the key.
const (
	globalPropertyBase  uint16 = 50100
	globalPropertyRange uint16 = 1000
)

func propertyTag(key string) uint16 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return globalPropertyBase + uint16(h.Sum32()%uint32(globalPropertyRange))
}

// packString encodes a string as NUL-terminated, zero-padded 32-bit words
// (little-endian byte packing) so it can travel as a LONG custom tag.
func packString(s string) []uint32 {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	words := make([]uint32, 0, len(b)/4)
	for i := 0; i < len(b); i += 4 {
		words = append(words, uint32(b[i])|uint32(b[i+1])<<8|uint32(b[i+2])<<16|uint32(b[i+3])<<24)
	}
	return words
}

// unpackString reverses packString, stopping at the first NUL.
func unpackString(words []uint32) string {
	var sb strings.Builder
	for _, w := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(w >> shift)
			if c == 0 {
				return sb.String()
			}
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// GridLayer is one named grid within a Raster: the pixel data plus the
// in-memory bookkeeping (name, type tag, free-form properties) the wrapper
// maintains around the codec.
type GridLayer struct {
	Grid       Grid
	Name       string
	Type       string
	Properties map[string]string
	CustomTags map[uint16][]uint32
}

// SetGlobalProperty stores a key/value string pair as an ASCII-packed
// custom tag on this layer.
func (gl *GridLayer) SetGlobalProperty(key, value string) {
	if gl.CustomTags == nil {
		gl.CustomTags = make(map[uint16][]uint32)
	}
	gl.CustomTags[propertyTag(key)] = packString(key + "=" + value)
}

// GlobalProperties decodes every property stored on this layer.
func (gl *GridLayer) GlobalProperties() map[string]string {
	props := make(map[string]string)
	for id, words := range gl.CustomTags {
		if id < globalPropertyBase || id >= globalPropertyBase+globalPropertyRange {
			continue
		}
		kv := unpackString(words)
		if k, v, ok := strings.Cut(kv, "="); ok {
			props[k] = v
		}
	}
	return props
}

// Raster is a named grid collection: an ordered set of GridLayers sharing
// one datum, shift and resolution, persisted through the codec's Encode and
// Decode operations and nothing else.
type Raster struct {
	layers     []GridLayer
	datum      Datum
	shift      Shift
	resolution float64
}

// NewRaster creates an empty raster. A zero datum is replaced by
// DefaultDatum and a zero resolution by 1.0 so the raster is always
// writable once it has grids.
func NewRaster(datum Datum, shift Shift, resolution float64) *Raster {
	if !datum.IsSet() {
		datum = DefaultDatum
	}
	if resolution == 0 {
		resolution = 1.0
	}
	return &Raster{datum: datum, shift: shift, resolution: resolution}
}

// LoadRaster reads a raster from a GeoTIFF file.
func LoadRaster(path string) (*Raster, error) {
	rc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := &Raster{
		datum:      rc.Datum,
		shift:      rc.Shift,
		resolution: rc.Resolution,
	}
	for _, layer := range rc.Layers {
		gl := GridLayer{
			Grid:       layer.Grid,
			Name:       fmt.Sprintf("layer_%d", layer.IFDOffset),
			Type:       "unknown",
			Properties: make(map[string]string),
			CustomTags: layer.CustomTags,
		}
		if layer.ImageDescription != "" {
			tok := strings.Fields(layer.ImageDescription)
			for i := 0; i+1 < len(tok); i++ {
				switch tok[i] {
				case "NAME":
					gl.Name = tok[i+1]
				case "TYPE":
					gl.Type = tok[i+1]
				}
			}
			gl.Properties["description"] = layer.ImageDescription
		}
		gl.Properties["width"] = strconv.FormatUint(uint64(layer.Width), 10)
		gl.Properties["height"] = strconv.FormatUint(uint64(layer.Height), 10)
		gl.Properties["resolution"] = strconv.FormatFloat(layer.Resolution, 'f', -1, 64)
		gl.Properties["samples_per_pixel"] = strconv.FormatUint(uint64(layer.SamplesPerPixel), 10)
		r.layers = append(r.layers, gl)
	}
	return r, nil
}

// WriteFile persists the raster as a chained-directory GeoTIFF. Each grid's
// name and type travel in the ImageDescription alongside the geospatial
// tokens, so both survive a reload.
func (r *Raster) WriteFile(path string) error {
	rc := &RasterCollection{
		Datum:      r.datum,
		Shift:      r.shift,
		Resolution: r.resolution,
	}
	for _, gl := range r.layers {
		layer := Layer{
			Width:            uint32(gl.Grid.Cols()),
			Height:           uint32(gl.Grid.Rows()),
			SamplesPerPixel:  1,
			PlanarConfig:     1,
			Datum:            r.datum,
			Shift:            r.shift,
			Resolution:       r.resolution,
			CustomTags:       gl.CustomTags,
			Grid:             gl.Grid,
			ImageDescription: fmt.Sprintf("NAME %s TYPE %s %s", gl.Name, gl.Type, synthesizeDescription(r.datum, r.shift)),
		}
		rc.Layers = append(rc.Layers, layer)
	}
	return WriteFile(rc, path)
}

// AddGrid appends a zero-filled named grid.
func (r *Raster) AddGrid(width, height uint32, name, typ string) {
	gl := GridLayer{
		Grid:       NewGrid(int(height), int(width)),
		Name:       name,
		Type:       typ,
		Properties: make(map[string]string),
	}
	if typ != "" {
		gl.Properties["type"] = typ
	}
	// New grids inherit whatever global properties the collection carries.
	if len(r.layers) > 0 {
		for k, v := range r.layers[0].GlobalProperties() {
			gl.SetGlobalProperty(k, v)
		}
	}
	r.layers = append(r.layers, gl)
}

// RemoveGrid deletes the grid at index; out-of-range indexes are ignored.
func (r *Raster) RemoveGrid(index int) {
	if index < 0 || index >= len(r.layers) {
		return
	}
	r.layers = append(r.layers[:index], r.layers[index+1:]...)
}

// GridCount returns the number of grids.
func (r *Raster) GridCount() int { return len(r.layers) }

// GridAt returns the grid at index.
func (r *Raster) GridAt(index int) (*GridLayer, error) {
	if index < 0 || index >= len(r.layers) {
		return nil, fmt.Errorf("grid index %d out of range", index)
	}
	return &r.layers[index], nil
}

// GridNamed returns the first grid with the given name.
func (r *Raster) GridNamed(name string) (*GridLayer, error) {
	for i := range r.layers {
		if r.layers[i].Name == name {
			return &r.layers[i], nil
		}
	}
	return nil, fmt.Errorf("grid %q not found", name)
}

// GridsByType returns every grid with the given type tag.
func (r *Raster) GridsByType(typ string) []*GridLayer {
	var out []*GridLayer
	for i := range r.layers {
		if r.layers[i].Type == typ {
			out = append(out, &r.layers[i])
		}
	}
	return out
}

// Names returns the grid names in order.
func (r *Raster) Names() []string {
	names := make([]string, len(r.layers))
	for i := range r.layers {
		names[i] = r.layers[i].Name
	}
	return names
}

// SetGlobalProperty stores the property on every grid.
func (r *Raster) SetGlobalProperty(key, value string) {
	for i := range r.layers {
		r.layers[i].SetGlobalProperty(key, value)
	}
}

// GlobalProperty reads a property from the first grid, or returns the
// fallback when absent.
func (r *Raster) GlobalProperty(key, fallback string) string {
	if len(r.layers) == 0 {
		return fallback
	}
	if v, ok := r.layers[0].GlobalProperties()[key]; ok {
		return v
	}
	return fallback
}

// RemoveGlobalProperty deletes the property from every grid.
func (r *Raster) RemoveGlobalProperty(key string) {
	id := propertyTag(key)
	for i := range r.layers {
		delete(r.layers[i].CustomTags, id)
	}
}

// Datum returns the shared reference datum.
func (r *Raster) Datum() Datum { return r.datum }

// SetDatum replaces the shared reference datum.
func (r *Raster) SetDatum(d Datum) { r.datum = d }

// Shift returns the shared local shift.
func (r *Raster) Shift() Shift { return r.shift }

// SetShift replaces the shared local shift.
func (r *Raster) SetShift(s Shift) { r.shift = s }

// Resolution returns the shared resolution in map units per pixel.
func (r *Raster) Resolution() float64 { return r.resolution }

// SetResolution replaces the shared resolution.
func (r *Raster) SetResolution(res float64) { r.resolution = res }
