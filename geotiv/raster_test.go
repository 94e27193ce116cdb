package geotiv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRasterRoundTrip(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "geotiv-raster-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	r := NewRaster(Datum{Lat: 47.5, Lon: 8.5, Alt: 200}, Shift{}, 2.0)
	r.AddGrid(3, 4, "terrain", "elevation")
	r.AddGrid(2, 2, "occlusion", "mask")
	r.SetGlobalProperty("author", "fieldbot")

	terrain, err := r.GridNamed("terrain")
	if err != nil {
		t.Fatalf("GridNamed failed: %v", err)
	}
	terrain.Grid.Set(1, 2, 77)

	path := filepath.Join(tmpDir, "raster.tif")
	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := LoadRaster(path)
	if err != nil {
		t.Fatalf("LoadRaster failed: %v", err)
	}

	if got.GridCount() != 2 {
		t.Fatalf("grid count %d, want 2", got.GridCount())
	}
	names := got.Names()
	if names[0] != "terrain" || names[1] != "occlusion" {
		t.Errorf("names %v, want [terrain occlusion]", names)
	}

	gl, err := got.GridNamed("terrain")
	if err != nil {
		t.Fatalf("GridNamed after reload failed: %v", err)
	}
	if gl.Type != "elevation" {
		t.Errorf("type %q, want elevation", gl.Type)
	}
	if gl.Grid.Rows() != 4 || gl.Grid.Cols() != 3 {
		t.Errorf("dimensions %dx%d, want 4 rows x 3 cols", gl.Grid.Rows(), gl.Grid.Cols())
	}
	if v := gl.Grid.At(1, 2); v != 77 {
		t.Errorf("pixel (1,2) = %d, want 77", v)
	}
	if gl.Properties["width"] != "3" || gl.Properties["height"] != "4" {
		t.Errorf("derived size properties: %v", gl.Properties)
	}

	if v := got.GlobalProperty("author", ""); v != "fieldbot" {
		t.Errorf("global property author = %q, want fieldbot", v)
	}
	if v := got.GlobalProperty("missing", "default"); v != "default" {
		t.Errorf("fallback not honored: %q", v)
	}

	d := got.Datum()
	if d.Lat != 47.5 || d.Lon != 8.5 || d.Alt != 200 {
		t.Errorf("datum did not survive reload: %+v", d)
	}
	if got.Resolution() != 2.0 {
		t.Errorf("resolution %v, want 2.0", got.Resolution())
	}
}

func TestRasterDefaults(t *testing.T) {
	r := NewRaster(Datum{}, Shift{}, 0)
	if r.Datum() != DefaultDatum {
		t.Errorf("zero datum not replaced by sentinel: %+v", r.Datum())
	}
	if r.Resolution() != 1.0 {
		t.Errorf("zero resolution not replaced: %v", r.Resolution())
	}
}

func TestRasterGridAccess(t *testing.T) {
	r := NewRaster(Datum{Lat: 1, Lon: 2, Alt: 3}, Shift{}, 1)
	r.AddGrid(2, 2, "a", "mask")
	r.AddGrid(2, 2, "b", "mask")
	r.AddGrid(2, 2, "c", "elevation")

	if _, err := r.GridAt(3); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := r.GridAt(-1); err == nil {
		t.Error("expected error for negative index")
	}
	gl, err := r.GridAt(1)
	if err != nil {
		t.Fatalf("GridAt failed: %v", err)
	}
	if gl.Name != "b" {
		t.Errorf("GridAt(1) = %q, want b", gl.Name)
	}

	if masks := r.GridsByType("mask"); len(masks) != 2 {
		t.Errorf("GridsByType(mask) returned %d grids, want 2", len(masks))
	}
	if _, err := r.GridNamed("nope"); err == nil {
		t.Error("expected error for unknown name")
	}

	r.RemoveGrid(0)
	if r.GridCount() != 2 || r.Names()[0] != "b" {
		t.Errorf("after RemoveGrid(0): %v", r.Names())
	}
	r.RemoveGrid(99) // out of range is a no-op
	if r.GridCount() != 2 {
		t.Errorf("out-of-range remove changed the raster: %d grids", r.GridCount())
	}
}

func TestRasterGlobalProperties(t *testing.T) {
	r := NewRaster(Datum{Lat: 1, Lon: 2, Alt: 3}, Shift{}, 1)
	r.AddGrid(2, 2, "a", "mask")
	r.SetGlobalProperty("session", "s-17")
	r.SetGlobalProperty("vehicle", "rover-2")

	// Grids added later inherit the existing properties.
	r.AddGrid(2, 2, "b", "mask")
	gl, err := r.GridNamed("b")
	if err != nil {
		t.Fatalf("GridNamed failed: %v", err)
	}
	props := gl.GlobalProperties()
	if props["session"] != "s-17" || props["vehicle"] != "rover-2" {
		t.Errorf("inherited properties: %v", props)
	}

	r.SetGlobalProperty("session", "s-18")
	if v := r.GlobalProperty("session", ""); v != "s-18" {
		t.Errorf("overwrite failed: %q", v)
	}

	r.RemoveGlobalProperty("vehicle")
	if v := r.GlobalProperty("vehicle", "gone"); v != "gone" {
		t.Errorf("remove failed: %q", v)
	}
}

func TestStringPacking(t *testing.T) {
	tests := []string{"", "a", "key=value", "exactly8"}
	for _, s := range tests {
		if got := unpackString(packString(s)); got != s {
			t.Errorf("packString(%q) round-tripped to %q", s, got)
		}
	}
	// Every packed word count is a multiple of 4 bytes with a terminator.
	if n := len(packString("abc")); n != 1 {
		t.Errorf("packString(abc) = %d words, want 1", n)
	}
	if n := len(packString("abcd")); n != 2 {
		t.Errorf("packString(abcd) = %d words, want 2", n)
	}
}
