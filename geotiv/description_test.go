package geotiv

import "testing"

func TestParseDescription(t *testing.T) {
	d := parseDescription("CRS WGS84 DATUM 47.500000 8.500000 200.000000 SHIFT 1.000000 2.000000 3.000000 0.500000")

	if !d.hasCRS || d.crs != WGS {
		t.Errorf("expected WGS flavor, got %+v", d)
	}
	if !d.hasDatum {
		t.Fatal("DATUM not recognized")
	}
	if d.datum.Lat != 47.5 || d.datum.Lon != 8.5 || d.datum.Alt != 200 {
		t.Errorf("unexpected datum: %+v", d.datum)
	}
	if !d.hasShift {
		t.Fatal("SHIFT not recognized")
	}
	if d.shift.X != 1 || d.shift.Y != 2 || d.shift.Z != 3 || d.shift.Yaw != 0.5 {
		t.Errorf("unexpected shift: %+v", d.shift)
	}
}

func TestParseDescriptionENU(t *testing.T) {
	d := parseDescription("CRS ENU DATUM 1 2 3")
	if !d.hasCRS || d.crs != ENU {
		t.Errorf("expected ENU flavor, got %+v", d)
	}
}

func TestParseDescriptionUnknownTokens(t *testing.T) {
	// Unknown keyword/value pairs are tolerated, not errors.
	d := parseDescription("NAME terrain TYPE occlusion DATUM 1.0 2.0 3.0 WHATEVER 9")
	if !d.hasDatum {
		t.Error("DATUM should survive surrounding unknown tokens")
	}
	if d.datum.Lat != 1 || d.datum.Lon != 2 || d.datum.Alt != 3 {
		t.Errorf("unexpected datum: %+v", d.datum)
	}
}

func TestParseDescriptionPartialValues(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"datum too short", "DATUM 1.0 2.0"},
		{"datum not numeric", "DATUM a b c"},
		{"crs unknown", "CRS MARS"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseDescription(tt.text)
			if d.hasDatum || d.hasCRS {
				t.Errorf("nothing should parse from %q, got %+v", tt.text, d)
			}
		})
	}
}

func TestParseDescriptionLegacyHeading(t *testing.T) {
	d := parseDescription("DATUM 1 2 3 HEADING 0.75")
	if !d.hasShift || d.shift.Yaw != 0.75 {
		t.Errorf("HEADING should map to shift yaw, got %+v", d.shift)
	}
	if d.shift.X != 0 || d.shift.Y != 0 || d.shift.Z != 0 {
		t.Errorf("HEADING must not set offsets, got %+v", d.shift)
	}
}

func TestSynthesizeDescription(t *testing.T) {
	got := synthesizeDescription(Datum{Lat: 47.5, Lon: 8.5, Alt: 200}, Shift{X: 1, Y: 2, Z: 3, Yaw: 0.5})
	want := "CRS WGS84 DATUM 47.500000 8.500000 200.000000 SHIFT 1.000000 2.000000 3.000000 0.500000"
	if got != want {
		t.Errorf("synthesized description:\n  got  %q\n  want %q", got, want)
	}

	// And it must parse back.
	d := parseDescription(got)
	if !d.hasCRS || !d.hasDatum || !d.hasShift {
		t.Errorf("synthesized description did not parse back: %+v", d)
	}
}
