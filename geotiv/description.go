package geotiv

import (
	"strconv"
	"strings"
)

// description is the decoded form of the restricted keyword grammar carried
// in ImageDescription text. Recognized keywords are CRS (flavor), DATUM
// (lat lon alt) and SHIFT (x y z yaw); a legacy HEADING (yaw) token written
// by older tools is also accepted. Anything else is ignored.
type description struct {
	crs      CRS
	hasCRS   bool
	datum    Datum
	hasDatum bool
	shift    Shift
	hasShift bool
}

// parseDescription tokenizes on whitespace and collects the recognized
// keyword/value pairs. Unparseable values leave the field unset rather
// than failing; unknown tokens are skipped.
func parseDescription(s string) description {
	var d description
	tok := strings.Fields(s)
	take := func(i int) (float64, bool) {
		if i >= len(tok) {
			return 0, false
		}
		v, err := strconv.ParseFloat(tok[i], 64)
		return v, err == nil
	}
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case "CRS":
			if i+1 < len(tok) {
				if c, err := ParseCRS(tok[i+1]); err == nil {
					d.crs = c
					d.hasCRS = true
					i++
				}
			}
		case "DATUM":
			lat, ok1 := take(i + 1)
			lon, ok2 := take(i + 2)
			alt, ok3 := take(i + 3)
			if ok1 && ok2 && ok3 {
				d.datum = Datum{Lat: lat, Lon: lon, Alt: alt}
				d.hasDatum = true
				i += 3
			}
		case "SHIFT":
			x, ok1 := take(i + 1)
			y, ok2 := take(i + 2)
			z, ok3 := take(i + 3)
			yaw, ok4 := take(i + 4)
			if ok1 && ok2 && ok3 && ok4 {
				d.shift = Shift{X: x, Y: y, Z: z, Yaw: yaw}
				d.hasShift = true
				i += 4
			}
		case "HEADING":
			if yaw, ok := take(i + 1); ok {
				d.shift.Yaw = yaw
				d.hasShift = true
				i++
			}
		}
	}
	return d
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// synthesizeDescription builds the canonical description text the encoder
// emits when the caller supplied none.
func synthesizeDescription(datum Datum, shift Shift) string {
	parts := []string{
		"CRS", "WGS84",
		"DATUM", formatCoord(datum.Lat), formatCoord(datum.Lon), formatCoord(datum.Alt),
		"SHIFT", formatCoord(shift.X), formatCoord(shift.Y), formatCoord(shift.Z), formatCoord(shift.Yaw),
	}
	return strings.Join(parts, " ")
}
