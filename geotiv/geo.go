package geotiv

import "math"

// WGS84 ellipsoid.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1.0 / 298.257223563
)

var eccSq = flattening * (2 - flattening)

// primeVerticalRadius returns the ellipsoid's prime vertical radius of
// curvature at the given latitude (radians).
func primeVerticalRadius(lat float64) float64 {
	s := math.Sin(lat)
	return semiMajorAxis / math.Sqrt(1-eccSq*s*s)
}

// geodeticToECEF converts geodetic coordinates (degrees, meters) to
// earth-centered earth-fixed coordinates.
func geodeticToECEF(lat, lon, alt float64) (x, y, z float64) {
	latR := lat * math.Pi / 180
	lonR := lon * math.Pi / 180
	n := primeVerticalRadius(latR)
	cosLat := math.Cos(latR)
	x = (n + alt) * cosLat * math.Cos(lonR)
	y = (n + alt) * cosLat * math.Sin(lonR)
	z = (n*(1-eccSq) + alt) * math.Sin(latR)
	return x, y, z
}

// ecefToGeodetic converts earth-centered earth-fixed coordinates back to
// geodetic coordinates (degrees, meters) by fixed-point iteration on the
// latitude, which converges to well below the codec's round-trip tolerance
// in a handful of steps.
func ecefToGeodetic(x, y, z float64) (lat, lon, alt float64) {
	lonR := math.Atan2(y, x)
	p := math.Hypot(x, y)
	latR := math.Atan2(z, p*(1-eccSq))
	for i := 0; i < 8; i++ {
		n := primeVerticalRadius(latR)
		latR = math.Atan2(z+eccSq*n*math.Sin(latR), p)
	}
	n := primeVerticalRadius(latR)
	if c := math.Cos(latR); math.Abs(c) > 1e-12 {
		alt = p/c - n
	} else {
		alt = math.Abs(z) - n*(1-eccSq)
	}
	return latR * 180 / math.Pi, lonR * 180 / math.Pi, alt
}

// enuToWGS converts a local east/north/up offset anchored at the datum to
// WGS84 latitude, longitude and altitude. Used only at the tie-point
// boundary; the rest of the codec never interprets coordinates.
func enuToWGS(e, n, u float64, d Datum) (lat, lon, alt float64) {
	x0, y0, z0 := geodeticToECEF(d.Lat, d.Lon, d.Alt)
	latR := d.Lat * math.Pi / 180
	lonR := d.Lon * math.Pi / 180
	sinLat, cosLat := math.Sin(latR), math.Cos(latR)
	sinLon, cosLon := math.Sin(lonR), math.Cos(lonR)
	dx := -sinLon*e - sinLat*cosLon*n + cosLat*cosLon*u
	dy := cosLon*e - sinLat*sinLon*n + cosLat*sinLon*u
	dz := cosLat*n + sinLat*u
	return ecefToGeodetic(x0+dx, y0+dy, z0+dz)
}
