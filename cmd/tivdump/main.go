// Diagnostic tool for dumping the layer chain of a GeoTIFF file.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/robert-malhotra/go-geotiv/geotiv"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: tivdump <file.tif>")
		os.Exit(1)
	}

	path := os.Args[1]
	rc, err := geotiv.ReadFile(path)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== %s ===\n", path)
	fmt.Printf("CRS:        %s\n", rc.CRS)
	fmt.Printf("DATUM:      %g, %g, %g\n", rc.Datum.Lat, rc.Datum.Lon, rc.Datum.Alt)
	fmt.Printf("SHIFT:      x=%g y=%g z=%g yaw=%g\n", rc.Shift.X, rc.Shift.Y, rc.Shift.Z, rc.Shift.Yaw)
	fmt.Printf("RESOLUTION: %g map units/pixel\n", rc.Resolution)
	fmt.Printf("Layers:     %d\n", len(rc.Layers))

	for i, l := range rc.Layers {
		fmt.Printf("\nLayer %d (IFD @ 0x%x)\n", i, l.IFDOffset)
		fmt.Printf("  %dx%d, %d sample(s)/pixel, planar config %d\n",
			l.Width, l.Height, l.SamplesPerPixel, l.PlanarConfig)
		fmt.Printf("  strips: %d, resolution: %g\n", len(l.StripOffsets), l.Resolution)
		if l.ImageDescription != "" {
			fmt.Printf("  description: %q\n", l.ImageDescription)
		}
		if len(l.CustomTags) > 0 {
			ids := make([]int, 0, len(l.CustomTags))
			for id := range l.CustomTags {
				ids = append(ids, int(id))
			}
			sort.Ints(ids)
			for _, id := range ids {
				fmt.Printf("  custom tag %d: %v\n", id, l.CustomTags[uint16(id)])
			}
		}
	}
}
