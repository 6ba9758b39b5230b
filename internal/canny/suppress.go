package canny

import "runtime"

// Suppress thins edges by keeping only pixels whose magnitude is a local
// maximum along the gradient direction.
//
// The two comparison neighbours for each direction are:
//
//	0   east and west
//	45  north-east and south-west
//	90  north and south
//	135 north-west and south-east
//
// Each neighbour coordinate is clamped to the raster independently. A pixel
// whose red channel is >= both neighbours keeps its R, G and B; any other
// pixel becomes (0, 0, 0). Equal values keep the centre so plateau ridges
// survive. Alpha is always 255.
func Suppress(mag *Raster, angles *AngleMap) (*Raster, error) {
	return suppress(mag, angles, runtime.GOMAXPROCS(0))
}

func suppress(mag *Raster, angles *AngleMap, workers int) (*Raster, error) {
	if err := checkRGBA(mag, "suppression input"); err != nil {
		return nil, err
	}
	if err := checkAngles(angles, mag); err != nil {
		return nil, err
	}

	w, h := mag.Width, mag.Height
	out := NewRGBA(w, h)
	red := func(x, y int) float64 {
		return mag.Pix[(y*w+x)*RGBAChannels]
	}

	forEachRow(h, workers, func(y int) {
		north, south := max(0, y-1), min(h-1, y+1)
		for x := 0; x < w; x++ {
			west, east := max(0, x-1), min(w-1, x+1)

			var c1, c2 float64
			switch angles.Dirs[y*w+x] {
			case Dir0:
				c1, c2 = red(east, y), red(west, y)
			case Dir90:
				c1, c2 = red(x, north), red(x, south)
			case Dir45:
				c1, c2 = red(east, north), red(west, south)
			case Dir135:
				c1, c2 = red(west, north), red(east, south)
			}

			o := (y*w + x) * RGBAChannels
			if center := mag.Pix[o]; center >= c1 && center >= c2 {
				copy(out.Pix[o:o+3], mag.Pix[o:o+3])
			}
			out.Pix[o+3] = 255
		}
	})

	return out, nil
}
