package canny

import (
	"math/rand"
	"testing"
)

// filledRaster returns a w x h RGBA raster with every pixel set to (r, g, b, a).
func filledRaster(w, h int, r, g, b, a float64) *Raster {
	out := NewRGBA(w, h)
	for i := 0; i < len(out.Pix); i += RGBAChannels {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, g, b, a
	}
	return out
}

// grayRaster builds an RGBA raster whose density at (x, y) is f(x, y).
func grayRaster(w, h int, f func(x, y int) float64) *Raster {
	out := NewRGBA(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := f(x, y)
			o := out.Offset(x, y)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = d, d, d, 255
		}
	}
	return out
}

// noiseRaster returns a deterministic pseudo-random 8-bit RGBA raster with a
// bright square in the middle so every stage has something to find.
func noiseRaster(t *testing.T, w, h int, seed int64) *Raster {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	out := NewRGBA(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := out.Offset(x, y)
			base := 0.0
			if x > w/4 && x < 3*w/4 && y > h/4 && y < 3*h/4 {
				base = 180
			}
			for c := 0; c < 3; c++ {
				out.Pix[o+c] = base + float64(rng.Intn(60))
			}
			out.Pix[o+3] = 255
		}
	}
	return out
}

// assertAllBlack fails unless every pixel of r is (0, 0, 0, 255).
func assertAllBlack(t *testing.T, r *Raster) {
	t.Helper()
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			o := r.Offset(x, y)
			if r.Pix[o] != 0 || r.Pix[o+1] != 0 || r.Pix[o+2] != 0 || r.Pix[o+3] != 255 {
				t.Fatalf("pixel (%d,%d): got %v, want [0 0 0 255]", x, y, r.Pix[o:o+4])
			}
		}
	}
}

// keptCount counts pixels with any non-zero colour channel.
func keptCount(r *Raster) int {
	n := 0
	for i := 0; i < len(r.Pix); i += RGBAChannels {
		if r.Pix[i] != 0 || r.Pix[i+1] != 0 || r.Pix[i+2] != 0 {
			n++
		}
	}
	return n
}
